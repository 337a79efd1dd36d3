package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/model"
)

// DuckDuckGo searches through the html.duckduckgo.com endpoint
type DuckDuckGo struct {
	baseURL    string
	userAgent  string
	maxBytes   int64
	httpClient *http.Client
	throttle   Waiter
	logger     *zap.Logger
}

// NewDuckDuckGo creates a new DuckDuckGo client.
// throttle may be nil; when set it is waited on before every request.
func NewDuckDuckGo(cfg model.SearchConfig, throttle Waiter, logger *zap.Logger) *DuckDuckGo {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://html.duckduckgo.com"
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return &DuckDuckGo{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		throttle:   throttle,
		logger:     logging.OrNop(logger),
	}
}

// Text runs a web search
func (d *DuckDuckGo) Text(ctx context.Context, query string, maxResults int) ([]Result, error) {
	return d.search(ctx, query, maxResults, nil)
}

// News runs a news search
func (d *DuckDuckGo) News(ctx context.Context, query string, maxResults int) ([]Result, error) {
	return d.search(ctx, query, maxResults, url.Values{"iar": {"news"}, "ia": {"news"}})
}

func (d *DuckDuckGo) search(ctx context.Context, query string, maxResults int, extra url.Values) ([]Result, error) {
	if d.throttle != nil {
		if err := d.throttle.Wait(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{"q": {query}}
	for k, v := range extra {
		params[k] = v
	}
	searchURL := fmt.Sprintf("%s/html/?%s", d.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	results, err := ParseResults(string(body), maxResults)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("search completed", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

// ParseResults extracts results from a DuckDuckGo HTML result page
func ParseResults(htmlContent string, maxResults int) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var results []Result

	var find func(*html.Node)
	find = func(n *html.Node) {
		if maxResults > 0 && len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			class := attr(n, "class")
			if hasClass(class, "result") && !hasClass(class, "result--ad") {
				if r := extractResult(n); r.URL != "" && r.Title != "" {
					results = append(results, r)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}

	find(doc)
	return results, nil
}

func extractResult(n *html.Node) Result {
	var r Result

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			class := attr(n, "class")
			switch {
			case hasClass(class, "result__a"):
				r.URL = attr(n, "href")
				r.Title = text(n)
			case hasClass(class, "result__snippet"):
				r.Body = text(n)
			case hasClass(class, "result__timestamp"):
				r.Date = text(n)
			case hasClass(class, "result__url"):
				r.Site = text(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	r.URL = decodeRedirect(r.URL)
	return r
}

// decodeRedirect unwraps //duckduckgo.com/l/?uddg=<target> links
func decodeRedirect(raw string) string {
	if !strings.Contains(raw, "duckduckgo.com/l/") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return raw
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
