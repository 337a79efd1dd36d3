package reviews

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/util"
	"github.com/ppiankov/claimaudit/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// PageFetcher fetches the HTML of a review page
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Fetcher fetches review pages through the shared throttle
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	throttle   *worker.Throttle
	robots     *util.RobotsChecker // nil skips robots.txt
	logger     *zap.Logger
}

// NewFetcher creates a fetcher. Redirects are followed at most 3 times.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, throttle *worker.Throttle, robots *util.RobotsChecker, logger *zap.Logger) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		throttle:  throttle,
		robots:    robots,
		logger:    logging.OrNop(logger),
	}
}

// Fetch retrieves a page body. Any status other than 200 is an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		crawlDelay = delay
	}

	if err := f.throttle.WaitWithDelay(ctx, crawlDelay); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")

	f.logger.Debug("fetching review page", zap.String("url", rawURL))
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
