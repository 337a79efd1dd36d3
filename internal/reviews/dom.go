package reviews

import (
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// classFilter narrows a selector's matches to elements whose class
// attribute matches re
type classFilter struct {
	sel cascadia.Matcher
	re  *regexp.Regexp
}

func (f classFilter) Match(n *html.Node) bool {
	if !f.sel.Match(n) {
		return false
	}
	class := attr(n, "class")
	return class != "" && f.re.MatchString(class)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findAll returns the descendants of n matching m in document order. limit
// caps the result; zero means no cap.
func findAll(n *html.Node, m cascadia.Matcher, limit int) []*html.Node {
	found := cascadia.QueryAll(n, m)
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found
}

// strippedText joins the trimmed text nodes under n with single spaces.
// Script and style content is skipped.
func strippedText(n *html.Node) string {
	var parts []string
	eachText(n, func(s string) {
		if t := strings.TrimSpace(s); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// rawText concatenates every text node under n unchanged
func rawText(n *html.Node) string {
	var sb strings.Builder
	eachText(n, func(s string) { sb.WriteString(s) })
	return sb.String()
}

func eachText(n *html.Node, fn func(string)) {
	if n.Type == html.TextNode {
		fn(n.Data)
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		eachText(c, fn)
	}
}
