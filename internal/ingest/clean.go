package ingest

import (
	"regexp"
	"strings"
)

var (
	pageHeaderRe   = regexp.MustCompile(`(?m)^[ \t]*Page \d+.*$`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	isolatedCharRe = regexp.MustCompile(`\b[a-zA-Z]\b`)
	ligatures      = strings.NewReplacer("ﬁ", "fi", "ﬂ", "fl")
)

// CleanText normalizes extracted PDF text: page header/footer lines are
// removed first, then whitespace is collapsed, ligatures replaced and
// isolated single letters dropped.
func CleanText(text string) string {
	text = pageHeaderRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = ligatures.Replace(text)
	text = isolatedCharRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
