package reviews

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/ppiankov/claimaudit/internal/model"
)

var (
	rawReviewPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<div[^>]*review[^>]*>(.*?)</div>`),
		regexp.MustCompile(`(?is)<p[^>]*review[^>]*>(.*?)</p>`),
		regexp.MustCompile(`(?is)class="review[^"]*"[^>]*>(.*?)</`),
		regexp.MustCompile(`(?is)data-review[^>]*>(.*?)</`),
	}
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

const maxRawReviews = 10

// ExtractRawReviews pulls reviews out of unparsed HTML with regular
// expressions. It is used when structured scraping is off.
func ExtractRawReviews(body string, page Page) []model.Review {
	var fragments []string
	for _, re := range rawReviewPatterns {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			fragments = append(fragments, m[1])
		}
	}
	if len(fragments) > maxRawReviews {
		fragments = fragments[:maxRawReviews]
	}

	var out []model.Review
	for _, frag := range fragments {
		text := tagRe.ReplaceAllString(frag, " ")
		text = strings.TrimSpace(whitespaceRe.ReplaceAllString(html.UnescapeString(text), " "))
		if utf8.RuneCountInString(text) <= 50 || !IsRelevant(text, page.University) {
			continue
		}
		out = append(out, newReview(text, DisplayName(page.URL), page, TypeScrapedReview))
	}
	return dedupe(out)
}
