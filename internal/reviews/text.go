package reviews

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/claimaudit/internal/model"
)

var (
	negativeWords = []string{
		"bad", "poor", "terrible", "awful", "horrible", "worst", "disappointing",
		"useless", "waste", "pathetic", "regret", "avoid", "not recommended",
		"problems", "issues", "complaints", "concerns", "difficulties",
		"outdated", "insufficient", "inadequate", "limited", "lack of",
		"unsatisfied", "disappointed", "frustrated", "angry",
	}
	positiveWords = []string{
		"good", "great", "excellent", "amazing", "wonderful", "best",
		"recommended", "satisfied", "happy", "pleased", "impressed",
		"quality", "outstanding", "fantastic", "superb", "brilliant",
	}

	reviewIndicators = []string{
		"student", "study", "college", "university", "experience",
		"faculty", "placement", "infrastructure", "campus",
		"course", "degree", "professor", "teacher", "education",
	}

	educationContext = []string{"student", "college", "university", "course", "degree"}

	highSeverityTerms = []string{
		"scandal", "fraud", "criminal", "illegal", "investigation",
		"lawsuit", "arrested", "charged", "violation", "misconduct",
	}
	mediumSeverityTerms = []string{
		"controversy", "allegation", "criticized", "penalty", "fine",
		"suspended", "questioned", "disputed", "concerns",
	}
)

type keywordGroup struct {
	name     string
	keywords []string
}

// complaintGroups are checked in order; a review lists every group it mentions
var complaintGroups = []keywordGroup{
	{"academics", []string{
		"faculty", "teaching", "professor", "teacher", "curriculum",
		"syllabus", "education", "academic", "course", "study",
		"outdated course", "poor teaching", "bad faculty",
	}},
	{"infrastructure", []string{
		"infrastructure", "building", "classroom", "lab", "library",
		"facility", "equipment", "maintenance", "wifi", "internet",
		"old building", "poor infrastructure",
	}},
	{"placements", []string{
		"placement", "job", "career", "company", "package", "salary",
		"employment", "recruiting", "internship", "opportunity",
		"poor placement", "no jobs",
	}},
	{"administration", []string{
		"administration", "management", "staff", "office", "service",
		"support", "response", "bureaucracy", "process",
		"poor service", "bad administration",
	}},
	{"fees", []string{
		"fees", "fee", "cost", "expensive", "money", "financial",
		"tuition", "charge", "payment", "high fees",
	}},
	{"hostel", []string{
		"hostel", "accommodation", "room", "mess", "food",
		"residence", "living", "staying", "boarding",
		"poor food", "bad hostel",
	}},
}

var rankingCategories = []keywordGroup{
	{"Engineering", []string{"engineering", "technical", "technology"}},
	{"Management", []string{"management", "mba", "business"}},
	{"Medical", []string{"medical", "medicine", "health"}},
	{"University", []string{"university", "overall"}},
	{"Pharmacy", []string{"pharmacy", "pharmaceutical"}},
	{"Law", []string{"law", "legal"}},
}

// displayNames maps well-known hosts to the names shown as review sources
var displayNames = map[string]string{
	"collegedunia.com": "CollegeDunia",
	"shiksha.com":      "Shiksha",
	"careers360.com":   "Careers360",
	"getmyuni.com":     "GetMyUni",
	"reddit.com":       "Reddit",
	"quora.com":        "Quora",
	"nirfindia.org":    "NIRF India",
}

var (
	ratingPairRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:out of|/|★)\s*(\d+)`)
	ratingStarsRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*stars?`)
	ratingLabelRe = regexp.MustCompile(`(?i)rating[:\s]*(\d+(?:\.\d+)?)`)
	numberRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
	yearRe        = regexp.MustCompile(`20(2[0-9])`)
)

// Sentiment classifies text by keyword hits. It is negative or positive only
// when that side has strictly more hits, neutral otherwise.
func Sentiment(text string) model.Sentiment {
	lower := strings.ToLower(text)
	neg := countContained(lower, negativeWords)
	pos := countContained(lower, positiveWords)
	switch {
	case neg > pos && neg >= 1:
		return model.SentimentNegative
	case pos > neg && pos >= 1:
		return model.SentimentPositive
	}
	return model.SentimentNeutral
}

// Complaints returns the complaint categories text mentions, or "general"
func Complaints(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, g := range complaintGroups {
		if countContained(lower, g.keywords) > 0 {
			found = append(found, g.name)
		}
	}
	if len(found) == 0 {
		return []string{"general"}
	}
	return found
}

// IsRelevant reports whether text mentions the university: the full name or
// a variant without its institution word, or at least two name keywords
func IsRelevant(text, university string) bool {
	lower := strings.ToLower(text)
	name := strings.ToLower(university)

	variants := []string{
		name,
		strings.TrimSpace(strings.ReplaceAll(name, "university", "")),
		strings.TrimSpace(strings.ReplaceAll(name, "college", "")),
		strings.TrimSpace(strings.ReplaceAll(name, "institute", "")),
		strings.TrimSpace(strings.ReplaceAll(name, "of", "")),
	}
	for _, v := range variants {
		if utf8.RuneCountInString(v) > 3 && strings.Contains(lower, v) {
			return true
		}
	}

	keywords := nameWords(university, 3)
	if len(keywords) < 2 {
		return false
	}
	return countContained(lower, keywords) >= 2
}

// Relevance scores text 0-10: 2 per name word found plus up to 3 for
// education context
func Relevance(text, university string) int {
	lower := strings.ToLower(text)
	score := 2 * countContained(lower, nameWords(university, 3))
	score += min(3, countContained(lower, educationContext))
	return min(10, score)
}

// LooksLikeReview reports whether text has at least two review indicators
func LooksLikeReview(text string) bool {
	return countContained(strings.ToLower(text), reviewIndicators) >= 2
}

// Severity grades a news mention high, medium or low
func Severity(text string) string {
	lower := strings.ToLower(text)
	switch {
	case countContained(lower, highSeverityTerms) > 0:
		return "high"
	case countContained(lower, mediumSeverityTerms) > 0:
		return "medium"
	}
	return "low"
}

// ExtractRating finds a rating such as "4 out of 5" or "3.5 stars" in text
// and normalizes it to "N/M". Empty when there is none.
func ExtractRating(text string) string {
	if m := ratingPairRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s/%s", m[1], m[2])
	}
	if m := ratingStarsRe.FindStringSubmatch(text); m != nil {
		return m[1] + "/5"
	}
	if m := ratingLabelRe.FindStringSubmatch(text); m != nil {
		return m[1] + "/5"
	}
	return ""
}

// NumericRating returns the first number in a rating string
func NumericRating(rating string) (float64, bool) {
	m := numberRe.FindString(rating)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// RankingYear returns the first 202x year in text, default 2024
func RankingYear(text string) string {
	if y := yearRe.FindString(text); y != "" {
		return y
	}
	return "2024"
}

// RankingCategory maps text to a ranking category, default Overall
func RankingCategory(text string) string {
	lower := strings.ToLower(text)
	for _, c := range rankingCategories {
		if countContained(lower, c.keywords) > 0 {
			return c.name
		}
	}
	return "Overall"
}

// SocialPlatform names the social network a URL belongs to, or ""
func SocialPlatform(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case lower == "":
		return ""
	case strings.Contains(lower, "reddit.com"):
		return "Reddit"
	case strings.Contains(lower, "quora.com"):
		return "Quora"
	case strings.Contains(lower, "twitter.com"), strings.Contains(lower, "x.com"):
		return "Twitter"
	case strings.Contains(lower, "facebook.com"):
		return "Facebook"
	case strings.Contains(lower, "linkedin.com"):
		return "LinkedIn"
	}
	return ""
}

// DisplayName returns a readable source name for a URL: a known platform
// name, else the title-cased first label of the host
func DisplayName(rawURL string) string {
	if rawURL == "" {
		return "Unknown Source"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "Unknown Source"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if name, ok := displayNames[host]; ok {
		return name
	}
	label, _, _ := strings.Cut(host, ".")
	return titleCase(label)
}

// Domain returns the lower-cased host of a URL
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// titleCase upper-cases the first letter of every letter run
func titleCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		sb.WriteRune(r)
		prevLetter = false
	}
	return sb.String()
}

// nameWords returns the lower-cased words of name longer than minLen runes
func nameWords(name string, minLen int) []string {
	var words []string
	for _, w := range strings.Fields(name) {
		if utf8.RuneCountInString(w) > minLen {
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

func countContained(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
