package reviews

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/search"
)

// Ranking sources
const (
	RankingOfficial    = "official_nirf"
	RankingAlternative = "alternative_ranking"
	RankingNotFound    = "not_found"
	RankingFailed      = "search_failed"
)

var (
	rankingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`rank(?:ed|ing)?\s*(?:at\s*)?(?:#\s*)?(\d+)`),
		regexp.MustCompile(`position\s*(\d+)`),
		regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\s*rank`),
		regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\s*position`),
	}
	// Alternative sources are not checked for "Nth position"
	alternativeRankingPatterns = rankingPatterns[:3]
)

func officialRankingQueries(u string) []string {
	return []string{
		fmt.Sprintf(`site:nirfindia.org "%s"`, u),
		fmt.Sprintf(`NIRF ranking 2024 "%s"`, u),
		fmt.Sprintf(`India ranking "%s" NIRF`, u),
		fmt.Sprintf(`nirfindia.org %s rank`, u),
	}
}

func alternativeRankingQueries(u string) []string {
	return []string{
		fmt.Sprintf(`"%s" ranking India 2024`, u),
		fmt.Sprintf(`"%s" QS ranking world university`, u),
		fmt.Sprintf(`"%s" Times Higher Education ranking`, u),
	}
}

// fetchRanking looks for an official NIRF ranking first, then for ranking
// mentions elsewhere. Only a cancelled context is returned as an error.
func (a *Analyzer) fetchRanking(ctx context.Context, university string, result *model.UniversitySearchResult) (*model.Ranking, error) {
	for _, q := range officialRankingQueries(university) {
		hits, err := a.searcher.Text(ctx, q, 10)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.queryFailed(result, "NIRF", q, err)
			continue
		}
		for _, hit := range hits {
			if !strings.Contains(strings.ToLower(hit.URL), "nirf") {
				continue
			}
			if r := officialRanking(hit, university); r != nil {
				a.logger.Info("found NIRF ranking", zap.Int("ranking", *r.Ranking))
				return r, nil
			}
		}
	}

	for _, q := range alternativeRankingQueries(university) {
		hits, err := a.searcher.Text(ctx, q, 5)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.queryFailed(result, "alternative ranking", q, err)
			return &model.Ranking{
				Year:     "2024",
				Category: "Overall",
				Source:   RankingFailed,
				Error:    err.Error(),
			}, nil
		}
		for _, hit := range hits {
			if r := alternativeRanking(hit, university); r != nil {
				return r, nil
			}
		}
	}

	return &model.Ranking{
		Year:     "2024",
		Category: "Overall",
		Source:   RankingNotFound,
		Note:     "No official ranking found for " + university,
	}, nil
}

// officialRanking accepts a NIRF result that names part of the university
// and carries a rank between 1 and 1000
func officialRanking(hit search.Result, university string) *model.Ranking {
	text := strings.ToLower(hit.Title + " " + hit.Body)

	mentioned := false
	for _, part := range strings.Fields(university) {
		if utf8.RuneCountInString(part) > 2 && strings.Contains(text, strings.ToLower(part)) {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return nil
	}
	return rankingFrom(hit, text, rankingPatterns, true, RankingOfficial)
}

func alternativeRanking(hit search.Result, university string) *model.Ranking {
	text := strings.ToLower(hit.Title + " " + hit.Body)
	if !IsRelevant(text, university) {
		return nil
	}
	return rankingFrom(hit, text, alternativeRankingPatterns, false, RankingAlternative)
}

func rankingFrom(hit search.Result, text string, patterns []*regexp.Regexp, verified bool, source string) *model.Ranking {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		rank, err := strconv.Atoi(m[1])
		if err != nil || rank < 1 || rank > 1000 {
			continue
		}
		return &model.Ranking{
			Ranking:     &rank,
			Year:        RankingYear(text),
			Category:    RankingCategory(text),
			SourceURL:   hit.URL,
			SourceTitle: hit.Title,
			Verified:    verified,
			Source:      source,
		}
	}
	return nil
}
