package reviews

import (
	"math"
	"sort"

	"github.com/ppiankov/claimaudit/internal/model"
)

const topCategories = 5

// Summarize fills the review summary from the collected reviews. Complaint
// categories of negative reviews count as complaints, those of the other
// reviews as praises.
func Summarize(result *model.UniversitySearchResult) {
	summary := &result.ReviewSummary
	summary.TotalNegativeReviews = len(result.NegativeReviews)
	summary.TotalPositiveReviews = len(result.PositiveReviews)

	var ratings []float64
	collect := func(reviews []model.Review) []model.CategoryCount {
		var counts []model.CategoryCount
		index := make(map[string]int)
		for _, r := range reviews {
			for _, c := range r.Complaints {
				i, ok := index[c]
				if !ok {
					i = len(counts)
					index[c] = i
					counts = append(counts, model.CategoryCount{Category: c})
				}
				counts[i].Frequency++
			}
			if v, ok := NumericRating(r.Rating); ok && v > 0 {
				ratings = append(ratings, v)
			}
		}
		return topCounts(counts)
	}

	summary.CommonComplaints = collect(result.NegativeReviews)
	summary.CommonPraises = collect(result.PositiveReviews)

	summary.AverageRating = 0
	if len(ratings) > 0 {
		total := 0.0
		for _, v := range ratings {
			total += v
		}
		summary.AverageRating = math.Round(total/float64(len(ratings))*100) / 100
	}
}

// topCounts sorts by frequency, ties in first-seen order, and keeps the top entries
func topCounts(counts []model.CategoryCount) []model.CategoryCount {
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Frequency > counts[j].Frequency
	})
	if len(counts) > topCategories {
		counts = counts[:topCategories]
	}
	if counts == nil {
		return []model.CategoryCount{}
	}
	return counts
}
