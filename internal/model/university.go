package model

// Sentiment is the keyword-derived tone of a review
type Sentiment string

const (
	SentimentNegative Sentiment = "negative"
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
)

// Search statuses of a university lookup
const (
	SearchStatusSuccess     = "success"
	SearchStatusNoDataFound = "no_data_found"
	SearchStatusError       = "error"
)

// Review is a single review-like text found for a university
type Review struct {
	Content        string    `json:"content"`
	Source         string    `json:"source"` // Display name, e.g. "CollegeDunia" or "Reddit Discussion"
	URL            string    `json:"url"`
	Platform       string    `json:"platform,omitempty"`
	Rating         string    `json:"rating,omitempty"` // e.g. "4.5/5"
	Date           string    `json:"date,omitempty"`
	Severity       string    `json:"severity,omitempty"` // News only: high, medium, low
	Sentiment      Sentiment `json:"sentiment"`
	ReviewType     string    `json:"review_type"` // platform_review, scraped_content, scraped_review, social_media, news_mention
	DateFound      string    `json:"date_found"`
	Complaints     []string  `json:"complaints"`      // Complaint categories mentioned
	RelevanceScore int       `json:"relevance_score"` // 0-10
}

// Ranking is a ranking lookup outcome
type Ranking struct {
	Ranking     *int   `json:"ranking"` // nil when not found
	Year        string `json:"year"`
	Category    string `json:"category"`
	SourceURL   string `json:"source_url,omitempty"`
	SourceTitle string `json:"source_title,omitempty"`
	Verified    bool   `json:"verified"`
	Source      string `json:"source,omitempty"` // official_nirf, alternative_ranking, not_found
	Note        string `json:"note,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CategoryCount is a frequency entry in the review summary
type CategoryCount struct {
	Category  string `json:"category"`
	Frequency int    `json:"frequency"`
}

// ReviewSummary aggregates the collected reviews
type ReviewSummary struct {
	TotalNegativeReviews int             `json:"total_negative_reviews"`
	TotalPositiveReviews int             `json:"total_positive_reviews"`
	AverageRating        float64         `json:"average_rating"`
	CommonComplaints     []CategoryCount `json:"common_complaints"`
	CommonPraises        []CategoryCount `json:"common_praises"`
}

// SourceRef is a page that contributed to a university result
type SourceRef struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Type        string `json:"type"` // review_platform, social_media, news_article
	Platform    string `json:"platform,omitempty"`
	Date        string `json:"date,omitempty"`
	SearchQuery string `json:"search_query,omitempty"`
}

// DebugInfo records how a university lookup went
type DebugInfo struct {
	WebSearchAvailable bool     `json:"web_search_available"`
	SearchAttempts     int      `json:"search_attempts"`
	Errors             []string `json:"errors"`
	ScrapedPlatforms   []string `json:"scraped_platforms"`
}

// UniversitySearchResult is the aggregate for one university lookup.
// After analysis, ReviewSummary totals equal the review list lengths.
type UniversitySearchResult struct {
	UniversityName    string        `json:"university_name"`
	NIRFRanking       *Ranking      `json:"nirf_ranking"`
	NegativeReviews   []Review      `json:"negative_reviews"`
	PositiveReviews   []Review      `json:"positive_reviews"`
	ReviewSummary     ReviewSummary `json:"review_summary"`
	Sources           []SourceRef   `json:"sources"`
	AnalysisTimestamp string        `json:"analysis_timestamp"`
	SearchStatus      string        `json:"search_status"`
	Error             string        `json:"error,omitempty"`
	DebugInfo         DebugInfo     `json:"debug_info"`
}

// NewUniversitySearchResult returns an empty result with non-nil slices
func NewUniversitySearchResult(name, timestamp string) *UniversitySearchResult {
	return &UniversitySearchResult{
		UniversityName:  name,
		NegativeReviews: []Review{},
		PositiveReviews: []Review{},
		ReviewSummary: ReviewSummary{
			CommonComplaints: []CategoryCount{},
			CommonPraises:    []CategoryCount{},
		},
		Sources:           []SourceRef{},
		AnalysisTimestamp: timestamp,
		SearchStatus:      SearchStatusSuccess,
		DebugInfo: DebugInfo{
			Errors:           []string{},
			ScrapedPlatforms: []string{},
		},
	}
}

// AddReview files a review under negative or positive by sentiment.
// Neutral reviews go to the positive list.
func (r *UniversitySearchResult) AddReview(review Review) {
	if review.Sentiment == SentimentNegative {
		r.NegativeReviews = append(r.NegativeReviews, review)
		return
	}
	r.PositiveReviews = append(r.PositiveReviews, review)
}
