package model

// Claim represents a single verifiable assertion extracted from a document.
// Stages add fields as the claim moves through the pipeline; none are removed.
type Claim struct {
	Text          string        `json:"claim_text"`               // The claim text itself
	SourceContext string        `json:"source_context"`           // Surrounding text the claim came from
	Metadata      ClaimMetadata `json:"metadata"`                 // Provenance and detector details
	Category      Category      `json:"category,omitempty"`       // One of the four fixed categories
	Evidence      *Evidence     `json:"evidence,omitempty"`       // nil until retrieval ran
	Verdict       Verdict       `json:"verdict,omitempty"`        // Outcome label
	EvalVerdict   Verdict       `json:"evaluation_verdict,omitempty"` // Raw evaluator verdict before mapping
	Summary       string        `json:"evidence_summary,omitempty"`
	Reasoning     string        `json:"verdict_reasoning,omitempty"`
	TrustScore    int           `json:"trustScore,omitempty"`      // 15-95 once scored, 0 means unscored
	Trust         *TrustScore   `json:"trust_breakdown,omitempty"` // Per-factor breakdown behind TrustScore
	WebEvidence   []WebSource   `json:"web_evidence,omitempty"`
	Error         string        `json:"error,omitempty"` // Set when a per-claim stage failed
}

// ClaimMetadata records where a claim came from and how it was found
type ClaimMetadata struct {
	Source         string     `json:"source"`                    // Document name
	SourceChunkID  int        `json:"source_chunk_id"`           // Chunk index (model path) or sentence index (pattern path)
	ClaimType      string     `json:"claim_type,omitempty"`      // Pattern rule name, e.g. "revenue_growth"
	ExtractedValue string     `json:"extracted_value,omitempty"` // Captured value, e.g. "75%"
	Confidence     Confidence `json:"confidence,omitempty"`
	AnalysisMethod string     `json:"analysis_method,omitempty"`
}

// Category is the business category of a claim
type Category string

const (
	CategoryFinancial       Category = "Financial"
	CategoryOperational     Category = "Operational"
	CategoryLegalCompliance Category = "Legal & Compliance"
	CategoryESG             Category = "ESG"
)

// ESGLabel is the long form of the ESG category used in classifier prompts
const ESGLabel = "Environmental, Social, and Governance (ESG)"

// Categories lists every valid category in canonical order
var Categories = []Category{CategoryFinancial, CategoryOperational, CategoryLegalCompliance, CategoryESG}

// Label returns the classifier-facing label for the category
func (c Category) Label() string {
	if c == CategoryESG {
		return ESGLabel
	}
	return string(c)
}

// ParseCategory maps a label (long or short form) to a category.
// Unknown labels return false.
func ParseCategory(label string) (Category, bool) {
	switch label {
	case string(CategoryFinancial):
		return CategoryFinancial, true
	case string(CategoryOperational):
		return CategoryOperational, true
	case string(CategoryLegalCompliance):
		return CategoryLegalCompliance, true
	case string(CategoryESG), ESGLabel:
		return CategoryESG, true
	}
	return "", false
}

// Verdict is the outcome label of evaluating a claim
type Verdict string

const (
	// Evaluator verdicts
	VerdictConfirmed            Verdict = "Confirmed"
	VerdictPlausible            Verdict = "Plausible"
	VerdictContradicted         Verdict = "Contradicted"
	VerdictInsufficientEvidence Verdict = "Insufficient Evidence"
	VerdictEvaluationError      Verdict = "Evaluation Error" // Degraded marker, model output unusable

	// Reported verdicts
	VerdictSupported    Verdict = "Supported"
	VerdictUnverifiable Verdict = "Unverifiable"
	VerdictUnsupported  Verdict = "Unsupported"
)

// EvaluatorVerdicts are the only verdicts the evaluator accepts from a model
var EvaluatorVerdicts = []Verdict{VerdictConfirmed, VerdictPlausible, VerdictContradicted, VerdictInsufficientEvidence}

// IsEvaluatorVerdict reports whether v is one of the four evaluator verdicts
func IsEvaluatorVerdict(v Verdict) bool {
	for _, allowed := range EvaluatorVerdicts {
		if v == allowed {
			return true
		}
	}
	return false
}

// Confidence is the pattern detector's confidence in a rule match
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// TrustScore is the additive heuristic score with its per-factor breakdown
type TrustScore struct {
	Score   int           `json:"score"`   // Clamped to [MinTrustScore, MaxTrustScore]
	Band    TrustBand     `json:"band"`    // Threshold band consumers key on
	Raw     int           `json:"raw"`     // Sum of factor points before clamping
	Factors []TrustFactor `json:"factors"`
}

// TrustFactor is one bounded component of a trust score
type TrustFactor struct {
	Name    string `json:"name"`
	Points  int    `json:"points"`
	Max     int    `json:"max"`
	Formula string `json:"formula,omitempty"`
}

// TrustBand is a coarse bucket over the trust score
type TrustBand string

const (
	BandHigh         TrustBand = "high"          // >= 80
	BandModerateHigh TrustBand = "moderate_high" // >= 65
	BandModerate     TrustBand = "moderate"      // >= 45
	BandLower        TrustBand = "lower"         // >= 30
	BandLow          TrustBand = "low"
)

const (
	MinTrustScore = 15
	MaxTrustScore = 95
)

// BandFor returns the band a score falls into
func BandFor(score int) TrustBand {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 65:
		return BandModerateHigh
	case score >= 45:
		return BandModerate
	case score >= 30:
		return BandLower
	default:
		return BandLow
	}
}
