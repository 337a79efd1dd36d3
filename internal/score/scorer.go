// Package score computes additive heuristic trust scores for claims
package score

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/claimaudit/internal/model"
)

// Factor names used in trust breakdowns
const (
	FactorEvidenceQuality   = "evidence_quality"
	FactorSpecificity       = "claim_specificity"
	FactorVerdictConfidence = "verdict_confidence"
	FactorSourceCredibility = "source_credibility"
	FactorCategory          = "category_factors"
	FactorWebEvidence       = "web_evidence"
	FactorPatternConfidence = "pattern_confidence"
	FactorContentQuality    = "content_quality"
)

var (
	percentRe    = regexp.MustCompile(`\d+(?:\.\d+)?%`)
	moneyRe      = regexp.MustCompile(`(?i)\$?[\d,]+(?:\.\d+)?\s*(?:million|billion|thousand)`)
	multiplierRe = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:times|fold|x)`)
	yearRe       = regexp.MustCompile(`\d{4}`)
)

var (
	measurableVerbs       = []string{"increased", "decreased", "improved", "reduced", "achieved", "exceeded", "reached"}
	qualitySourceTerms    = []string{"government", "academic", "official", "sec", "epa"}
	qualityEvidenceTerms  = []string{"verified", "confirmed", "documented", "official"}
	analysisTerms         = []string{"analysis", "verification", "cross-reference", "validation"}
	credibleMetadataTerms = []string{"gov", "edu", "official", "sec", "epa", "academic"}
	documentMetadataTerms = []string{"report", "filing", "audit", "statement"}
)

var verdictPoints = map[model.Verdict]int{
	model.VerdictConfirmed:    20,
	model.VerdictSupported:    15,
	model.VerdictUnverifiable: 8,
	model.VerdictContradicted: 5,
	model.VerdictUnsupported:  3,
}

var confidencePoints = map[model.Confidence]int{
	model.ConfidenceHigh:   15,
	model.ConfidenceMedium: 10,
	model.ConfidenceLow:    5,
}

// categoryTerms holds the primary (+5) and secondary (+3) keywords per category
var categoryTerms = map[model.Category][2][]string{
	model.CategoryFinancial: {
		{"revenue", "profit", "earnings", "financial"},
		{"sec", "gaap", "audited", "quarterly"},
	},
	model.CategoryESG: {
		{"carbon", "emissions", "sustainability", "environmental"},
		{"epa", "iso", "certified", "verified"},
	},
	model.CategoryOperational: {
		{"efficiency", "productivity", "performance", "operational"},
		{"measured", "tracked", "monitored", "kpi"},
	},
	model.CategoryLegalCompliance: {
		{"compliance", "regulatory", "legal", "audit"},
		{"certified", "approved", "compliant", "regulation"},
	},
}

// Scorer calculates trust scores. It holds no state.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// ScoreModelClaim scores a claim from the model-driven pipeline. The claim
// must already carry its reported verdict and canonical category; Summary
// and Reasoning are the evaluator's text before any trust context is added.
func (s *Scorer) ScoreModelClaim(claim model.Claim) model.TrustScore {
	return total(
		s.evidenceQuality(claim),
		s.specificity(claim.Text),
		s.verdictConfidence(claim.Verdict, claim.Reasoning),
		s.sourceCredibility(claim),
		s.categoryFactors(claim.Category, claim.Text),
	)
}

// ScorePatternClaim scores a pattern-detected claim against the web
// sources found for it
func (s *Scorer) ScorePatternClaim(claim model.Claim, sources []model.WebSource) model.TrustScore {
	return total(
		s.webEvidence(sources),
		s.specificity(claim.Text),
		s.verdictTable(claim.Verdict),
		s.patternConfidence(claim.Metadata.Confidence),
		s.contentQuality(claim),
	)
}

func total(factors ...model.TrustFactor) model.TrustScore {
	raw := 0
	for _, f := range factors {
		raw += f.Points
	}
	score := clamp(raw, model.MinTrustScore, model.MaxTrustScore)
	return model.TrustScore{
		Score:   score,
		Band:    model.BandFor(score),
		Raw:     raw,
		Factors: factors,
	}
}

// evidenceQuality scores the retrieved evidence (0-30 points)
func (s *Scorer) evidenceQuality(claim model.Claim) model.TrustFactor {
	points := 0
	switch {
	case claim.Evidence == nil:
		// Retrieval never ran
	case claim.Evidence.IsEmpty():
		text := model.NoEvidenceText
		if runeLen(text) > 100 {
			points += 10
		}
		if containsAny(strings.ToLower(text), qualityEvidenceTerms) {
			points += 5
		}
	default:
		points += min(15, claim.Evidence.Len()*3)
		for _, item := range claim.Evidence.Items {
			if containsAny(strings.ToLower(item.Source), qualitySourceTerms) {
				points += 3
			}
			if item.RelevanceScore > 70 {
				points += 2
			}
		}
	}
	if runeLen(claim.Summary) > 150 {
		points += 5
	}

	return factor(FactorEvidenceQuality, points, 30,
		"min(15, 3*items) + 3/quality source + 2/relevance>70 + 5 if summary>150, cap 30")
}

// specificity scores how measurable the claim text is (0-25 points)
func (s *Scorer) specificity(text string) model.TrustFactor {
	points := 0
	if percentRe.MatchString(text) {
		points += 8
	}
	if moneyRe.MatchString(text) {
		points += 8
	}
	if multiplierRe.MatchString(text) {
		points += 6
	}
	if yearRe.MatchString(text) {
		points += 3
	}

	lower := strings.ToLower(text)
	verbs := 0
	for _, v := range measurableVerbs {
		if strings.Contains(lower, v) {
			verbs++
		}
	}
	points += min(5, verbs)

	if runeLen(text) > 100 {
		points += 3
	}

	return factor(FactorSpecificity, points, 25,
		"8 percent + 8 money + 6 multiplier + 3 year + min(5, verbs) + 3 if text>100, cap 25")
}

// verdictConfidence scores the verdict and the reasoning behind it (0-20 points)
func (s *Scorer) verdictConfidence(verdict model.Verdict, reasoning string) model.TrustFactor {
	points := verdictBase(verdict)
	if runeLen(reasoning) > 200 {
		points += 2
	}
	if containsAny(strings.ToLower(reasoning), analysisTerms) {
		points++
	}
	return factor(FactorVerdictConfidence, points, 20, "verdict base + 2 if reasoning>200 + 1 analysis terms, cap 20")
}

func (s *Scorer) verdictTable(verdict model.Verdict) model.TrustFactor {
	return factor(FactorVerdictConfidence, verdictBase(verdict), 20, "verdict base")
}

// sourceCredibility scores the document source and evidence diversity (0-15 points)
func (s *Scorer) sourceCredibility(claim model.Claim) model.TrustFactor {
	source := strings.ToLower(claim.Metadata.Source)

	points := 2
	switch {
	case containsAny(source, credibleMetadataTerms):
		points = 8
	case containsAny(source, documentMetadataTerms):
		points = 5
	}

	if claim.Evidence != nil {
		distinct := make(map[string]bool)
		for _, item := range claim.Evidence.Items {
			distinct[item.Source] = true
		}
		points += min(7, len(distinct))
	}

	return factor(FactorSourceCredibility, points, 15, "8 credible / 5 document / 2 other + min(7, distinct sources), cap 15")
}

// categoryFactors scores category keywords in the claim (0-10 points)
func (s *Scorer) categoryFactors(category model.Category, text string) model.TrustFactor {
	lower := strings.ToLower(text)
	points := 0
	if terms, ok := categoryTerms[category]; ok {
		if containsAny(lower, terms[0]) {
			points += 5
		}
		if containsAny(lower, terms[1]) {
			points += 3
		}
	}
	return factor(FactorCategory, points, 10, "5 primary terms + 3 secondary terms, cap 10")
}

// webEvidence scores the web sources found for a claim (0-30 points)
func (s *Scorer) webEvidence(sources []model.WebSource) model.TrustFactor {
	if len(sources) == 0 {
		return factor(FactorWebEvidence, 5, 30, "5 without sources")
	}

	credible := 0
	for _, src := range sources {
		switch src.SourceType {
		case "Government", "Academic", "Financial":
			credible++
		}
	}
	points := min(20, len(sources)*4) + min(10, credible*2)
	return factor(FactorWebEvidence, points, 30, "min(20, 4*sources) + min(10, 2*credible)")
}

func (s *Scorer) patternConfidence(confidence model.Confidence) model.TrustFactor {
	points, ok := confidencePoints[confidence]
	if !ok {
		points = 10
	}
	return factor(FactorPatternConfidence, points, 15, "high 15, medium 10, low 5")
}

// contentQuality scores the length of claim and narratives (0-10 points)
func (s *Scorer) contentQuality(claim model.Claim) model.TrustFactor {
	points := 0
	if runeLen(claim.Text) > 100 {
		points += 5
	}
	if runeLen(claim.Summary) > 100 {
		points += 3
	}
	if runeLen(claim.Reasoning) > 150 {
		points += 2
	}
	return factor(FactorContentQuality, points, 10, "5 text>100 + 3 summary>100 + 2 reasoning>150")
}

func verdictBase(verdict model.Verdict) int {
	if points, ok := verdictPoints[verdict]; ok {
		return points
	}
	return 10
}

func factor(name string, points, maxPoints int, formula string) model.TrustFactor {
	return model.TrustFactor{
		Name:    name,
		Points:  min(points, maxPoints),
		Max:     maxPoints,
		Formula: formula,
	}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
