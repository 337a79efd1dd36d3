package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimaudit/internal/model"
)

func newDetector() *PatternDetector {
	return NewPatternDetector(model.PatternConfig{})
}

func TestPatternDetector_RevenueGrowthContradicted(t *testing.T) {
	claims := newDetector().Detect("Revenue increased by 75% this quarter.", "q3.txt")
	require.Len(t, claims, 1)

	c := claims[0]
	assert.Equal(t, "Revenue increased by 75% this quarter", c.Text)
	assert.Equal(t, model.CategoryFinancial, c.Category)
	assert.Equal(t, "revenue_growth", c.Metadata.ClaimType)
	assert.Equal(t, "75%", c.Metadata.ExtractedValue)
	assert.Equal(t, model.VerdictContradicted, c.Verdict)
	assert.Equal(t, model.ConfidenceHigh, c.Metadata.Confidence)
	assert.Equal(t, MethodPatternMatching, c.Metadata.AnalysisMethod)
	assert.Equal(t, "q3.txt", c.Metadata.Source)
	assert.Contains(t, c.Reasoning, "The claimed value of 75% significantly exceeds")
}

func TestPatternDetector_CarbonReductionSupported(t *testing.T) {
	claims := newDetector().Detect("Carbon emissions were reduced by 40% through new initiatives.", "esg.txt")
	require.Len(t, claims, 1)

	c := claims[0]
	assert.Equal(t, model.CategoryESG, c.Category)
	assert.Equal(t, "carbon_reduction", c.Metadata.ClaimType)
	assert.Equal(t, "40%", c.Metadata.ExtractedValue)
	assert.Equal(t, model.VerdictSupported, c.Verdict)
	assert.Contains(t, c.Summary, "esg industry standards")
	assert.Contains(t, c.Summary, "Environmental claims need validation")
}

func TestPatternDetector_Idempotent(t *testing.T) {
	text := "Revenue increased by 75% this quarter. Carbon emissions were reduced by 40% through new initiatives. " +
		"We maintain full compliance with every applicable data protection rule."

	d := newDetector()
	first, err := json.Marshal(d.Detect(text, "doc.txt"))
	require.NoError(t, err)
	second, err := json.Marshal(d.Detect(text, "doc.txt"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestPatternDetector_SentenceIndexAndShortSentences(t *testing.T) {
	text := "Too short. Profit increased 75.5% in the year after the merger closed. Productivity improved by 12% at the main plant."
	claims := newDetector().Detect(text, "doc.txt")
	require.Len(t, claims, 2)

	assert.Equal(t, "profit_growth", claims[0].Metadata.ClaimType)
	assert.Equal(t, "75.5%", claims[0].Metadata.ExtractedValue)
	assert.Equal(t, 0, claims[0].Metadata.SourceChunkID)
	assert.Equal(t, model.VerdictSupported, claims[0].Verdict)

	assert.Equal(t, "productivity", claims[1].Metadata.ClaimType)
	assert.Equal(t, 1, claims[1].Metadata.SourceChunkID)
}

func TestPatternDetector_ConfiguredThreshold(t *testing.T) {
	d := NewPatternDetector(model.PatternConfig{Thresholds: map[string]float64{"carbon_reduction": 30}})
	claims := d.Detect("Carbon emissions were reduced by 40% through new initiatives.", "esg.txt")
	require.Len(t, claims, 1)
	assert.Equal(t, model.VerdictContradicted, claims[0].Verdict)
}

func TestPatternDetector_InstitutionalFallback(t *testing.T) {
	text := "The company published its yearly overview for shareholders and partners. " +
		"Headcount grew to 15% above the prior period across all regional offices. " +
		"It now employs staff in twelve countries with 4 million customers served through its outlets over time."

	claims := newDetector().Detect(text, "overview.txt")
	require.Len(t, claims, 1)

	c := claims[0]
	assert.Equal(t, "Document contains institutional performance data and metrics: 15%, 4", c.Text)
	assert.Equal(t, model.CategoryFinancial, c.Category)
	assert.Equal(t, model.VerdictUnverifiable, c.Verdict)
	assert.Equal(t, "quantitative_general", c.Metadata.ClaimType)
	assert.Equal(t, MethodGeneralContent, c.Metadata.AnalysisMethod)
	assert.Equal(t, text, c.SourceContext)
}

func TestPatternDetector_NoClaims(t *testing.T) {
	assert.Empty(t, newDetector().Detect("Nothing measurable is said in this short note at all.", "x.txt"))
}

func TestPatternVerdict(t *testing.T) {
	th := Thresholds(model.DefaultThresholds())
	tests := []struct {
		name     string
		sentence string
		category model.Category
		typ      string
		value    string
		want     model.Verdict
	}{
		{"strong verification wins", "audited revenue increased 90%", model.CategoryFinancial, "revenue_growth", "90%", model.VerdictConfirmed},
		{"contradiction word", "sales missed the 10 million goal", model.CategoryFinancial, "sales_figure", "10", model.VerdictContradicted},
		{"uncertainty word", "approximately 20% more efficiency", model.CategoryOperational, "efficiency_improvement", "20%", model.VerdictUnverifiable},
		{"operational over threshold", "efficiency improved 55%", model.CategoryOperational, "efficiency_improvement", "55%", model.VerdictContradicted},
		{"satisfaction over threshold", "customer satisfaction reached 99.5%", model.CategoryOperational, "customer_satisfaction", "99.5%", model.VerdictContradicted},
		{"renewable at limit", "renewable energy reached 100%", model.CategoryESG, "renewable_energy", "100%", model.VerdictSupported},
		{"financial with commas", "sales reached 1,200 million", model.CategoryFinancial, "sales_figure", "1,200", model.VerdictSupported},
		{"legal defaults unverifiable", "we maintain full compliance", model.CategoryLegalCompliance, "compliance_status", "", model.VerdictUnverifiable},
		{"no value defaults supported", "automation system deployed", model.CategoryOperational, "automation", "", model.VerdictSupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PatternVerdict(tt.sentence, tt.category, tt.typ, tt.value, th))
		})
	}
}

func TestDefaultRules_Order(t *testing.T) {
	rules := DefaultRules()
	require.Len(t, rules, 31)

	index := map[string]int{}
	for i, r := range rules {
		index[r.ClaimType] = i
	}
	assert.Less(t, index["carbon_reduction"], index["emission_reduction"])
	assert.Equal(t, "revenue_growth", rules[0].ClaimType)
	assert.Equal(t, "risk_management", rules[len(rules)-1].ClaimType)
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("First sentence is long enough to count. Rate was 75.5% overall in the year!\nShort one? Final line without a terminator at all", 20)
	assert.Equal(t, []string{
		"First sentence is long enough to count",
		"Rate was 75.5% overall in the year",
		"Final line without a terminator at all",
	}, got)
}
