package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimaudit/internal/corpus"
	"github.com/ppiankov/claimaudit/internal/evaluate"
	"github.com/ppiankov/claimaudit/internal/evidence"
	"github.com/ppiankov/claimaudit/internal/ingest"
	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/llm/llmtest"
	"github.com/ppiankov/claimaudit/internal/model"
)

// scriptedModel answers each prompt template with a canned reply
func scriptedModel(classify func(prompt string) (string, error)) *llmtest.Provider {
	return llmtest.New(func(req llm.CompletionRequest) (string, error) {
		switch {
		case strings.Contains(req.Prompt, "Extract all distinct"):
			return "- Revenue increased by 15% in 2023\n- The company is ISO certified\nnot a claim", nil
		case strings.Contains(req.Prompt, "Classify the following"):
			return classify(req.Prompt)
		case strings.Contains(req.Prompt, "Generate 5 distinct"):
			if strings.Contains(req.Prompt, "ISO") {
				return "1. zzz unmatched", nil
			}
			return "1. revenue 2023\n2. growth", nil
		case strings.Contains(req.Prompt, "impartial auditor"):
			return `{"verdict":"Confirmed","evidence_summary":"Matches the filing.","verdict_reasoning":"Figures agree."}`, nil
		}
		return "", errors.New("unexpected prompt")
	})
}

func defaultClassify(prompt string) (string, error) {
	if strings.Contains(prompt, "Revenue") {
		return "Financial", nil
	}
	return "Legal & Compliance", nil
}

func newTestPipeline(t *testing.T, provider llm.Provider, reportDir string) *Pipeline {
	t.Helper()
	c := corpus.New([]ingest.Chunk{{Text: "In 2023 revenue rose across segments.", Source: "evidence_paper_1.pdf"}})
	retriever := evidence.NewRetriever(provider, c, nil, model.EvidenceConfig{}, nil)
	var renderer *Renderer
	if reportDir != "" {
		renderer = NewRenderer(reportDir)
	}
	return New(Options{Provider: provider, Retriever: retriever, Renderer: renderer})
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunFile(t *testing.T) {
	provider := scriptedModel(defaultClassify)
	reportDir := t.TempDir()
	p := newTestPipeline(t, provider, reportDir)

	report, err := p.RunFile(context.Background(), writeDoc(t, "annual.txt", "Annual report text."))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.TotalClaims)
	assert.Equal(t, "annual.txt", report.Summary.DocumentName)
	_, err = uuid.Parse(report.Summary.AuditID)
	assert.NoError(t, err)
	_, err = time.ParseInLocation(model.TimestampLayout, report.Summary.Timestamp, time.Local)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, report.Summary.ProcessingTimeSeconds, 0.0)

	revenue := report.Claims[0]
	assert.Equal(t, "Revenue increased by 15% in 2023", revenue.Text)
	assert.Equal(t, "Annual report text.", revenue.SourceContext)
	assert.Equal(t, "annual.txt", revenue.Metadata.Source)
	assert.Equal(t, model.CategoryFinancial, revenue.Category)
	require.NotNil(t, revenue.Evidence)
	assert.Equal(t, 1, revenue.Evidence.Len())
	assert.Equal(t, model.VerdictConfirmed, revenue.Verdict)
	assert.Equal(t, "Matches the filing.", revenue.Summary)

	iso := report.Claims[1]
	assert.Equal(t, model.CategoryLegalCompliance, iso.Category)
	require.NotNil(t, iso.Evidence)
	assert.True(t, iso.Evidence.IsEmpty())
	assert.Equal(t, model.VerdictInsufficientEvidence, iso.Verdict)
	assert.Equal(t, evaluate.NoEvidenceSummary, iso.Summary)

	evaluations := 0
	for _, req := range provider.Requests() {
		if strings.Contains(req.Prompt, "impartial auditor") {
			evaluations++
		}
	}
	assert.Equal(t, 1, evaluations, "empty evidence must not reach the model")

	raw, err := os.ReadFile(filepath.Join(reportDir, "audit_report_annual.txt.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n    \"summary\": {")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	claims := decoded["claims"].([]any)
	assert.Equal(t, model.NoEvidenceText, claims[1].(map[string]any)["evidence"])
}

func TestRunFile_ClaimErrorRecorded(t *testing.T) {
	provider := scriptedModel(func(prompt string) (string, error) {
		if strings.Contains(prompt, "ISO") {
			return "", errors.New("classifier timeout")
		}
		return "Financial", nil
	})
	p := newTestPipeline(t, provider, "")

	report, err := p.RunFile(context.Background(), writeDoc(t, "a.txt", "text"))
	require.NoError(t, err)
	require.Len(t, report.Claims, 2)

	assert.Empty(t, report.Claims[0].Error)
	assert.Contains(t, report.Claims[1].Error, "classifier timeout")
	assert.Empty(t, report.Claims[1].Verdict)
	assert.Nil(t, report.Claims[1].Evidence)
}

func TestRunFile_Errors(t *testing.T) {
	p := newTestPipeline(t, scriptedModel(defaultClassify), "")

	_, err := p.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ingest.ErrInvalidPath)

	_, err = p.RunFile(context.Background(), writeDoc(t, "empty.txt", ""))
	assert.ErrorIs(t, err, ErrEmptyDocument)

	silent := llmtest.New(func(llm.CompletionRequest) (string, error) { return "No claims here.", nil })
	_, err = newTestPipeline(t, silent, "").RunFile(context.Background(), writeDoc(t, "b.txt", "text"))
	assert.ErrorIs(t, err, ErrNoClaims)
}

func TestRunDocument_WritesReport(t *testing.T) {
	reportDir := t.TempDir()
	p := newTestPipeline(t, scriptedModel(defaultClassify), reportDir)

	report, err := p.RunDocument(context.Background(), &ingest.Document{Name: "upload.txt", Text: "Annual report text."})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Summary.TotalClaims)

	raw, err := os.ReadFile(filepath.Join(reportDir, "audit_report_upload.txt.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"document_name": "upload.txt"`)
}

func TestRunDocument_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(t, scriptedModel(defaultClassify), "")
	_, err := p.RunDocument(ctx, &ingest.Document{Name: "x.txt", Text: "text"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoundSeconds(t *testing.T) {
	assert.Equal(t, 1.23, RoundSeconds(1234567*time.Microsecond))
	assert.Equal(t, 0.0, RoundSeconds(0))
}

func TestRenderer_ReportPath(t *testing.T) {
	r := NewRenderer("reports")
	assert.Equal(t, filepath.Join("reports", "audit_report_scan.pdf.json"), r.ReportPath("/tmp/in/scan.pdf"))
}
