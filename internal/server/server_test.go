package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimaudit/internal/analyze"
	"github.com/ppiankov/claimaudit/internal/ingest"
	"github.com/ppiankov/claimaudit/internal/metrics"
	"github.com/ppiankov/claimaudit/internal/model"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeAnalyzer struct {
	mode   model.AnalysisMode
	report *model.AuditReport
	err    error
	panics bool
	got    model.AnalyzeRequest
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req model.AnalyzeRequest) (*model.AuditReport, error) {
	f.got = req
	if f.panics {
		panic("boom")
	}
	return f.report, f.err
}

func (f *fakeAnalyzer) Mode() model.AnalysisMode { return f.mode }

type fakeReviews struct {
	err  error
	seen []string
}

func (f *fakeReviews) Search(_ context.Context, university string) (*model.UniversitySearchResult, error) {
	f.seen = append(f.seen, university)
	if f.err != nil {
		return nil, f.err
	}
	return model.NewUniversitySearchResult(university, "2024-05-01 10:00:00"), nil
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func analyzeBody(filename, content string) string {
	b, _ := json.Marshal(model.AnalyzeRequest{
		Filename: filename,
		Content:  base64.StdEncoding.EncodeToString([]byte(content)),
		FileType: "txt",
	})
	return string(b)
}

func TestRoot(t *testing.T) {
	tests := []struct {
		desc       string
		mode       model.AnalysisMode
		full       bool
		extraction string
	}{
		{"model driven", model.ModeModelDriven, true, "Full LLM pipeline with evidence retrieval"},
		{"pattern fallback", model.ModePatternFallback, false, "Enhanced pattern matching"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			s := New(Options{Analyzer: &fakeAnalyzer{mode: tt.mode}})
			w := do(t, s.Handler(), http.MethodGet, "/", "")
			require.Equal(t, http.StatusOK, w.Code)

			got := decode[rootResponse](t, w)
			assert.Equal(t, "Robust Professional Document Audit API", got.Message)
			assert.Equal(t, Version, got.Version)
			assert.True(t, got.PDFProcessing)
			assert.Equal(t, tt.full, got.FullPipeline)
			require.Len(t, got.Features, 6)
			assert.Equal(t, tt.extraction, got.Features[1])
		})
	}
}

func TestStatus(t *testing.T) {
	s := New(Options{Analyzer: &fakeAnalyzer{mode: model.ModeModelDriven}, Reviews: &fakeReviews{}})
	w := do(t, s.Handler(), http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[statusResponse](t, w)
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "Robust professional server running", got.Message)
	assert.True(t, got.FullPipeline)
	assert.True(t, got.WebScraping)
	assert.Equal(t, model.ModeModelDriven, got.AnalysisMode)
}

func TestAnalyze_OK(t *testing.T) {
	report := &model.AuditReport{
		Summary: model.AuditSummary{TotalClaims: 1, DocumentName: "report.txt"},
		Claims:  []model.Claim{{Text: "Revenue increased by 75% this quarter."}},
	}
	fake := &fakeAnalyzer{mode: model.ModePatternFallback, report: report}
	s := New(Options{Analyzer: fake})

	w := do(t, s.Handler(), http.MethodPost, "/analyze", analyzeBody("report.txt", "hello"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[model.AuditReport](t, w)
	assert.Equal(t, 1, got.Summary.TotalClaims)
	require.Len(t, got.Claims, 1)
	assert.Equal(t, "report.txt", fake.got.Filename)
	assert.Equal(t, "txt", fake.got.FileType)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		desc   string
		err    error
		status int
		detail string
	}{
		{
			desc:   "invalid base64",
			err:    fmt.Errorf("%w: %v", analyze.ErrInvalidContent, errors.New("illegal base64 data at input byte 3")),
			status: http.StatusBadRequest,
			detail: "Invalid base64 content: illegal base64 data at input byte 3",
		},
		{
			desc:   "pdf extraction",
			err:    fmt.Errorf("%w: %v", ingest.ErrPDFExtraction, errors.New("not a PDF file")),
			status: http.StatusInternalServerError,
			detail: "Error extracting PDF: not a PDF file",
		},
		{
			desc:   "insufficient content",
			err:    fmt.Errorf("doc.txt: %w", analyze.ErrInsufficientContent),
			status: http.StatusBadRequest,
			detail: "Insufficient content extracted from doc.txt.",
		},
		{
			desc:   "no readable pdf text",
			err:    ingest.ErrNoReadableText,
			status: http.StatusBadRequest,
			detail: "Insufficient content extracted from doc.txt.",
		},
		{
			desc:   "no claims",
			err:    fmt.Errorf("doc.txt: %w", analyze.ErrNoClaims),
			status: http.StatusBadRequest,
			detail: "No verifiable institutional claims found in doc.txt.",
		},
		{
			desc:   "anything else",
			err:    errors.New("disk full"),
			status: http.StatusInternalServerError,
			detail: "Robust analysis failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			s := New(Options{Analyzer: &fakeAnalyzer{err: tt.err}})
			w := do(t, s.Handler(), http.MethodPost, "/analyze", analyzeBody("doc.txt", "x"))
			assert.Equal(t, tt.status, w.Code)
			got := decode[errorBody](t, w)
			assert.True(t, strings.HasPrefix(got.Detail, tt.detail), got.Detail)
		})
	}
}

func TestAnalyze_BadBody(t *testing.T) {
	s := New(Options{Analyzer: &fakeAnalyzer{}})
	tests := []struct {
		desc string
		body string
	}{
		{"malformed json", `{"filename": `},
		{"missing filename", `{"content": "aGVsbG8="}`},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			w := do(t, s.Handler(), http.MethodPost, "/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode[errorBody](t, w).Detail)
		})
	}
}

func TestAnalyze_ShortDocument(t *testing.T) {
	svc := analyze.New(analyze.Options{Mode: model.ModePatternFallback})
	s := New(Options{Analyzer: svc})

	w := do(t, s.Handler(), http.MethodPost, "/analyze", analyzeBody("short.txt", "Revenue grew 75%."))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient content extracted from short.txt. "+
		"Please ensure the document contains substantial institutional content with verifiable claims.",
		decode[errorBody](t, w).Detail)
}

func TestAnalyze_InvalidBase64(t *testing.T) {
	svc := analyze.New(analyze.Options{Mode: model.ModePatternFallback})
	s := New(Options{Analyzer: svc})

	w := do(t, s.Handler(), http.MethodPost, "/analyze", `{"filename": "a.txt", "content": "!!!not base64", "file_type": "txt"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(decode[errorBody](t, w).Detail, "Invalid base64 content: illegal base64 data"))
}

func TestRecovery(t *testing.T) {
	s := New(Options{Analyzer: &fakeAnalyzer{panics: true}})
	w := do(t, s.Handler(), http.MethodPost, "/analyze", analyzeBody("doc.txt", "x"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode[errorBody](t, w).Detail)
}

func TestReviews(t *testing.T) {
	fake := &fakeReviews{}
	s := New(Options{Analyzer: &fakeAnalyzer{}, Reviews: fake})

	w := do(t, s.Handler(), http.MethodGet, "/reviews?university="+"Delhi+Technological+University", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[model.UniversitySearchResult](t, w)
	assert.Equal(t, "Delhi Technological University", got.UniversityName)
	assert.Equal(t, []string{"Delhi Technological University"}, fake.seen)

	w = do(t, s.Handler(), http.MethodGet, "/reviews?university=%20", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "University name is required", decode[errorBody](t, w).Detail)
	assert.Len(t, fake.seen, 1)

	failing := New(Options{Reviews: &fakeReviews{err: context.Canceled}})
	w = do(t, failing.Handler(), http.MethodGet, "/reviews?university=DTU", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReviews_Disabled(t *testing.T) {
	s := New(Options{Analyzer: &fakeAnalyzer{}})
	w := do(t, s.Handler(), http.MethodGet, "/reviews?university=DTU", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s.Handler(), http.MethodGet, "/status", "")
	assert.False(t, decode[statusResponse](t, w).WebScraping)
}

func TestMetrics(t *testing.T) {
	m := metrics.New(false)
	s := New(Options{Analyzer: &fakeAnalyzer{mode: model.ModePatternFallback}, Metrics: m})

	do(t, s.Handler(), http.MethodGet, "/status", "")
	do(t, s.Handler(), http.MethodGet, "/status", "")
	do(t, s.Handler(), http.MethodGet, "/nope", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/status", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unknown", "404")))

	w := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `claimaudit_http_requests_total{method="GET",path="/status",status_code="200"} 2`)
}

func TestCORS(t *testing.T) {
	s := New(Options{Analyzer: &fakeAnalyzer{}, Config: model.ServerConfig{AllowOrigins: []string{"*"}}})
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_Shutdown(t *testing.T) {
	s := New(Options{Analyzer: &fakeAnalyzer{}, Config: model.ServerConfig{Host: "127.0.0.1", Port: 0}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
