// Package analyze turns one uploaded document into an audit report, choosing
// between the model-driven pipeline and the pattern detector
package analyze

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/evidence"
	"github.com/ppiankov/claimaudit/internal/extract"
	"github.com/ppiankov/claimaudit/internal/ingest"
	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/metrics"
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/pipeline"
	"github.com/ppiankov/claimaudit/internal/score"
)

var (
	// ErrInvalidContent means the request content is not valid base64
	ErrInvalidContent = errors.New("invalid base64 content")
	// ErrInsufficientContent means the extracted text is below the minimum length
	ErrInsufficientContent = errors.New("insufficient content extracted")
	// ErrNoClaims means neither mode found a verifiable claim
	ErrNoClaims = errors.New("no verifiable institutional claims found")
)

// Auditor runs the model-driven audit of a loaded document
type Auditor interface {
	RunDocument(ctx context.Context, doc *ingest.Document) (*model.AuditReport, error)
}

// Options holds the collaborators of a Service
type Options struct {
	Mode            model.AnalysisMode
	Auditor         Auditor                  // required for ModeModelDriven
	Detector        *extract.PatternDetector // defaults to the built-in rules
	Collector       *evidence.WebCollector   // nil skips web evidence
	Scorer          *score.Scorer
	MinContentChars int
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
}

// Service analyzes documents in the mode chosen at start-up
type Service struct {
	mode      model.AnalysisMode
	auditor   Auditor
	detector  *extract.PatternDetector
	collector *evidence.WebCollector
	scorer    *score.Scorer
	minChars  int
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a service. Model-driven mode without an auditor degrades to
// pattern fallback.
func New(opts Options) *Service {
	s := &Service{
		mode:      opts.Mode,
		auditor:   opts.Auditor,
		detector:  opts.Detector,
		collector: opts.Collector,
		scorer:    opts.Scorer,
		minChars:  opts.MinContentChars,
		metrics:   opts.Metrics,
		logger:    logging.OrNop(opts.Logger),
		now:       time.Now,
	}
	if s.mode != model.ModeModelDriven || s.auditor == nil {
		s.mode = model.ModePatternFallback
	}
	if s.detector == nil {
		s.detector = extract.NewPatternDetector(model.PatternConfig{})
	}
	if s.scorer == nil {
		s.scorer = score.NewScorer()
	}
	if s.minChars <= 0 {
		s.minChars = 100
	}
	return s
}

// Mode returns the analysis mode in effect
func (s *Service) Mode() model.AnalysisMode {
	return s.mode
}

// Analyze decodes an upload request and analyzes its text
func (s *Service) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AuditReport, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	doc, err := ingest.FromBytes(req.Filename, req.FileType, data)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeDocument(ctx, doc)
}

// AnalyzeText analyzes plain text under the given document name
func (s *Service) AnalyzeText(ctx context.Context, filename, content string) (*model.AuditReport, error) {
	return s.AnalyzeDocument(ctx, &ingest.Document{Name: filename, Text: content})
}

// AnalyzeFile loads a document from disk and analyzes it
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*model.AuditReport, error) {
	doc, err := ingest.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeDocument(ctx, doc)
}

// AnalyzeDocument extracts claims by mode, adds web evidence and trust
// scores, and builds the report summary
func (s *Service) AnalyzeDocument(ctx context.Context, doc *ingest.Document) (*model.AuditReport, error) {
	start := s.now()

	report, err := s.analyze(ctx, doc, start)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	s.metrics.ObserveAnalysis(string(s.mode), outcome, s.now().Sub(start))
	return report, err
}

func (s *Service) analyze(ctx context.Context, doc *ingest.Document, start time.Time) (*model.AuditReport, error) {
	if utf8.RuneCountInString(strings.TrimSpace(doc.Text)) < s.minChars {
		return nil, fmt.Errorf("%s: %w", doc.Name, ErrInsufficientContent)
	}
	s.logger.Info("starting analysis",
		zap.String("document", doc.Name), zap.Int("chars", len(doc.Text)), zap.String("mode", string(s.mode)))

	claims, err := s.extractClaims(ctx, doc)
	if err != nil {
		return nil, err
	}
	if len(claims) == 0 {
		return nil, fmt.Errorf("%s: %w", doc.Name, ErrNoClaims)
	}

	if err := s.enhanceWithWeb(ctx, claims); err != nil {
		return nil, err
	}

	for _, c := range claims {
		s.metrics.ObserveClaim(string(c.Category), string(c.Verdict))
	}

	report := &model.AuditReport{
		Summary: model.AuditSummary{
			AuditID:               uuid.NewString(),
			TotalClaims:           len(claims),
			ProcessingTimeSeconds: pipeline.RoundSeconds(s.now().Sub(start)),
			DocumentName:          doc.Name,
			Timestamp:             s.now().Format(model.TimestampLayout),
			AnalysisMode:          s.mode,
		},
		Claims: claims,
	}
	s.logger.Info("analysis completed", zap.String("document", doc.Name), zap.Int("claims", len(claims)))
	return report, nil
}

// extractClaims runs the model-driven pipeline when enabled. A pipeline error
// or an empty result falls back to the pattern detector for this document.
func (s *Service) extractClaims(ctx context.Context, doc *ingest.Document) ([]model.Claim, error) {
	if s.mode == model.ModeModelDriven {
		report, err := s.auditor.RunDocument(ctx, doc)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			s.logger.Warn("pipeline failed, falling back to pattern matching", zap.Error(err))
		case len(report.Claims) == 0:
			s.logger.Warn("pipeline returned no claims, falling back to pattern matching")
		default:
			claims := report.Claims
			for i := range claims {
				enhanceModelClaim(&claims[i], s.scorer)
			}
			return claims, nil
		}
		s.metrics.ObserveFallback()
	}

	return s.detector.Detect(doc.Text, doc.Name), nil
}

// enhanceWithWeb attaches web evidence to every claim and scores the claims
// that have no trust score yet. Only a cancelled context stops it.
func (s *Service) enhanceWithWeb(ctx context.Context, claims []model.Claim) error {
	for i := range claims {
		c := &claims[i]

		var all []model.WebSource
		if s.collector != nil {
			found, kept, err := s.collector.Collect(ctx, *c)
			if err != nil {
				return err
			}
			all = found
			c.WebEvidence = kept
			if len(all) > 0 {
				c.Summary = evidence.SummaryWithWeb(c.Summary, all)
				c.Reasoning = evidence.ReasoningWithWeb(c.Reasoning, all)
			}
			s.logger.Debug("web evidence collected", zap.Int("claim", i+1), zap.Int("sources", len(all)))
		}

		if c.TrustScore == 0 {
			ts := s.scorer.ScorePatternClaim(*c, all)
			c.TrustScore = ts.Score
			c.Trust = &ts
		}
	}
	return nil
}
