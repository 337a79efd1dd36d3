// Package pipeline runs the model-driven audit of one document
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/evaluate"
	"github.com/ppiankov/claimaudit/internal/evidence"
	"github.com/ppiankov/claimaudit/internal/extract"
	"github.com/ppiankov/claimaudit/internal/ingest"
	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/model"
)

var (
	// ErrEmptyDocument means the document produced no chunks
	ErrEmptyDocument = errors.New("failed to process document")
	// ErrNoClaims means the model found no claims in any chunk
	ErrNoClaims = errors.New("no claims found in document")
)

// Pipeline orchestrates the audit: split, extract, then classify, retrieve
// and evaluate each claim in turn
type Pipeline struct {
	splitter   *ingest.Splitter
	extractor  *extract.ClaimExtractor
	classifier *extract.Classifier
	retriever  *evidence.Retriever
	evaluator  *evaluate.Evaluator
	renderer   *Renderer // nil skips writing the report file
	logger     *zap.Logger
	now        func() time.Time
}

// Options holds the collaborators of a pipeline
type Options struct {
	Provider  llm.Provider
	Retriever *evidence.Retriever
	Splitter  *ingest.Splitter
	Renderer  *Renderer
	Logger    *zap.Logger
}

// New creates a pipeline. Provider and Retriever are required.
func New(opts Options) *Pipeline {
	splitter := opts.Splitter
	if splitter == nil {
		splitter = ingest.NewSplitter(2000, 250)
	}
	logger := logging.OrNop(opts.Logger)
	return &Pipeline{
		splitter:   splitter,
		extractor:  extract.NewClaimExtractor(opts.Provider, logger),
		classifier: extract.NewClassifier(opts.Provider),
		retriever:  opts.Retriever,
		evaluator:  evaluate.NewEvaluator(opts.Provider),
		renderer:   opts.Renderer,
		logger:     logger,
		now:        time.Now,
	}
}

// RunFile loads a document from disk, audits it and writes the report file
// when a renderer is set. A failure to write is logged, not returned.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*model.AuditReport, error) {
	start := p.now()

	doc, err := ingest.LoadFile(path)
	if err != nil {
		return nil, err
	}

	report, err := p.run(ctx, doc, start)
	if err != nil {
		return nil, err
	}
	p.save(report)
	return report, nil
}

// RunDocument audits an already loaded document and writes the report file
// when a renderer is set
func (p *Pipeline) RunDocument(ctx context.Context, doc *ingest.Document) (*model.AuditReport, error) {
	report, err := p.run(ctx, doc, p.now())
	if err != nil {
		return nil, err
	}
	p.save(report)
	return report, nil
}

// save writes the report file. A failure to write is logged, not returned.
func (p *Pipeline) save(report *model.AuditReport) {
	if p.renderer == nil {
		return
	}
	out, err := p.renderer.WriteReport(report)
	if err != nil {
		p.logger.Warn("failed to save report", zap.Error(err))
		return
	}
	p.logger.Info("report saved", zap.String("path", out))
}

func (p *Pipeline) run(ctx context.Context, doc *ingest.Document, start time.Time) (*model.AuditReport, error) {
	p.logger.Info("starting audit pipeline", zap.String("document", doc.Name))

	chunks := p.splitter.Split(doc)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", doc.Name, ErrEmptyDocument)
	}
	p.logger.Debug("document split", zap.Int("chunks", len(chunks)))

	claims, err := p.extractor.Extract(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	if len(claims) == 0 {
		return nil, fmt.Errorf("%s: %w", doc.Name, ErrNoClaims)
	}
	p.logger.Info("claims extracted", zap.Int("claims", len(claims)))

	for i := range claims {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.processClaim(ctx, &claims[i])
		p.logger.Debug("claim processed",
			zap.Int("claim", i+1), zap.Int("total", len(claims)), zap.String("verdict", string(claims[i].Verdict)))
	}

	elapsed := p.now().Sub(start)
	report := &model.AuditReport{
		Summary: model.AuditSummary{
			AuditID:               uuid.NewString(),
			TotalClaims:           len(claims),
			ProcessingTimeSeconds: RoundSeconds(elapsed),
			DocumentName:          filepath.Base(doc.Name),
			Timestamp:             p.now().Format(model.TimestampLayout),
		},
		Claims: claims,
	}

	p.logger.Info("audit finished",
		zap.Int("claims", len(claims)), zap.Float64("seconds", report.Summary.ProcessingTimeSeconds))
	return report, nil
}

// processClaim runs the per-claim stages. The first failing stage records
// its error on the claim and the remaining stages are skipped.
func (p *Pipeline) processClaim(ctx context.Context, claim *model.Claim) {
	category, err := p.classifier.Classify(ctx, claim.Text)
	if err != nil {
		p.fail(claim, err)
		return
	}
	claim.Category = category

	ev, err := p.retriever.Retrieve(ctx, claim.Text)
	if err != nil {
		p.fail(claim, err)
		return
	}
	claim.Evidence = &ev

	result, err := p.evaluator.Evaluate(ctx, claim.Text, ev)
	if err != nil {
		p.fail(claim, err)
		return
	}
	claim.Verdict = result.Verdict
	claim.Summary = result.Summary
	claim.Reasoning = result.Reasoning
}

func (p *Pipeline) fail(claim *model.Claim, err error) {
	p.logger.Warn("error processing claim", zap.String("claim", claim.Text), zap.Error(err))
	claim.Error = err.Error()
}

// RoundSeconds converts a duration to seconds rounded to 2 decimal places
func RoundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
