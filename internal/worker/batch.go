package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/model"
)

// Analyzer defines the interface for auditing one document on disk
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*model.AuditReport, error)
}

// FileResult is the outcome for one document in a batch
type FileResult struct {
	Path   string
	Report *model.AuditReport
	Error  error
}

// GetError returns the error from the file result
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor audits documents one after another
type BatchProcessor struct {
	analyzer Analyzer
	logger   *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{analyzer: analyzer, logger: logger}
}

// ProcessFiles audits each path in order. A failed document is recorded and
// the batch continues; a cancelled context stops it.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	results := make([]*FileResult, 0, len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			results = append(results, &FileResult{Path: path, Error: err})
			continue
		}

		b.logger.Info("analyzing document", zap.Int("index", i+1), zap.Int("total", len(paths)), zap.String("path", path))
		report, err := b.analyzer.AnalyzeFile(ctx, path)
		if err != nil {
			b.logger.Warn("document failed", zap.String("path", path), zap.Error(err))
		}
		results = append(results, &FileResult{Path: path, Report: report, Error: err})
	}

	return results
}

// ProcessFile reads document paths from a list file and audits them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*FileResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}

// ReadPathsFromFile reads document paths from a file (one per line).
// Blank lines and '#' comments are skipped; duplicates are dropped.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
