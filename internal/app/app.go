// Package app builds the service graph from configuration
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/analyze"
	"github.com/ppiankov/claimaudit/internal/cache"
	"github.com/ppiankov/claimaudit/internal/corpus"
	"github.com/ppiankov/claimaudit/internal/evidence"
	"github.com/ppiankov/claimaudit/internal/extract"
	"github.com/ppiankov/claimaudit/internal/ingest"
	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/metrics"
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/pipeline"
	"github.com/ppiankov/claimaudit/internal/reviews"
	"github.com/ppiankov/claimaudit/internal/search"
	"github.com/ppiankov/claimaudit/internal/server"
	"github.com/ppiankov/claimaudit/internal/util"
	"github.com/ppiankov/claimaudit/internal/worker"
)

// App holds the wired components. Pipeline is nil in pattern fallback mode
// and Searcher is nil when web search is disabled.
type App struct {
	Config   model.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Provider llm.Provider
	Searcher search.Searcher
	Mode     model.AnalysisMode
	Renderer *pipeline.Renderer
	Pipeline *pipeline.Pipeline
	Analysis *analyze.Service
	Reviews  *reviews.Analyzer
}

// New wires every component. The LLM probe and the corpus download happen
// here, once; ctx bounds both.
func New(ctx context.Context, cfg model.Config, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.New(true),
		Renderer: pipeline.NewRenderer(cfg.Output.ReportDir),
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM), logger)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	if provider != nil {
		if c := cache.New(cfg.Cache); c != nil {
			provider = llm.WithCache(provider, c)
		}
	}
	a.Provider = provider

	throttle := worker.NewThrottle(cfg.Search.MinDelay)
	if cfg.Search.Enabled {
		a.Searcher = search.NewDuckDuckGo(cfg.Search, throttle, logger)
	}

	a.Mode = a.detectMode(ctx)
	logger.Info("analysis mode selected", zap.String("mode", string(a.Mode)))

	if a.Mode == model.ModeModelDriven {
		if err := a.buildPipeline(ctx); err != nil {
			return nil, err
		}
	}

	var finder evidence.SourceFinder = evidence.Catalogue{}
	if cfg.Evidence.LiveWeb && a.Searcher != nil {
		finder = evidence.NewLiveFinder(a.Searcher, evidence.NewCredibilityClassifier(), cfg.Evidence.WebResultsPerQuery)
	}

	opts := analyze.Options{
		Mode:            a.Mode,
		Detector:        extract.NewPatternDetector(cfg.Patterns),
		Collector:       evidence.NewWebCollector(finder, cfg.Evidence, logger),
		MinContentChars: cfg.Ingest.MinContentChars,
		Metrics:         a.Metrics,
		Logger:          logger,
	}
	if a.Pipeline != nil {
		opts.Auditor = a.Pipeline
	}
	a.Analysis = analyze.New(opts)

	var robots *util.RobotsChecker
	if cfg.Reviews.RespectRobots {
		robots = util.NewRobotsChecker(cfg.Search.UserAgent, cfg.Reviews.FetchTimeout, logger)
	}
	a.Reviews = reviews.NewAnalyzer(reviews.Options{
		Searcher:   a.Searcher,
		Fetcher:    reviews.NewFetcher(cfg.Reviews.FetchTimeout, cfg.Search.UserAgent, cfg.Reviews.MaxPageBytes, throttle, robots, logger),
		Structured: cfg.Reviews.StructuredScraping,
		Metrics:    a.Metrics,
		Logger:     logger,
	})

	return a, nil
}

func (a *App) detectMode(ctx context.Context) model.AnalysisMode {
	if a.Provider == nil {
		return model.ModePatternFallback
	}
	if !a.Config.LLM.Probe {
		return model.ModeModelDriven
	}
	mode := analyze.DetectMode(ctx, a.Provider)
	if mode == model.ModePatternFallback {
		a.Logger.Warn("LLM provider unavailable, using pattern matching",
			zap.String("provider", a.Provider.Name()))
	}
	return mode
}

func (a *App) buildPipeline(ctx context.Context) error {
	cfg := a.Config
	splitter := ingest.NewSplitter(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)

	downloads := cache.NewDiskCache(filepath.Join(cache.ExpandDir(cfg.Cache.Dir), "corpus"), cfg.Cache.DiskTTL)
	loader := corpus.NewLoader(cfg.Corpus.Timeout, splitter, downloads, a.Logger)
	c, err := loader.Load(ctx, cfg.Corpus.Sources)
	if err != nil {
		return fmt.Errorf("load evidence corpus: %w", err)
	}

	a.Pipeline = pipeline.New(pipeline.Options{
		Provider:  a.Provider,
		Retriever: evidence.NewRetriever(a.Provider, c, a.Searcher, cfg.Evidence, a.Logger),
		Splitter:  splitter,
		Renderer:  a.Renderer,
		Logger:    a.Logger,
	})
	return nil
}

// Server builds the HTTP API. /reviews is served only with web search on.
func (a *App) Server() *server.Server {
	opts := server.Options{
		Config:   a.Config.Server,
		Analyzer: a.Analysis,
		Metrics:  a.Metrics,
		Logger:   a.Logger,
	}
	if a.Searcher != nil {
		opts.Reviews = a.Reviews
	}
	return server.New(opts)
}
