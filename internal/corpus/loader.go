package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/cache"
	"github.com/ppiankov/claimaudit/internal/ingest"
	"github.com/ppiankov/claimaudit/internal/logging"
)

// downloadTTL keeps downloaded sources effectively forever; arXiv PDFs are immutable
const downloadTTL = 365 * 24 * time.Hour

// Loader builds a corpus from URLs and local files
type Loader struct {
	httpClient *http.Client
	splitter   *ingest.Splitter
	downloads  cache.Cache
	logger     *zap.Logger
}

// NewLoader creates a loader. downloads may be nil, in which case every
// URL source is fetched on each load.
func NewLoader(timeout time.Duration, splitter *ingest.Splitter, downloads cache.Cache, logger *zap.Logger) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if splitter == nil {
		splitter = ingest.NewSplitter(2000, 250)
	}
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		splitter:   splitter,
		downloads:  downloads,
		logger:     logging.OrNop(logger),
	}
}

// Load reads every source in order. Source i is named evidence_paper_<i+1>
// with the source's extension (.pdf when it has none). A source that fails to
// download or parse is logged and skipped; only context cancellation is
// returned as an error.
func (l *Loader) Load(ctx context.Context, sources []string) (*Corpus, error) {
	var chunks []ingest.Chunk
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := SourceName(i, source)
		data, err := l.read(ctx, source)
		if err != nil {
			l.logger.Warn("evidence source unavailable", zap.String("source", source), zap.Error(err))
			continue
		}

		doc, err := ingest.FromBytes(name, "", data)
		if err != nil {
			l.logger.Warn("evidence source unreadable", zap.String("source", source), zap.Error(err))
			continue
		}

		docChunks := l.splitter.Split(doc)
		chunks = append(chunks, docChunks...)
		l.logger.Info("evidence source loaded", zap.String("name", name), zap.Int("chunks", len(docChunks)))
	}

	l.logger.Info("evidence corpus ready", zap.Int("chunks", len(chunks)))
	return New(chunks), nil
}

// SourceName returns the chunk source name for the source at index i
func SourceName(i int, source string) string {
	ext := strings.ToLower(filepath.Ext(strings.SplitN(source, "?", 2)[0]))
	if ext != ".txt" && ext != ".md" {
		ext = ".pdf"
	}
	return fmt.Sprintf("evidence_paper_%d%s", i+1, ext)
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if !isURL(source) {
		return os.ReadFile(source)
	}

	key := cache.Key("corpus", source)
	if l.downloads != nil {
		if data, ok := l.downloads.Get(key); ok {
			l.logger.Debug("evidence source cached", zap.String("url", source))
			return data, nil
		}
	}

	data, err := l.download(ctx, source)
	if err != nil {
		return nil, err
	}

	if l.downloads != nil {
		if err := l.downloads.Set(key, data, downloadTTL); err != nil {
			l.logger.Warn("failed to cache evidence source", zap.String("url", source), zap.Error(err))
		}
	}
	return data, nil
}

func (l *Loader) download(ctx context.Context, rawURL string) ([]byte, error) {
	l.logger.Info("downloading evidence source", zap.String("url", rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status code %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
