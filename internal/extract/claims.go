package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/ingest"
	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/model"
)

// ClaimExtractor asks a model for the verifiable claims in each chunk
type ClaimExtractor struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(provider llm.Provider, logger *zap.Logger) *ClaimExtractor {
	return &ClaimExtractor{provider: provider, logger: logging.OrNop(logger)}
}

// Extract makes one completion call per chunk and collects the bullet lines.
// A failed chunk is logged and skipped; only context cancellation is returned.
func (e *ClaimExtractor) Extract(ctx context.Context, chunks []ingest.Chunk) ([]model.Claim, error) {
	var claims []model.Claim

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return claims, err
		}

		resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
			Prompt: llm.Render(llm.ExtractClaimsPrompt, map[string]string{"document_chunk": chunk.Text}),
		})
		if err != nil {
			if ctx.Err() != nil {
				return claims, ctx.Err()
			}
			e.logger.Warn("claim extraction failed for chunk",
				zap.Int("chunk", chunk.Index), zap.String("source", chunk.Source), zap.Error(err))
			continue
		}

		found := ParseBulletClaims(resp.Text)
		e.logger.Debug("extracted claims", zap.Int("chunk", chunk.Index), zap.Int("claims", len(found)))

		for _, text := range found {
			claims = append(claims, model.Claim{
				Text:          text,
				SourceContext: chunk.Text,
				Metadata: model.ClaimMetadata{
					Source:        chunk.Source,
					SourceChunkID: chunk.Index,
				},
			})
		}
	}

	return claims, nil
}

// ParseBulletClaims keeps the lines that start with a hyphen, minus the hyphen
func ParseBulletClaims(text string) []string {
	var claims []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		if claim := strings.TrimSpace(line[1:]); claim != "" {
			claims = append(claims, claim)
		}
	}
	return claims
}
