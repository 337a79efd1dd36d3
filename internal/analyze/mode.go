package analyze

import (
	"context"

	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/model"
)

// DetectMode picks the analysis mode once at start-up: model-driven when a
// provider is configured and reachable, pattern fallback otherwise
func DetectMode(ctx context.Context, provider llm.Provider) model.AnalysisMode {
	if provider == nil || !provider.IsAvailable(ctx) {
		return model.ModePatternFallback
	}
	return model.ModeModelDriven
}
