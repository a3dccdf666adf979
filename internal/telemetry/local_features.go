package telemetry

import (
	"context"

	"github.com/petasbytes/headless-agent/internal/metrics"
)

// EmitLocalFeatures records size features of the user prompt at run
// start. Gated on the same env switch as every other event.
func EmitLocalFeatures(ctx context.Context, prompt string) {
	if !observeEnabled() {
		return
	}
	promptID, _ := PromptIDFromContext(ctx)
	f := metrics.CountFeatures(prompt)
	Emit("local_features", map[string]any{
		"prompt_id":        promptID,
		"features_version": "1",
		"prompt": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
		},
	})
}
