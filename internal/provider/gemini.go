package provider

import (
	"fmt"
	"os"

	"github.com/petasbytes/headless-agent/internal/genai"
	"github.com/petasbytes/headless-agent/internal/telemetry"
	"github.com/petasbytes/headless-agent/internal/windowing"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// NewGeminiChat builds a chat session against the Gemini streaming API.
// The API key comes from GEMINI_API_KEY. A tokenBudget > 0 enables
// send-window preparation over the conversation history.
func NewGeminiChat(model string, tokenBudget int) (ChatSession, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set; export it before running")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	chat := genai.NewClient(key).NewChat(model)
	if tokenBudget > 0 {
		chat.PrepareWindow = windowPreparer(model, tokenBudget)
	}
	return chat, nil
}

// windowPreparer caps outgoing history at budget estimated tokens
// without splitting call/response pairs. A newest group that alone
// exceeds the budget is a misconfiguration (budget too low or tool
// output caps not applied) and fails fast.
func windowPreparer(model string, budget int) func([]*genai.Content) ([]*genai.Content, error) {
	return func(contents []*genai.Content) ([]*genai.Content, error) {
		window, stats := windowing.PrepareSendWindow(contents, budget, windowing.HeuristicCounter{})
		telemetry.Emit("window_prepared", map[string]any{
			"model":              model,
			"budget":             stats.Budget,
			"total_estimated":    stats.Total,
			"included_groups":    stats.IncludedGroups,
			"skipped_groups":     stats.SkippedGroups,
			"over_budget_newest": stats.OverBudgetNewest,
		})
		if stats.OverBudgetNewest {
			return nil, fmt.Errorf("newest group exceeds token budget %d; increase the budget or tighten tool output caps", budget)
		}
		return window, nil
	}
}
