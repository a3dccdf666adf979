package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/headless-agent/internal/genai"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

const anthropicMaxTokens = 4096

// anthropicChat adapts the Anthropic Messages streaming API onto the
// ChatSession contract: text deltas stream through as text chunks,
// thinking deltas surface as thought parts, and accumulated tool_use
// blocks are emitted as functionCall parts on the final chunk.
type anthropicChat struct {
	client  *anthropic.Client
	model   anthropic.Model
	history []anthropic.MessageParam
}

// NewAnthropicChat builds a chat session against the Anthropic API.
// The SDK reads ANTHROPIC_API_KEY from the environment.
func NewAnthropicChat(model string) (ChatSession, error) {
	c := anthropic.NewClient()
	m := DefaultAnthropicModel
	if model != "" {
		m = anthropic.Model(model)
	}
	return &anthropicChat{client: &c, model: m}, nil
}

func (a *anthropicChat) SendMessageStream(ctx context.Context, promptID string, parts []*genai.Part, tools []*genai.Tool) <-chan genai.StreamEvent {
	_ = promptID
	out := make(chan genai.StreamEvent)
	go func() {
		defer close(out)

		a.history = append(a.history, anthropic.NewUserMessage(partsToBlocks(parts)...))
		params := anthropic.MessageNewParams{
			Model:     a.model,
			MaxTokens: int64(anthropicMaxTokens),
			Messages:  a.history,
			Tools:     toolsToAnthropic(tools),
		}

		stream := a.client.Messages.NewStreaming(ctx, params)
		message := anthropic.Message{}
		fail := func(err error) {
			select {
			case out <- genai.StreamEvent{Err: err}:
			case <-ctx.Done():
			}
		}
		send := func(p *genai.Part) bool {
			ev := genai.StreamEvent{Response: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: genai.NewModelContent(p)}},
			}}
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for stream.Next() {
			event := stream.Current()
			if err := message.Accumulate(event); err != nil {
				fail(fmt.Errorf("accumulate stream event: %w", err))
				return
			}
			if delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
				switch d := delta.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if !send(genai.NewTextPart(d.Text)) {
						return
					}
				case anthropic.ThinkingDelta:
					if !send(&genai.Part{Text: d.Thinking, Thought: true}) {
						return
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			fail(fmt.Errorf("anthropic stream: %w", err))
			return
		}

		a.history = append(a.history, message.ToParam())

		// Tool requests surface once the full message is accumulated.
		for _, block := range message.Content {
			if tu, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
				var args map[string]any
				if err := json.Unmarshal([]byte(tu.JSON.Input.Raw()), &args); err != nil {
					fail(fmt.Errorf("decode tool input for %s: %w", tu.Name, err))
					return
				}
				if !send(&genai.Part{FunctionCall: &genai.FunctionCall{ID: tu.ID, Name: tu.Name, Args: args}}) {
					return
				}
			}
		}
	}()
	return out
}

func partsToBlocks(parts []*genai.Part) []anthropic.ContentBlockParamUnion {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(parts))
	for _, p := range parts {
		switch {
		case p == nil:
		case p.FunctionResponse != nil:
			content, isError := functionResponseContent(p.FunctionResponse)
			blocks = append(blocks, anthropic.NewToolResultBlock(p.FunctionResponse.ID, content, isError))
		case p.Text != "":
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
		}
	}
	return blocks
}

func functionResponseContent(fr *genai.FunctionResponse) (string, bool) {
	if msg, ok := fr.Response["error"].(string); ok {
		return msg, true
	}
	if out, ok := fr.Response["output"].(string); ok {
		return out, false
	}
	b, err := json.Marshal(fr.Response)
	if err != nil {
		return "", false
	}
	return string(b), false
}

// requiredNames extracts the required-property list from a decoded
// schema, where JSON round-tripping leaves it as []any of strings.
func requiredNames(v any) []string {
	var names []string
	switch req := v.(type) {
	case []string:
		names = req
	case []any:
		for _, r := range req {
			if s, ok := r.(string); ok {
				names = append(names, s)
			}
		}
	}
	return names
}

func toolsToAnthropic(tools []*genai.Tool) []anthropic.ToolUnionParam {
	var out []anthropic.ToolUnionParam
	for _, t := range tools {
		for _, decl := range t.FunctionDeclarations {
			schema := anthropic.ToolInputSchemaParam{}
			if m, ok := decl.Parameters.(map[string]any); ok {
				schema.Properties = m["properties"]
				schema.Required = requiredNames(m["required"])
			}
			out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
				Name:        decl.Name,
				Description: anthropic.String(decl.Description),
				InputSchema: schema,
			}})
		}
	}
	return out
}
