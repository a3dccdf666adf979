package genai

import (
	"context"
	"fmt"
)

// Chat is a stateful conversation with one model. It records history
// so each streamed send carries the full exchange; the caller only
// supplies the parts for the next user turn.
type Chat struct {
	client  *Client
	model   string
	history []*Content

	// PrepareWindow, when set, trims the outgoing contents to a send
	// window before each request. It must not split a functionCall
	// content from the functionResponse content answering it.
	PrepareWindow func([]*Content) ([]*Content, error)
}

// NewChat starts an empty conversation against the given model.
func (c *Client) NewChat(model string) *Chat {
	return &Chat{client: c, model: model}
}

// History returns the recorded turns, oldest first.
func (c *Chat) History() []*Content { return c.history }

// SendMessageStream sends parts as the next user turn and streams the
// model response. Each event is one decoded chunk; the channel closes
// when the stream ends. Model-authored parts are folded back into
// history as chunks arrive so the next send carries them.
func (c *Chat) SendMessageStream(ctx context.Context, promptID string, parts []*Part, tools []*Tool) <-chan StreamEvent {
	_ = promptID // carried for interface symmetry; telemetry happens caller-side
	out := make(chan StreamEvent)
	go func() {
		defer close(out)

		c.history = append(c.history, NewUserContent(parts...))
		contents := c.history
		if c.PrepareWindow != nil {
			window, err := c.PrepareWindow(contents)
			if err != nil {
				select {
				case out <- StreamEvent{Err: fmt.Errorf("prepare send window: %w", err)}:
				case <-ctx.Done():
				}
				return
			}
			contents = window
		}

		var modelParts []*Part
		events := c.client.streamGenerateContent(ctx, c.model, &generateRequest{
			Contents: contents,
			Tools:    tools,
		})
		for ev := range events {
			if ev.Response != nil && len(ev.Response.Candidates) > 0 {
				if content := ev.Response.Candidates[0].Content; content != nil {
					modelParts = append(modelParts, content.Parts...)
				}
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if len(modelParts) > 0 {
			c.history = append(c.history, NewModelContent(modelParts...))
		}
	}()
	return out
}
