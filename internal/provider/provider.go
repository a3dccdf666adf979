// Package provider constructs chat sessions against concrete model
// backends. Both backends surface the same narrow streaming contract
// the runner consumes.
package provider

import (
	"context"

	"github.com/petasbytes/headless-agent/internal/genai"
)

// ChatSession is one stateful conversation. SendMessageStream sends
// parts as the next user turn and returns a finite, non-restartable
// sequence of response chunks; a fresh call is required per turn.
type ChatSession interface {
	SendMessageStream(ctx context.Context, promptID string, parts []*genai.Part, tools []*genai.Tool) <-chan genai.StreamEvent
}
