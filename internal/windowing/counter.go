package windowing

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/petasbytes/headless-agent/internal/genai"
)

// TokenCounter estimates input-token cost for contents or groups.
type TokenCounter interface {
	CountContent(c *genai.Content) int
	CountGroup(g Group, all []*genai.Content) int
}

// HeuristicCounter is the default deterministic estimator.
// Rules:
//   - text parts: rune count of the text
//   - functionResponse parts: rune count of the compact JSON encoding
//     of the response payload
//   - functionCall parts: rune count of the compact JSON encoding of
//     the args mapping
//
// Every part adds a small fixed overhead for formatting.
type HeuristicCounter struct{}

// Fixed per-part overhead for deterministic counts; changing this requires updating the guard test.
const partOverhead = 4

func (HeuristicCounter) CountContent(c *genai.Content) int {
	if c == nil {
		return 0
	}
	total := 0
	for _, p := range c.Parts {
		total += countPart(p)
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []*genai.Content) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountContent(all[i])
	}
	return total
}

func countPart(p *genai.Part) int {
	if p == nil {
		return 0
	}
	switch {
	case p.Text != "":
		return utf8.RuneCountInString(p.Text) + partOverhead
	case p.FunctionResponse != nil:
		return jsonRunes(p.FunctionResponse.Response) + partOverhead
	case p.FunctionCall != nil:
		return jsonRunes(p.FunctionCall.Args) + partOverhead
	}
	// Other part kinds (thoughts, inline data) contribute overhead only
	// in this minimal heuristic.
	return partOverhead
}

func jsonRunes(v any) int {
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return utf8.RuneCount(b)
}
