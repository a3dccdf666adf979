package runner

import (
	"strings"

	"github.com/petasbytes/headless-agent/internal/genai"
)

// ExtractText returns the displayable text of one streamed response
// chunk. Only the first candidate is consulted. A chunk whose first
// part is an internal thought yields no text at all: reasoning is never
// surfaced in headless output. Malformed or empty chunks yield
// ("", false) rather than an error.
func ExtractText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", false
	}
	if first := cand.Content.Parts[0]; first != nil && first.Thought {
		return "", false
	}
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), true
}
