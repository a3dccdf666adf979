package windowing

import (
	"fmt"
	"os"

	"github.com/petasbytes/headless-agent/internal/genai"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of contents [Start, End) in the
// original slice. Kind indicates whether it is a singleton or a
// validated call/response pair.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into contents
	End   int // exclusive index into contents
}

// GroupBlocks groups contents into atomic units that keep a model turn
// carrying functionCall parts together with the user turn answering it.
// Invariants:
//   - A pair is exactly two adjacent contents: model(functionCall+...)
//     then user(functionResponse...).
//   - In the user content, all functionResponse parts must come first;
//     text (if any) comes after.
//   - Every call in the model turn must be answered in the user turn's
//     leading functionResponse segment, and no extra responses may
//     appear there.
func GroupBlocks(contents []*genai.Content) []Group {
	groups := make([]Group, 0, len(contents))
	for i := 0; i < len(contents); {
		c := contents[i]
		if c != nil && c.Role == "model" {
			callKeys := collectCallKeys(c)
			if len(callKeys) > 0 {
				if i+1 < len(contents) && isUser(contents[i+1]) {
					valid, respKeys := leadingResponseKeys(contents[i+1])
					if valid && coversAll(respKeys, callKeys) && coversAll(callKeys, respKeys) {
						groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
						i += 2
						continue
					}
					reason := "extra_responses"
					switch {
					case !valid:
						reason = "ordering_invalid"
					case !coversAll(respKeys, callKeys):
						reason = "missing_responses"
					}
					vlogf("exclude pair: reason=%s idx=%d", reason, i)
				} else {
					vlogf("exclude pair: reason=not_followed_by_user idx=%d", i)
				}
			}
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

func isUser(c *genai.Content) bool { return c != nil && c.Role == "user" }

// callKey correlates a functionCall with its functionResponse. The ID
// is preferred; calls the model issued without an ID fall back to name.
func callKey(id, name string) string {
	if id != "" {
		return id
	}
	return name
}

func collectCallKeys(c *genai.Content) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, p := range c.Parts {
		if p != nil && p.FunctionCall != nil {
			keys[callKey(p.FunctionCall.ID, p.FunctionCall.Name)] = struct{}{}
		}
	}
	return keys
}

// leadingResponseKeys inspects a user content and returns:
//   - valid=false if any non-functionResponse part appears before a
//     functionResponse part
//   - respKeys: keys of the leading functionResponse segment; text
//     after that segment is allowed and ignored for key collection.
func leadingResponseKeys(c *genai.Content) (valid bool, respKeys map[string]struct{}) {
	respKeys = make(map[string]struct{})
	seenOther := false
	for _, p := range c.Parts {
		if p != nil && p.FunctionResponse != nil {
			if seenOther {
				return false, respKeys
			}
			respKeys[callKey(p.FunctionResponse.ID, p.FunctionResponse.Name)] = struct{}{}
			continue
		}
		seenOther = true
	}
	return true, respKeys
}

func coversAll(have, required map[string]struct{}) bool {
	for k := range required {
		if _, ok := have[k]; !ok {
			return false
		}
	}
	return true
}

// minimal verbose logging when AGT_VERBOSE_WINDOW_LOGS=1
var verbose = os.Getenv("AGT_VERBOSE_WINDOW_LOGS") == "1"

func vlogf(format string, args ...any) {
	if verbose {
		fmt.Printf("[windowing] "+format+"\n", args...)
	}
}
