package windowing_test

import (
	"github.com/petasbytes/headless-agent/internal/genai"
	"github.com/petasbytes/headless-agent/internal/windowing"
)

// Text part constructor
func T(text string) *genai.Part {
	return genai.NewTextPart(text)
}

// Function-call part constructor (key by ID)
func FC(id string) *genai.Part {
	return &genai.Part{FunctionCall: &genai.FunctionCall{ID: id, Name: "tool"}}
}

// Function-response part constructor, matching FC by ID. Payload length
// is irrelevant in grouping tests.
func FR(id string) *genai.Part {
	return genai.NewFunctionResponsePart(id, "tool", map[string]any{"output": "ok"})
}

// Model content constructor
func Model(parts ...*genai.Part) *genai.Content {
	return genai.NewModelContent(parts...)
}

// User content constructor
func User(parts ...*genai.Part) *genai.Content {
	return genai.NewUserContent(parts...)
}

// groupsEqual is a small utility used by grouping tests.
func groupsEqual(got, want []windowing.Group) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].Kind != want[i].Kind || got[i].Start != want[i].Start || got[i].End != want[i].End {
			return false
		}
	}
	return true
}
