package windowing_test

import (
	"testing"

	"github.com/petasbytes/headless-agent/internal/genai"
	"github.com/petasbytes/headless-agent/internal/windowing"
)

func TestGroupBlocks_Invariants(t *testing.T) {
	tests := []struct {
		name     string
		contents []*genai.Content
		want     []windowing.Group
	}{
		{
			name: "valid pair: one call",
			contents: []*genai.Content{
				Model(FC("t1")),
				User(FR("t1"), T("ok")),
			},
			want: []windowing.Group{{Kind: windowing.GroupPair, Start: 0, End: 2}},
		},
		{
			name: "invalid ordering: text before response",
			contents: []*genai.Content{
				Model(FC("t1")),
				User(T("oops"), FR("t1")),
			},
			want: []windowing.Group{{Kind: windowing.GroupSingleton, Start: 0, End: 1}, {Kind: windowing.GroupSingleton, Start: 1, End: 2}},
		},
		{
			name: "parallel completeness missing (2 calls)",
			contents: []*genai.Content{
				Model(FC("t1"), FC("t2")),
				User(FR("t1")),
			},
			want: []windowing.Group{{Kind: windowing.GroupSingleton, Start: 0, End: 1}, {Kind: windowing.GroupSingleton, Start: 1, End: 2}},
		},
		{
			name: "parallel completeness OK (2 calls) with trailing text",
			contents: []*genai.Content{
				Model(FC("t1"), FC("t2")),
				User(FR("t2"), FR("t1"), T("done")),
			},
			want: []windowing.Group{{Kind: windowing.GroupPair, Start: 0, End: 2}},
		},
		{
			name: "intervening model turn invalidates adjacency",
			contents: []*genai.Content{
				Model(FC("t1")),
				Model(T("note")),
				User(FR("t1")),
			},
			want: []windowing.Group{
				{Kind: windowing.GroupSingleton, Start: 0, End: 1},
				{Kind: windowing.GroupSingleton, Start: 1, End: 2},
				{Kind: windowing.GroupSingleton, Start: 2, End: 3},
			},
		},
		{
			name: "extra responses: strict exclusion",
			contents: []*genai.Content{
				Model(FC("t1")),
				User(FR("t1"), FR("t_extra")),
			},
			want: []windowing.Group{{Kind: windowing.GroupSingleton, Start: 0, End: 1}, {Kind: windowing.GroupSingleton, Start: 1, End: 2}},
		},
		{
			name: "model call not followed by user",
			contents: []*genai.Content{
				Model(FC("t1")),
			},
			want: []windowing.Group{{Kind: windowing.GroupSingleton, Start: 0, End: 1}},
		},
		{
			name: "no calls in model turn: both singletons",
			contents: []*genai.Content{
				Model(T("hello")),
				User(T("world")),
			},
			want: []windowing.Group{
				{Kind: windowing.GroupSingleton, Start: 0, End: 1},
				{Kind: windowing.GroupSingleton, Start: 1, End: 2},
			},
		},
		{
			name: "responses split by text (invalid ordering)",
			contents: []*genai.Content{
				Model(FC("t1")),
				User(FR("t1"), T("mid"), FR("t1")),
			},
			want: []windowing.Group{
				{Kind: windowing.GroupSingleton, Start: 0, End: 1},
				{Kind: windowing.GroupSingleton, Start: 1, End: 2},
			},
		},
		{
			name: "user text only after call (no responses)",
			contents: []*genai.Content{
				Model(FC("t1")),
				User(T("just text")),
			},
			want: []windowing.Group{
				{Kind: windowing.GroupSingleton, Start: 0, End: 1},
				{Kind: windowing.GroupSingleton, Start: 1, End: 2},
			},
		},
		{
			name: "user response has irrelevant ID",
			contents: []*genai.Content{
				Model(FC("t1")),
				User(FR("tX")),
			},
			want: []windowing.Group{
				{Kind: windowing.GroupSingleton, Start: 0, End: 1},
				{Kind: windowing.GroupSingleton, Start: 1, End: 2},
			},
		},
		{
			name: "missing IDs fall back to name correlation",
			contents: []*genai.Content{
				Model(&genai.Part{FunctionCall: &genai.FunctionCall{Name: "read_file"}}),
				User(genai.NewFunctionResponsePart("", "read_file", map[string]any{"output": "x"})),
			},
			want: []windowing.Group{{Kind: windowing.GroupPair, Start: 0, End: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := windowing.GroupBlocks(tt.contents)
			if !groupsEqual(got, tt.want) {
				t.Fatalf("unexpected groups. got=%v want=%v", got, tt.want)
			}
		})
	}
}
