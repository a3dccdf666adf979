package windowing_test

import (
	"testing"

	"github.com/petasbytes/headless-agent/internal/genai"
	"github.com/petasbytes/headless-agent/internal/windowing"
)

func TestPrepareSendWindow_BudgetRespected_OrderPreserved(t *testing.T) {
	h := windowing.HeuristicCounter{}
	// Oldest -> newest: G0 singleton, G1 pair, G2 singleton.
	contents := []*genai.Content{
		User(T("old")),  // G0
		Model(FC("a")),  // G1 start
		User(FR("a")),   // G1 end
		User(T("tail")), // G2 (newest)
	}
	// Budget fits G2 and G1 exactly, excluding G0.
	budget := h.CountContent(contents[1]) + h.CountContent(contents[2]) + h.CountContent(contents[3])

	window, stats := windowing.PrepareSendWindow(contents, budget, h)

	if stats.Budget != budget || stats.Total != budget || stats.IncludedGroups != 2 || stats.SkippedGroups != 1 || stats.OverBudgetNewest {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(window) != 3 { // expect contents[1:]
		t.Fatalf("unexpected window length: got %d want=3", len(window))
	}
	if window[0].Role != "model" || window[1].Role != "user" || window[2].Role != "user" {
		t.Fatalf("unexpected roles order in window: %q %q %q", window[0].Role, window[1].Role, window[2].Role)
	}
}

func TestPrepareSendWindow_NewestGroupOverBudget(t *testing.T) {
	h := windowing.HeuristicCounter{}
	contents := []*genai.Content{
		User(T("old")),
		Model(FC("a")),
		User(FR("a")), // pair is the newest group
	}
	budget := h.CountContent(contents[1]) + h.CountContent(contents[2]) - 1

	window, stats := windowing.PrepareSendWindow(contents, budget, h)

	if len(window) != 0 {
		t.Fatalf("expected empty window; got=%d", len(window))
	}
	if !stats.OverBudgetNewest || stats.IncludedGroups != 0 || stats.SkippedGroups != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPrepareSendWindow_NoCapacityBudget_WithGroups(t *testing.T) {
	contents := []*genai.Content{
		User(T("x")), // at least one group
	}
	window, stats := windowing.PrepareSendWindow(contents, 0, windowing.HeuristicCounter{})

	if len(window) != 0 || !stats.OverBudgetNewest || stats.SkippedGroups != 1 || stats.IncludedGroups != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPrepareSendWindow_EmptyContents(t *testing.T) {
	window, stats := windowing.PrepareSendWindow(nil, 123, windowing.HeuristicCounter{})
	if window != nil || stats.Budget != 123 || stats.Total != 0 || stats.OverBudgetNewest {
		t.Fatalf("unexpected result: window=%v stats=%+v", window, stats)
	}
}

func TestPrepareSendWindow_AllFitIncludingOldest(t *testing.T) {
	h := windowing.HeuristicCounter{}
	contents := []*genai.Content{
		User(T("oldest")),
		User(T("mid")),
		User(T("new")),
	}
	budget := 0
	for _, c := range contents {
		budget += h.CountContent(c)
	}

	window, stats := windowing.PrepareSendWindow(contents, budget, h)

	if stats.Budget != budget || stats.OverBudgetNewest {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.IncludedGroups != 3 || stats.SkippedGroups != 0 {
		t.Fatalf("IncludedGroups/SkippedGroups mismatch: got inc=%d skip=%d", stats.IncludedGroups, stats.SkippedGroups)
	}
	if len(window) != len(contents) {
		t.Fatalf("window size: got=%d want=%d", len(window), len(contents))
	}
	for i := range contents {
		if window[i] != contents[i] {
			t.Fatalf("content mismatch at %d", i)
		}
	}
}

func TestPrepareSendWindow_StopsAtFirstGroupThatDoesNotFit(t *testing.T) {
	h := windowing.HeuristicCounter{}
	contents := []*genai.Content{
		User(T("a")),
		User(T("bbbb")),
		User(T("cc")), // newest
	}
	// Include newest + next older; oldest would overflow.
	budget := h.CountContent(contents[1]) + h.CountContent(contents[2])

	window, stats := windowing.PrepareSendWindow(contents, budget, h)

	if stats.OverBudgetNewest {
		t.Fatalf("unexpected OverBudgetNewest")
	}
	if stats.IncludedGroups != 2 || stats.SkippedGroups != 1 {
		t.Fatalf("IncludedGroups/SkippedGroups mismatch: got inc=%d skip=%d", stats.IncludedGroups, stats.SkippedGroups)
	}
	if len(window) != 2 || window[0] != contents[1] || window[1] != contents[2] {
		t.Fatalf("expected window contents[1:], got %d entries", len(window))
	}
	if stats.Total != budget {
		t.Fatalf("total cost mismatch: got=%d want=%d", stats.Total, budget)
	}
}
