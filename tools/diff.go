package tools

import (
	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff renders a unified diff between the old and new content of
// the named file, with three lines of context per hunk. Equal content
// yields the empty string.
func unifiedDiff(name, oldContent, newContent string) string {
	if oldContent == newContent {
		return ""
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: name,
		ToFile:   name,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return text
}
