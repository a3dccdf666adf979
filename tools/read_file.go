package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/petasbytes/headless-agent/internal/fsops"
)

type ReadFileInput struct {
	Path   string `json:"path" jsonschema_description:"Relative file path."`
	Offset int    `json:"offset,omitempty" jsonschema_description:"Line offset (0-based) to start reading from."`
	Limit  int    `json:"limit,omitempty" jsonschema_description:"Maximum lines to return from offset (default 200)."`
}

const defaultReadFileLimit = 200 // fallback page size when limit <= 0
const truncationSentinel = "-- truncated; use offset/limit to fetch more --\n"
const maxLineRunes = 2000     // per-line clamp
const overallRuneCap = 12_000 // overall cap after join

var ReadFileDefinition = ToolDefinition{
	Name:        "read_file",
	Description: "Read the contents of a file addressed by a relative file path within the workspace. Directory paths and unsafe paths are rejected.",
	InputSchema: ReadFileInputSchema,
	Function:    ReadFile,
}

var ReadFileInputSchema = GenerateSchema[ReadFileInput]()

// clampRunes truncates s to at most n runes, reporting whether it cut anything.
func clampRunes(s string, n int) (string, bool) {
	if n <= 0 {
		return "", len([]rune(s)) > 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}

// ReadFile reads a file via fsops (sandbox policy) and applies small,
// deterministic caps so results stay predictably sized for windowing:
//   - offset: 0-based starting line (negatives clamped to 0)
//   - limit: number of lines to return (<= 0 defaults to 200)
//
// When not all lines are returned, a trailing sentinel signals that
// more pages exist.
func ReadFile(_ context.Context, input json.RawMessage) (Output, error) {
	var in ReadFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return Output{}, err
	}

	content, err := fsops.ReadFile(in.Path)
	if err != nil {
		return Output{}, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultReadFileLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	lines := strings.Split(content, "\n")
	if offset >= len(lines) {
		return Output{Content: truncationSentinel}, nil
	}

	end := offset + limit
	truncated := false
	if end < len(lines) {
		truncated = true
	} else {
		end = len(lines)
	}

	page := make([]string, 0, end-offset)
	for _, line := range lines[offset:end] {
		clamped, cut := clampRunes(line, maxLineRunes)
		truncated = truncated || cut
		page = append(page, clamped)
	}

	out := strings.Join(page, "\n")
	if clamped, cut := clampRunes(out, overallRuneCap); cut {
		out = clamped
		truncated = true
	}
	if truncated {
		out += "\n" + truncationSentinel
	}
	return Output{Content: out}, nil
}
