package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/petasbytes/headless-agent/internal/display"
	"github.com/petasbytes/headless-agent/internal/fsops"
)

type EditFileInput struct {
	Path   string `json:"path" jsonschema_description:"Target relative file path"`
	OldStr string `json:"old_str" jsonschema_description:"Exact text to replace; must be present when editing an existing file."`
	NewStr string `json:"new_str" jsonschema_description:"New text to write or replace old_str with"`
}

var EditFileDefinition = ToolDefinition{
	Name: "edit_file",
	Description: `Create or modify a text file addressed by a relative path within the workspace.

When old_str is empty and the file doesn't exist, a new file is created.

When editing an existing file, all occurrences of old_str are replaced with new_str; old_str and new_str must be different.
`,
	InputSchema: EditFileInputSchema,
	Function:    EditFile,
}

var EditFileInputSchema = GenerateSchema[EditFileInput]()

func EditFile(_ context.Context, input json.RawMessage) (Output, error) {
	var in EditFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return Output{}, err
	}

	if in.Path == "" || in.OldStr == in.NewStr {
		return Output{}, fmt.Errorf("invalid edit parameters")
	}

	oldContent, readErr := fsops.ReadFile(in.Path)
	if readErr != nil {
		// File does not exist and OldStr is empty: create it.
		if in.OldStr == "" {
			if err := fsops.WriteFile(in.Path, in.NewStr); err != nil {
				return Output{}, err
			}
			return Output{
				Content: fmt.Sprintf("Successfully created file %s", in.Path),
				Display: display.FileDiff{FileName: in.Path, Diff: unifiedDiff(in.Path, "", in.NewStr)},
			}, nil
		}
		// Otherwise propagate the read error (ToolError or plain I/O).
		return Output{}, readErr
	}

	// Existing file: require a non-empty old_str to avoid ambiguity.
	if in.OldStr == "" {
		return Output{}, fmt.Errorf("old_str must be provided when editing an existing file")
	}

	newContent := strings.Replace(oldContent, in.OldStr, in.NewStr, -1)
	if newContent == oldContent {
		return Output{}, fmt.Errorf("old_str not found in file")
	}

	if err := fsops.WriteFile(in.Path, newContent); err != nil {
		return Output{}, err
	}
	return Output{
		Content: "OK",
		Display: display.FileDiff{FileName: in.Path, Diff: unifiedDiff(in.Path, oldContent, newContent)},
	}, nil
}
