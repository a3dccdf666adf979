package tools

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/headless-agent/internal/fsops"
)

type ListFilesInput struct {
	Path string `json:"path,omitempty" jsonschema_description:"Relative directory path; defaults to the workspace root."`
}

var ListFilesDefinition = ToolDefinition{
	Name:        "list_files",
	Description: "List immediate entries of a directory addressed by a relative path within the workspace. Directories are suffixed with \"/\". Not recursive.",
	InputSchema: ListFilesInputSchema,
	Function:    ListFiles,
}

var ListFilesInputSchema = GenerateSchema[ListFilesInput]()

func ListFiles(_ context.Context, input json.RawMessage) (Output, error) {
	var in ListFilesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return Output{}, err
	}
	names, err := fsops.ListFiles(in.Path)
	if err != nil {
		return Output{}, err
	}
	return Output{Content: names}, nil
}
