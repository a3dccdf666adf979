// Package tools defines tool contracts, the registry, and the
// execution dispatcher.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Execute: run one model-requested call and produce the result
//     parts fed back to the model plus an advisory result display.
//   - File tools: read_file, list_files (non-recursive), edit_file.
package tools
