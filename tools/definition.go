package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/petasbytes/headless-agent/internal/display"
)

// Output is what a tool handler produces on success. Content is the
// machine-facing result fed back to the model; Display is the optional
// human-facing rendering (defaults to Content when nil).
type Output struct {
	Content string
	Display display.Display
}

// ToolDefinition describes one callable tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    func(ctx context.Context, input json.RawMessage) (Output, error)
}

// GenerateSchema derives a JSON Schema for a tool input struct. Schemas
// are inlined (no $ref) so they can be passed to model APIs verbatim.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// SchemaParameters converts a generated schema into the plain mapping
// form model APIs expect, stripping metadata keywords they reject.
func SchemaParameters(s *jsonschema.Schema) map[string]any {
	fallback := map[string]any{"type": "object"}
	if s == nil {
		return fallback
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fallback
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return fallback
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m
}
