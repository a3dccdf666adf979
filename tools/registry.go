package tools

import "github.com/petasbytes/headless-agent/internal/genai"

// Registry holds the tools available to one run.
type Registry struct {
	defs   []ToolDefinition
	byName map[string]*ToolDefinition
}

// NewRegistry builds a registry from definitions. Later definitions
// with a duplicate name replace earlier ones.
func NewRegistry(defs ...ToolDefinition) *Registry {
	r := &Registry{byName: make(map[string]*ToolDefinition, len(defs))}
	for _, d := range defs {
		r.Add(d)
	}
	return r
}

// Default returns the registry with all builtin tools wired.
func Default() *Registry {
	return NewRegistry(ReadFileDefinition, ListFilesDefinition, EditFileDefinition)
}

// Add registers a definition.
func (r *Registry) Add(d ToolDefinition) {
	if _, ok := r.byName[d.Name]; !ok {
		r.defs = append(r.defs, d)
	} else {
		for i := range r.defs {
			if r.defs[i].Name == d.Name {
				r.defs[i] = d
				break
			}
		}
	}
	r.byName[d.Name] = &d
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*ToolDefinition, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		names = append(names, d.Name)
	}
	return names
}

// Declarations renders the registry as the tool declarations passed
// opaquely to the model client on every request.
func (r *Registry) Declarations() []*genai.Tool {
	if len(r.defs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(r.defs))
	for _, d := range r.defs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  SchemaParameters(d.InputSchema),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}
