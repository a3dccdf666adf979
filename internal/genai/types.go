package genai

// Wire types for the Gemini v1beta generateContent surface. Only the
// fields this agent consumes are modelled; unknown fields are ignored
// on decode.

// Part is one content fragment within a Content. Exactly one of the
// payload fields is normally set; absent fields decode to zero values.
type Part struct {
	Text             string            `json:"text,omitempty"`
	Thought          bool              `json:"thought,omitempty"`
	InlineData       *Blob             `json:"inlineData,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// Blob carries base64-encoded binary data.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// FunctionCall is a model-requested tool invocation. ID may be empty;
// callers that need correlation must synthesize one.
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse feeds a tool result back to the model.
type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Content is one conversation turn: a role plus ordered parts.
type Content struct {
	Role  string  `json:"role,omitempty"`
	Parts []*Part `json:"parts"`
}

// Candidate is one completion within a response.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// GenerateContentResponse is one streamed response chunk.
type GenerateContentResponse struct {
	Candidates []*Candidate `json:"candidates,omitempty"`
}

// FunctionCalls returns the function calls carried by the first
// candidate, in part order. Nil when the chunk carries none.
func (r *GenerateContentResponse) FunctionCalls() []*FunctionCall {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return nil
	}
	var calls []*FunctionCall
	for _, p := range r.Candidates[0].Content.Parts {
		if p != nil && p.FunctionCall != nil {
			calls = append(calls, p.FunctionCall)
		}
	}
	return calls
}

// FunctionDeclaration describes one callable tool to the model.
type FunctionDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

// Tool wraps function declarations for the request payload.
type Tool struct {
	FunctionDeclarations []*FunctionDeclaration `json:"functionDeclarations,omitempty"`
}

// StreamEvent is one pull from a streamed response: either a chunk or
// a terminal error, never both.
type StreamEvent struct {
	Response *GenerateContentResponse
	Err      error
}

// NewTextPart returns a plain text part.
func NewTextPart(text string) *Part { return &Part{Text: text} }

// NewFunctionResponsePart wraps a tool result for the next user turn.
func NewFunctionResponsePart(id, name string, response map[string]any) *Part {
	return &Part{FunctionResponse: &FunctionResponse{ID: id, Name: name, Response: response}}
}

// NewUserContent builds a user-role turn from parts.
func NewUserContent(parts ...*Part) *Content {
	return &Content{Role: "user", Parts: parts}
}

// NewModelContent builds a model-role turn from parts.
func NewModelContent(parts ...*Part) *Content {
	return &Content{Role: "model", Parts: parts}
}
