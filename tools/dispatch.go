package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/petasbytes/headless-agent/internal/display"
	"github.com/petasbytes/headless-agent/internal/genai"
	"github.com/petasbytes/headless-agent/internal/telemetry"
)

// CallRequest is one model-requested tool invocation.
type CallRequest struct {
	CallID            string
	Name              string
	Args              map[string]any
	IsClientInitiated bool
	PromptID          string
}

// CallResponse is the structured outcome of one invocation. Exactly one
// of Error or a successful result drives reporting; ResponseParts are
// present in both cases so the model always sees an answer for the
// call.
type CallResponse struct {
	Error         error
	ResultDisplay display.Display
	ResponseParts []*genai.Part
}

// NotFoundError marks a call whose tool is absent from the registry.
// The loop treats this as recoverable: the model may retry differently.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found in registry", e.Name)
}

// Execute runs one call sequentially and never panics: every failure is
// reported through the response's Error field. Cancellation of ctx is
// the handler's responsibility to observe; an in-flight handler is not
// preempted here.
func Execute(ctx context.Context, reg *Registry, req CallRequest) CallResponse {
	start := time.Now()

	input, err := json.Marshal(req.Args)
	if err != nil {
		err = fmt.Errorf("encode args for %s: %w", req.Name, err)
		emitToolExec(req, start, 0, 0, err.Error())
		return errorResponse(req, err)
	}

	def, ok := reg.Lookup(req.Name)
	if !ok {
		nf := &NotFoundError{Name: req.Name}
		emitToolExec(req, start, len(input), 0, "tool not found")
		return errorResponse(req, nf)
	}

	out, err := def.Function(ctx, input)
	if err != nil {
		// Generic error marker in telemetry to avoid leaking payloads;
		// the detailed message still reaches the model and the user.
		emitToolExec(req, start, len(input), 0, "tool error")
		return errorResponse(req, err)
	}

	emitToolExec(req, start, len(input), len(out.Content), "")

	disp := out.Display
	if disp == nil && out.Content != "" {
		disp = display.Text(out.Content)
	}
	return CallResponse{
		ResultDisplay: disp,
		ResponseParts: []*genai.Part{
			genai.NewFunctionResponsePart(req.CallID, req.Name, map[string]any{"output": out.Content}),
		},
	}
}

func errorResponse(req CallRequest, err error) CallResponse {
	return CallResponse{
		Error: err,
		ResponseParts: []*genai.Part{
			genai.NewFunctionResponsePart(req.CallID, req.Name, map[string]any{"error": err.Error()}),
		},
	}
}

func emitToolExec(req CallRequest, start time.Time, inSize, outSize int, errStr string) {
	fields := map[string]any{
		"tool_name":   req.Name,
		"call_id":     req.CallID,
		"prompt_id":   req.PromptID,
		"duration_ms": time.Since(start).Milliseconds(),
		"input_size":  inSize,
		"output_size": outSize,
	}
	if errStr != "" {
		fields["error"] = errStr
	} else {
		fields["error"] = nil
	}
	telemetry.Emit("tool_exec", fields)
}
