package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/petasbytes/headless-agent/internal/display"
	"github.com/petasbytes/headless-agent/internal/genai"
	"github.com/petasbytes/headless-agent/internal/provider"
	"github.com/petasbytes/headless-agent/internal/telemetry"
	"github.com/petasbytes/headless-agent/internal/transcript"
	"github.com/petasbytes/headless-agent/tools"
)

// ToolFailedError marks a tool failure that must end the run with a
// non-zero exit status. Tool-not-found is never wrapped in it.
type ToolFailedError struct {
	Tool string
	Err  error
}

func (e *ToolFailedError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolFailedError) Unwrap() error { return e.Err }

// Runner owns the conversation for one invocation. It holds no state
// across invocations.
type Runner struct {
	Chat     provider.ChatSession
	Registry *tools.Registry
	Reporter *display.Reporter
	Stdout   io.Writer
	Stderr   io.Writer
	MaxTurns int // 0 = unlimited

	// Transcript, when non-nil, records the run for later inspection.
	Transcript *transcript.Recorder
}

// New wires a runner writing model text and tool lifecycle lines to
// stdout and diagnostics to stderr.
func New(chat provider.ChatSession, reg *tools.Registry, maxTurns int, stdout, stderr io.Writer) *Runner {
	return &Runner{
		Chat:     chat,
		Registry: reg,
		Reporter: display.NewReporter(stdout),
		Stdout:   stdout,
		Stderr:   stderr,
		MaxTurns: maxTurns,
	}
}

// sessionState tracks the turn budget for one invocation.
type sessionState struct {
	turnCount int
	maxTurns  int
}

// Run executes the turn loop for one input. It returns nil on
// completion, cancellation, or turn-budget exhaustion; any returned
// error is fatal for the process.
func (r *Runner) Run(ctx context.Context, input, promptID string) error {
	ctx = telemetry.WithPromptID(ctx, promptID)
	telemetry.Emit("run_start", map[string]any{"prompt_id": promptID})
	telemetry.EmitLocalFeatures(ctx, input)
	r.record("user", input)

	decls := r.Registry.Declarations()
	parts := []*genai.Part{genai.NewTextPart(input)}
	state := sessionState{maxTurns: r.MaxTurns}

	for {
		state.turnCount++
		if state.maxTurns > 0 && state.turnCount > state.maxTurns {
			fmt.Fprintln(r.Stderr, "Reached max session turns for this run; stopping.")
			r.emitRunEnd(promptID, state.turnCount, "turn_limit")
			return nil
		}
		telemetry.Emit("turn_start", map[string]any{"prompt_id": promptID, "turn": state.turnCount})

		calls, err := r.streamTurn(ctx, promptID, parts, decls)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				fmt.Fprintln(r.Stderr, "Operation cancelled.")
				r.emitRunEnd(promptID, state.turnCount, "cancelled")
				return nil
			}
			r.emitRunEnd(promptID, state.turnCount, "stream_error")
			return err
		}
		if r.outputBroken() {
			r.emitRunEnd(promptID, state.turnCount, "broken_pipe")
			return nil
		}

		if len(calls) == 0 {
			fmt.Fprintln(r.Stdout)
			r.emitRunEnd(promptID, state.turnCount, "completed")
			return nil
		}

		resultParts, err := r.dispatchCalls(ctx, promptID, calls)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				fmt.Fprintln(r.Stderr, "Operation cancelled.")
				r.emitRunEnd(promptID, state.turnCount, "cancelled")
				return nil
			}
			r.emitRunEnd(promptID, state.turnCount, "tool_error")
			return err
		}
		// Synthesized tool results become the next user turn.
		parts = resultParts
	}
}

// streamTurn consumes one streamed response, writing text through as it
// arrives and accumulating requested calls across the whole stream.
// Cancellation is checked once per chunk, before any processing.
func (r *Runner) streamTurn(ctx context.Context, promptID string, parts []*genai.Part, decls []*genai.Tool) ([]*genai.FunctionCall, error) {
	events := r.Chat.SendMessageStream(ctx, promptID, parts, decls)
	var calls []*genai.FunctionCall
	var text strings.Builder
	for ev := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ev.Err != nil {
			return nil, fmt.Errorf("model stream: %w", ev.Err)
		}
		if chunkText, ok := ExtractText(ev.Response); ok && chunkText != "" {
			fmt.Fprint(r.Stdout, chunkText)
			text.WriteString(chunkText)
		}
		calls = append(calls, ev.Response.FunctionCalls()...)
	}
	// The producer may have closed the stream between the last chunk
	// and a late cancellation; never start dispatch once cancelled.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text.Len() > 0 {
		r.record("model", text.String())
	}
	return calls, nil
}

// dispatchCalls executes accumulated calls strictly in arrival order.
// A missing tool is reported and skipped; any other tool error aborts
// the run before later calls are started.
func (r *Runner) dispatchCalls(ctx context.Context, promptID string, calls []*genai.FunctionCall) ([]*genai.Part, error) {
	var resultParts []*genai.Part
	for _, fc := range calls {
		// Cancellation between calls abandons the rest of the batch.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		callID := fc.ID
		if callID == "" {
			callID = fmt.Sprintf("%s-%d", fc.Name, time.Now().UnixNano())
		}
		req := tools.CallRequest{
			CallID:   callID,
			Name:     fc.Name,
			Args:     fc.Args,
			PromptID: promptID,
		}

		r.Reporter.Start(fc.Name, fc.Args)
		resp := tools.Execute(ctx, r.Registry, req)

		if resp.Error != nil {
			msg := resp.Error.Error()
			if t, ok := resp.ResultDisplay.(display.Text); ok && t != "" {
				msg = string(t)
			}
			r.Reporter.Error(fc.Name, msg)
			fmt.Fprintf(r.Stderr, "Error executing tool %s: %s\n", fc.Name, msg)
			r.record("tool", fmt.Sprintf("%s: error: %s", fc.Name, msg))

			var nf *tools.NotFoundError
			if !errors.As(resp.Error, &nf) {
				return nil, &ToolFailedError{Tool: fc.Name, Err: resp.Error}
			}
			// Unknown tool: recoverable, the model may retry another way.
		} else {
			r.Reporter.Success(fc.Name, resp.ResultDisplay)
			r.record("tool", fmt.Sprintf("%s: ok", fc.Name))
		}

		resultParts = append(resultParts, resp.ResponseParts...)
	}
	return resultParts, nil
}

func (r *Runner) outputBroken() bool {
	gw, ok := r.Stdout.(*display.GuardedWriter)
	return ok && gw.Broken()
}

func (r *Runner) record(role, text string) {
	if r.Transcript != nil {
		r.Transcript.Add(role, text)
	}
}

func (r *Runner) emitRunEnd(promptID string, turns int, reason string) {
	telemetry.Emit("run_end", map[string]any{
		"prompt_id": promptID,
		"turns":     turns,
		"reason":    reason,
	})
}
