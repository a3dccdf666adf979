package display

import (
	"fmt"
	"io"
	"time"
)

// Status is a tool-call lifecycle stage.
type Status string

const (
	StatusStart   Status = "start"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Display is the human-facing result of a tool call. It is advisory
// only and independent of the machine-facing parts fed back to the
// model. Implementations: Text, FileDiff.
type Display interface {
	isDisplay()
}

// Text is a plain string result display.
type Text string

func (Text) isDisplay() {}

// FileDiff is a structured file-change result display.
type FileDiff struct {
	FileName string
	Diff     string
}

func (FileDiff) isDisplay() {}

// Reporter emits timestamped tool-call lifecycle lines. It never
// returns an error: observability output must not break the run.
type Reporter struct {
	out io.Writer
	now func() time.Time
}

// NewReporter writes lifecycle lines to out using wall-clock time.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, now: time.Now}
}

func (r *Reporter) stamp(glyph string) string {
	return fmt.Sprintf("[%s] %s", r.now().Format("15:04:05"), glyph)
}

// Report renders one lifecycle event. Unrecognized statuses degrade to
// an "unknown status" banner rather than failing.
func (r *Reporter) Report(toolName string, args map[string]any, status Status, result Display, errMsg string) {
	switch status {
	case StatusStart:
		fmt.Fprintf(r.out, "%s %s %s\n", r.stamp("⚙"), toolName, FormatArgs(args))
	case StatusSuccess:
		switch res := result.(type) {
		case Text:
			if res != "" {
				fmt.Fprintf(r.out, "%s %s completed:\n%s\n", r.stamp("✔"), toolName, string(res))
				return
			}
			fmt.Fprintf(r.out, "%s %s completed, no output\n", r.stamp("✔"), toolName)
		case FileDiff:
			fmt.Fprintf(r.out, "%s %s updated %s:\n%s\n", r.stamp("✔"), toolName, res.FileName, res.Diff)
		default:
			fmt.Fprintf(r.out, "%s %s completed, no output\n", r.stamp("✔"), toolName)
		}
	case StatusError:
		fmt.Fprintf(r.out, "%s %s failed: %s\n", r.stamp("✖"), toolName, errMsg)
	default:
		fmt.Fprintf(r.out, "%s %s unknown status: %s\n", r.stamp("?"), toolName, status)
	}
}

// Start announces a tool invocation with its formatted arguments.
func (r *Reporter) Start(toolName string, args map[string]any) {
	r.Report(toolName, args, StatusStart, nil, "")
}

// Success reports a completed call with its result display.
func (r *Reporter) Success(toolName string, result Display) {
	r.Report(toolName, nil, StatusSuccess, result, "")
}

// Error reports a failed call.
func (r *Reporter) Error(toolName string, errMsg string) {
	r.Report(toolName, nil, StatusError, nil, errMsg)
}
