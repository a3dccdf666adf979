// Package telemetry emits machine-readable JSONL events for one agent
// run and owns the flush/shutdown lifecycle of the event sink.
package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Events are appended to .agent/events.jsonl when AGT_OBSERVE_JSON=1.
const (
	sinkDir  = ".agent"
	sinkFile = "events.jsonl"
)

var (
	mu          sync.Mutex
	initialized bool
	file        *os.File
	writer      *bufio.Writer
)

func observeEnabled() bool {
	return os.Getenv("AGT_OBSERVE_JSON") == "1"
}

// Initialized reports whether the event sink is currently open.
func Initialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}

// ensureSink lazily opens the sink on first emit. Callers hold mu.
func ensureSink() error {
	if initialized {
		return nil
	}
	if err := os.MkdirAll(sinkDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", sinkDir, err)
	}
	path := filepath.Join(sinkDir, sinkFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	file = f
	writer = bufio.NewWriter(f)
	initialized = true
	return nil
}

// Emit writes a single JSON line when AGT_OBSERVE_JSON=1. It augments
// fields with RFC3339Nano time and the event name, and never fails the
// caller: sink problems are reported on stderr and swallowed.
func Emit(name string, fields map[string]any) {
	if !observeEnabled() {
		return
	}

	// Shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}

	mu.Lock()
	defer mu.Unlock()
	if err := ensureSink(); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: %v\n", err)
		return
	}
	if _, err := writer.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write: %v\n", err)
	}
}

// Flush forces buffered events to disk without closing the sink.
func Flush() error {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return nil
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush events: %w", err)
	}
	return nil
}

// Shutdown flushes and closes the event sink. Calling it when the sink
// was never opened, or calling it again after it ran, is a no-op. A run
// must invoke it before process exit when Initialized() reports true.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return nil
	}
	var err error
	if ferr := writer.Flush(); ferr != nil {
		err = fmt.Errorf("flush events: %w", ferr)
	}
	if cerr := file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close events: %w", cerr)
	}
	initialized = false
	writer = nil
	file = nil
	return err
}
