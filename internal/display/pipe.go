package display

import (
	"errors"
	"io"
	"sync"
	"syscall"
)

// GuardedWriter wraps the process output stream and treats a broken
// pipe as benign: once the consumer hangs up, further writes are
// silently discarded and Broken reports true so the run can stop
// cleanly instead of failing.
type GuardedWriter struct {
	mu     sync.Mutex
	w      io.Writer
	broken bool
}

// NewGuardedWriter wraps w.
func NewGuardedWriter(w io.Writer) *GuardedWriter {
	return &GuardedWriter{w: w}
}

func (g *GuardedWriter) Write(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.broken {
		return len(p), nil
	}
	n, err := g.w.Write(p)
	if err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)) {
		g.broken = true
		return len(p), nil
	}
	return n, err
}

// Broken reports whether the underlying stream has hung up.
func (g *GuardedWriter) Broken() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.broken
}
