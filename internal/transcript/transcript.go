// Package transcript records a write-only artifact of one run. It is
// never read back: the agent holds no conversation state across
// invocations, so the file exists purely for later human inspection.
package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is one recorded line of a run.
type Entry struct {
	Time time.Time `json:"time"`
	Role string    `json:"role"` // "user", "model", or "tool"
	Text string    `json:"text"`
}

// Recorder accumulates entries in memory until Save.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewRecorder returns an empty recorder using wall-clock time.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Add appends one entry.
func (r *Recorder) Add(role, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Time: r.now().UTC(), Role: role, Text: text})
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Save writes the transcript as indented JSON, creating the parent
// directory as needed.
func (r *Recorder) Save(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := json.MarshalIndent(r.entries, "", " ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}
