// Package fsops implements sandboxed filesystem operations for tools.
package fsops

import (
	"os"
	"sync"

	"github.com/petasbytes/headless-agent/internal/safety"
)

var (
	rootsMu      sync.Mutex
	rootsSet     bool
	absReadRoot  string
	absWriteRoot string
	initRootsErr error
)

// SetRoots pins the sandbox roots explicitly (normally from config).
// It overrides any roots resolved earlier from the environment.
func SetRoots(readRoot, writeRoot string) error {
	rootsMu.Lock()
	defer rootsMu.Unlock()
	absReadRoot, absWriteRoot, initRootsErr = safety.InitSandboxRoot(readRoot, writeRoot)
	rootsSet = initRootsErr == nil
	return initRootsErr
}

// getRoots returns the absolute read/write roots, resolving them from
// AGT_READ_ROOT / AGT_WRITE_ROOT on first use when SetRoots was not
// called.
func getRoots() (string, string, error) {
	rootsMu.Lock()
	defer rootsMu.Unlock()
	if !rootsSet {
		read := os.Getenv("AGT_READ_ROOT")
		write := os.Getenv("AGT_WRITE_ROOT")
		absReadRoot, absWriteRoot, initRootsErr = safety.InitSandboxRoot(read, write)
		rootsSet = initRootsErr == nil
	}
	return absReadRoot, absWriteRoot, initRootsErr
}
