package tools_test

import (
	"os"
	"path/filepath"
	"testing"
)

// sandboxDir is the scratch tree every tool test runs against. TestMain
// points AGT_READ_ROOT and AGT_WRITE_ROOT at it so the builtin tools
// resolve paths the same way they do under a real agent run.
var sandboxDir string

func TestMain(m *testing.M) {
	os.Exit(runWithSandbox(m))
}

func runWithSandbox(m *testing.M) int {
	dir, err := os.MkdirTemp("", "headless-agent-tools-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	os.Setenv("AGT_READ_ROOT", dir)
	os.Setenv("AGT_WRITE_ROOT", dir)
	sandboxDir = dir
	return m.Run()
}

// rel scopes a path to the calling test's own subtree of the sandbox
// so cases cannot collide.
func rel(t *testing.T, elems ...string) string {
	return filepath.Join(append([]string{t.Name()}, elems...)...)
}
