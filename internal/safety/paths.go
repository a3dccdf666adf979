// Package safety provides helpers for sandboxed file access.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolError is a machine-readable error body surfaced back to the model as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool result payloads small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// InitSandboxRoot resolves absolute sandbox roots for read and write
// operations. An empty readRoot defaults to the working directory; an
// empty writeRoot defaults to readRoot.
func InitSandboxRoot(readRoot, writeRoot string) (absRead string, absWrite string, err error) {
	if readRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getwd: %w", err)
		}
		readRoot = cwd
	}
	if writeRoot == "" {
		writeRoot = readRoot
	}

	readRoot, err = filepath.Abs(readRoot)
	if err != nil {
		return "", "", fmt.Errorf("abs(readRoot): %w", err)
	}
	writeRoot, err = filepath.Abs(writeRoot)
	if err != nil {
		return "", "", fmt.Errorf("abs(writeRoot): %w", err)
	}

	// Resolve symlinks where possible so future boundary checks are
	// reliable; fall back to the absolute path when resolution fails
	// (e.g. the root does not exist yet).
	if r, err := filepath.EvalSymlinks(readRoot); err == nil {
		readRoot = r
	}
	if w, err := filepath.EvalSymlinks(writeRoot); err == nil {
		writeRoot = w
	}
	return readRoot, writeRoot, nil
}

// resolveInRoot turns relPath into an absolute candidate under absRoot
// and returns the sandbox-relative slash form for policy checks.
func resolveInRoot(absRoot, relPath string) (candidate, rel string, err error) {
	if filepath.IsAbs(relPath) {
		return "", "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "absolute paths are not allowed"}
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == "" {
		cleaned = "."
	}
	candidate = filepath.Join(absRoot, cleaned)

	// Best-effort symlink resolution: resolve the whole candidate when
	// it exists; otherwise resolve the deepest existing ancestor and
	// rejoin the final segment, which reveals escapes via a symlinked
	// parent even before the leaf file exists.
	if resolved, rerr := filepath.EvalSymlinks(candidate); rerr == nil {
		candidate = resolved
	} else if resolvedParent, perr := filepath.EvalSymlinks(filepath.Dir(candidate)); perr == nil {
		candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
	}

	r, rerr := filepath.Rel(absRoot, candidate)
	if rerr != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) || filepath.IsAbs(r) {
		return "", "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(r), nil
}

func underDir(rel, dir string) bool {
	return rel == dir || strings.HasPrefix(rel, dir+"/")
}

// ValidateRelPath resolves relPath against absRoot and returns an
// absolute path inside the sandbox. It rejects absolute inputs, parent
// traversal, and symlink escapes, and denies reads under .git/ and
// .agent/. On violation, returns a ToolError.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveInRoot(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDir(rel, ".git") || underDir(rel, ".agent") {
		return "", ToolError{Code: "ERR_DENIED_READ", Message: "reads under .git/ or .agent/ are not allowed"}
	}
	return candidate, nil
}

// ValidateWritePath resolves relPath against absRoot for writing. In
// addition to the read-side boundary rules, it denies writes under
// .git/ and .agent/ and to module metadata files (go.mod, go.sum).
func ValidateWritePath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveInRoot(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDir(rel, ".git") || underDir(rel, ".agent") {
		return "", ToolError{Code: "ERR_DENIED_WRITE", Message: "writes under .git/ or .agent/ are not allowed"}
	}
	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}
	if base == "go.mod" || base == "go.sum" {
		return "", ToolError{Code: "ERR_DENIED_WRITE", Message: "writes to go.mod or go.sum are not allowed"}
	}
	return candidate, nil
}
