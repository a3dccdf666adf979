package tools_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petasbytes/headless-agent/tools"
)

func readFile(t *testing.T, in tools.ReadFileInput) (tools.Output, error) {
	t.Helper()
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal input: %v", err)
	}
	return tools.ReadFileDefinition.Function(context.Background(), b)
}

func TestReadFile_Happy(t *testing.T) {
	dir := filepath.Join(sandboxDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	out, err := readFile(t, tools.ReadFileInput{Path: rel(t, "a.txt")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Content != "hi" {
		t.Fatalf("got %q", out.Content)
	}
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := readFile(t, tools.ReadFileInput{Path: rel(t, "does-not-exist.txt")})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestReadFile_DirectoryPath_Error(t *testing.T) {
	sub := filepath.Join(sandboxDir, rel(t, "sub"))
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	_, err := readFile(t, tools.ReadFileInput{Path: rel(t, "sub")})
	if err == nil {
		t.Fatal("expected error for directory path")
	}
	if !strings.Contains(err.Error(), "ERR_NOT_A_FILE") {
		t.Fatalf("expected ERR_NOT_A_FILE, got: %v", err)
	}
}

func TestReadFile_DenylistReadsAgent(t *testing.T) {
	if err := os.MkdirAll(filepath.Join(sandboxDir, ".agent"), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sandboxDir, ".agent", "events.jsonl"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	_, err := readFile(t, tools.ReadFileInput{Path: ".agent/events.jsonl"})
	if err == nil {
		t.Fatal("expected deny for .agent/")
	}
	if !strings.Contains(err.Error(), "ERR_DENIED_READ") {
		t.Fatalf("expected ERR_DENIED_READ, got: %v", err)
	}
}

func TestReadFile_Paging(t *testing.T) {
	dir := filepath.Join(sandboxDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = strings.Repeat("x", i+1)
	}
	if err := os.WriteFile(filepath.Join(dir, "big.txt"), []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	// Middle page carries a truncation sentinel since lines remain.
	out, err := readFile(t, tools.ReadFileInput{Path: rel(t, "big.txt"), Offset: 2, Limit: 3})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(out.Content, "xxx\nxxxx\nxxxxx") {
		t.Fatalf("unexpected page: %q", out.Content)
	}
	if !strings.Contains(out.Content, "truncated") {
		t.Fatalf("missing truncation sentinel: %q", out.Content)
	}

	// Final page has no sentinel.
	out, err = readFile(t, tools.ReadFileInput{Path: rel(t, "big.txt"), Offset: 8, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if strings.Contains(out.Content, "truncated") {
		t.Fatalf("unexpected sentinel on final page: %q", out.Content)
	}

	// Offset past the end yields only the sentinel.
	out, err = readFile(t, tools.ReadFileInput{Path: rel(t, "big.txt"), Offset: 100})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(out.Content, "truncated") {
		t.Fatalf("expected sentinel for out-of-range offset: %q", out.Content)
	}
}

func TestReadFile_LongLineClamped(t *testing.T) {
	dir := filepath.Join(sandboxDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	long := strings.Repeat("y", 5000)
	if err := os.WriteFile(filepath.Join(dir, "long.txt"), []byte(long), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	out, err := readFile(t, tools.ReadFileInput{Path: rel(t, "long.txt")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Content) >= 5000 {
		t.Fatalf("line not clamped: %d bytes", len(out.Content))
	}
	if !strings.Contains(out.Content, "truncated") {
		t.Fatalf("missing truncation sentinel after clamp: %q", out.Content)
	}
}
