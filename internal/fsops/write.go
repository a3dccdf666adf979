package fsops

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/headless-agent/internal/safety"
)

// WriteFile writes content to a file addressed by a relative path under
// the sandbox write root, creating parent directories as needed.
func WriteFile(relPath, content string) error {
	_, writeRoot, err := getRoots()
	if err != nil {
		return err
	}

	absPath, err := safety.ValidateWritePath(writeRoot, relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(absPath, []byte(content), 0o644)
}
