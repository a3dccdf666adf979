package fsops

import (
	"os"

	"github.com/petasbytes/headless-agent/internal/safety"
)

// ReadFile reads a file addressed by a relative path under the sandbox
// read root. Policy violations surface as safety.ToolError.
func ReadFile(relPath string) (string, error) {
	readRoot, _, err := getRoots()
	if err != nil {
		return "", err
	}

	absPath, err := safety.ValidateRelPath(readRoot, relPath)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", safety.ToolError{Code: "ERR_NOT_A_FILE", Message: "path is a directory"}
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
