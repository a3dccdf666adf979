// Package diag provides side-effect-free startup advisory probes.
// Warnings are informational only and never interact with the run.
package diag

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// minGoMinor is the oldest Go minor release this module is built and
// tested against.
const minGoMinor = 24

// StartupWarnings returns all advisory warnings for the current
// environment. It never fails; probes that cannot run produce no
// warning.
func StartupWarnings() []string {
	var warnings []string
	if w, ok := homeDirWarning(os.Getwd, os.UserHomeDir); ok {
		warnings = append(warnings, w)
	}
	if w, ok := runtimeWarning(runtime.Version()); ok {
		warnings = append(warnings, w)
	}
	return warnings
}

func homeDirWarning(getwd func() (string, error), userHome func() (string, error)) (string, bool) {
	cwd, err := getwd()
	if err != nil {
		return "", false
	}
	home, err := userHome()
	if err != nil {
		return "", false
	}
	if cwd == home {
		return "You are running the agent in your home directory. It is recommended to run in a project-specific directory.", true
	}
	return "", false
}

// runtimeWarning flags binaries built with a Go release older than the
// module targets. Development versions ("devel ...") are skipped.
func runtimeWarning(version string) (string, bool) {
	minor, ok := goMinor(version)
	if !ok {
		return "", false
	}
	if minor < minGoMinor {
		return fmt.Sprintf("This binary was built with %s; Go 1.%d or newer is recommended.", version, minGoMinor), true
	}
	return "", false
}

func goMinor(version string) (int, bool) {
	if !strings.HasPrefix(version, "go1.") {
		return 0, false
	}
	rest := version[len("go1."):]
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		rest = rest[:i]
	}
	minor, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return minor, true
}
