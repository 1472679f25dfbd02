package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// ProgramName returns the base name of argv0, without the .exe suffix on
// Windows. An empty argv0 yields an empty name.
func ProgramName(argv0 string) string {
	if argv0 == "" {
		return ""
	}
	name := filepath.Base(argv0)
	if runtime.GOOS == "windows" {
		name = strings.TrimSuffix(name, ".exe")
	}
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
