package utils

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
