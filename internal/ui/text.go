package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies a color to text. With colors off the text is returned
// unchanged.
type Formatter struct {
	color *color.Color
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return text
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor returns true if color output should be disabled.
func noColor() bool {
	// https://no-color.org/
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Formatters for the reporter tags. None of them decorate text when colors
// are off.
var (
	// Warning formats the "Warning:" tag. Yellow.
	Warning = Formatter{color.New(color.FgYellow)}

	// Fatal formats the "FATAL:" tag. Bold red.
	Fatal = Formatter{color.New(color.FgRed, color.Bold)}

	// Errno formats the "errno[n]:" tag. Magenta.
	Errno = Formatter{color.New(color.FgMagenta)}

	// Verdict formats the prime/composite result on stdout. Cyan.
	Verdict = Formatter{color.New(color.FgCyan)}
)
