// Package ui provides the color formatters for diagnostic tags.
//
// The reporter in internal/logging tags its lines with "Warning:", "FATAL:"
// and "errno[n]:". When colors are enabled those tags are colorized; the
// text itself never changes, so output stays byte-identical once colors
// are stripped.
//
// Colors are disabled when:
//   - NO_COLOR environment variable is set (any value)
//   - Terminal doesn't support colors (TERM=dumb, not a TTY)
package ui
