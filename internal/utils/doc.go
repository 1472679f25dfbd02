// Package utils provides small helpers shared by the gmprime command.
//
// # System Utilities
//
//   - ProgramName: the name diagnostics use for the running binary
//
// # String Utilities
//
//   - ParseUint: strict parsing of the h and n arguments
//
// # Terminal Utilities
//
//   - IsTerminal: checks if a file is attached to a terminal
package utils
