// Package configs loads the optional gmprime settings file.
//
// Settings are stored in TOML:
//
//	verbosity = 3    # debug threshold, 0 through 20
//	calc = false     # write calc(1) verification statements to stdout
//	progress = true  # show a spinner on stderr while testing
//	color = true     # colorize diagnostic tags
//
// Every key is optional. Unknown keys are rejected so a misspelled key
// does not silently fall back to its default. Values are checked with
// go-playground/validator struct tags.
//
// Command line flags override whatever the file sets.
package configs
