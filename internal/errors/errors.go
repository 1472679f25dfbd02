package errors

import "errors"

// Process exit codes.
const (
	ExitPrime      = 0
	ExitComposite  = 1
	ExitCannotTest = 2
	ExitReserved3  = 3
	ExitSignal     = 7
	ExitHelp       = 8
	ExitUsage      = 9

	// ExitConfig is used when the settings file cannot be read or is invalid.
	ExitConfig = 10
	// ExitInternal is used for failures inside the Lucas sequence code.
	ExitInternal = 11
)

// Argument errors indicate h or n are outside the domain of the test.
var (
	// ErrInvalidH indicates h is zero.
	ErrInvalidH = errors.New("h must be an integer > 0")

	// ErrInvalidN indicates n is zero.
	ErrInvalidN = errors.New("n must be an integer > 0")

	// ErrCannotTest indicates h >= 2^n, where the Riesel test does not apply.
	ErrCannotTest = errors.New("h must be < 2^n")
)

// Sequence errors indicate a broken precondition inside the Lucas code.
var (
	// ErrEvenH indicates an even h reached code that requires it odd.
	ErrEvenH = errors.New("h must be odd")

	// ErrInvalidV1 indicates a Lucas V(1) value below 3.
	ErrInvalidV1 = errors.New("v1 must be >= 3")
)

// Run errors.
var (
	// ErrInterrupted indicates the test was cancelled before it finished.
	ErrInterrupted = errors.New("interrupted")

	// ErrInvalidConfig indicates the settings file failed validation.
	ErrInvalidConfig = errors.New("settings are invalid")
)

// ExitCode returns the process exit code for err. A nil error maps to 0 and
// unknown errors map to ExitInternal.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidH), errors.Is(err, ErrInvalidN):
		return ExitUsage
	case errors.Is(err, ErrCannotTest):
		return ExitCannotTest
	case errors.Is(err, ErrInterrupted):
		return ExitSignal
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfig
	default:
		return ExitInternal
	}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
