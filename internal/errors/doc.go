// Package errors provides typed error values and exit codes for gmprime.
//
// Internal packages return these sentinels (usually wrapped with
// fmt.Errorf and %w). The cmd layer maps them to process exit codes with
// ExitCode and reports them through the reporter in internal/logging.
//
// # Exit Codes
//
//	0        h*2^n-1 is prime
//	1        h*2^n-1 is composite
//	2        h*2^n-1 cannot be tested (h >= 2^n)
//	3        reserved for test problems that are not internal failures
//	7        interrupted by a signal
//	8        help requested
//	9        invalid, incompatible or missing flags and arguments
//	10-39    gmprime internal errors
//	100-249  reserved for future use
//	250-254  reserved for internal errors of internal/logging
//	255      forced exit, see logger.ForcedExit
//
// # Usage
//
//	v1, err := riesel.GenV1(h, value)
//	if errors.Is(err, kerrors.ErrEvenH) {
//	    // caller forgot to normalize h
//	}
package errors
