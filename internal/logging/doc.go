// Package logger provides the diagnostic reporter used by gmprime.
//
// Every message goes to a single diagnostic stream (stderr by default) as
// direct, unbuffered writes. The reporter never fails its caller: bad input
// is replaced with a visible placeholder and announced with a warning, and
// a failed write is reported inline before the call carries on.
//
// # Severities
//
//	Reporter.Msgf()             // always shown, no prefix
//	Reporter.Dbgf()             // shown when level <= Config.Verbosity
//	Reporter.Warnf()            // "Warning: name: ..."
//	Reporter.WarnErrnof()       // Warnf plus an "errno[code]: text" line
//	Reporter.Fatalf()           // "FATAL: name: ...", then exits
//	Reporter.FatalErrnof()      // Fatalf plus the errno line when code != 0
//	Reporter.UsageFatalf()      // Fatalf plus the usage trailer
//	Reporter.UsageFatalErrnof() // UsageFatalf plus the errno line
//
// # Exit Codes
//
// The terminating methods accept exit codes in [0, 255]. Anything outside
// that range is replaced with ForcedExit (255) after two warnings. Codes
// 250 through 254 are reserved for internal errors of this package and
// should not be used by callers.
//
// # Usage
//
// Build one reporter at startup and hand it down:
//
//	r := logger.New(logger.Config{Verbosity: 3, Program: "gmprime", Version: "1.0"})
//	r.Dbgf(logger.DbgMed, "testing %d*2^%d-1", h, n)
//	if err != nil {
//	    r.FatalErrnof(10, err, "loadSettings", "cannot read %s", path)
//	}
package logger
