package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/PolarWolf314/gmprime/internal/riesel"

	"github.com/briandowns/spinner"
)

// startProgress starts a spinner on f and returns the progress callback for
// riesel.Test and a function that stops the spinner. The suffix is rewritten
// only when the completed percentage changes.
//
// The stop function must be called before any diagnostic is written, since
// fatal diagnostics exit without running deferred calls.
func startProgress(f *os.File, cand riesel.Candidate) (func(i, n uint64), func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(f))
	s.Suffix = fmt.Sprintf(" testing %s", cand)

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")
	s.Start()

	last := -1
	progress := func(i, n uint64) {
		pct := progressPercent(i, n)
		if pct == last {
			return
		}
		last = pct
		s.Lock()
		s.Suffix = fmt.Sprintf(" testing %s: u[%d] of %d (%d%%)", cand, i, n, pct)
		s.Unlock()
	}

	stop := func() {
		s.FinalMSG = ""
		s.Stop()
	}
	return progress, stop
}

// progressPercent returns how much of the sequence u[2]..u[n] is done.
func progressPercent(i, n uint64) int {
	if n <= 2 || i >= n {
		return 100
	}
	if i <= 2 {
		return 0
	}
	return int(float64(i-2) * 100 / float64(n-2))
}
