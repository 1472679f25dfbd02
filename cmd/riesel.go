package cmd

import (
	"fmt"
	"io"
	"os"

	kerrors "github.com/PolarWolf314/gmprime/internal/errors"
	logger "github.com/PolarWolf314/gmprime/internal/logging"
	"github.com/PolarWolf314/gmprime/internal/riesel"
	"github.com/PolarWolf314/gmprime/internal/ui"
	"github.com/PolarWolf314/gmprime/internal/utils"

	"github.com/spf13/cobra"
)

// runTest parses h and n, runs the test and writes the verdict.
func runTest(c *cobra.Command, args []string) error {
	ctx := c.Context()
	rep := logger.FromContext(ctx)
	stdout, stderr := streams(ctx)

	h, err := utils.ParseUint("h", args[0])
	if err != nil {
		return usageError(err)
	}
	n, err := utils.ParseUint("n", args[1])
	if err != nil {
		return usageError(err)
	}
	cand, err := riesel.NewCandidate(h, n)
	if err != nil {
		return usageError(err)
	}
	rep.Dbgf(logger.DbgMed, "parsed h: %d n: %d", h, n)

	opts := riesel.Options{Trace: rep}
	if settings.Calc {
		opts.Calc = stdout
	}

	stop := func() {}
	if settings.Progress {
		if f, ok := stderr.(*os.File); ok && settings.Verbosity == 0 && utils.IsTerminal(f) {
			var progress func(i, n uint64)
			progress, stop = startProgress(f, cand)
			opts.Progress = progress
		} else {
			rep.Dbgf(logger.DbgLow, "progress spinner disabled: stderr is not a terminal or debug output is on")
		}
	}

	verdict, err := riesel.Test(ctx, cand, opts)
	stop()
	if err != nil {
		code := kerrors.ExitCode(err)
		if hasErrno(err) {
			rep.FatalErrnof(code, err, "runTest", "testing %s: %v", cand, err)
		} else {
			rep.Fatalf(code, "runTest", "testing %s: %v", cand, err)
		}
		return errReported
	}

	if !settings.Calc {
		if err := writeVerdict(stdout, cand, verdict); err != nil {
			rep.FatalErrnof(kerrors.ExitInternal, err, "runTest", "writing verdict: %v", err)
			return errReported
		}
	}

	if verdict == riesel.Composite {
		return exitStatus(kerrors.ExitComposite)
	}
	return nil
}

func writeVerdict(w io.Writer, cand riesel.Candidate, v riesel.Verdict) error {
	text := v.String()
	if settings.Color {
		text = ui.Verdict.Sprint(text)
	}
	_, err := fmt.Fprintf(w, "%s is %s\n", cand, text)
	return err
}
