package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/PolarWolf314/gmprime/internal/configs"
	kerrors "github.com/PolarWolf314/gmprime/internal/errors"
	logger "github.com/PolarWolf314/gmprime/internal/logging"
	"github.com/PolarWolf314/gmprime/internal/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is reported by --version and in usage errors. Release builds set
// it with -ldflags "-X github.com/PolarWolf314/gmprime/cmd.Version=...".
var Version = "dev"

var (
	verbose      int
	verbosity    int
	calcMode     bool
	showProgress bool
	colorOutput  bool
	configPath   string

	// settings is the merged result of the settings file and the flags.
	settings configs.Settings

	rootCmd = &cobra.Command{
		Use:   "gmprime [flags] h n",
		Short: "Test h*2^n-1 for primality",
		Long: `gmprime runs the Lucas-Lehmer-Riesel test on h*2^n-1.

  h  power of 2 multiplier, must be > 0 and < 2^n once made odd
  n  power of 2, must be > 0

The verdict is written to stdout and reflected in the exit status:
0 when h*2^n-1 is prime, 1 when it is composite.

Examples:
  # Test 3*2^11-1
  gmprime 3 11

  # Trace the computation
  gmprime -vvv 3 11

  # Emit calc(1) statements that verify every term
  gmprime -c 391581 216193 > verify.cal`,
		Args:               validateArgs,
		PersistentPreRunE:  loadSettings,
		RunE:               runTest,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableAutoGenTag:  true,
		DisableSuggestions: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "raise the debug level by one, may be repeated")
	rootCmd.PersistentFlags().IntVar(&verbosity, "verbosity", 0, "set the debug level directly (0-20)")
	rootCmd.PersistentFlags().BoolVar(&colorOutput, "color", false, "colorize diagnostic tags")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "read settings from a TOML file")
	rootCmd.Flags().BoolVarP(&calcMode, "calc", "c", false, "write calc(1) code that verifies partial results to stdout")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false, "show a spinner on stderr while testing")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(err)
	})
	rootCmd.AddCommand(ConfigCmd)
}

// ResetRootState resets all command global variables to their default values
// for testing.
func ResetRootState() {
	verbose = 0
	verbosity = 0
	calcMode = false
	showProgress = false
	colorOutput = false
	configPath = ""
	settings = configs.DefaultSettings()
	resetConfigInitState()
	resetCobraState(rootCmd)
}

// resetCobraState restores every flag of c and its subcommands to its default
// and clears the subcommand contexts, which cobra only replaces when nil.
func resetCobraState(c *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		//nolint:staticcheck
		sub.SetContext(nil)
		resetCobraState(sub)
	}
}

// Execute runs gmprime with the process arguments and returns the exit
// status for main to pass to os.Exit. Fatal diagnostics exit the process
// directly.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, os.Args, os.Stdout, os.Stderr, os.Exit)
}

// errReported is returned from a command after the Reporter has written the
// diagnostic and called its exit function.
var errReported = errors.New("already reported")

// exitStatus is returned from a command that finished normally with a
// non-zero status.
type exitStatus int

func (s exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", int(s))
}

// cliError is an argument or flag problem, reported with the usage trailer.
type cliError struct {
	err error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &cliError{err: err}
}

// run executes the root command. stdout receives results and stderr
// receives diagnostics. exit replaces os.Exit for fatal diagnostics; when it
// returns, run returns the code it was called with.
func run(ctx context.Context, argv []string, stdout, stderr io.Writer, exit func(int)) int {
	ResetRootState()

	program := ""
	if len(argv) > 0 {
		program = utils.ProgramName(argv[0])
		argv = argv[1:]
	}

	exited := -1
	onExit := func(code int) {
		exited = code
		exit(code)
	}

	cfg := logger.Config{
		Program: program,
		Version: Version,
		Color:   isTerminal(stderr),
	}
	rep := logger.New(cfg, logger.WithOutput(stderr), logger.WithExit(onExit))
	ctx = withStreams(logger.WithReporter(ctx, rep), stdout, stderr)

	rootCmd.Version = Version
	rootCmd.SetArgs(argv)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	executed, err := rootCmd.ExecuteContextC(ctx)
	if exited >= 0 {
		return exited
	}

	var status exitStatus
	var cerr *cliError
	switch {
	case err == nil:
		if help, _ := executed.Flags().GetBool("help"); help {
			return kerrors.ExitHelp
		}
		return kerrors.ExitPrime
	case errors.As(err, &status):
		return int(status)
	case errors.Is(err, errReported):
		return kerrors.ExitInternal
	case errors.As(err, &cerr):
		rep.UsageFatalf(kerrors.ExitUsage, "parseArgs", "%v", cerr.err)
		return kerrors.ExitUsage
	default:
		code := kerrors.ExitCode(err)
		rep.Fatalf(code, executed.Name(), "%v", err)
		return code
	}
}

// usageArgs makes argument validation failures usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(c *cobra.Command, args []string) error {
		if err := check(c, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// validateArgs runs before flags are merged, so it only checks the count.
// Subcommands reach it only when the name does not match one.
func validateArgs(c *cobra.Command, args []string) error {
	if len(args) != 2 {
		return usageError(fmt.Errorf("expected 2 arguments (h n), got %d", len(args)))
	}
	return nil
}

// loadSettings merges the settings file with the flags and replaces the
// startup Reporter with one configured from the result.
func loadSettings(c *cobra.Command, args []string) error {
	ctx := c.Context()
	rep := logger.FromContext(ctx)

	settings = configs.DefaultSettings()
	settings.Color = rep.Config().Color
	if configPath != "" {
		loaded, err := configs.LoadSettings(configPath)
		if err != nil {
			reportSettingsError(rep, err)
			return errReported
		}
		settings = loaded
	}

	flags := c.Flags()
	switch {
	case flags.Changed("verbosity"):
		settings.Verbosity = verbosity
	case flags.Changed("verbose"):
		settings.Verbosity = verbose
	}
	if flags.Changed("calc") {
		settings.Calc = calcMode
	}
	if flags.Changed("progress") {
		settings.Progress = showProgress
	}
	if flags.Changed("color") {
		settings.Color = colorOutput
	}
	if err := settings.Validate(); err != nil {
		return usageError(err)
	}

	cfg := rep.Config()
	cfg.Verbosity = settings.Verbosity
	cfg.Color = settings.Color
	next := rep.WithConfig(cfg)
	c.SetContext(logger.WithReporter(ctx, next))

	if configPath != "" {
		next.Dbgf(logger.DbgLow, "loaded settings from %s", configPath)
	}
	next.Dbgf(logger.DbgMed, "settings: verbosity=%d calc=%t progress=%t color=%t",
		settings.Verbosity, settings.Calc, settings.Progress, settings.Color)
	return nil
}

func reportSettingsError(rep *logger.Reporter, err error) {
	if hasErrno(err) {
		rep.FatalErrnof(kerrors.ExitConfig, err, "loadSettings", "cannot read settings file: %s", configPath)
		return
	}
	rep.Fatalf(kerrors.ExitConfig, "loadSettings", "%v", err)
}

func hasErrno(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && utils.IsTerminal(f)
}

type streamsKey struct{}

type outputStreams struct {
	stdout, stderr io.Writer
}

func withStreams(ctx context.Context, stdout, stderr io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, outputStreams{stdout, stderr})
}

// streams returns the result and diagnostic writers stored by run.
func streams(ctx context.Context) (stdout, stderr io.Writer) {
	if s, ok := ctx.Value(streamsKey{}).(outputStreams); ok {
		return s.stdout, s.stderr
	}
	return os.Stdout, os.Stderr
}
