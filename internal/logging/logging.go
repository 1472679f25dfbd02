package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/PolarWolf314/gmprime/internal/ui"
)

// Debug levels for Dbgf.
const (
	DbgNone   = 0
	DbgLow    = 1
	DbgMed    = 3
	DbgHigh   = 5
	DbgVHigh  = 7
	DbgVVHigh = 9
)

// ForcedExit replaces any out of range exit code.
const ForcedExit = 255

const (
	nullFmt     = "((NULL fmt))"
	nullName    = "((NULL name))"
	unknownVers = "unknown"
)

// Config is set once at startup and read-only afterwards.
type Config struct {
	Verbosity int
	Program   string
	Version   string
	Color     bool
}

// Reporter writes leveled diagnostics to a single stream.
type Reporter struct {
	mu   sync.Mutex
	cfg  Config
	out  io.Writer
	exit func(int)
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithOutput sets the diagnostic stream.
func WithOutput(w io.Writer) Option {
	return func(r *Reporter) {
		if w != nil {
			r.out = w
		}
	}
}

// WithExit replaces os.Exit. Tests use it to intercept termination.
func WithExit(fn func(int)) Option {
	return func(r *Reporter) {
		if fn != nil {
			r.exit = fn
		}
	}
}

// New returns a Reporter writing to stderr and exiting with os.Exit.
func New(cfg Config, opts ...Option) *Reporter {
	if cfg.Version == "" {
		cfg.Version = unknownVers
	}
	r := &Reporter{
		cfg:  cfg,
		out:  os.Stderr,
		exit: os.Exit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns a copy of the reporter configuration.
func (r *Reporter) Config() Config {
	return r.cfg
}

// WithConfig returns a Reporter with cfg that shares r's stream and exit
// function.
func (r *Reporter) WithConfig(cfg Config) *Reporter {
	return New(cfg, WithOutput(r.out), WithExit(r.exit))
}

// V reports whether a Dbgf call at level would be written.
func (r *Reporter) V(level int) bool {
	return level <= r.cfg.Verbosity
}

// Msgf writes the formatted message followed by a newline. An empty format
// counts as a missing one: it is reported with a warning and replaced by
// "((NULL fmt))". Write a blank line with Msgf("%s", "").
func (r *Reporter) Msgf(format string, args ...any) {
	msg := render(format, args...)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkFormat("Msgf", format)
	r.line("Msgf", "", msg)
}

// Dbgf writes the formatted message when level <= the configured verbosity.
func (r *Reporter) Dbgf(level int, format string, args ...any) {
	enabled := r.V(level)
	var msg string
	if enabled {
		msg = render(format, args...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkFormat("Dbgf", format)
	if enabled {
		r.line("Dbgf", "", msg)
	}
}

// Warnf writes "Warning: name: message".
func (r *Reporter) Warnf(name, format string, args ...any) {
	msg := render(format, args...)

	r.mu.Lock()
	defer r.mu.Unlock()

	name = r.checkInput("Warnf", name, format)
	r.line("Warnf", r.warningPrefix(name), msg)
}

// WarnErrnof is Warnf followed by the system error context taken from err.
func (r *Reporter) WarnErrnof(err error, name, format string, args ...any) {
	sys := CaptureSysError(err)
	msg := render(format, args...)

	r.mu.Lock()
	defer r.mu.Unlock()

	name = r.checkInput("WarnErrnof", name, format)
	r.line("WarnErrnof", r.warningPrefix(name), msg)
	r.errnoLine("WarnErrnof", sys)
}

// Fatalf writes "FATAL: name: message" and exits with code.
func (r *Reporter) Fatalf(code int, name, format string, args ...any) {
	msg := render(format, args...)

	r.mu.Lock()
	defer r.mu.Unlock()

	code = r.sanitizeExit("Fatalf", code, false)
	name = r.checkInput("Fatalf", name, format)
	r.line("Fatalf", r.fatalPrefix(name), msg)
	r.exit(code)
}

// FatalErrnof is Fatalf with the system error line appended when err carries
// a non-zero code.
func (r *Reporter) FatalErrnof(code int, err error, name, format string, args ...any) {
	sys := CaptureSysError(err)
	msg := render(format, args...)

	r.mu.Lock()
	defer r.mu.Unlock()

	code = r.sanitizeExit("FatalErrnof", code, false)
	name = r.checkInput("FatalErrnof", name, format)
	r.line("FatalErrnof", r.fatalPrefix(name), msg)
	if sys.Code != 0 {
		r.errnoLine("FatalErrnof", sys)
	}
	r.exit(code)
}

// UsageFatalf reports a command line error, points at -h and exits with
// code. A zero code only shows the usage trailer.
func (r *Reporter) UsageFatalf(code int, name, format string, args ...any) {
	msg := render(format, args...)

	r.mu.Lock()
	defer r.mu.Unlock()

	code = r.sanitizeExit("UsageFatalf", code, true)
	name = r.checkInput("UsageFatalf", name, format)
	if code > 0 {
		r.line("UsageFatalf", r.fatalPrefix(name), msg)
	}
	r.usageTrailer("UsageFatalf")
	r.exit(code)
}

// UsageFatalErrnof is UsageFatalf with the system error line after the
// FATAL line. The errno line is written whenever code > 0, even if err is nil.
func (r *Reporter) UsageFatalErrnof(code int, err error, name, format string, args ...any) {
	sys := CaptureSysError(err)
	msg := render(format, args...)

	r.mu.Lock()
	defer r.mu.Unlock()

	code = r.sanitizeExit("UsageFatalErrnof", code, true)
	name = r.checkInput("UsageFatalErrnof", name, format)
	if code > 0 {
		r.line("UsageFatalErrnof", r.fatalPrefix(name), msg)
		r.errnoLine("UsageFatalErrnof", sys)
	}
	r.usageTrailer("UsageFatalErrnof")
	r.exit(code)
}

// render formats the message without holding r.mu, so String and Error
// methods of the arguments may call back into the Reporter.
func render(format string, args ...any) string {
	if format == "" {
		format = nullFmt
	}
	return fmt.Sprintf(format, args...)
}

// The helpers below expect r.mu to be held.

func (r *Reporter) checkFormat(op, format string) {
	if format == "" {
		r.warnLocked(op, "called with empty format")
	}
}

func (r *Reporter) checkInput(op, name, format string) string {
	if name == "" {
		r.warnLocked(op, "called with empty name")
		name = nullName
	}
	r.checkFormat(op, format)
	return name
}

// sanitizeExit forces codes outside [0, 255] to ForcedExit. The usage
// variants describe the violation with a single range message.
func (r *Reporter) sanitizeExit(op string, code int, usage bool) int {
	switch {
	case code >= 0 && code < 256:
		return code
	case usage:
		r.warnLocked(op, fmt.Sprintf("exitcode must be >= 0 && < 256: %d", code))
	case code >= 256:
		r.warnLocked(op, fmt.Sprintf("called with exitcode >= 256: %d", code))
	default:
		r.warnLocked(op, fmt.Sprintf("called with exitcode < 0: %d", code))
	}
	r.warnLocked(op, fmt.Sprintf("forcing exit code: %d", ForcedExit))
	return ForcedExit
}

func (r *Reporter) warnLocked(op, msg string) {
	r.write(op, r.warningPrefix(op)+msg+"\n")
}

func (r *Reporter) line(op, prefix, msg string) {
	if prefix != "" {
		r.write(op, prefix)
	}
	r.write(op, msg)
	r.write(op, "\n")
}

func (r *Reporter) errnoLine(op string, sys SysError) {
	tag := fmt.Sprintf("errno[%d]:", sys.Code)
	if r.cfg.Color {
		tag = ui.Errno.Sprint(tag)
	}
	r.write(op, tag+" "+sys.Description+"\n")
}

func (r *Reporter) usageTrailer(op string) {
	if r.cfg.Program == "" {
		r.write(op, "For command line usage help, try using -h\n")
	} else {
		r.write(op, "For command line usage help, try: "+r.cfg.Program+" -h\n")
	}
	r.write(op, "version: "+r.cfg.Version+"\n")
}

func (r *Reporter) warningPrefix(name string) string {
	tag := "Warning:"
	if r.cfg.Color {
		tag = ui.Warning.Sprint(tag)
	}
	return tag + " " + name + ": "
}

func (r *Reporter) fatalPrefix(name string) string {
	tag := "FATAL:"
	if r.cfg.Color {
		tag = ui.Fatal.Sprint(tag)
	}
	return tag + " " + name + ": "
}

// write never fails the caller. A failed write gets a bracketed note on the
// same stream, which may itself fail silently.
func (r *Reporter) write(op, s string) {
	if _, err := io.WriteString(r.out, s); err != nil {
		_, _ = fmt.Fprintf(r.out, "[%s: write error: %v]", op, err)
	}
}

type ctxKey struct{}

// WithReporter returns a copy of ctx carrying r.
func WithReporter(ctx context.Context, r *Reporter) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// FromContext returns the Reporter stored in ctx, or a default stderr
// reporter when there is none.
func FromContext(ctx context.Context) *Reporter {
	if r, ok := ctx.Value(ctxKey{}).(*Reporter); ok && r != nil {
		return r
	}
	return New(Config{})
}
