package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/fatih/color"
)

// exitSentinel is the panic value used by the test exit hook.
type exitSentinel int

func newTestReporter(cfg Config) (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	r := New(cfg,
		WithOutput(&buf),
		WithExit(func(code int) { panic(exitSentinel(code)) }),
	)
	return r, &buf
}

// expectExit runs fn and returns the code it tried to exit with.
func expectExit(t *testing.T, fn func()) int {
	t.Helper()
	code, exited := catchExit(fn)
	if !exited {
		t.Fatal("function returned without exiting")
	}
	return code
}

func catchExit(fn func()) (code int, exited bool) {
	defer func() {
		if rec := recover(); rec != nil {
			sentinel, ok := rec.(exitSentinel)
			if !ok {
				panic(rec)
			}
			code, exited = int(sentinel), true
		}
	}()
	fn()
	return 0, false
}

func TestMsgf(t *testing.T) {
	r, buf := newTestReporter(Config{})
	r.Msgf("hello %s", "world")
	if got, want := buf.String(), "hello world\n"; got != want {
		t.Errorf("Msgf output = %q, want %q", got, want)
	}
}

func TestMsgfEmptyFormat(t *testing.T) {
	r, buf := newTestReporter(Config{})
	r.Msgf("")
	want := "Warning: Msgf: called with empty format\n((NULL fmt))\n"
	if got := buf.String(); got != want {
		t.Errorf("Msgf(\"\") output = %q, want %q", got, want)
	}
}

func TestDbgf(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		level     int
		wantOut   bool
	}{
		{"BelowThreshold", 5, 3, true},
		{"AtThreshold", 5, 5, true},
		{"AboveThreshold", 5, 6, false},
		{"DefaultThresholdLevelZero", 0, DbgNone, true},
		{"DefaultThresholdLevelLow", 0, DbgLow, false},
		{"NegativeLevel", 0, -1, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, buf := newTestReporter(Config{Verbosity: tc.verbosity})
			r.Dbgf(tc.level, "x=%d", 7)
			if tc.wantOut && buf.String() != "x=7\n" {
				t.Errorf("Dbgf(%d) with verbosity %d = %q, want %q", tc.level, tc.verbosity, buf.String(), "x=7\n")
			}
			if !tc.wantOut && buf.Len() != 0 {
				t.Errorf("Dbgf(%d) with verbosity %d wrote %q, want nothing", tc.level, tc.verbosity, buf.String())
			}
			if r.V(tc.level) != tc.wantOut {
				t.Errorf("V(%d) = %t, want %t", tc.level, r.V(tc.level), tc.wantOut)
			}
		})
	}
}

func TestWarnf(t *testing.T) {
	r, buf := newTestReporter(Config{})
	r.Warnf("openFile", "cannot open %q", "a.txt")
	if got, want := buf.String(), "Warning: openFile: cannot open \"a.txt\"\n"; got != want {
		t.Errorf("Warnf output = %q, want %q", got, want)
	}
}

func TestWarnfEmptyInput(t *testing.T) {
	r, buf := newTestReporter(Config{})
	r.Warnf("", "")
	want := "Warning: Warnf: called with empty name\n" +
		"Warning: Warnf: called with empty format\n" +
		"Warning: ((NULL name)): ((NULL fmt))\n"
	if got := buf.String(); got != want {
		t.Errorf("Warnf output = %q, want %q", got, want)
	}
}

func TestWarnErrnof(t *testing.T) {
	r, buf := newTestReporter(Config{})
	err := &os.PathError{Op: "open", Path: "/nope", Err: syscall.ENOENT}
	r.WarnErrnof(err, "readConfig", "cannot read %s", "/nope")

	want := "Warning: readConfig: cannot read /nope\n" +
		fmt.Sprintf("errno[%d]: %s\n", int(syscall.ENOENT), syscall.ENOENT.Error())
	if got := buf.String(); got != want {
		t.Errorf("WarnErrnof output = %q, want %q", got, want)
	}
}

func TestWarnErrnofNilError(t *testing.T) {
	r, buf := newTestReporter(Config{})
	r.WarnErrnof(nil, "readConfig", "nothing wrong")
	want := "Warning: readConfig: nothing wrong\nerrno[0]: success\n"
	if got := buf.String(); got != want {
		t.Errorf("WarnErrnof output = %q, want %q", got, want)
	}
}

// rewrapper changes the wrapped error while it is being rendered.
type rewrapper struct {
	target *error
}

func (rw rewrapper) String() string {
	*rw.target = syscall.EACCES
	return "rendered"
}

func TestWarnErrnofCapturesAtEntry(t *testing.T) {
	r, buf := newTestReporter(Config{})
	var current error = syscall.ENOENT
	r.WarnErrnof(current, "stat", "%v", rewrapper{target: &current})

	if current != syscall.EACCES {
		t.Fatal("rendering did not change the error state")
	}
	want := fmt.Sprintf("errno[%d]: %s\n", int(syscall.ENOENT), syscall.ENOENT.Error())
	if !strings.HasSuffix(buf.String(), want) {
		t.Errorf("WarnErrnof output = %q, want suffix %q", buf.String(), want)
	}
}

func TestFatalf(t *testing.T) {
	r, buf := newTestReporter(Config{})
	code := expectExit(t, func() {
		r.Fatalf(3, "parseArgs", "bad h: %d", 0)
	})
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if got, want := buf.String(), "FATAL: parseArgs: bad h: 0\n"; got != want {
		t.Errorf("Fatalf output = %q, want %q", got, want)
	}
}

func TestFatalfOutOfRangeExitCode(t *testing.T) {
	r, buf := newTestReporter(Config{})
	code := expectExit(t, func() {
		r.Fatalf(999, "loadConfig", "bad path: %s", "/tmp")
	})
	if code != ForcedExit {
		t.Errorf("exit code = %d, want %d", code, ForcedExit)
	}
	want := "Warning: Fatalf: called with exitcode >= 256: 999\n" +
		"Warning: Fatalf: forcing exit code: 255\n" +
		"FATAL: loadConfig: bad path: /tmp\n"
	if got := buf.String(); got != want {
		t.Errorf("Fatalf output = %q, want %q", got, want)
	}
}

func TestUsageFatalOutOfRangeExitCode(t *testing.T) {
	tests := []struct {
		name string
		call func(r *Reporter)
		op   string
	}{
		{"UsageFatalf", func(r *Reporter) { r.UsageFatalf(-3, "parseArgs", "bad") }, "UsageFatalf"},
		{"UsageFatalErrnof", func(r *Reporter) { r.UsageFatalErrnof(300, nil, "parseArgs", "bad") }, "UsageFatalErrnof"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, buf := newTestReporter(Config{Program: "gmprime", Version: "0.1"})
			code := expectExit(t, func() { tc.call(r) })
			if code != ForcedExit {
				t.Errorf("exit code = %d, want %d", code, ForcedExit)
			}
			lines := strings.Split(buf.String(), "\n")
			if !strings.HasPrefix(lines[0], "Warning: "+tc.op+": exitcode must be >= 0 && < 256: ") {
				t.Errorf("first line = %q, want the range warning", lines[0])
			}
			if lines[1] != "Warning: "+tc.op+": forcing exit code: 255" {
				t.Errorf("second line = %q, want the forcing warning", lines[1])
			}
			if strings.Contains(buf.String(), "called with exitcode") {
				t.Errorf("usage variant used the Fatalf wording:\n%s", buf.String())
			}
		})
	}
}

func TestTerminatingExitCodeSanitation(t *testing.T) {
	calls := []struct {
		name string
		call func(r *Reporter, code int)
	}{
		{"Fatalf", func(r *Reporter, code int) { r.Fatalf(code, "op", "msg") }},
		{"FatalErrnof", func(r *Reporter, code int) { r.FatalErrnof(code, nil, "op", "msg") }},
		{"UsageFatalf", func(r *Reporter, code int) { r.UsageFatalf(code, "op", "msg") }},
		{"UsageFatalErrnof", func(r *Reporter, code int) { r.UsageFatalErrnof(code, nil, "op", "msg") }},
	}
	codes := []int{-1, -255, 256, 1000}

	for _, c := range calls {
		for _, in := range codes {
			t.Run(fmt.Sprintf("%s/%d", c.name, in), func(t *testing.T) {
				r, buf := newTestReporter(Config{})
				got := expectExit(t, func() { c.call(r, in) })
				if got != ForcedExit {
					t.Errorf("exit code = %d, want %d", got, ForcedExit)
				}
				warnings := strings.Count(buf.String(), "Warning: ")
				if warnings != 2 {
					t.Errorf("got %d warning lines, want 2:\n%s", warnings, buf.String())
				}
				if !strings.Contains(buf.String(), "forcing exit code: 255\n") {
					t.Errorf("missing forcing warning:\n%s", buf.String())
				}
			})
		}
	}
}

func TestFatalfValidBoundaries(t *testing.T) {
	for _, in := range []int{0, 1, 250, 254, 255} {
		r, buf := newTestReporter(Config{})
		got := expectExit(t, func() { r.Fatalf(in, "op", "msg") })
		if got != in {
			t.Errorf("Fatalf(%d) exited with %d", in, got)
		}
		if strings.Contains(buf.String(), "Warning:") {
			t.Errorf("Fatalf(%d) warned about a valid code:\n%s", in, buf.String())
		}
	}
}

func TestFatalErrnof(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantErrno string
	}{
		{"NilErrorOmitsLine", nil, ""},
		{"ZeroErrnoOmitsLine", syscall.Errno(0), ""},
		{"ErrnoWritesLine", fmt.Errorf("wrapped: %w", syscall.EACCES),
			fmt.Sprintf("errno[%d]: %s\n", int(syscall.EACCES), syscall.EACCES.Error())},
		{"PlainErrorWritesUnknown", errors.New("boom"), "errno[-1]: boom\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, buf := newTestReporter(Config{})
			code := expectExit(t, func() {
				r.FatalErrnof(4, tc.err, "chkpt", "cannot lock")
			})
			if code != 4 {
				t.Errorf("exit code = %d, want 4", code)
			}
			want := "FATAL: chkpt: cannot lock\n" + tc.wantErrno
			if got := buf.String(); got != want {
				t.Errorf("FatalErrnof output = %q, want %q", got, want)
			}
		})
	}
}

func TestFatalfNeverWritesErrno(t *testing.T) {
	r, buf := newTestReporter(Config{})
	expectExit(t, func() { r.Fatalf(1, "op", "%v", syscall.ENOENT) })
	if strings.Contains(buf.String(), "errno[") {
		t.Errorf("Fatalf wrote an errno line:\n%s", buf.String())
	}
}

func TestUsageFatalf(t *testing.T) {
	r, buf := newTestReporter(Config{Program: "mytool", Version: "1.2"})
	code := expectExit(t, func() {
		r.UsageFatalf(2, "parseArgs", "too many args")
	})
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	want := "FATAL: parseArgs: too many args\n" +
		"For command line usage help, try: mytool -h\n" +
		"version: 1.2\n"
	if got := buf.String(); got != want {
		t.Errorf("UsageFatalf output = %q, want %q", got, want)
	}
}

func TestUsageFatalfZeroExit(t *testing.T) {
	r, buf := newTestReporter(Config{Program: "mytool", Version: "1.2"})
	code := expectExit(t, func() {
		r.UsageFatalf(0, "parseArgs", "not shown")
	})
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	want := "For command line usage help, try: mytool -h\nversion: 1.2\n"
	if got := buf.String(); got != want {
		t.Errorf("UsageFatalf(0) output = %q, want %q", got, want)
	}
}

func TestUsageFatalfProgramUnset(t *testing.T) {
	r, buf := newTestReporter(Config{})
	expectExit(t, func() { r.UsageFatalf(9, "main", "missing h") })
	want := "FATAL: main: missing h\n" +
		"For command line usage help, try using -h\n" +
		"version: unknown\n"
	if got := buf.String(); got != want {
		t.Errorf("UsageFatalf output = %q, want %q", got, want)
	}
}

func TestUsageFatalErrnof(t *testing.T) {
	t.Run("NilErrorStillWritesLine", func(t *testing.T) {
		r, buf := newTestReporter(Config{Program: "gmprime", Version: "0.1"})
		expectExit(t, func() { r.UsageFatalErrnof(9, nil, "main", "bad flag") })
		want := "FATAL: main: bad flag\n" +
			"errno[0]: success\n" +
			"For command line usage help, try: gmprime -h\n" +
			"version: 0.1\n"
		if got := buf.String(); got != want {
			t.Errorf("UsageFatalErrnof output = %q, want %q", got, want)
		}
	})

	t.Run("ZeroExitShowsTrailerOnly", func(t *testing.T) {
		r, buf := newTestReporter(Config{Program: "gmprime", Version: "0.1"})
		code := expectExit(t, func() { r.UsageFatalErrnof(0, syscall.ENOENT, "main", "help") })
		if code != 0 {
			t.Errorf("exit code = %d, want 0", code)
		}
		want := "For command line usage help, try: gmprime -h\nversion: 0.1\n"
		if got := buf.String(); got != want {
			t.Errorf("UsageFatalErrnof output = %q, want %q", got, want)
		}
	})
}

// failingWriter fails every write that contains fail.
type failingWriter struct {
	buf  bytes.Buffer
	fail string
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if strings.Contains(string(p), w.fail) {
		return 0, errors.New("disk full")
	}
	return w.buf.Write(p)
}

func (w *failingWriter) String() string {
	return w.buf.String()
}

func TestWriteFailureIsReportedInline(t *testing.T) {
	w := &failingWriter{fail: "payload"}
	r := New(Config{}, WithOutput(w))
	r.Warnf("op", "payload %d", 1)

	want := "Warning: op: [Warnf: write error: disk full]\n"
	if got := w.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

type panicker struct{}

func (panicker) String() string { panic("oops") }

func TestRenderingProblemsStayInline(t *testing.T) {
	r, buf := newTestReporter(Config{})
	r.Msgf("value: %v", panicker{})
	want := "value: %!v(PANIC=String method: oops)\n"
	if got := buf.String(); got != want {
		t.Errorf("Msgf output = %q, want %q", got, want)
	}
}

// tracedValue logs through the reporter when it is formatted.
type tracedValue struct {
	r *Reporter
}

func (v tracedValue) String() string {
	v.r.Dbgf(DbgLow, "formatting traced value")
	return "traced"
}

func TestArgumentsMayCallTheReporter(t *testing.T) {
	tests := []struct {
		name string
		call func(r *Reporter)
		want string
	}{
		{"Msgf", func(r *Reporter) { r.Msgf("value=%v", tracedValue{r}) },
			"formatting traced value\nvalue=traced\n"},
		{"Dbgf", func(r *Reporter) { r.Dbgf(DbgLow, "value=%v", tracedValue{r}) },
			"formatting traced value\nvalue=traced\n"},
		{"Warnf", func(r *Reporter) { r.Warnf("op", "value=%v", tracedValue{r}) },
			"formatting traced value\nWarning: op: value=traced\n"},
		{"WarnErrnof", func(r *Reporter) { r.WarnErrnof(nil, "op", "value=%v", tracedValue{r}) },
			"formatting traced value\nWarning: op: value=traced\nerrno[0]: success\n"},
		{"Fatalf", func(r *Reporter) {
			catchExit(func() { r.Fatalf(4, "op", "value=%v", tracedValue{r}) })
		}, "formatting traced value\nFATAL: op: value=traced\n"},
		{"UsageFatalf", func(r *Reporter) {
			catchExit(func() { r.UsageFatalf(4, "op", "value=%v", tracedValue{r}) })
		}, "formatting traced value\nFATAL: op: value=traced\n" +
			"For command line usage help, try using -h\nversion: unknown\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, buf := newTestReporter(Config{Verbosity: DbgLow})

			done := make(chan struct{})
			go func() {
				defer close(done)
				tc.call(r)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatalf("%s did not return: formatting an argument called back into the reporter", tc.name)
			}

			if got := buf.String(); got != tc.want {
				t.Errorf("output = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMsgfBlankLine(t *testing.T) {
	r, buf := newTestReporter(Config{})
	r.Msgf("%s", "")
	if got := buf.String(); got != "\n" {
		t.Errorf("Msgf(%%s, \"\") output = %q, want a blank line", got)
	}
}

func TestConcurrentCallsDoNotInterleave(t *testing.T) {
	r, buf := newTestReporter(Config{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.WarnErrnof(syscall.EINTR, "worker", "iteration %d", i)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 100 {
		t.Fatalf("got %d lines, want 100", len(lines))
	}
	for i := 0; i < len(lines); i += 2 {
		if !strings.HasPrefix(lines[i], "Warning: worker: iteration ") {
			t.Errorf("line %d = %q, want a warning line", i, lines[i])
		}
		if !strings.HasPrefix(lines[i+1], "errno[") {
			t.Errorf("line %d = %q, want an errno line", i+1, lines[i+1])
		}
	}
}

func TestColorTags(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	originalNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = originalNoColor }()

	r, buf := newTestReporter(Config{Color: true})
	r.Warnf("op", "careful")
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("expected ANSI codes in %q", out)
	}
	if !strings.HasSuffix(out, " op: careful\n") {
		t.Errorf("colored output lost its text: %q", out)
	}
}

func TestContext(t *testing.T) {
	r, _ := newTestReporter(Config{Verbosity: 4})
	ctx := WithReporter(context.Background(), r)
	if got := FromContext(ctx); got != r {
		t.Error("FromContext did not return the stored reporter")
	}

	fallback := FromContext(context.Background())
	if fallback == nil {
		t.Fatal("FromContext returned nil without a stored reporter")
	}
	if fallback.Config().Version != "unknown" {
		t.Errorf("fallback version = %q, want %q", fallback.Config().Version, "unknown")
	}
}

func TestWithConfig(t *testing.T) {
	r, buf := newTestReporter(Config{Program: "gmprime"})
	next := r.WithConfig(Config{Program: "gmprime", Verbosity: DbgMed})

	r.Dbgf(DbgMed, "hidden")
	next.Dbgf(DbgMed, "shown")
	if got, want := buf.String(), "shown\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if next.Config().Version != "unknown" {
		t.Errorf("version = %q, want %q", next.Config().Version, "unknown")
	}

	code := expectExit(t, func() { next.Fatalf(3, "op", "stop") })
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestCaptureSysError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want SysError
	}{
		{"Nil", nil, SysError{0, "success"}},
		{"Errno", syscall.ENOENT, SysError{int(syscall.ENOENT), syscall.ENOENT.Error()}},
		{"WrappedErrno", &os.PathError{Op: "open", Path: "x", Err: syscall.EPERM},
			SysError{int(syscall.EPERM), syscall.EPERM.Error()}},
		{"Plain", errors.New("bad"), SysError{UnknownErrno, "bad"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CaptureSysError(tc.err); got != tc.want {
				t.Errorf("CaptureSysError(%v) = %+v, want %+v", tc.err, got, tc.want)
			}
		})
	}
}
