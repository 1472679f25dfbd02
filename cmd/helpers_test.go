package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

// result holds what a single run of the CLI produced.
type result struct {
	stdout string
	stderr string
	code   int
	exits  []int
}

// execute runs the CLI with args and a background context.
func execute(t *testing.T, args ...string) result {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

// executeContext runs the CLI with args and ctx. The exit hook records the
// code and returns, so run reports the code itself.
func executeContext(t *testing.T, ctx context.Context, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	var res result
	argv := append([]string{"/usr/local/bin/gmprime"}, args...)
	res.code = run(ctx, argv, &stdout, &stderr, func(code int) {
		res.exits = append(res.exits, code)
	})
	res.stdout = stdout.String()
	res.stderr = stderr.String()

	t.Cleanup(ResetRootState)
	return res
}

// writeSettings writes a settings file into a temp directory and returns its path.
func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gmprime.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}
	return path
}
