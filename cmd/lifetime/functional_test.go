package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/lifetime/internal/config"
)

// buildBinary compiles the CLI once per test binary run.
func buildBinary(t *testing.T) string {
	t.Helper()
	binaryPath := filepath.Join(t.TempDir(), "lifetime-test-binary")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, output)
	}
	return binaryPath
}

func runBinary(t *testing.T, binary string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Env = append(os.Environ(), "LIFETIME_TEST_MODE=1", "NO_COLOR=1")
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return out.String(), errOut.String(), code
}

// TestFunctional runs testdata programs through the compiled binary and
// compares stdout followed by stderr with the .want files.
func TestFunctional(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)

	files, err := filepath.Glob(filepath.Join("testdata", "*"+config.SourceFileExt))
	require.NoError(t, err)
	if len(files) == 0 {
		t.Skip("No test files found")
	}

	for _, testFile := range files {
		wantFile := strings.TrimSuffix(testFile, config.SourceFileExt) + ".want"
		if _, err := os.Stat(wantFile); err != nil {
			continue
		}
		testName := strings.TrimSuffix(filepath.Base(testFile), config.SourceFileExt)

		t.Run(testName, func(t *testing.T) {
			wantBytes, err := os.ReadFile(wantFile)
			require.NoError(t, err)
			want := strings.TrimSpace(string(wantBytes))

			stdout, stderr, _ := runBinary(t, binary, "--native", testFile)

			got := strings.TrimSpace(stdout)
			if s := strings.TrimSpace(stderr); s != "" {
				if got != "" {
					got += "\n"
				}
				got += s
			}
			if got != want {
				t.Errorf("Output mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
			}
		})
	}
}

func TestCLI(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)
	dir := t.TempDir()

	prog := filepath.Join(dir, "prog.lt")
	require.NoError(t, os.WriteFile(prog, []byte("def main()=let x=1 in x+2"), 0o644))

	t.Run("no trailing newline", func(t *testing.T) {
		stdout, stderr, code := runBinary(t, binary, prog)
		assert.Equal(t, "u64(3)", stdout)
		assert.Empty(t, stderr)
		assert.Zero(t, code)
	})

	t.Run("fmt", func(t *testing.T) {
		stdout, _, code := runBinary(t, binary, "fmt", prog)
		assert.Equal(t, "def main() = let x = 1 in x + 2\n", stdout)
		assert.Zero(t, code)
	})

	t.Run("compile error exits 1", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.lt")
		require.NoError(t, os.WriteFile(bad, []byte("def main() = (1"), 0o644))
		stdout, stderr, code := runBinary(t, binary, bad)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "bad.lt:1:")
		assert.Equal(t, 1, code)
	})

	t.Run("settings file", func(t *testing.T) {
		sub := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(sub, config.SettingsFileName), []byte("max_depth: 10\n"), 0o644))
		loop := filepath.Join(sub, "loop.lt")
		require.NoError(t, os.WriteFile(loop, []byte("def f(n) = f(n)\ndef main() = f(1)"), 0o644))

		stdout, stderr, code := runBinary(t, binary, loop)
		assert.Equal(t, "error('maximum recursion depth exceeded')", stdout)
		assert.Equal(t, "maximum recursion depth exceeded\n", stderr)
		assert.Zero(t, code, "runtime errors are values")
	})

	t.Run("ledger", func(t *testing.T) {
		db := filepath.Join(dir, "runs.db")
		_, _, code := runBinary(t, binary, "--ledger", db, prog)
		require.Zero(t, code)

		stdout, _, code := runBinary(t, binary, "runs", db)
		assert.Zero(t, code)
		assert.Contains(t, stdout, "prog.lt")
		assert.Contains(t, stdout, "u64(3)")
	})

	t.Run("trace", func(t *testing.T) {
		_, stderr, code := runBinary(t, binary, "--trace", prog)
		assert.Zero(t, code)
		assert.Contains(t, stderr, "event=fork")
		assert.Contains(t, stderr, "run finished")
	})

	t.Run("unrecognized extension", func(t *testing.T) {
		txt := filepath.Join(dir, "prog.txt")
		require.NoError(t, os.WriteFile(txt, []byte("def main() = 1"), 0o644))
		stdout, stderr, code := runBinary(t, binary, txt)
		assert.Equal(t, "u64(1)", stdout)
		assert.Contains(t, stderr, "unrecognized source file extension")
		assert.Zero(t, code)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, stderr, code := runBinary(t, binary, "--bogus", prog)
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, "unknown flag --bogus")
	})
}
