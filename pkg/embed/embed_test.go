package lifetime_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/lifetime/internal/config"
	"github.com/funvibe/lifetime/internal/evaluator"
	lifetime "github.com/funvibe/lifetime/pkg/embed"
)

func TestRun(t *testing.T) {
	rt := lifetime.New()
	res, err := rt.Run(`def main() = square(7)
def square(x) = x * x`)
	require.NoError(t, err)

	assert.Equal(t, "u64(49)", res.Value)
	assert.Equal(t, uint64(49), res.Native)
	assert.Empty(t, res.Output)
	assert.Empty(t, res.Diagnostics)
	assert.Zero(t, res.Live)
}

func TestRunErrorValue(t *testing.T) {
	res, err := lifetime.New().Run("def main() = let a = nope in a")
	require.NoError(t, err, "runtime errors are values")

	assert.Equal(t, "error('nope is not defined')", res.Value)
	assert.Equal(t, []string{"nope is not defined"}, res.Diagnostics)

	var rerr *lifetime.RuntimeError
	require.ErrorAs(t, res.Native.(error), &rerr)
	assert.Equal(t, "nope is not defined", rerr.Message)
}

func TestRunCompileError(t *testing.T) {
	_, err := lifetime.New().Run("def main() = (1")

	var derr *lifetime.DiagnosticsError
	require.ErrorAs(t, err, &derr)
	require.NotEmpty(t, derr.Errors)
	assert.Contains(t, err.Error(), "<embed>:")
}

func TestBindValues(t *testing.T) {
	rt := lifetime.New()
	rt.Bind("name", "Alice")
	rt.Bind("scores", []int{3, 4})
	rt.Bind("ratio", 0.5)

	res, err := rt.Run(`def main() = name :: scores ++ (ratio :: unit)`)
	require.NoError(t, err)
	assert.Equal(t, "list[string('Alice'),i64(3),i64(4),f64(0.500000)]", res.Value)
	assert.Equal(t, []interface{}{"Alice", int64(3), int64(4), 0.5}, res.Native)
	assert.Zero(t, res.Live)
}

func TestBindFunctions(t *testing.T) {
	rt := lifetime.New()
	rt.Bind("double", func(x int) int { return x * 2 })
	rt.Bind("greet", func(name string) string { return "hello " + name })
	rt.Bind("fail", func() (string, error) { return "", errors.New("boom") })

	res, err := rt.Run(`def main() = greet("bob") :: double(21) :: unit`)
	require.NoError(t, err)
	assert.Equal(t, "list[string('hello bob'),i64(42)]", res.Value)
	assert.Zero(t, res.Live)

	res, err = rt.Run(`def main() = fail()`)
	require.NoError(t, err)
	assert.Equal(t, "error('boom')", res.Value)
	assert.Equal(t, []string{"boom"}, res.Diagnostics)
}

func TestPutsWithNativeCalls(t *testing.T) {
	res, err := lifetime.New(lifetime.WithNativeCalls()).Run(`def main() = puts(1.5)`)
	require.NoError(t, err)
	assert.Equal(t, "f64(1.500000)\n", res.Output)
	assert.Equal(t, "unit", res.Value)
	assert.Nil(t, res.Native)
}

func TestOptions(t *testing.T) {
	var events int
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt := lifetime.New(
		lifetime.WithContext(ctx),
		lifetime.WithMaxDepth(30),
		lifetime.WithObserver(evaluator.ObserverFunc(func(evaluator.Event) { events++ })),
	)
	res, err := rt.Run("def f(n) = f(n)\ndef main() = f(1)")
	require.NoError(t, err)
	assert.Equal(t, "error('maximum recursion depth exceeded')", res.Value)
	assert.NotZero(t, events)

	cancel()
	res, err = rt.Run("def main() = 1")
	require.NoError(t, err)
	assert.Equal(t, "error('execution cancelled: context canceled')", res.Value)
}

func TestRunFunctionResults(t *testing.T) {
	res, err := lifetime.New().Run("def main() = def g(a, b) = a")
	require.NoError(t, err)
	assert.Equal(t, "function", res.Value)
	assert.Equal(t, &lifetime.FunctionRef{Name: "g", Parameters: []string{"a", "b"}}, res.Native)

	res, err = lifetime.New().Run("def main() = (def g() = 1) :: 2 :: unit")
	require.NoError(t, err)
	assert.Equal(t, "list[function,u64(2)]", res.Value)
	assert.Equal(t, []interface{}{&lifetime.FunctionRef{Name: "g"}, uint64(2)}, res.Native)
	assert.Zero(t, res.Live)
}

func TestWithSettings(t *testing.T) {
	assert.NotPanics(t, func() {
		res, err := lifetime.New(lifetime.WithSettings(nil)).Run("def main() = 1")
		require.NoError(t, err)
		assert.Equal(t, "u64(1)", res.Value)
	})

	s := config.DefaultSettings()
	s.NativeCalls = true
	rt := lifetime.New(lifetime.WithSettings(s), lifetime.WithMaxDepth(20))
	assert.Equal(t, config.DefaultMaxDepth, s.MaxDepth, "caller settings are not modified")

	s.MaxDepth = 1
	res, err := rt.Run("def f(n) = if n then f(n - 1) else 0\ndef main() = f(5)")
	require.NoError(t, err)
	assert.Equal(t, "u64(0)", res.Value)

	res, err = rt.Run(`def main() = puts("x")`)
	require.NoError(t, err)
	assert.Equal(t, "string('x')\n", res.Output)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.lt")
	require.NoError(t, os.WriteFile(path, []byte(`def main() = "from file"`), 0o644))

	res, err := lifetime.New().RunFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from file", res.Native)

	_, err = lifetime.New().RunFile(filepath.Join(t.TempDir(), "missing.lt"))
	assert.Error(t, err)
}

func ExampleRuntime_Run() {
	res, _ := lifetime.New().Run(`def main() = "hi" ++ "!"`)
	fmt.Println(res.Value)
	// Output: string('hi!')
}
