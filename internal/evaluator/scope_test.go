package evaluator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyIsIndependent(t *testing.T) {
	var diag bytes.Buffer
	h := NewHeap(&diag)

	s := h.NewString("payload")
	c := h.Copy(s).(*String)
	require.NotSame(t, s, c)

	h.Release(s)
	assert.Equal(t, "payload", c.Value)
	assert.Equal(t, 1, h.Live())

	h.Release(c)
	assert.Equal(t, 0, h.Live())
	assert.Empty(t, diag.String())
}

func TestCopyList(t *testing.T) {
	h := NewHeap(&bytes.Buffer{})
	list := h.NewList([]Value{h.NewString("a"), &U64{Value: 1}})
	c := h.Copy(list).(*List)
	assert.Equal(t, 4, h.Live())

	h.Release(list)
	assert.Equal(t, "list[string('a'),u64(1)]", Render(c))
	assert.Equal(t, 2, h.Live())

	h.Release(c)
	assert.Zero(t, h.Live())
}

func TestCopyFunctionSharesDefinition(t *testing.T) {
	h := NewHeap(&bytes.Buffer{})
	fn := h.NewNative("f", []string{"x"}, func(*Scope) Value { return UNIT })
	c := h.Copy(fn).(*Function)
	h.Release(fn)
	assert.True(t, c.IsNative())
	assert.Equal(t, []string{"x"}, c.Parameters)
}

func TestDoubleRelease(t *testing.T) {
	var diag bytes.Buffer
	h := NewHeap(&diag)
	s := h.NewString("x")
	h.Release(s)
	h.Release(s)

	stats := h.Stats()
	assert.Equal(t, uint64(1), stats.Released)
	assert.Equal(t, uint64(1), stats.DoubleReleases)
	assert.Contains(t, diag.String(), "double release of string block #1")
}

func TestInlineValuesHaveNoPayload(t *testing.T) {
	h := NewHeap(&bytes.Buffer{})
	for _, v := range []Value{UNIT, &U64{Value: 1}, &I64{Value: -1}, &F64{Value: 0.5}} {
		assert.False(t, HasPayload(v), v.Inspect())
		h.Release(v)
	}
	assert.Zero(t, h.Stats().Released)
}

func TestResolve(t *testing.T) {
	h := NewHeap(&bytes.Buffer{})
	root := NewGlobalScope(h)
	root.Bind("x", &U64{Value: 1}, Owner)
	root.Bind("", &U64{Value: 99}, Owner)

	child := root.Fork()
	child.Bind("x", &U64{Value: 2}, Borrow)
	child.Bind("x", &U64{Value: 3}, Borrow)

	b, ok := child.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, "u64(3)", Render(b.Value), "latest binding wins")
	assert.Equal(t, Borrow, b.Mode)

	b, ok = root.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, "u64(1)", Render(b.Value))

	_, ok = child.Resolve("")
	assert.False(t, ok, "anonymous bindings are not resolvable")
	_, ok = child.Resolve("y")
	assert.False(t, ok)

	assert.Same(t, root, child.Global())
	assert.Same(t, root, child.Fork().Global())
}

func TestLeave(t *testing.T) {
	h := NewHeap(&bytes.Buffer{})
	var released []uint64
	h.AddObserver(ObserverFunc(func(ev Event) {
		if ev.Kind == EventRelease {
			released = append(released, ev.Block)
		}
	}))

	root := NewGlobalScope(h)
	owned := h.NewString("owned")
	root.Bind("o", owned, Owner)

	scope := root.Fork()
	a := h.NewString("a")
	b := h.NewString("b")
	scope.Bind("", a, Owner)
	scope.Bind("o", owned, Borrow)
	scope.Bind("", b, Owner)

	scope.Leave()
	assert.Equal(t, []uint64{a.block.ID, b.block.ID}, released, "owners are released in creation order")
	assert.Equal(t, "owned", owned.Value, "borrowed values survive")
	assert.Zero(t, scope.Len())
	assert.True(t, scope.IsLeft())

	scope.Leave()
	assert.Len(t, released, 2, "leaving twice is a no-op")

	root.Leave()
	assert.Zero(t, h.Live())
	assert.Zero(t, h.Stats().DoubleReleases)
}

func TestBindAfterLeavePanics(t *testing.T) {
	h := NewHeap(&bytes.Buffer{})
	scope := NewGlobalScope(h)
	scope.Leave()
	assert.Panics(t, func() { scope.Bind("x", UNIT, Owner) })
}

func TestRootRetainsDefinitions(t *testing.T) {
	res := runSource(t, "def a() = 1\ndef main() = a()")
	assert.Equal(t, "u64(1)", res.value)

	h := NewHeap(&bytes.Buffer{})
	root := NewGlobalScope(h)
	e := New(h)
	program := mustProgram(t, "def a() = 1\ndef b() = 2")
	e.DefineAll(root, program)
	assert.Len(t, root.Definitions(), 2)
	_, ok := root.Resolve("b")
	assert.True(t, ok)

	root.Leave()
	assert.Nil(t, root.Definitions())
	assert.Zero(t, h.Live())
}

func TestOnlyRootRetainsDefinitions(t *testing.T) {
	h := NewHeap(&bytes.Buffer{})
	root := NewGlobalScope(h)
	child := root.Fork()
	assert.True(t, root.IsGlobal())
	assert.False(t, child.IsGlobal())
	assert.Panics(t, func() { child.RetainDefinitions(nil) })
	child.Leave()
	root.Leave()
}

func TestEventsAreOrdered(t *testing.T) {
	h := NewHeap(&bytes.Buffer{})
	var kinds []EventKind
	var last uint64
	h.AddObserver(ObserverFunc(func(ev Event) {
		assert.Equal(t, last+1, ev.Seq)
		last = ev.Seq
		kinds = append(kinds, ev.Kind)
	}))

	root := NewGlobalScope(h)
	root.Bind("s", h.NewString("x"), Owner)
	root.Leave()

	assert.Equal(t, []EventKind{EventFork, EventAlloc, EventBind, EventRelease, EventLeave}, kinds)
}
