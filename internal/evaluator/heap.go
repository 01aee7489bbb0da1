package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/lifetime/internal/ast"
)

// Block is the allocation record behind a heap payload.
type Block struct {
	ID       uint64
	Type     ValueType
	released bool
}

// HeapStats summarizes allocation accounting.
type HeapStats struct {
	Allocated      uint64
	Released       uint64
	DoubleReleases uint64
	Live           int
}

// Heap accounts for every payload-carrying value. Go reclaims the memory;
// the heap makes the ownership discipline observable: each block must be
// released exactly once, by the scope that owns it.
//
// Errors are constructed here and written to Diag, one line each, at the
// moment they are created.
type Heap struct {
	Diag io.Writer

	observers []Observer
	seq       uint64
	nextBlock uint64
	nextScope uint64
	stats     HeapStats
}

func NewHeap(diag io.Writer) *Heap {
	if diag == nil {
		diag = os.Stderr
	}
	return &Heap{Diag: diag}
}

// AddObserver registers o for all subsequent events.
func (h *Heap) AddObserver(o Observer) {
	if o != nil {
		h.observers = append(h.observers, o)
	}
}

func (h *Heap) Stats() HeapStats { return h.stats }

// Live returns the number of blocks allocated and not yet released.
func (h *Heap) Live() int { return h.stats.Live }

func (h *Heap) emit(ev Event) {
	if len(h.observers) == 0 {
		return
	}
	h.seq++
	ev.Seq = h.seq
	for _, o := range h.observers {
		o.Observe(ev)
	}
}

func (h *Heap) alloc(t ValueType) *Block {
	h.nextBlock++
	h.stats.Allocated++
	h.stats.Live++
	b := &Block{ID: h.nextBlock, Type: t}
	h.emit(Event{Kind: EventAlloc, Block: b.ID, Type: t})
	return b
}

func (h *Heap) newScopeID() uint64 {
	h.nextScope++
	return h.nextScope
}

func (h *Heap) NewString(s string) *String {
	return &String{Value: s, block: h.alloc(STRING_VAL)}
}

// NewError builds an Error value and reports it on the diagnostics stream.
func (h *Heap) NewError(format string, a ...interface{}) *Error {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(h.Diag, msg)
	return h.unreportedError(msg)
}

func (h *Heap) unreportedError(msg string) *Error {
	return &Error{Message: msg, block: h.alloc(ERROR_VAL)}
}

// NewList takes ownership of elements; callers pass values no scope owns.
func (h *Heap) NewList(elements []Value) *List {
	return &List{Elements: elements, block: h.alloc(LIST_VAL)}
}

func (h *Heap) NewFunction(def *ast.DefExpression) *Function {
	return &Function{
		Name:       def.Name,
		Def:        def,
		Parameters: def.Parameters,
		block:      h.alloc(FUNCTION_VAL),
	}
}

func (h *Heap) NewNative(name string, params []string, fn NativeFn) *Function {
	return &Function{
		Name:       name,
		Native:     fn,
		Parameters: params,
		block:      h.alloc(FUNCTION_VAL),
	}
}

// Copy returns a deep copy of v sharing no heap block with it. Function
// copies get a new cell but share the definition.
func (h *Heap) Copy(v Value) Value {
	switch v := v.(type) {
	case nil:
		return nil
	case *Unit:
		return UNIT
	case *U64:
		return &U64{Value: v.Value}
	case *I64:
		return &I64{Value: v.Value}
	case *F64:
		return &F64{Value: v.Value}
	case *String:
		return h.NewString(v.Value)
	case *Error:
		// Copying an error does not report it again.
		return h.unreportedError(v.Message)
	case *List:
		elements := make([]Value, len(v.Elements))
		for i, el := range v.Elements {
			elements[i] = h.Copy(el)
		}
		return h.NewList(elements)
	case *Function:
		return &Function{
			Name:       v.Name,
			Def:        v.Def,
			Native:     v.Native,
			Parameters: v.Parameters,
			block:      h.alloc(FUNCTION_VAL),
		}
	}
	panic(fmt.Sprintf("copy: unknown value type %T", v))
}

// Release frees v's payload. Inline values are no-ops. Releasing a block
// twice is counted and reported rather than corrupting state.
func (h *Heap) Release(v Value) {
	b := blockOf(v)
	if b == nil {
		return
	}
	if b.released {
		h.stats.DoubleReleases++
		fmt.Fprintf(h.Diag, "double release of %s block #%d\n", b.Type, b.ID)
		h.emit(Event{Kind: EventDoubleRelease, Block: b.ID, Type: b.Type})
		return
	}

	switch v := v.(type) {
	case *String:
		v.Value = ""
	case *Error:
		v.Message = ""
	case *List:
		for _, el := range v.Elements {
			h.Release(el)
		}
		v.Elements = nil
	case *Function:
		v.Def = nil
		v.Native = nil
	}

	b.released = true
	h.stats.Released++
	h.stats.Live--
	h.emit(Event{Kind: EventRelease, Block: b.ID, Type: b.Type})
}
