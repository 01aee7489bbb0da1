package evaluator

import (
	"fmt"

	"github.com/funvibe/lifetime/internal/ast"
)

// Ownership says whether a binding releases its value on scope exit.
type Ownership int

const (
	// Owner bindings release the value's payload when the scope is left.
	Owner Ownership = iota
	// Borrow bindings anchor a value to a scope without releasing it.
	Borrow
)

func (o Ownership) String() string {
	if o == Owner {
		return "owner"
	}
	return "borrow"
}

// Binding is one scope entry. An empty Name marks an anonymous lifetime
// anchor, which Resolve never matches.
type Binding struct {
	Name  string
	Value Value
	Mode  Ownership
}

// Scope is one link of the scope chain. Bindings are kept in creation
// order; scopes are only ever walked towards the root.
type Scope struct {
	id       uint64
	parent   *Scope
	global   *Scope
	heap     *Heap
	bindings []Binding
	defs     []*ast.DefExpression
	left     bool
}

// NewGlobalScope creates the root scope of an evaluation.
func NewGlobalScope(heap *Heap) *Scope {
	s := &Scope{id: heap.newScopeID(), heap: heap}
	s.global = s
	heap.emit(Event{Kind: EventFork, Scope: s.id})
	return s
}

// Fork creates an empty child scope of s.
func (s *Scope) Fork() *Scope {
	child := &Scope{
		id:     s.heap.newScopeID(),
		parent: s,
		global: s.global,
		heap:   s.heap,
	}
	s.heap.emit(Event{Kind: EventFork, Scope: child.id, Parent: s.id})
	return child
}

func (s *Scope) ID() uint64     { return s.id }
func (s *Scope) Parent() *Scope { return s.parent }
func (s *Scope) Global() *Scope { return s.global }
func (s *Scope) Heap() *Heap    { return s.heap }
func (s *Scope) IsLeft() bool   { return s.left }
func (s *Scope) Len() int       { return len(s.bindings) }
func (s *Scope) IsGlobal() bool { return s.global == s }

func (s *Scope) parentID() uint64 {
	if s.parent == nil {
		return 0
	}
	return s.parent.id
}

// Bind appends a binding. Shadowing a name appends too; nothing is
// overwritten.
func (s *Scope) Bind(name string, v Value, mode Ownership) {
	if s.left {
		panic(fmt.Sprintf("bind %q into scope #%d after it was left", name, s.id))
	}
	if v == nil {
		return
	}
	s.bindings = append(s.bindings, Binding{Name: name, Value: v, Mode: mode})

	var block uint64
	if b := blockOf(v); b != nil {
		block = b.ID
	}
	s.heap.emit(Event{
		Kind:   EventBind,
		Scope:  s.id,
		Parent: s.parentID(),
		Block:  block,
		Name:   name,
		Type:   v.Type(),
		Mode:   mode.String(),
	})
}

// Resolve finds the most recent binding of name in s, then in its
// ancestors.
func (s *Scope) Resolve(name string) (Binding, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		for i := len(scope.bindings) - 1; i >= 0; i-- {
			b := scope.bindings[i]
			if b.Name != "" && b.Name == name {
				return b, true
			}
		}
	}
	return Binding{}, false
}

// RetainDefinitions hands the top-level definition list to the root
// scope; it is dropped when the scope is left.
func (s *Scope) RetainDefinitions(defs []*ast.DefExpression) {
	if !s.IsGlobal() {
		panic(fmt.Sprintf("scope #%d is not a root scope and cannot retain definitions", s.id))
	}
	s.defs = defs
}

// Definitions returns the retained top-level definitions.
func (s *Scope) Definitions() []*ast.DefExpression {
	return s.defs
}

// Leave releases every Owner binding's payload in creation order and
// drops the binding table. Leaving twice is a no-op.
func (s *Scope) Leave() {
	if s.left {
		return
	}
	released := 0
	for _, b := range s.bindings {
		if b.Mode != Owner {
			continue
		}
		if HasPayload(b.Value) {
			released++
		}
		s.heap.Release(b.Value)
	}
	s.bindings = nil
	s.defs = nil
	s.left = true
	s.heap.emit(Event{Kind: EventLeave, Scope: s.id, Parent: s.parentID(), Released: released})
}
