package sema

import (
	"iter"

	"tally/internal/source"
	"tally/internal/types"
)

// Binding is one name -> type entry of the environment.
type Binding struct {
	Name string          `json:"name" msgpack:"name"`
	Type types.Type      `json:"type" msgpack:"type"`
	Span source.Span     `json:"-" msgpack:"-"`
	Pos  source.Position `json:"-" msgpack:"-"`
}

// Env maps identifiers to their inferred types. Iteration follows
// declaration order. A name can be bound at most once.
type Env struct {
	bindings []Binding
	index    map[string]int
}

func NewEnv() *Env {
	return &Env{index: make(map[string]int)}
}

// EnvFromBindings rebuilds an environment, e.g. from a cache entry.
// Later duplicates are dropped.
func EnvFromBindings(bs []Binding) *Env {
	env := NewEnv()
	for _, b := range bs {
		env.insert(b)
	}
	return env
}

func (e *Env) insert(b Binding) bool {
	if _, dup := e.index[b.Name]; dup {
		return false
	}
	e.index[b.Name] = len(e.bindings)
	e.bindings = append(e.bindings, b)
	return true
}

// Lookup returns the type bound to name.
func (e *Env) Lookup(name string) (types.Type, bool) {
	if e == nil {
		return types.Invalid, false
	}
	i, ok := e.index[name]
	if !ok {
		return types.Invalid, false
	}
	return e.bindings[i].Type, true
}

// Binding returns the full entry for name, including where it was declared.
func (e *Env) Binding(name string) (Binding, bool) {
	if e == nil {
		return Binding{}, false
	}
	i, ok := e.index[name]
	if !ok {
		return Binding{}, false
	}
	return e.bindings[i], true
}

func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return len(e.bindings)
}

// Names returns bound identifiers in declaration order.
func (e *Env) Names() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.bindings))
	for i, b := range e.bindings {
		out[i] = b.Name
	}
	return out
}

// Bindings returns a copy of the entries in declaration order.
func (e *Env) Bindings() []Binding {
	if e == nil {
		return nil
	}
	out := make([]Binding, len(e.bindings))
	copy(out, e.bindings)
	return out
}

// All yields name/type pairs in declaration order.
func (e *Env) All() iter.Seq2[string, types.Type] {
	return func(yield func(string, types.Type) bool) {
		if e == nil {
			return
		}
		for _, b := range e.bindings {
			if !yield(b.Name, b.Type) {
				return
			}
		}
	}
}

// Map flattens the environment; order is lost.
func (e *Env) Map() map[string]types.Type {
	out := make(map[string]types.Type, e.Len())
	for name, typ := range e.All() {
		out[name] = typ
	}
	return out
}
