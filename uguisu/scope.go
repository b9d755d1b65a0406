package uguisu

// Layered scope shared by the analyzer and the evaluator. A scope is a stack
// of name-keyed layers; lookup walks from the innermost layer outward.

import (
	"github.com/grailbio/base/log"
	"github.com/uguisu-dev/uguisu/symbol"
)

// scope is a stack of name-to-binding layers. Names are interned symbols.
//
// Fork copies the layer stack but shares the layer maps, so a binding
// mutated through either view is observed by both. Closures rely on this:
// a function value captures the scope at its definition site and each call
// forks it, so later writes to the enclosing bindings remain visible when the
// function runs.
type scope[T any] struct {
	layers []map[symbol.ID]T
}

// newScope creates a scope holding only the root layer.
func newScope[T any]() *scope[T] {
	return &scope[T]{layers: []map[symbol.ID]T{{}}}
}

// enter pushes a fresh layer.
func (s *scope[T]) enter() {
	s.layers = append(s.layers, map[symbol.ID]T{})
}

// leave pops the innermost layer. Popping the root layer is an invariant
// violation.
func (s *scope[T]) leave() {
	if len(s.layers) == 1 {
		log.Panicf("scope: cannot leave the root layer")
	}
	s.layers = s.layers[:len(s.layers)-1]
}

// define binds the name in the innermost layer.
func (s *scope[T]) define(name symbol.ID, v T) {
	s.layers[len(s.layers)-1][name] = v
}

// lookup walks the layers from innermost to root and returns the first
// binding found.
func (s *scope[T]) lookup(name symbol.ID) (T, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if v, ok := s.layers[i][name]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// fork clones the layer stack. The layers themselves are shared with the
// original.
func (s *scope[T]) fork() *scope[T] {
	layers := make([]map[symbol.ID]T, len(s.layers), len(s.layers)+4)
	copy(layers, s.layers)
	return &scope[T]{layers: layers}
}

// depth returns the number of layers, including the root.
func (s *scope[T]) depth() int { return len(s.layers) }
