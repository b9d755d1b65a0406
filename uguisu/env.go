package uguisu

import "github.com/uguisu-dev/uguisu/symbol"

// RunningEnv is the evaluator's layered runtime environment. The root layer
// holds the built-in functions and the top-level declarations; one layer is
// pushed per block and per function call.
type RunningEnv struct {
	vars *scope[*Slot]
}

// newRunningEnv creates an environment holding only the root layer.
func newRunningEnv() *RunningEnv {
	return &RunningEnv{vars: newScope[*Slot]()}
}

func (e *RunningEnv) enter() { e.vars.enter() }
func (e *RunningEnv) leave() { e.vars.leave() }

// fork clones the layer stack; the layers and their slots remain shared.
// This is how a closure keeps seeing its enclosing bindings.
func (e *RunningEnv) fork() *RunningEnv {
	return &RunningEnv{vars: e.vars.fork()}
}

// define binds the name to a fresh slot holding the given value.
func (e *RunningEnv) define(name symbol.ID, v Value) {
	e.vars.define(name, newSlot(v))
}

// declare binds the name to an undefined slot. Reading it before assignment
// is a runtime error.
func (e *RunningEnv) declare(name symbol.ID) {
	e.vars.define(name, &Slot{})
}

// lookup finds the slot bound to the name, walking layers innermost first.
func (e *RunningEnv) lookup(name symbol.ID) (*Slot, bool) {
	return e.vars.lookup(name)
}
