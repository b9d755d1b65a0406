package uguisu

import (
	"fmt"
	"runtime/debug"

	"github.com/grailbio/base/errors"
)

// runtimeError is thrown by the evaluator and by native handlers. It carries
// a fully formatted message; Recover converts it into an error at the host
// boundary.
type runtimeError struct {
	msg string
}

func (e runtimeError) Error() string { return e.msg }

// Panicf raises a runtime error. Arg "ast" is the source-code location of the
// error; when its position is known, the message is suffixed with
// " (line:column)". If "ast" is unknown, pass unknownNode.
func Panicf(ast Node, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if ast != nil && ast.Pos().Known() {
		msg = fmt.Sprintf("%s (%v)", msg, ast.Pos())
	}
	panic(runtimeError{msg: msg})
}

// Recover runs the given function, catching a runtime error thrown by the
// function and turning it into an error. Any other panic is reported with its
// stack. If the function finishes without panicking, Recover returns nil.
func Recover(cb func()) (err error) {
	defer func() {
		if e := recover(); e != nil {
			if re, ok := e.(runtimeError); ok {
				err = errors.E(re.msg)
				return
			}
			err = errors.E(fmt.Sprintf("panic %v: %v", e, string(debug.Stack())))
		}
	}()
	cb()
	return nil
}
