package uguisu

// Logging functions, similar to those in the "log" package. They show the
// source-code location of the node at hand.

import (
	"fmt"

	"github.com/grailbio/base/log"
)

// Debugf is similar to log.Debug.Printf(...). Arg "ast" is the source-code
// location of the message. If "ast" is unknown, pass unknownNode.
func Debugf(ast Node, format string, args ...interface{}) {
	if log.At(log.Debug) {
		log.Output(2, log.Debug, ast.Pos().String()+":"+ast.String()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
	}
}

// Logf is similar to log.Printf(...). Arg "ast" is the source-code location
// of the message. If "ast" is unknown, pass unknownNode.
func Logf(ast Node, format string, args ...interface{}) {
	if log.At(log.Info) {
		log.Output(2, log.Info, ast.Pos().String()+":"+ast.String()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
	}
}

// Errorf is similar to log.Error.Printf(...). Arg "ast" is the source-code
// location of the message. If "ast" is unknown, pass unknownNode.
func Errorf(ast Node, format string, args ...interface{}) {
	log.Output(2, log.Error, ast.Pos().String()+":"+ast.String()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
}
