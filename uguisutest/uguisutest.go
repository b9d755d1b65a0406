// Package uguisutest provides helper functions for unittests.
package uguisutest

import (
	"context"
	"strings"
	"testing"

	"github.com/grailbio/base/must"
	"github.com/uguisu-dev/uguisu/uguisu"
)

// Run parses, analyzes and executes the given source. It returns main's exit
// value together with the captured stdout. Any pipeline failure crashes the
// test.
func Run(t testing.TB, src string) (uguisu.Value, string) {
	val, out, err := RunErr(t, src)
	must.Nil(err)
	return val, out
}

// RunErr is like Run, but returns the pipeline error instead of crashing.
func RunErr(t testing.TB, src string) (uguisu.Value, string, error) {
	out := strings.Builder{}
	sess := uguisu.NewSession(uguisu.Options{Stdout: func(s string) { out.WriteString(s) }})
	val, err := sess.RunSource(context.Background(), "(input)", src)
	return val, out.String(), err
}

// Analyze parses and analyzes the given source and returns the collected
// diagnostics. A parse error crashes the test.
func Analyze(t testing.TB, src string) *uguisu.Result {
	sess := uguisu.NewSession(uguisu.Options{})
	file, err := sess.Parse("(input)", src)
	must.Nil(err)
	_, result := sess.Analyze(file)
	return result
}
