package uguisu

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Options configure a session's host boundary.
type Options struct {
	// Stdout receives already-rendered program output. Newlines are not
	// injected. A nil Stdout means silent.
	Stdout func(string)
	// Now injects the wall clock for getUnixtime. Defaults to time.Now.
	Now func() time.Time
	// Trace logs each user-function call.
	Trace bool
}

func (o *Options) stdout(s string) {
	if o.Stdout != nil {
		o.Stdout(s)
	}
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Session drives the pipeline: parse, analyze, run. A session holds no state
// between programs; it exists to carry the host options.
type Session struct {
	opts Options
}

// NewSession creates a session with the given host options.
func NewSession(opts Options) *Session {
	return &Session{opts: opts}
}

// Parse turns a source text into a syntax tree. filename is embedded in error
// messages.
func (s *Session) Parse(filename, source string) (*SourceFile, error) {
	return Parse(source, filename)
}

// Analyze verifies a parsed program. It never fails; diagnostics accumulate
// in the result and the analysis covers the whole program.
func (s *Session) Analyze(file *SourceFile) (*SymbolTable, *Result) {
	return analyzeFile(file)
}

// Run executes a verified program by calling its main function.
//
// REQUIRES: Analyze reported no errors for the file.
func (s *Session) Run(ctx context.Context, file *SourceFile) (Value, error) {
	var val Value
	err := Recover(func() {
		val = runFile(ctx, file, &s.opts)
	})
	if err != nil {
		return Value{}, errors.Wrapf(err, "run %s", file.Filename)
	}
	return val, nil
}

// RunSource drives the whole pipeline over a source text and returns main's
// exit value. The first fatal condition (parse error, analysis errors,
// runtime error) aborts.
func (s *Session) RunSource(ctx context.Context, filename, source string) (Value, error) {
	file, err := s.Parse(filename, source)
	if err != nil {
		return Value{}, err
	}
	_, result := s.Analyze(file)
	if !result.OK() {
		return Value{}, errors.Errorf("analyze %s:\n%s", filename, strings.Join(result.ErrorStrings(), "\n"))
	}
	return s.Run(ctx, file)
}
