package uguisu

import (
	"fmt"
	"strings"
)

// Severity of a diagnostic.
type Severity int

const (
	// Warn diagnostics do not prevent execution.
	Warn Severity = iota
	// Error diagnostics make the analysis fail.
	Error
)

// Diag is one analyzer diagnostic.
type Diag struct {
	Severity Severity
	Message  string
	Pos      Pos // zero value when no source location is known
}

// String renders the diagnostic in the stable consumer format:
// "<message> (<line>:<column>)", or just "<message>" when no position is
// known.
func (d Diag) String() string {
	if !d.Pos.Known() {
		return d.Message
	}
	return fmt.Sprintf("%s (%v)", d.Message, d.Pos)
}

// Result is the outcome of an analysis run. The analyzer always runs to
// completion; errors accumulate rather than abort.
type Result struct {
	Errors   []Diag
	Warnings []Diag
}

// OK reports whether the analysis succeeded, i.e. produced no errors.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// ErrorStrings renders all errors, one per line.
func (r *Result) ErrorStrings() []string {
	s := make([]string, len(r.Errors))
	for i, d := range r.Errors {
		s[i] = d.String()
	}
	return s
}

// WarningStrings renders all warnings.
func (r *Result) WarningStrings() []string {
	s := make([]string, len(r.Warnings))
	for i, d := range r.Warnings {
		s[i] = d.String()
	}
	return s
}

func (r *Result) String() string {
	buf := strings.Builder{}
	for _, d := range r.Errors {
		buf.WriteString("error: " + d.String() + "\n")
	}
	for _, d := range r.Warnings {
		buf.WriteString("warning: " + d.String() + "\n")
	}
	return buf.String()
}
