// Package uguisu implements the front end and the tree-walking interpreter for
// the Uguisu language: a hand-written scanner, a recursive-descent parser, a
// three-phase semantic analyzer and an AST evaluator.
package uguisu

import "fmt"

// Pos is a source-code location. Line and Column are 1-based.
type Pos struct {
	Line   int
	Column int
}

// Known reports whether the position refers to an actual source location.
func (p Pos) Known() bool { return p.Line > 0 }

// String returns "line:column".
func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Kind classifies a token.
type Kind int

const (
	// EOF is reported forever once the source is exhausted.
	EOF Kind = iota
	Ident
	Literal

	Plus
	Minus
	Asterisk
	Slash
	Percent
	BeginBrace
	EndBrace
	BeginParen
	EndParen
	BeginBracket
	EndBracket
	Dot
	Comma
	Colon
	Semi
	Assign
	AddAssign
	SubAssign
	MultAssign
	DivAssign
	ModAssign
	Eq2
	NotEq
	LessThan
	LessThanEq
	GreaterThan
	GreaterThanEq
	Not
	Or
	And
	Or2
	And2

	KeywordFn
	KeywordVar
	KeywordStruct
	KeywordNew
	KeywordReturn
	KeywordIf
	KeywordElse
	KeywordLoop
	KeywordBreak
	KeywordImport
	KeywordExport
)

var kindNames = [...]string{
	EOF:           "EOF",
	Ident:         "Ident",
	Literal:       "Literal",
	Plus:          "+",
	Minus:         "-",
	Asterisk:      "*",
	Slash:         "/",
	Percent:       "%",
	BeginBrace:    "{",
	EndBrace:      "}",
	BeginParen:    "(",
	EndParen:      ")",
	BeginBracket:  "[",
	EndBracket:    "]",
	Dot:           ".",
	Comma:         ",",
	Colon:         ":",
	Semi:          ";",
	Assign:        "=",
	AddAssign:     "+=",
	SubAssign:     "-=",
	MultAssign:    "*=",
	DivAssign:     "/=",
	ModAssign:     "%=",
	Eq2:           "==",
	NotEq:         "!=",
	LessThan:      "<",
	LessThanEq:    "<=",
	GreaterThan:   ">",
	GreaterThanEq: ">=",
	Not:           "!",
	Or:            "|",
	And:           "&",
	Or2:           "||",
	And2:          "&&",
	KeywordFn:     "fn",
	KeywordVar:    "var",
	KeywordStruct: "struct",
	KeywordNew:    "new",
	KeywordReturn: "return",
	KeywordIf:     "if",
	KeywordElse:   "else",
	KeywordLoop:   "loop",
	KeywordBreak:  "break",
	KeywordImport: "import",
	KeywordExport: "export",
}

// String returns the token name as it appears in error messages.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// LitKind classifies the payload of a Literal token.
type LitKind int

const (
	NumberLitKind LitKind = iota
	BoolLitKind
	CharLitKind
	StringLitKind
)

// Lit is the payload of a Literal token. Text holds the raw contents: the
// digit run for numbers, the unquoted body for chars and strings (with
// escapes already substituted), "true" or "false" for bools.
type Lit struct {
	Kind LitKind
	Text string
}

// Token is one classified lexeme. Pos is the position of the first character
// of the lexeme.
type Token struct {
	Kind  Kind
	Pos   Pos
	Ident string // set iff Kind==Ident
	Lit   Lit    // set iff Kind==Literal
}

var keywords = map[string]Kind{
	"fn":     KeywordFn,
	"var":    KeywordVar,
	"struct": KeywordStruct,
	"new":    KeywordNew,
	"return": KeywordReturn,
	"if":     KeywordIf,
	"else":   KeywordElse,
	"loop":   KeywordLoop,
	"break":  KeywordBreak,
	"import": KeywordImport,
	"export": KeywordExport,
}
