package uguisu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	lx := newLexer(src)
	var toks []Token
	for lx.token().Kind != EOF {
		toks = append(toks, lx.token())
		lx.next()
	}
	return append(toks, lx.token())
}

func lexFail(t *testing.T, src string) string {
	msg := ""
	func() {
		defer func() {
			if e := recover(); e != nil {
				msg = e.(scanError).msg
			}
		}()
		lx := newLexer(src)
		for lx.token().Kind != EOF {
			lx.next()
		}
	}()
	require.NotEmptyf(t, msg, "input %q did not fail", src)
	return msg
}

func TestLexOps(t *testing.T) {
	for str, kind := range punct2 {
		toks := lexAll(t, str)
		require.Equalf(t, 2, len(toks), "op %q", str)
		require.Equalf(t, kind, toks[0].Kind, "op %q", str)
	}
	for ch, kind := range punct1 {
		toks := lexAll(t, string(ch))
		require.Equalf(t, 2, len(toks), "op %q", string(ch))
		require.Equalf(t, kind, toks[0].Kind, "op %q", string(ch))
	}
}

func TestLexKeywords(t *testing.T) {
	for word, kind := range keywords {
		toks := lexAll(t, word)
		require.Equal(t, kind, toks[0].Kind)
	}
	toks := lexAll(t, "fnord loops breaker")
	for _, tok := range toks[:3] {
		require.Equal(t, Ident, tok.Kind)
	}
}

func TestLexPositions(t *testing.T) {
	toks := lexAll(t, "ab + cd\n  ef")
	require.Equal(t, Pos{1, 1}, toks[0].Pos)
	require.Equal(t, Pos{1, 4}, toks[1].Pos)
	require.Equal(t, Pos{1, 6}, toks[2].Pos)
	require.Equal(t, Pos{2, 3}, toks[3].Pos)

	// CR occupies no column.
	toks = lexAll(t, "a\r\nb")
	require.Equal(t, Pos{2, 1}, toks[1].Pos)
}

func TestLexLiterals(t *testing.T) {
	toks := lexAll(t, `007 true false 'x' "a\tb"`)
	require.Equal(t, Lit{NumberLitKind, "007"}, toks[0].Lit)
	require.Equal(t, Lit{BoolLitKind, "true"}, toks[1].Lit)
	require.Equal(t, Lit{BoolLitKind, "false"}, toks[2].Lit)
	require.Equal(t, Lit{CharLitKind, "x"}, toks[3].Lit)
	require.Equal(t, Lit{StringLitKind, "a\tb"}, toks[4].Lit)
}

func TestLexComments(t *testing.T) {
	toks := lexAll(t, "a // rest of line\nb /* inline */ c")
	require.Equal(t, 4, len(toks))
	require.Equal(t, "a", toks[0].Ident)
	require.Equal(t, "b", toks[1].Ident)
	require.Equal(t, "c", toks[2].Ident)

	// Block comments do not nest.
	toks = lexAll(t, "/* /* */ x")
	require.Equal(t, "x", toks[0].Ident)
}

func TestLexErrors(t *testing.T) {
	require.Equal(t, "unexpected EOF", lexFail(t, `"abc`))
	require.Equal(t, "unexpected EOF", lexFail(t, `'a`))
	require.Equal(t, "unexpected EOF", lexFail(t, "/* never closed"))
	require.Equal(t, `invalid special character: \q`, lexFail(t, `"a\qb"`))
	require.Equal(t, "invalid character: @", lexFail(t, "@"))
}

func TestLexTotality(t *testing.T) {
	lx := newLexer("ab")
	lx.next()
	for i := 0; i < 5; i++ {
		lx.next()
		require.Equal(t, EOF, lx.token().Kind)
	}
}
