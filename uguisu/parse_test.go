package uguisu

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExprString(t *testing.T, src string) string {
	p := &parser{lx: newLexer(src), filename: "test"}
	e := p.parseExpr()
	require.Equal(t, EOF, p.tok().Kind)
	return e.String()
}

func parseFail(t *testing.T, src string) *ParseError {
	_, err := Parse(src, "test")
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "error %v is not a ParseError", err)
	return perr
}

func TestParsePrecedence(t *testing.T) {
	for _, tc := range []struct{ in, out string }{
		{"1+2*3", "(1+(2*3))"},
		{"1*2+3", "((1*2)+3)"},
		{"1-2-3", "((1-2)-3)"},
		{"8/4/2", "((8/4)/2)"},
		{"a||b&&c==d<e+f*g", "(a||(b&&(c==(d<(e+(f*g))))))"},
		{"a==b||c!=d", "((a==b)||(c!=d))"},
		{"1+2 <= 3%4", "((1+2)<=(3%4))"},
		{"(1+2)*3", "((1+2)*3)"},
		{"-a.b", "-a.b"},
		{"!f(x)", "!f(x)"},
		{"-1+2", "(-1+2)"},
	} {
		assert.Equal(t, tc.out, parseExprString(t, tc.in), "input: %s", tc.in)
	}
}

func TestParseSuffixChain(t *testing.T) {
	assert.Equal(t, "f(1)(2).x[0]", parseExprString(t, "f(1)(2).x[0]"))
	assert.Equal(t, "a.b.c", parseExprString(t, "a.b.c"))
	assert.Equal(t, "xs[i][j]", parseExprString(t, "xs[i][j]"))
	assert.Equal(t, "f(1,2,3)", parseExprString(t, "f(1, 2, 3,)"))
}

func TestParseAtoms(t *testing.T) {
	assert.Equal(t, `[1,2,3]`, parseExprString(t, "[1, 2, 3]"))
	assert.Equal(t, `[]`, parseExprString(t, "[]"))
	assert.Equal(t, `new A{value:1,next:b}`, parseExprString(t, "new A { value: 1, next: b }"))
	assert.Equal(t, `"s"`, parseExprString(t, `"s"`))
	assert.Equal(t, `'c'`, parseExprString(t, "'c'"))
	assert.Equal(t, "if a{1}else{2}", parseExprString(t, "if a { 1 } else { 2 }"))
	assert.Equal(t, "if a{1}else{if b{2}else{3}}",
		parseExprString(t, "if a { 1 } else if b { 2 } else { 3 }"))
}

func TestParseDecls(t *testing.T) {
	file, err := Parse(`
fn add(x: number, y: number): number { return x+y; }
export fn main() { assertEq(add(1,2), 3); }
struct Pair { first: number, second: number }
`, "test")
	require.NoError(t, err)
	require.Equal(t, 3, len(file.Decls))
	assert.Equal(t, "fn add(x:number,y:number):number{return (x+y);}", file.Decls[0].String())
	assert.Equal(t, "fn main(){assertEq(add(1,2),3);}", file.Decls[1].String())
	assert.Equal(t, "struct Pair{first:number,second:number}", file.Decls[2].String())
	assert.False(t, file.Decls[0].(*FuncDecl).Exported)
	assert.True(t, file.Decls[1].(*FuncDecl).Exported)
}

func TestParseStatements(t *testing.T) {
	file, err := Parse(`
fn main() {
  var x: number = 1;
  var y;
  x += 2;
  x %= 3;
  loop { break; }
  y = x;
  return;
}
`, "test")
	require.NoError(t, err)
	assert.Equal(t,
		"fn main(){var x:number=1;var y;x+=2;x%=3;loop{break;}y=x;return;}",
		file.Decls[0].String())
}

// A block-shaped if statement needs no terminating semicolon, even mid-block.
func TestParseIfStatement(t *testing.T) {
	file, err := Parse(`fn main() { loop { if i==10 { break; } i = i+1; } }`, "test")
	require.NoError(t, err)
	assert.Equal(t,
		"fn main(){loop{if (i==10){break;}i=(i+1);}}",
		file.Decls[0].String())
}

// The trailing expression of a block stands as the block's value.
func TestParseTrailingExpr(t *testing.T) {
	file, err := Parse(`fn f(): number { if c { 1 } else { 2 } }`, "test")
	require.NoError(t, err)
	assert.Equal(t, "fn f():number{if c{1}else{2}}", file.Decls[0].String())
}

func TestParseDeterminism(t *testing.T) {
	src := `
struct A { value: number }
fn main() { var a = new A { value: 1 }; a.value = 2; printNum(a.value); }
`
	f1, err := Parse(src, "test")
	require.NoError(t, err)
	f2, err := Parse(src, "test")
	require.NoError(t, err)
	require.Equal(t, f1, f2)
}

func TestParseErrors(t *testing.T) {
	perr := parseFail(t, "fn main( { }")
	assert.Equal(t, "unexpected token: {", perr.Msg)
	assert.Equal(t, Pos{1, 10}, perr.Pos)

	perr = parseFail(t, "var x = 1;")
	assert.Equal(t, "unexpected token: var", perr.Msg)

	// A bare expression is only legal as the final step of a block.
	perr = parseFail(t, "fn f(){ 1 2; }")
	assert.Equal(t, "unexpected token: Literal", perr.Msg)

	perr = parseFail(t, "fn f(){ return 1 }")
	assert.Equal(t, "unexpected token: }", perr.Msg)

	perr = parseFail(t, `fn f(){ var s = "abc; }`)
	assert.Equal(t, "unexpected EOF", perr.Msg)
}
