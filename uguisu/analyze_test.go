package uguisu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzeSrc(t *testing.T, src string) (*SymbolTable, *Result) {
	file, err := Parse(src, "test")
	require.NoError(t, err)
	return analyzeFile(file)
}

func analyzeErrs(t *testing.T, src string) []string {
	_, res := analyzeSrc(t, src)
	return res.ErrorStrings()
}

func TestAnalyzeMinimal(t *testing.T) {
	_, res := analyzeSrc(t, `fn main() { var x = 1 + 2; assertEq(x, 3); }`)
	require.True(t, res.OK(), "errors: %v", res.ErrorStrings())
	require.Empty(t, res.Warnings)
}

func TestAnalyzeBreak(t *testing.T) {
	errs := analyzeErrs(t, `fn main() { break; }`)
	require.Equal(t, 1, len(errs))
	assert.Equal(t, "invalid break statement (1:13)", errs[0])

	// Break nested under an if inside a loop is accepted.
	_, res := analyzeSrc(t, `fn main() { loop { if true { break; } } }`)
	assert.True(t, res.OK(), "errors: %v", res.ErrorStrings())

	// The loop boundary does not leak into called positions: an if outside a
	// loop is still rejected.
	errs = analyzeErrs(t, `fn main() { if true { break; } }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "invalid break statement")
}

func TestAnalyzeUnassignedVariable(t *testing.T) {
	errs := analyzeErrs(t, `fn main() { var x: number; printNum(x); }`)
	require.Equal(t, 1, len(errs))
	assert.Equal(t, "variable is not assigned yet. (1:37)", errs[0])

	// The first assignment defines the variable.
	_, res := analyzeSrc(t, `fn main() { var x: number; x = 1; printNum(x); }`)
	assert.True(t, res.OK(), "errors: %v", res.ErrorStrings())
}

func TestAnalyzePendingInference(t *testing.T) {
	// Assigning to a declared-but-untyped variable infers its type.
	_, res := analyzeSrc(t, `fn main() { var x; x = 1; assertEq(x, 1); }`)
	require.True(t, res.OK(), "errors: %v", res.ErrorStrings())

	errs := analyzeErrs(t, `fn main() { var x; x = "s"; assertEq(x, 1); }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `number`, found `string`")
}

func TestAnalyzeDuplicates(t *testing.T) {
	errs := analyzeErrs(t, `fn f() {} fn f() {} fn main() {}`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "`f` is already declared")
}

func TestAnalyzeExportWarning(t *testing.T) {
	_, res := analyzeSrc(t, `export fn main() {}`)
	require.True(t, res.OK())
	require.Equal(t, 1, len(res.Warnings))
	assert.Equal(t, "exported function is not supported yet (1:8)", res.Warnings[0].String())
}

func TestAnalyzeTypeNames(t *testing.T) {
	errs := analyzeErrs(t, `fn f(x: blah) {} fn main() {}`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "unknown type name `blah`")

	// A function name is not a type name.
	errs = analyzeErrs(t, `fn g() {} fn f(x: g) {} fn main() {}`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "invalid type name `g`")

	errs = analyzeErrs(t, `fn f(x) {} fn main() {}`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "parameter type missing.")
}

func TestAnalyzeReturnTypes(t *testing.T) {
	_, res := analyzeSrc(t, `fn f(): number { return 1; } fn main() { assertEq(f(), 1); }`)
	require.True(t, res.OK(), "errors: %v", res.ErrorStrings())

	errs := analyzeErrs(t, `fn f(): number { return "s"; } fn main() {}`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `number`, found `string`")

	// A body that cannot fall through has type never; no trailing value is
	// required.
	_, res = analyzeSrc(t, `
fn f(x: number): number { if x == 0 { return 1; } else { return f(x-1)*2; } }
fn main() { assertEq(f(8), 256); }`)
	require.True(t, res.OK(), "errors: %v", res.ErrorStrings())

	// A non-void function whose final step is void fails.
	errs = analyzeErrs(t, `fn f(): number { printLF(); } fn main() {}`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `number`, found `void`")
}

func TestAnalyzeCall(t *testing.T) {
	errs := analyzeErrs(t, `fn f(x: number) {} fn main() { f(); }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "wrong number of arguments: expected 1, got 0")

	errs = analyzeErrs(t, `fn f(x: number) {} fn main() { f("s"); }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `number`, found `string`")

	errs = analyzeErrs(t, `fn main() { var x = 1; x(); }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "`x` is not a function")
}

func TestAnalyzeStructs(t *testing.T) {
	_, res := analyzeSrc(t, `
struct A { value: number }
fn main() { var a = new A { value: 1 }; assertEq(a.value, 1); a.value = 2; }`)
	require.True(t, res.OK(), "errors: %v", res.ErrorStrings())

	errs := analyzeErrs(t, `struct A { value: number } fn main() { var a = new A {}; }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "field `value` is not initialized")

	errs = analyzeErrs(t, `struct A { value: number } fn main() { var a = new A { value: 1, value: 2 }; }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "field `value` is duplicated")

	errs = analyzeErrs(t, `struct A { value: number } fn main() { var a = new A { value: 1, other: 2 }; }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "unknown field name `other`")

	errs = analyzeErrs(t, `struct A { value: number } fn main() { var a = new A { value: "s" }; }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `number`, found `string`")

	errs = analyzeErrs(t, `struct A { value: number } fn main() { var a = new A { value: 1 }; a.other = 1; }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "unknown field name `other`")
}

func TestAnalyzeIndexAccess(t *testing.T) {
	_, res := analyzeSrc(t, `fn main() { var a = [1,2]; assertEq(a[0], 1); }`)
	require.True(t, res.OK(), "errors: %v", res.ErrorStrings())
	// Element typing is unchecked; a single end-of-analysis warning reports it.
	require.Equal(t, 1, len(res.Warnings))
	assert.Equal(t, "any-type was used", res.Warnings[0].String())

	errs := analyzeErrs(t, `fn main() { var a = [1]; var x = a["s"]; }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `number`, found `string`")

	errs = analyzeErrs(t, `fn main() { var x = 1; var y = x[0]; }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `array`, found `number`")
}

func TestAnalyzeIfExpr(t *testing.T) {
	_, res := analyzeSrc(t, `fn f(c: bool): number { var x = if c { 1 } else { 2 }; return x; } fn main() {}`)
	require.True(t, res.OK(), "errors: %v", res.ErrorStrings())

	errs := analyzeErrs(t, `fn main() { if 1 { } }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `bool`, found `number`")

	errs = analyzeErrs(t, `fn f(c: bool) { var x = if c { 1 } else { "s" }; } fn main() {}`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `number`, found `string`")

	// One never branch adopts the other branch's type.
	_, res = analyzeSrc(t, `fn f(c: bool): number { var x = if c { return 0; } else { 2 }; return x; } fn main() {}`)
	require.True(t, res.OK(), "errors: %v", res.ErrorStrings())
}

func TestAnalyzeCompoundAssign(t *testing.T) {
	errs := analyzeErrs(t, `fn main() { var s = "a"; s += "b"; }`)
	require.Equal(t, 2, len(errs)) // both target and body are checked
	assert.Contains(t, errs[0], "type mismatch: expected `number`, found `string`")
}

func TestAnalyzeScopeDiscipline(t *testing.T) {
	errs := analyzeErrs(t, `fn main() { if true { var x = 1; assertEq(x, 1); } printNum(x); }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "unknown identifier `x`")
}

func TestAnalyzeNonFinalSteps(t *testing.T) {
	errs := analyzeErrs(t, `fn f(): number { return 1; } fn main() { f(); printLF(); }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `void`, found `number`")
}

func TestAnalyzeLoopBlockType(t *testing.T) {
	errs := analyzeErrs(t, `fn f(): number { return 1; } fn main() { loop { f() } }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "type mismatch: expected `void`, found `number`")

	// A loop whose block always breaks is fine.
	_, res := analyzeSrc(t, `fn main() { loop { break; } }`)
	assert.True(t, res.OK(), "errors: %v", res.ErrorStrings())
}

func TestAnalyzeCharLiteral(t *testing.T) {
	_, res := analyzeSrc(t, `fn main() { var c = 'x'; }`)
	require.True(t, res.OK())

	errs := analyzeErrs(t, `fn main() { var c = 'xy'; }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "char literal must contain exactly one character")
}

func TestAnalyzeSymbolTable(t *testing.T) {
	file, err := Parse(`struct A { value: number } fn f(x: number): number { var y = x; return y; } fn main() {}`, "test")
	require.NoError(t, err)
	table, res := analyzeFile(file)
	require.True(t, res.OK(), "errors: %v", res.ErrorStrings())

	fdecl := file.Decls[1].(*FuncDecl)
	sym, ok := table.Lookup(fdecl)
	require.True(t, ok)
	fsym := sym.(*FuncSymbol)
	assert.True(t, fsym.IsDefined)
	assert.Equal(t, TypeNumber, fsym.RetTy)
	require.Equal(t, 1, len(fsym.Params))
	assert.Equal(t, TypeNumber, fsym.Params[0].Ty)
	assert.Equal(t, 1, len(fsym.Vars)) // y

	sdecl := file.Decls[0].(*StructDecl)
	sym, ok = table.Lookup(sdecl)
	require.True(t, ok)
	ssym := sym.(*StructSymbol)
	assert.Equal(t, TypeNumber, ssym.Fields["value"].Ty)
}

// Analyzing a successful program twice yields the same diagnostics.
func TestAnalyzeIdempotence(t *testing.T) {
	src := `fn main() { var a = [1,2]; assertEq(a[0], 1); }`
	_, res1 := analyzeSrc(t, src)
	_, res2 := analyzeSrc(t, src)
	require.True(t, res1.OK())
	assert.Equal(t, res1.ErrorStrings(), res2.ErrorStrings())
	assert.Equal(t, res1.WarningStrings(), res2.WarningStrings())
}

// Error recovery: one mistake does not cascade.
func TestAnalyzeRecovery(t *testing.T) {
	errs := analyzeErrs(t, `fn main() { var x = blah; var y = x + 1; assertEq(y, 1); }`)
	require.Equal(t, 1, len(errs))
	assert.Contains(t, errs[0], "unknown identifier `blah`")
}
