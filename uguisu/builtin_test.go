package uguisu_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uguisu-dev/uguisu/uguisu"
	"github.com/uguisu-dev/uguisu/uguisutest"
)

func TestBuiltinPrint(t *testing.T) {
	_, out := uguisutest.Run(t, `
fn main() {
  printStr("hello ");
  printNum(42);
  printLF();
  printNum(5 / 2);
}`)
	// Newlines are never injected; printLF is explicit.
	assert.Equal(t, "hello 42\n2.5", out)
}

func TestBuiltinStrings(t *testing.T) {
	_, out := uguisutest.Run(t, `
fn main() {
  printStr(concatStr("foo", "bar"));
  printStr(toString(256));
  printStr(toString(1 / 2));
  assertEq(parseNum("12"), 12);
}`)
	assert.Equal(t, "foobar2560.5", out)
}

func TestBuiltinAssertEq(t *testing.T) {
	uguisutest.Run(t, `fn main() { assertEq(2+2, 4); }`)

	_, _, err := uguisutest.RunErr(t, `fn main() { assertEq(1+1, 3); }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertion error. expected `2`, actual `3`.")
}

func TestBuiltinArrayHelpers(t *testing.T) {
	uguisutest.Run(t, `
fn main() {
  var a = [1, 2, 3];
  assertEq(count(a), 3);
  insert(a, 1, 9);
  assertEq(count(a), 4);
  assertEq(a[0], 1);
  assertEq(a[1], 9);
  assertEq(a[2], 2);
  removeAt(a, 0);
  assertEq(a[0], 9);
  assertEq(count(a), 3);
  insert(a, 3, 7);
  assertEq(a[3], 7);
}`)

	_, _, err := uguisutest.RunErr(t, `fn main() { var a = [1]; removeAt(a, 5); }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index out of range")
}

func TestBuiltinGetUnixtime(t *testing.T) {
	sess := uguisu.NewSession(uguisu.Options{
		Now: func() time.Time { return time.Unix(12345, 500e6) },
	})
	_, err := sess.RunSource(context.Background(), "test",
		`fn main() { assertEq(getUnixtime(), 12345); }`)
	require.NoError(t, err)
}

func TestBuiltinSignatures(t *testing.T) {
	// Built-ins are declared to the analyzer with full signatures.
	res := uguisutest.Analyze(t, `fn main() { printStr(1); }`)
	require.Equal(t, 1, len(res.Errors))
	assert.Contains(t, res.Errors[0].String(), "type mismatch: expected `string`, found `number`")

	res = uguisutest.Analyze(t, `fn main() { concatStr("a"); }`)
	require.Equal(t, 1, len(res.Errors))
	assert.Contains(t, res.Errors[0].String(), "wrong number of arguments: expected 2, got 1")
}
