package uguisu

// Built-ins adapter. Each built-in is registered once: its signature feeds
// the analyzer's root scope and its handler feeds the runtime's root
// environment before either pass runs.

import (
	"context"
	"strconv"
)

type builtinDef struct {
	name    string
	params  []*Type
	ret     *Type
	handler NativeHandler
}

// builtinDefs is the initial population of the global environments.
var builtinDefs []builtinDef

// registerBuiltin declares a built-in function. It should be called inside
// init().
func registerBuiltin(name string, params []*Type, ret *Type, handler NativeHandler) {
	builtinDefs = append(builtinDefs, builtinDef{name: name, params: params, ret: ret, handler: handler})
}

func builtinPrintStr(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	opts.stdout(args[0].Str(ast))
	return None
}

func builtinPrintNum(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	opts.stdout(formatNum(args[0].Num(ast)))
	return None
}

func builtinPrintLF(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	opts.stdout("\n")
	return None
}

func builtinAssertEq(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	expected := args[0].Num(ast)
	actual := args[1].Num(ast)
	if expected != actual {
		Panicf(ast, "assertion error. expected `%s`, actual `%s`.", formatNum(expected), formatNum(actual))
	}
	return None
}

func builtinGetUnixtime(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	return NewNum(float64(opts.now().Unix()))
}

func builtinConcatStr(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	return NewString(args[0].Str(ast) + args[1].Str(ast))
}

func builtinToString(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	return NewString(formatNum(args[0].Num(ast)))
}

func builtinParseNum(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	s := args[0].Str(ast)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		Panicf(ast, "invalid number: `%s`", s)
	}
	return NewNum(v)
}

func builtinInsert(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	arr := args[0].Array(ast)
	i := int(args[1].Num(ast))
	if i < 0 || i > arr.Len() {
		Panicf(ast, "index out of range: %s (len %d)", formatNum(args[1].Num(ast)), arr.Len())
	}
	arr.Insert(i, args[2])
	return None
}

func builtinRemoveAt(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	arr := args[0].Array(ast)
	i := int(args[1].Num(ast))
	if i < 0 || i >= arr.Len() {
		Panicf(ast, "index out of range: %s (len %d)", formatNum(args[1].Num(ast)), arr.Len())
	}
	arr.RemoveAt(i)
	return None
}

func builtinCount(ctx context.Context, ast Node, args []Value, opts *Options) Value {
	return NewNum(float64(args[0].Array(ast).Len()))
}

func init() {
	registerBuiltin("printStr", []*Type{TypeString}, TypeVoid, builtinPrintStr)
	registerBuiltin("printNum", []*Type{TypeNumber}, TypeVoid, builtinPrintNum)
	registerBuiltin("printLF", nil, TypeVoid, builtinPrintLF)
	registerBuiltin("assertEq", []*Type{TypeNumber, TypeNumber}, TypeVoid, builtinAssertEq)
	registerBuiltin("getUnixtime", nil, TypeNumber, builtinGetUnixtime)
	registerBuiltin("concatStr", []*Type{TypeString, TypeString}, TypeString, builtinConcatStr)
	registerBuiltin("toString", []*Type{TypeNumber}, TypeString, builtinToString)
	registerBuiltin("parseNum", []*Type{TypeString}, TypeNumber, builtinParseNum)
	registerBuiltin("insert", []*Type{TypeArray, TypeNumber, TypeAny}, TypeVoid, builtinInsert)
	registerBuiltin("removeAt", []*Type{TypeArray, TypeNumber}, TypeVoid, builtinRemoveAt)
	registerBuiltin("count", []*Type{TypeArray}, TypeNumber, builtinCount)
}
