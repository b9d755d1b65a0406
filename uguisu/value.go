package uguisu

import (
	"context"

	"github.com/uguisu-dev/uguisu/hash"
	"github.com/uguisu-dev/uguisu/symbol"
	"github.com/uguisu-dev/uguisu/termutil"
)

// ValueKind discriminates runtime values.
type ValueKind byte

const (
	// InvalidValueKind is a sentinel; only a default-constructed Value has it.
	InvalidValueKind ValueKind = iota
	// NoneKind is the result of void functions and of blocks without a
	// trailing value.
	NoneKind
	NumberKind
	BoolKind
	CharKind
	StringKind
	ArrayKind
	StructKind
	FuncKind
)

var valueKindNames = [...]string{
	InvalidValueKind: "(invalid)",
	NoneKind:         "none",
	NumberKind:       "number",
	BoolKind:         "bool",
	CharKind:         "char",
	StringKind:       "string",
	ArrayKind:        "array",
	StructKind:       "struct",
	FuncKind:         "fn",
}

func (k ValueKind) String() string { return valueKindNames[k] }

// Value is a unified representation of an Uguisu runtime value. The handle is
// immutable; arrays and structs mutate through the slots it points at.
type Value struct {
	kind ValueKind
	num  float64 // NumberKind; BoolKind stores 0 or 1
	str  string  // CharKind, StringKind
	p    any     // *ArrayVal, *StructVal, *FuncVal
}

// Valid returns true if the value stores something. Note that None is a valid
// value; only a default-constructed Value returns false.
func (v Value) Valid() bool { return v.kind != InvalidValueKind }

// Kind returns the kind of the value.
func (v Value) Kind() ValueKind { return v.kind }

var (
	// None is the unit value.
	None = Value{kind: NoneKind}
	// True is the true Bool constant.
	True = Value{kind: BoolKind, num: 1}
	// False is the false Bool constant.
	False = Value{kind: BoolKind, num: 0}
)

// NewNum creates a number value.
func NewNum(v float64) Value { return Value{kind: NumberKind, num: v} }

// NewBool creates a bool value.
func NewBool(v bool) Value {
	if v {
		return True
	}
	return False
}

// NewChar creates a char value holding one grapheme.
func NewChar(s string) Value { return Value{kind: CharKind, str: s} }

// NewString creates a string value.
func NewString(s string) Value { return Value{kind: StringKind, str: s} }

// NewArray creates an array value.
func NewArray(a *ArrayVal) Value { return Value{kind: ArrayKind, p: a} }

// NewStructValue creates a struct value.
func NewStructValue(s *StructVal) Value { return Value{kind: StructKind, p: s} }

// NewFuncValue creates a function value.
func NewFuncValue(f *FuncVal) Value { return Value{kind: FuncKind, p: f} }

func (v Value) wrongTypeError(ast Node, expected string) {
	Panicf(ast, "expect value of type %s, but found `%v` (type %v)", expected, v, v.kind)
}

// Num extracts a number. "ast" is used only to report the source location on
// error.
//
// REQUIRES: v.Kind()==NumberKind
func (v Value) Num(ast Node) float64 {
	if v.kind != NumberKind {
		v.wrongTypeError(ast, "number")
	}
	return v.num
}

// Bool extracts a bool.
//
// REQUIRES: v.Kind()==BoolKind
func (v Value) Bool(ast Node) bool {
	if v.kind != BoolKind {
		v.wrongTypeError(ast, "bool")
	}
	return v.num != 0
}

// Char extracts a char.
//
// REQUIRES: v.Kind()==CharKind
func (v Value) Char(ast Node) string {
	if v.kind != CharKind {
		v.wrongTypeError(ast, "char")
	}
	return v.str
}

// Str extracts a string.
//
// REQUIRES: v.Kind()==StringKind
func (v Value) Str(ast Node) string {
	if v.kind != StringKind {
		v.wrongTypeError(ast, "string")
	}
	return v.str
}

// Array extracts the array.
//
// REQUIRES: v.Kind()==ArrayKind
func (v Value) Array(ast Node) *ArrayVal {
	if v.kind != ArrayKind {
		v.wrongTypeError(ast, "array")
	}
	return v.p.(*ArrayVal)
}

// Struct extracts the struct.
//
// REQUIRES: v.Kind()==StructKind
func (v Value) Struct(ast Node) *StructVal {
	if v.kind != StructKind {
		v.wrongTypeError(ast, "struct")
	}
	return v.p.(*StructVal)
}

// Func extracts the function.
//
// REQUIRES: v.Kind()==FuncKind
func (v Value) Func(ast Node) *FuncVal {
	if v.kind != FuncKind {
		Panicf(ast, "value `%v` (type %v) is not a function", v, v.kind)
	}
	return v.p.(*FuncVal)
}

// String produces a human-readable rendition, for logging and assertions.
func (v Value) String() string {
	out := termutil.NewBufferPrinter()
	v.print(out)
	return out.String()
}

func (v Value) print(out termutil.Printer) {
	switch v.kind {
	case NoneKind:
		out.WriteString("none")
	case NumberKind:
		out.WriteFloat(v.num)
	case BoolKind:
		if v.num != 0 {
			out.WriteString("true")
		} else {
			out.WriteString("false")
		}
	case CharKind:
		out.WriteString("'" + v.str + "'")
	case StringKind:
		out.WriteString(v.str)
	case ArrayKind:
		a := v.p.(*ArrayVal)
		out.WriteString("[")
		for i, slot := range a.Items {
			if i > 0 {
				out.WriteString(",")
			}
			slot.val.print(out)
		}
		out.WriteString("]")
	case StructKind:
		s := v.p.(*StructVal)
		out.WriteString("{")
		for i, name := range s.Names {
			if i > 0 {
				out.WriteString(",")
			}
			out.WriteString(name.Str())
			out.WriteString(":")
			s.Fields[name].val.print(out)
		}
		out.WriteString("}")
	case FuncKind:
		f := v.p.(*FuncVal)
		if f.Decl != nil {
			out.WriteString("fn " + f.Decl.Name)
		} else {
			out.WriteString(f.name.Str())
		}
	default:
		out.WriteString("(invalid)")
	}
}

// formatNum renders a number the way printNum and toString do.
func formatNum(v float64) string {
	out := termutil.NewBufferPrinter()
	out.WriteFloat(v)
	return out.String()
}

// Slot is the storage cell addressed by a name, an array element or a struct
// field. Assignments mutate slots; closures capture them.
type Slot struct {
	val     Value
	defined bool
}

// newSlot creates a defined slot holding the given value.
func newSlot(v Value) *Slot { return &Slot{val: v, defined: true} }

// Get returns the slot's current value.
//
// REQUIRES: the slot is defined.
func (s *Slot) Get() Value { return s.val }

// Set overwrites the slot's value.
func (s *Slot) Set(v Value) {
	s.val = v
	s.defined = true
}

// ArrayVal is a mutable ordered sequence of slots. Element assignment
// observes reference semantics on structs.
type ArrayVal struct {
	Items []*Slot
}

// NewArrayVal builds an array from the given element values.
func NewArrayVal(items ...Value) *ArrayVal {
	a := &ArrayVal{Items: make([]*Slot, len(items))}
	for i, v := range items {
		a.Items[i] = newSlot(v)
	}
	return a
}

// Len returns the number of elements.
func (a *ArrayVal) Len() int { return len(a.Items) }

// Insert places a new slot at the given position.
//
// REQUIRES: 0 <= i <= a.Len()
func (a *ArrayVal) Insert(i int, v Value) {
	a.Items = append(a.Items, nil)
	copy(a.Items[i+1:], a.Items[i:])
	a.Items[i] = newSlot(v)
}

// RemoveAt deletes the slot at the given position.
//
// REQUIRES: 0 <= i < a.Len()
func (a *ArrayVal) RemoveAt(i int) {
	a.Items = append(a.Items[:i], a.Items[i+1:]...)
}

// StructVal maps field names to slots. Names preserves the construction
// order.
type StructVal struct {
	Names  []symbol.ID
	Fields map[symbol.ID]*Slot
}

// NewStructVal creates an empty struct value.
func NewStructVal() *StructVal {
	return &StructVal{Fields: map[symbol.ID]*Slot{}}
}

// SetField creates or overwrites the named field's slot.
func (s *StructVal) SetField(name symbol.ID, v Value) {
	if _, ok := s.Fields[name]; !ok {
		s.Names = append(s.Names, name)
		s.Fields[name] = newSlot(v)
		return
	}
	s.Fields[name].Set(v)
}

// Field returns the named field's slot.
func (s *StructVal) Field(name symbol.ID) (*Slot, bool) {
	slot, ok := s.Fields[name]
	return slot, ok
}

// NativeHandler is the body of a built-in function. ast is the call site,
// used only to report source locations on error.
type NativeHandler func(ctx context.Context, ast Node, args []Value, opts *Options) Value

// FuncVal is a function closure. It is either user-defined (Decl and Env are
// set) or native (Native is set); the two shapes are mutually exclusive.
type FuncVal struct {
	// Decl is the declaration node of a user-defined function.
	Decl *FuncDecl
	// Env is the environment captured at the definition site.
	Env *RunningEnv
	// Native is the handler of a built-in function.
	Native NativeHandler

	name symbol.ID
	hash hash.Hash // identity of a native handler
}

// NewUserFunc creates a function value that captures the given environment.
func NewUserFunc(decl *FuncDecl, env *RunningEnv) *FuncVal {
	return &FuncVal{Decl: decl, Env: env, name: symbol.Intern(decl.Name)}
}

// NewNativeFunc creates a native function value. The registered name serves
// as the handler's identity.
func NewNativeFunc(name string, handler NativeHandler) *FuncVal {
	return &FuncVal{Native: handler, name: symbol.Intern(name), hash: hash.String(name)}
}

// Equal reports whether two function values are the same user declaration or
// the same native handler.
func (f *FuncVal) Equal(other *FuncVal) bool {
	if f.Decl != nil || other.Decl != nil {
		return f.Decl == other.Decl
	}
	return f.hash == other.hash
}
