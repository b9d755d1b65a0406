package uguisu

import "strings"

// TypeKind discriminates the closed set of static types.
type TypeKind int

const (
	// VoidKind is the type of statements and of functions with no declared
	// return type.
	VoidKind TypeKind = iota
	// NeverKind is the type of a block that always exits via return or break.
	NeverKind
	// PendingKind marks a variable that is declared but not yet inferred.
	// Reading a pending-typed variable is a static error.
	PendingKind
	// BadKind is the error-recovery placeholder. It is compatible with
	// anything, which suppresses cascading errors.
	BadKind
	// AnyKind disables element checking inside arrays.
	AnyKind
	// NamedKind is a primitive or a user-declared struct type.
	NamedKind
	// FunctionKind is a function signature.
	FunctionKind
	// GenericKind is a named type with type parameters. Declared for array
	// element typing; the core checks do not instantiate it further.
	GenericKind
)

// Type is a static type. Primitive Named types are singletons; the analyzer
// compares Named types by name.
type Type struct {
	Kind   TypeKind
	Name   string        // NamedKind, GenericKind
	Struct *StructSymbol // NamedKind: non-nil for user-declared structs
	Params []*Type       // FunctionKind: parameters; GenericKind: type args
	Ret    *Type         // FunctionKind
}

// Fixed types.
var (
	TypeVoid    = &Type{Kind: VoidKind}
	TypeNever   = &Type{Kind: NeverKind}
	TypePending = &Type{Kind: PendingKind}
	TypeBad     = &Type{Kind: BadKind}
	TypeAny     = &Type{Kind: AnyKind}

	// Primitive named types.
	TypeNumber = &Type{Kind: NamedKind, Name: "number"}
	TypeBool   = &Type{Kind: NamedKind, Name: "bool"}
	TypeChar   = &Type{Kind: NamedKind, Name: "char"}
	TypeString = &Type{Kind: NamedKind, Name: "string"}
	TypeArray  = &Type{Kind: NamedKind, Name: "array"}
)

var primitiveTypes = map[string]*Type{
	"number": TypeNumber,
	"bool":   TypeBool,
	"char":   TypeChar,
	"string": TypeString,
	"array":  TypeArray,
}

// NewStructType returns the Named type of a user-declared struct.
func NewStructType(sym *StructSymbol) *Type {
	return &Type{Kind: NamedKind, Name: sym.Name, Struct: sym}
}

// NewFunctionType builds a function signature type.
func NewFunctionType(params []*Type, ret *Type) *Type {
	return &Type{Kind: FunctionKind, Params: params, Ret: ret}
}

// String returns the type as it appears in diagnostics.
func (t *Type) String() string {
	switch t.Kind {
	case VoidKind:
		return "void"
	case NeverKind:
		return "never"
	case PendingKind:
		return "(pending)"
	case BadKind:
		return "(bad)"
	case AnyKind:
		return "any"
	case NamedKind:
		return t.Name
	case FunctionKind:
		buf := strings.Builder{}
		buf.WriteString("fn(")
		for i, p := range t.Params {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(p.String())
		}
		buf.WriteString("):")
		buf.WriteString(t.Ret.String())
		return buf.String()
	default: // GenericKind
		buf := strings.Builder{}
		buf.WriteString(t.Name)
		buf.WriteByte('<')
		for i, p := range t.Params {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(p.String())
		}
		buf.WriteByte('>')
		return buf.String()
	}
}

// valid reports whether a type may participate in value positions. Void,
// Never and Pending are not value types.
func (t *Type) valid() bool {
	switch t.Kind {
	case VoidKind, NeverKind, PendingKind:
		return false
	}
	return true
}

// CompatibleType is the total compatibility relation over types:
//
//   - Bad is compatible with anything.
//   - Any is compatible with every valid type.
//   - Void, Never and Pending are incompatible with every other type.
//   - Named types are compatible iff their names match.
//   - Function types compare by arity, return type and positional parameter
//     types.
func CompatibleType(x, y *Type) bool {
	if x.Kind == BadKind || y.Kind == BadKind {
		return true
	}
	if x.Kind == AnyKind || y.Kind == AnyKind {
		return x.valid() && y.valid()
	}
	switch x.Kind {
	case VoidKind, NeverKind, PendingKind:
		return x.Kind == y.Kind
	}
	if x.Kind != y.Kind {
		return false
	}
	switch x.Kind {
	case NamedKind:
		return x.Name == y.Name
	case FunctionKind:
		if len(x.Params) != len(y.Params) {
			return false
		}
		if !CompatibleType(x.Ret, y.Ret) {
			return false
		}
		for i := range x.Params {
			if !CompatibleType(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	default: // GenericKind
		if x.Name != y.Name || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !CompatibleType(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	}
}
