package uguisu

import "github.com/grailbio/base/log"

// Symbol is the analyzer's record for a declared name or an analyzed
// expression.
type Symbol interface {
	symbolKind() string
}

// BadSymbol is the recovery placeholder for names whose declaration failed.
type BadSymbol struct{}

func (*BadSymbol) symbolKind() string { return "bad" }

// FuncParamSig is one resolved parameter of a function symbol.
type FuncParamSig struct {
	Name string
	Ty   *Type
}

// FuncSymbol describes a user-declared function. Params and RetTy hold
// Pending types until the resolve pass runs; IsDefined becomes true at that
// point.
type FuncSymbol struct {
	Name      string
	IsDefined bool
	Params    []FuncParamSig
	RetTy     *Type
	Vars      []*VariableSymbol
}

func (*FuncSymbol) symbolKind() string { return "fn" }

// FuncType returns the function's signature type.
func (s *FuncSymbol) FuncType() *Type {
	params := make([]*Type, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Ty
	}
	return NewFunctionType(params, s.RetTy)
}

// NativeFuncSymbol describes a built-in function known to the analyzer.
type NativeFuncSymbol struct {
	Name   string
	Params []*Type
	RetTy  *Type
}

func (*NativeFuncSymbol) symbolKind() string { return "native fn" }

// FuncType returns the native function's signature type.
func (s *NativeFuncSymbol) FuncType() *Type {
	return NewFunctionType(s.Params, s.RetTy)
}

// StructFieldSymbol describes one field of a struct declaration.
type StructFieldSymbol struct {
	StructName string
	Ty         *Type
}

func (*StructFieldSymbol) symbolKind() string { return "struct field" }

// StructSymbol describes a struct declaration. FieldOrder preserves the
// declaration order for iteration.
type StructSymbol struct {
	Name       string
	Fields     map[string]*StructFieldSymbol
	FieldOrder []string
}

func (*StructSymbol) symbolKind() string { return "struct" }

// VariableSymbol describes a variable. A Pending Ty means the type is not yet
// inferred; !IsDefined means reading the variable is a static error.
type VariableSymbol struct {
	IsDefined bool
	Ty        *Type
}

func (*VariableSymbol) symbolKind() string { return "variable" }

// PrimitiveSymbol is the scope entry for a built-in type name.
type PrimitiveSymbol struct {
	Ty *Type
}

func (*PrimitiveSymbol) symbolKind() string { return "primitive" }

// ExprSymbol remembers the inferred type of an expression node.
type ExprSymbol struct {
	Ty *Type
}

func (*ExprSymbol) symbolKind() string { return "expression" }

// SymbolTable maps AST node identity to the symbol the analyzer attached to
// it. Each node has at most one entry.
type SymbolTable struct {
	syms map[nodeID]Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{syms: map[nodeID]Symbol{}}
}

// Lookup returns the symbol attached to the node, if any.
func (t *SymbolTable) Lookup(n Node) (Symbol, bool) {
	sym, ok := t.syms[n.id()]
	return sym, ok
}

// set attaches a symbol to a node. Attaching twice is an invariant violation.
func (t *SymbolTable) set(n Node, sym Symbol) {
	if _, ok := t.syms[n.id()]; ok {
		log.Panicf("symtab: node %v already has a symbol", n)
	}
	t.syms[n.id()] = sym
}

// setOrReplace attaches a symbol, overwriting a previous entry. Used for
// expression nodes that are analyzed through the reference path and then
// annotated with their final type.
func (t *SymbolTable) setOrReplace(n Node, sym Symbol) {
	t.syms[n.id()] = sym
}

// Len returns the number of annotated nodes.
func (t *SymbolTable) Len() int { return len(t.syms) }
