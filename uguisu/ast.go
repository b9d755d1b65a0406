package uguisu

// Syntax tree node shapes. Nodes are immutable after parsing; the analyzer
// records its findings in a side table keyed by node identity (see symtab.go).

import (
	"fmt"
	"strings"
)

// nodeID identifies an AST node. IDs are assigned by the parser from a
// monotonic counter, so node identity survives copies of the tree.
type nodeID int32

// invalidNodeID is carried by nodes that were not produced by a parser, such
// as the nowhere placeholder.
const invalidNodeID = nodeID(0)

// Node is implemented by every syntax tree node.
type Node interface {
	// Pos reports the location of the node's first significant token.
	Pos() Pos
	// String produces a human-readable rendition of the node. The result is
	// for logging and tests; it may not be valid Uguisu source.
	String() string

	id() nodeID
}

type nodeBase struct {
	pos Pos
	nid nodeID
}

func (n *nodeBase) Pos() Pos   { return n.pos }
func (n *nodeBase) id() nodeID { return n.nid }

// nowhere is a Node placeholder whose only purpose is to report an unknown
// source location.
type nowhere struct{}

func (nowhere) Pos() Pos       { return Pos{} }
func (nowhere) String() string { return "(unknown)" }
func (nowhere) id() nodeID     { return invalidNodeID }

var unknownNode Node = nowhere{}

// Step is a block element: either a statement or an expression. A bare
// expression may appear only as the final step of a block.
type Step interface {
	Node
	stepNode()
}

// Stmt is a statement.
type Stmt interface {
	Step
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Step
	exprNode()
}

// FileNode is a top-level declaration.
type FileNode interface {
	Node
	DeclName() string
}

// SourceFile is the root of a parsed source text.
type SourceFile struct {
	Filename string
	Decls    []FileNode
}

// TyLabel is a type annotation; it resolves to a built-in type or a declared
// struct during analysis.
type TyLabel struct {
	nodeBase
	Name string
}

func (n *TyLabel) String() string { return ":" + n.Name }

// FuncParam is one formal parameter of a function declaration.
type FuncParam struct {
	nodeBase
	Name string
	Ty   *TyLabel // nil when the annotation is missing
}

func (n *FuncParam) String() string {
	if n.Ty == nil {
		return n.Name
	}
	return n.Name + n.Ty.String()
}

// FuncDecl is a top-level "fn" declaration.
type FuncDecl struct {
	nodeBase
	Name     string
	Params   []*FuncParam
	RetTy    *TyLabel // nil means void
	Body     []Step
	Exported bool
}

func (n *FuncDecl) DeclName() string { return n.Name }

func (n *FuncDecl) String() string {
	buf := strings.Builder{}
	buf.WriteString("fn ")
	buf.WriteString(n.Name)
	buf.WriteByte('(')
	for i, p := range n.Params {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(p.String())
	}
	buf.WriteByte(')')
	if n.RetTy != nil {
		buf.WriteString(n.RetTy.String())
	}
	writeBlock(&buf, n.Body)
	return buf.String()
}

// StructDeclField is one field of a struct declaration.
type StructDeclField struct {
	nodeBase
	Name string
	Ty   *TyLabel
}

func (n *StructDeclField) String() string { return n.Name + n.Ty.String() }

// StructDecl is a top-level "struct" declaration.
type StructDecl struct {
	nodeBase
	Name     string
	Fields   []*StructDeclField
	Exported bool
}

func (n *StructDecl) DeclName() string { return n.Name }

func (n *StructDecl) String() string {
	buf := strings.Builder{}
	buf.WriteString("struct ")
	buf.WriteString(n.Name)
	buf.WriteByte('{')
	for i, f := range n.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(f.String())
	}
	buf.WriteByte('}')
	return buf.String()
}

// VarDecl is a "var" statement.
type VarDecl struct {
	nodeBase
	Name string
	Ty   *TyLabel // optional
	Init Expr     // optional
}

func (*VarDecl) stepNode() {}
func (*VarDecl) stmtNode() {}

func (n *VarDecl) String() string {
	buf := strings.Builder{}
	buf.WriteString("var ")
	buf.WriteString(n.Name)
	if n.Ty != nil {
		buf.WriteString(n.Ty.String())
	}
	if n.Init != nil {
		buf.WriteByte('=')
		buf.WriteString(n.Init.String())
	}
	buf.WriteByte(';')
	return buf.String()
}

// AssignOp is the operator of an assignment statement.
type AssignOp int

const (
	PlainAssign AssignOp = iota
	AddAssignOp
	SubAssignOp
	MultAssignOp
	DivAssignOp
	ModAssignOp
)

var assignOpNames = [...]string{
	PlainAssign:  "=",
	AddAssignOp:  "+=",
	SubAssignOp:  "-=",
	MultAssignOp: "*=",
	DivAssignOp:  "/=",
	ModAssignOp:  "%=",
}

func (op AssignOp) String() string { return assignOpNames[op] }

// AssignStmt assigns Body to the reference expression Target.
type AssignStmt struct {
	nodeBase
	Target Expr
	Body   Expr
	Op     AssignOp
}

func (*AssignStmt) stepNode() {}
func (*AssignStmt) stmtNode() {}

func (n *AssignStmt) String() string {
	return n.Target.String() + n.Op.String() + n.Body.String() + ";"
}

// ExprStmt is an expression followed by ";"; its value is discarded.
type ExprStmt struct {
	nodeBase
	X Expr
}

func (*ExprStmt) stepNode() {}
func (*ExprStmt) stmtNode() {}

func (n *ExprStmt) String() string {
	if _, ok := n.X.(*IfExpr); ok {
		return n.X.String()
	}
	return n.X.String() + ";"
}

// LoopStmt runs its block until a break or return.
type LoopStmt struct {
	nodeBase
	Body []Step
}

func (*LoopStmt) stepNode() {}
func (*LoopStmt) stmtNode() {}

func (n *LoopStmt) String() string {
	buf := strings.Builder{}
	buf.WriteString("loop")
	writeBlock(&buf, n.Body)
	return buf.String()
}

// ReturnStmt exits the enclosing function, optionally with a value.
type ReturnStmt struct {
	nodeBase
	X Expr // optional
}

func (*ReturnStmt) stepNode() {}
func (*ReturnStmt) stmtNode() {}

func (n *ReturnStmt) String() string {
	if n.X == nil {
		return "return;"
	}
	return "return " + n.X.String() + ";"
}

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct {
	nodeBase
}

func (*BreakStmt) stepNode() {}
func (*BreakStmt) stmtNode() {}

func (n *BreakStmt) String() string { return "break;" }

// NumberLit is a numeric literal. Text preserves the raw digit run.
type NumberLit struct {
	nodeBase
	Value float64
	Text  string
}

func (*NumberLit) stepNode() {}
func (*NumberLit) exprNode() {}

func (n *NumberLit) String() string { return n.Text }

// BoolLit is "true" or "false".
type BoolLit struct {
	nodeBase
	Value bool
}

func (*BoolLit) stepNode() {}
func (*BoolLit) exprNode() {}

func (n *BoolLit) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}

// CharLit is a single-quoted literal holding one grapheme.
type CharLit struct {
	nodeBase
	Value string
}

func (*CharLit) stepNode() {}
func (*CharLit) exprNode() {}

func (n *CharLit) String() string { return "'" + n.Value + "'" }

// StringLit is a double-quoted literal.
type StringLit struct {
	nodeBase
	Value string
}

func (*StringLit) stepNode() {}
func (*StringLit) exprNode() {}

func (n *StringLit) String() string { return `"` + n.Value + `"` }

// Identifier is a name reference.
type Identifier struct {
	nodeBase
	Name string
}

func (*Identifier) stepNode() {}
func (*Identifier) exprNode() {}

func (n *Identifier) String() string { return n.Name }

// BinOp is a binary operator.
type BinOp int

const (
	OrOp BinOp = iota
	AndOp
	EqOp
	NotEqOp
	LessOp
	LessEqOp
	GreaterOp
	GreaterEqOp
	AddOp
	SubOp
	MultOp
	DivOp
	ModOp
)

var binOpNames = [...]string{
	OrOp:        "||",
	AndOp:       "&&",
	EqOp:        "==",
	NotEqOp:     "!=",
	LessOp:      "<",
	LessEqOp:    "<=",
	GreaterOp:   ">",
	GreaterEqOp: ">=",
	AddOp:       "+",
	SubOp:       "-",
	MultOp:      "*",
	DivOp:       "/",
	ModOp:       "%",
}

func (op BinOp) String() string { return binOpNames[op] }

// opGroup classifies a binary operator per the typing rules.
type opGroup int

const (
	logicalGroup opGroup = iota
	equivalentGroup
	orderingGroup
	arithmeticGroup
)

func (op BinOp) group() opGroup {
	switch op {
	case OrOp, AndOp:
		return logicalGroup
	case EqOp, NotEqOp:
		return equivalentGroup
	case LessOp, LessEqOp, GreaterOp, GreaterEqOp:
		return orderingGroup
	default:
		return arithmeticGroup
	}
}

// BinaryOp applies Op to LHS and RHS.
type BinaryOp struct {
	nodeBase
	Op  BinOp
	LHS Expr
	RHS Expr
}

func (*BinaryOp) stepNode() {}
func (*BinaryOp) exprNode() {}

func (n *BinaryOp) String() string {
	return "(" + n.LHS.String() + n.Op.String() + n.RHS.String() + ")"
}

// UnOp is a unary operator.
type UnOp int

const (
	NotOp UnOp = iota
	PlusOp
	MinusOp
)

var unOpNames = [...]string{NotOp: "!", PlusOp: "+", MinusOp: "-"}

func (op UnOp) String() string { return unOpNames[op] }

// UnaryOp applies Op to X.
type UnaryOp struct {
	nodeBase
	Op UnOp
	X  Expr
}

func (*UnaryOp) stepNode() {}
func (*UnaryOp) exprNode() {}

func (n *UnaryOp) String() string { return n.Op.String() + n.X.String() }

// Call invokes Callee with positional Args.
type Call struct {
	nodeBase
	Callee Expr
	Args   []Expr
}

func (*Call) stepNode() {}
func (*Call) exprNode() {}

func (n *Call) String() string {
	buf := strings.Builder{}
	buf.WriteString(n.Callee.String())
	buf.WriteByte('(')
	for i, a := range n.Args {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(a.String())
	}
	buf.WriteByte(')')
	return buf.String()
}

// FieldAccess reads or addresses the named field of a struct value.
type FieldAccess struct {
	nodeBase
	Target Expr
	Name   string
}

func (*FieldAccess) stepNode() {}
func (*FieldAccess) exprNode() {}

func (n *FieldAccess) String() string { return n.Target.String() + "." + n.Name }

// IndexAccess reads or addresses one element of an array value.
type IndexAccess struct {
	nodeBase
	Target Expr
	Index  Expr
}

func (*IndexAccess) stepNode() {}
func (*IndexAccess) exprNode() {}

func (n *IndexAccess) String() string {
	return n.Target.String() + "[" + n.Index.String() + "]"
}

// ArrayNode is an array literal.
type ArrayNode struct {
	nodeBase
	Items []Expr
}

func (*ArrayNode) stepNode() {}
func (*ArrayNode) exprNode() {}

func (n *ArrayNode) String() string {
	buf := strings.Builder{}
	buf.WriteByte('[')
	for i, it := range n.Items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(it.String())
	}
	buf.WriteByte(']')
	return buf.String()
}

// StructExprField initializes one field in a struct literal.
type StructExprField struct {
	nodeBase
	Name string
	Body Expr
}

func (n *StructExprField) String() string { return n.Name + ":" + n.Body.String() }

// StructExpr is a "new Name { field: expr, ... }" literal.
type StructExpr struct {
	nodeBase
	Name   string
	Fields []*StructExprField
}

func (*StructExpr) stepNode() {}
func (*StructExpr) exprNode() {}

func (n *StructExpr) String() string {
	buf := strings.Builder{}
	buf.WriteString("new ")
	buf.WriteString(n.Name)
	buf.WriteByte('{')
	for i, f := range n.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(f.String())
	}
	buf.WriteByte('}')
	return buf.String()
}

// IfExpr is a conditional. It is an expression; at statement position the
// parser wraps it in an ExprStmt or leaves it as a block-trailing step. An
// "else if" chain nests as an Else block holding a single IfExpr.
type IfExpr struct {
	nodeBase
	Cond Expr
	Then []Step
	Else []Step // nil when the else clause is absent
}

func (*IfExpr) stepNode() {}
func (*IfExpr) exprNode() {}

func (n *IfExpr) String() string {
	buf := strings.Builder{}
	buf.WriteString("if ")
	buf.WriteString(n.Cond.String())
	writeBlock(&buf, n.Then)
	if n.Else != nil {
		buf.WriteString("else")
		writeBlock(&buf, n.Else)
	}
	return buf.String()
}

func writeBlock(buf *strings.Builder, steps []Step) {
	buf.WriteByte('{')
	for _, s := range steps {
		buf.WriteString(s.String())
	}
	buf.WriteByte('}')
}

// Guards: the sums above are closed.
var (
	_ = []Stmt{(*VarDecl)(nil), (*AssignStmt)(nil), (*ExprStmt)(nil), (*LoopStmt)(nil), (*ReturnStmt)(nil), (*BreakStmt)(nil)}
	_ = []Expr{
		(*NumberLit)(nil), (*BoolLit)(nil), (*CharLit)(nil), (*StringLit)(nil),
		(*Identifier)(nil), (*BinaryOp)(nil), (*UnaryOp)(nil), (*Call)(nil),
		(*FieldAccess)(nil), (*IndexAccess)(nil), (*ArrayNode)(nil), (*StructExpr)(nil), (*IfExpr)(nil),
	}
	_ = []FileNode{(*FuncDecl)(nil), (*StructDecl)(nil)}
	_ = fmt.Stringer(Pos{})
)
