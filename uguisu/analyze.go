package uguisu

// Three-phase semantic analysis: declare top-level names, resolve declared
// types, then analyze function bodies. Errors never abort; each pass recovers
// with the Bad type and continues so that one run covers the whole program.

import (
	"fmt"
	"unicode/utf8"

	"github.com/uguisu-dev/uguisu/symbol"
)

type analyzer struct {
	scope  *scope[Symbol]
	table  *SymbolTable
	result *Result

	// curFn is the function whose body is being analyzed.
	curFn *FuncSymbol
	// allowJump is true while inside a loop body.
	allowJump bool
	// usedAnyType becomes true when an index access defeats element checking.
	usedAnyType bool
}

// analyzeFile verifies the program under the type and scope discipline and
// returns the symbol table keyed by node identity together with the collected
// diagnostics.
func analyzeFile(file *SourceFile) (*SymbolTable, *Result) {
	a := &analyzer{
		scope:  newScope[Symbol](),
		table:  NewSymbolTable(),
		result: &Result{},
	}
	for _, b := range builtinDefs {
		a.scope.define(symbol.Intern(b.name), &NativeFuncSymbol{Name: b.name, Params: b.params, RetTy: b.ret})
	}
	a.declareTopLevel(file)
	a.resolveTopLevel(file)
	a.analyzeBodies(file)
	if a.usedAnyType {
		a.warnf(Pos{}, "any-type was used")
	}
	return a.table, a.result
}

func (a *analyzer) errorf(pos Pos, format string, args ...interface{}) {
	a.result.Errors = append(a.result.Errors, Diag{Severity: Error, Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (a *analyzer) warnf(pos Pos, format string, args ...interface{}) {
	a.result.Warnings = append(a.result.Warnings, Diag{Severity: Warn, Message: fmt.Sprintf(format, args...), Pos: pos})
}

// declareTopLevel introduces every top-level name with pending types so that
// later passes can resolve mutual references in any order.
func (a *analyzer) declareTopLevel(file *SourceFile) {
	for _, decl := range file.Decls {
		name := symbol.Intern(decl.DeclName())
		if _, ok := a.scope.lookup(name); ok {
			a.errorf(decl.Pos(), "`%s` is already declared", decl.DeclName())
			continue
		}
		switch d := decl.(type) {
		case *FuncDecl:
			if d.Exported {
				a.warnf(d.Pos(), "exported function is not supported yet")
			}
			sym := &FuncSymbol{Name: d.Name, RetTy: TypePending}
			for _, p := range d.Params {
				sym.Params = append(sym.Params, FuncParamSig{Name: p.Name, Ty: TypePending})
			}
			a.scope.define(name, sym)
			a.table.set(d, sym)
		case *StructDecl:
			if d.Exported {
				a.warnf(d.Pos(), "exported struct is not supported yet")
			}
			sym := &StructSymbol{Name: d.Name, Fields: map[string]*StructFieldSymbol{}}
			for _, f := range d.Fields {
				if _, ok := sym.Fields[f.Name]; ok {
					a.errorf(f.Pos(), "field `%s` is already declared", f.Name)
					continue
				}
				sym.Fields[f.Name] = &StructFieldSymbol{StructName: d.Name, Ty: TypePending}
				sym.FieldOrder = append(sym.FieldOrder, f.Name)
			}
			a.scope.define(name, sym)
			a.table.set(d, sym)
		}
	}
}

// resolveTopLevel computes the declared types of function signatures and
// struct fields.
func (a *analyzer) resolveTopLevel(file *SourceFile) {
	for _, decl := range file.Decls {
		sym, ok := a.table.Lookup(decl)
		if !ok {
			continue // duplicate declaration, reported in pass 1
		}
		switch d := decl.(type) {
		case *FuncDecl:
			fsym := sym.(*FuncSymbol)
			fsym.RetTy = TypeVoid
			if d.RetTy != nil {
				fsym.RetTy = a.resolveTyLabel(d.RetTy)
			}
			for i, p := range d.Params {
				if p.Ty == nil {
					a.errorf(p.Pos(), "parameter type missing.")
					fsym.Params[i].Ty = TypeBad
					continue
				}
				fsym.Params[i].Ty = a.resolveTyLabel(p.Ty)
			}
			fsym.IsDefined = true
		case *StructDecl:
			ssym := sym.(*StructSymbol)
			for _, f := range d.Fields {
				fsym, ok := ssym.Fields[f.Name]
				if !ok {
					continue // duplicate field
				}
				fsym.Ty = a.resolveTyLabel(f.Ty)
			}
		}
	}
}

// resolveTyLabel maps a type annotation to a built-in type or a declared
// struct.
func (a *analyzer) resolveTyLabel(ty *TyLabel) *Type {
	if t, ok := primitiveTypes[ty.Name]; ok {
		return t
	}
	sym, ok := a.scope.lookup(symbol.Intern(ty.Name))
	if !ok {
		a.errorf(ty.Pos(), "unknown type name `%s`", ty.Name)
		return TypeBad
	}
	ssym, ok := sym.(*StructSymbol)
	if !ok {
		a.errorf(ty.Pos(), "invalid type name `%s`", ty.Name)
		return TypeBad
	}
	return NewStructType(ssym)
}

func (a *analyzer) analyzeBodies(file *SourceFile) {
	for _, decl := range file.Decls {
		d, ok := decl.(*FuncDecl)
		if !ok {
			continue
		}
		sym, ok := a.table.Lookup(d)
		if !ok {
			continue
		}
		a.analyzeFuncDecl(d, sym.(*FuncSymbol))
	}
}

func (a *analyzer) analyzeFuncDecl(d *FuncDecl, sym *FuncSymbol) {
	a.curFn = sym
	defer func() { a.curFn = nil }()
	blockTy := a.analyzeBlock(d.Body, false, func() {
		for i, p := range d.Params {
			vsym := &VariableSymbol{IsDefined: true, Ty: sym.Params[i].Ty}
			a.table.set(p, vsym)
			a.scope.define(symbol.Intern(p.Name), vsym)
		}
	})
	if blockTy.Kind == NeverKind {
		return
	}
	if !CompatibleType(blockTy, sym.RetTy) {
		pos := d.Pos()
		if len(d.Body) > 0 {
			pos = d.Body[len(d.Body)-1].Pos()
		}
		a.errorf(pos, "type mismatch: expected `%v`, found `%v`", sym.RetTy, blockTy)
	}
}

// analyzeBlock enters a new scope, optionally runs the setup callback (used
// to bind function parameters), then visits each step. It returns the block's
// type: the type of the final step, or Never if that step always exits.
func (a *analyzer) analyzeBlock(steps []Step, allowJump bool, before func()) *Type {
	savedJump := a.allowJump
	a.allowJump = allowJump
	a.scope.enter()
	defer func() {
		a.scope.leave()
		a.allowJump = savedJump
	}()
	if before != nil {
		before()
	}
	blockTy := TypeVoid
	for i, step := range steps {
		var ty *Type
		switch s := step.(type) {
		case Stmt:
			ty = a.analyzeStmt(s)
		case Expr:
			ty = a.analyzeExpr(s)
		}
		if i < len(steps)-1 {
			if !CompatibleType(ty, TypeVoid) {
				a.errorf(step.Pos(), "type mismatch: expected `void`, found `%v`", ty)
			}
			continue
		}
		blockTy = ty
	}
	return blockTy
}

// analyzeStmt type-checks one statement and returns its type: Void for plain
// statements, Never for return and break, the expression's type for an
// expression statement.
func (a *analyzer) analyzeStmt(stmt Stmt) *Type {
	switch s := stmt.(type) {
	case *VarDecl:
		a.analyzeVarDecl(s)
		return TypeVoid
	case *AssignStmt:
		a.analyzeAssign(s)
		return TypeVoid
	case *ExprStmt:
		return a.analyzeExpr(s.X)
	case *LoopStmt:
		ty := a.analyzeBlock(s.Body, true, nil)
		if ty.Kind != NeverKind && !CompatibleType(ty, TypeVoid) {
			a.errorf(s.Pos(), "type mismatch: expected `void`, found `%v`", ty)
		}
		return TypeVoid
	case *ReturnStmt:
		a.analyzeReturn(s)
		return TypeNever
	case *BreakStmt:
		if !a.allowJump {
			a.errorf(s.Pos(), "invalid break statement")
		}
		return TypeNever
	}
	return TypeBad
}

func (a *analyzer) analyzeVarDecl(s *VarDecl) {
	var declared, initTy *Type
	if s.Ty != nil {
		declared = a.resolveTyLabel(s.Ty)
	}
	if s.Init != nil {
		initTy = a.analyzeExpr(s.Init)
	}
	ty := TypePending
	switch {
	case declared != nil && initTy != nil:
		if !CompatibleType(declared, initTy) {
			a.errorf(s.Pos(), "type mismatch: expected `%v`, found `%v`", declared, initTy)
		}
		ty = declared
	case declared != nil:
		ty = declared
	case initTy != nil:
		ty = initTy
	}
	vsym := &VariableSymbol{IsDefined: s.Init != nil, Ty: ty}
	a.table.set(s, vsym)
	a.scope.define(symbol.Intern(s.Name), vsym)
	if a.curFn != nil {
		a.curFn.Vars = append(a.curFn.Vars, vsym)
	}
}

func (a *analyzer) analyzeReturn(s *ReturnStmt) {
	if a.curFn == nil {
		return
	}
	if s.X == nil {
		if a.curFn.RetTy.Kind != BadKind && !CompatibleType(a.curFn.RetTy, TypeVoid) {
			a.errorf(s.Pos(), "type mismatch: expected `%v`, found `void`", a.curFn.RetTy)
		}
		return
	}
	ty := a.analyzeExpr(s.X)
	if ty.Kind == VoidKind {
		a.errorf(s.X.Pos(), "type mismatch: expected a value, found `void`")
		return
	}
	if !CompatibleType(ty, a.curFn.RetTy) {
		a.errorf(s.X.Pos(), "type mismatch: expected `%v`, found `%v`", a.curFn.RetTy, ty)
	}
}

func (a *analyzer) analyzeAssign(s *AssignStmt) {
	bodyTy := a.analyzeExpr(s.Body)
	if bodyTy.Kind == VoidKind {
		a.errorf(s.Body.Pos(), "type mismatch: expected a value, found `void`")
		bodyTy = TypeBad
	}
	targetTy := a.analyzeRefExpr(s.Target, bodyTy)
	if s.Op == PlainAssign {
		if !CompatibleType(targetTy, bodyTy) {
			a.errorf(s.Pos(), "type mismatch: expected `%v`, found `%v`", targetTy, bodyTy)
		}
		return
	}
	if !CompatibleType(targetTy, TypeNumber) {
		a.errorf(s.Target.Pos(), "type mismatch: expected `number`, found `%v`", targetTy)
	}
	if !CompatibleType(bodyTy, TypeNumber) {
		a.errorf(s.Body.Pos(), "type mismatch: expected `number`, found `%v`", bodyTy)
	}
}

// analyzeRefExpr resolves an assignment target through the common
// reference-expression path. Assigning to a not-yet-assigned variable is
// allowed and infers its type from inferTy.
func (a *analyzer) analyzeRefExpr(e Expr, inferTy *Type) *Type {
	switch t := e.(type) {
	case *Identifier:
		sym, ok := a.scope.lookup(symbol.Intern(t.Name))
		if !ok {
			a.errorf(t.Pos(), "unknown identifier `%s`", t.Name)
			return TypeBad
		}
		vsym, ok := sym.(*VariableSymbol)
		if !ok {
			a.errorf(t.Pos(), "invalid assignment target")
			return TypeBad
		}
		if vsym.Ty.Kind == PendingKind {
			vsym.Ty = inferTy
		}
		vsym.IsDefined = true
		a.table.setOrReplace(t, vsym)
		return vsym.Ty
	case *FieldAccess:
		return a.analyzeFieldAccess(t)
	case *IndexAccess:
		return a.analyzeIndexAccess(t)
	default:
		a.errorf(e.Pos(), "invalid assignment target")
		return TypeBad
	}
}

// analyzeExpr type-checks one expression and records its inferred type in the
// symbol table.
func (a *analyzer) analyzeExpr(e Expr) *Type {
	ty := a.exprType(e)
	if _, ok := e.(*Identifier); !ok {
		a.table.setOrReplace(e, &ExprSymbol{Ty: ty})
	}
	return ty
}

func (a *analyzer) exprType(e Expr) *Type {
	switch t := e.(type) {
	case *NumberLit:
		return TypeNumber
	case *BoolLit:
		return TypeBool
	case *CharLit:
		if utf8.RuneCountInString(t.Value) != 1 {
			a.errorf(t.Pos(), "char literal must contain exactly one character")
		}
		return TypeChar
	case *StringLit:
		return TypeString
	case *Identifier:
		return a.analyzeIdentifier(t)
	case *BinaryOp:
		return a.analyzeBinaryOp(t)
	case *UnaryOp:
		return a.analyzeUnaryOp(t)
	case *Call:
		return a.analyzeCall(t)
	case *FieldAccess:
		return a.analyzeFieldAccess(t)
	case *IndexAccess:
		return a.analyzeIndexAccess(t)
	case *ArrayNode:
		for _, item := range t.Items {
			ty := a.analyzeExpr(item)
			if ty.Kind == VoidKind {
				a.errorf(item.Pos(), "type mismatch: expected a value, found `void`")
			}
		}
		return TypeArray
	case *StructExpr:
		return a.analyzeStructExpr(t)
	case *IfExpr:
		return a.analyzeIfExpr(t)
	}
	return TypeBad
}

func (a *analyzer) analyzeIdentifier(t *Identifier) *Type {
	sym, ok := a.scope.lookup(symbol.Intern(t.Name))
	if !ok {
		a.errorf(t.Pos(), "unknown identifier `%s`", t.Name)
		return TypeBad
	}
	a.table.setOrReplace(t, sym)
	switch s := sym.(type) {
	case *VariableSymbol:
		if !s.IsDefined || s.Ty.Kind == PendingKind {
			a.errorf(t.Pos(), "variable is not assigned yet.")
			return TypeBad
		}
		return s.Ty
	case *FuncSymbol:
		return s.FuncType()
	case *NativeFuncSymbol:
		return s.FuncType()
	case *StructSymbol:
		return NewStructType(s)
	case *PrimitiveSymbol:
		return s.Ty
	}
	return TypeBad
}

func (a *analyzer) analyzeBinaryOp(t *BinaryOp) *Type {
	lhs := a.analyzeExpr(t.LHS)
	rhs := a.analyzeExpr(t.RHS)
	switch t.Op.group() {
	case logicalGroup:
		if !CompatibleType(lhs, TypeBool) {
			a.errorf(t.LHS.Pos(), "type mismatch: expected `bool`, found `%v`", lhs)
		}
		if !CompatibleType(rhs, TypeBool) {
			a.errorf(t.RHS.Pos(), "type mismatch: expected `bool`, found `%v`", rhs)
		}
		return TypeBool
	case equivalentGroup:
		if !CompatibleType(lhs, rhs) {
			a.errorf(t.RHS.Pos(), "type mismatch: expected `%v`, found `%v`", lhs, rhs)
		}
		return TypeBool
	case orderingGroup:
		if !CompatibleType(lhs, TypeNumber) {
			a.errorf(t.LHS.Pos(), "type mismatch: expected `number`, found `%v`", lhs)
		}
		if !CompatibleType(rhs, TypeNumber) {
			a.errorf(t.RHS.Pos(), "type mismatch: expected `number`, found `%v`", rhs)
		}
		return TypeBool
	default:
		if !CompatibleType(lhs, TypeNumber) {
			a.errorf(t.LHS.Pos(), "type mismatch: expected `number`, found `%v`", lhs)
		}
		if !CompatibleType(rhs, TypeNumber) {
			a.errorf(t.RHS.Pos(), "type mismatch: expected `number`, found `%v`", rhs)
		}
		return TypeNumber
	}
}

func (a *analyzer) analyzeUnaryOp(t *UnaryOp) *Type {
	ty := a.analyzeExpr(t.X)
	if t.Op == NotOp {
		if !CompatibleType(ty, TypeBool) {
			a.errorf(t.X.Pos(), "type mismatch: expected `bool`, found `%v`", ty)
		}
		return TypeBool
	}
	if !CompatibleType(ty, TypeNumber) {
		a.errorf(t.X.Pos(), "type mismatch: expected `number`, found `%v`", ty)
	}
	return TypeNumber
}

func (a *analyzer) analyzeCall(t *Call) *Type {
	calleeTy := a.analyzeExpr(t.Callee)
	argTys := make([]*Type, len(t.Args))
	for i, arg := range t.Args {
		argTys[i] = a.analyzeExpr(arg)
	}
	if calleeTy.Kind == BadKind {
		return TypeBad
	}
	if calleeTy.Kind != FunctionKind {
		a.errorf(t.Callee.Pos(), "`%s` is not a function", t.Callee)
		return TypeBad
	}
	if len(t.Args) != len(calleeTy.Params) {
		a.errorf(t.Pos(), "wrong number of arguments: expected %d, got %d", len(calleeTy.Params), len(t.Args))
		return calleeTy.Ret
	}
	for i, argTy := range argTys {
		if !CompatibleType(calleeTy.Params[i], argTy) {
			a.errorf(t.Args[i].Pos(), "type mismatch: expected `%v`, found `%v`", calleeTy.Params[i], argTy)
		}
	}
	return calleeTy.Ret
}

func (a *analyzer) analyzeFieldAccess(t *FieldAccess) *Type {
	targetTy := a.analyzeExpr(t.Target)
	if targetTy.Kind == BadKind {
		return TypeBad
	}
	if targetTy.Kind == AnyKind {
		// Unchecked array element; the field is unchecked too.
		return TypeAny
	}
	if targetTy.Kind != NamedKind || targetTy.Struct == nil {
		a.errorf(t.Pos(), "invalid field access")
		return TypeBad
	}
	fsym, ok := targetTy.Struct.Fields[t.Name]
	if !ok {
		a.errorf(t.Pos(), "unknown field name `%s`", t.Name)
		return TypeBad
	}
	return fsym.Ty
}

func (a *analyzer) analyzeIndexAccess(t *IndexAccess) *Type {
	targetTy := a.analyzeExpr(t.Target)
	indexTy := a.analyzeExpr(t.Index)
	if targetTy.Kind != BadKind && !CompatibleType(targetTy, TypeArray) {
		a.errorf(t.Target.Pos(), "type mismatch: expected `array`, found `%v`", targetTy)
	}
	if !CompatibleType(indexTy, TypeNumber) {
		a.errorf(t.Index.Pos(), "type mismatch: expected `number`, found `%v`", indexTy)
	}
	a.usedAnyType = true
	return TypeAny
}

func (a *analyzer) analyzeStructExpr(t *StructExpr) *Type {
	sym, ok := a.scope.lookup(symbol.Intern(t.Name))
	if !ok {
		a.errorf(t.Pos(), "unknown type name `%s`", t.Name)
		return TypeBad
	}
	ssym, ok := sym.(*StructSymbol)
	if !ok {
		a.errorf(t.Pos(), "invalid type name `%s`", t.Name)
		return TypeBad
	}
	seen := map[string]bool{}
	for _, f := range t.Fields {
		bodyTy := a.analyzeExpr(f.Body)
		fsym, ok := ssym.Fields[f.Name]
		if !ok {
			a.errorf(f.Pos(), "unknown field name `%s`", f.Name)
			continue
		}
		if seen[f.Name] {
			a.errorf(f.Pos(), "field `%s` is duplicated", f.Name)
			continue
		}
		seen[f.Name] = true
		if !CompatibleType(fsym.Ty, bodyTy) {
			a.errorf(f.Body.Pos(), "type mismatch: expected `%v`, found `%v`", fsym.Ty, bodyTy)
		}
	}
	for _, name := range ssym.FieldOrder {
		if !seen[name] {
			a.errorf(t.Pos(), "field `%s` is not initialized", name)
		}
	}
	return NewStructType(ssym)
}

func (a *analyzer) analyzeIfExpr(t *IfExpr) *Type {
	condTy := a.analyzeExpr(t.Cond)
	if !CompatibleType(condTy, TypeBool) {
		a.errorf(t.Cond.Pos(), "type mismatch: expected `bool`, found `%v`", condTy)
	}
	thenTy := a.analyzeBlock(t.Then, a.allowJump, nil)
	elseTy := TypeVoid
	if t.Else != nil {
		elseTy = a.analyzeBlock(t.Else, a.allowJump, nil)
	}
	switch {
	case thenTy.Kind == NeverKind && elseTy.Kind == NeverKind:
		return TypeNever
	case thenTy.Kind == NeverKind:
		return elseTy
	case elseTy.Kind == NeverKind:
		return thenTy
	}
	if !CompatibleType(thenTy, elseTy) {
		a.errorf(t.Pos(), "type mismatch: expected `%v`, found `%v`", thenTy, elseTy)
		return TypeBad
	}
	return thenTy
}
