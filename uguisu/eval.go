package uguisu

// Tree-walking evaluator. It assumes the analyzer has succeeded; the
// remaining dynamic checks are defensive and raise runtime errors through
// Panicf.

import (
	"context"
	"math"

	"github.com/uguisu-dev/uguisu/symbol"
)

// resultKind discriminates the StatementResult sum.
type resultKind int

const (
	// resultNone means the statement fell through.
	resultNone resultKind = iota
	// resultReturn carries the value of an executed return statement.
	resultReturn
	// resultBreak exits the innermost loop.
	resultBreak
)

// stmtResult is the control-flow outcome of a statement or a block.
type stmtResult struct {
	kind resultKind
	val  Value // set iff kind==resultReturn
}

var fellThrough = stmtResult{kind: resultNone}

type evaluator struct {
	opts *Options
}

// runFile executes a verified source file: built-ins and top-level functions
// populate the root environment, then main runs with no arguments. It panics
// with a runtime error on the first unexpected condition; the session
// boundary recovers it.
func runFile(ctx context.Context, file *SourceFile, opts *Options) Value {
	ev := &evaluator{opts: opts}
	env := newRunningEnv()
	for _, b := range builtinDefs {
		env.define(symbol.Intern(b.name), NewFuncValue(NewNativeFunc(b.name, b.handler)))
	}
	for _, decl := range file.Decls {
		if d, ok := decl.(*FuncDecl); ok {
			env.define(symbol.Intern(d.Name), NewFuncValue(NewUserFunc(d, env)))
		}
	}
	slot, ok := env.lookup(symbol.Intern("main"))
	if !ok || !slot.defined {
		Panicf(unknownNode, "function `main` is not found")
	}
	return ev.callFunction(ctx, unknownNode, slot.Get().Func(unknownNode), nil)
}

// callFunction invokes a function value with already-evaluated arguments. For
// a user function it clones the captured environment's layers, pushes a new
// layer and binds the parameters positionally.
func (ev *evaluator) callFunction(ctx context.Context, ast Node, f *FuncVal, args []Value) Value {
	if f.Native != nil {
		return f.Native(ctx, ast, args, ev.opts)
	}
	if ev.opts.Trace {
		Logf(ast, "call `%s`", f.Decl.Name)
	}
	if len(args) != len(f.Decl.Params) {
		Panicf(ast, "wrong number of arguments: expected %d, got %d", len(f.Decl.Params), len(args))
	}
	env := f.Env.fork()
	env.enter()
	defer env.leave()
	for i, p := range f.Decl.Params {
		env.define(symbol.Intern(p.Name), args[i])
	}
	_, res := ev.evalBlock(ctx, f.Decl.Body, env)
	switch res.kind {
	case resultReturn:
		return res.val
	case resultBreak:
		Panicf(ast, "break statement outside of loop")
	}
	return None
}

// evalBlock runs the steps of a block in a fresh layer. The layer is left on
// every exit path. It returns the block's value (the value of a trailing bare
// expression, else None) and the control-flow outcome.
func (ev *evaluator) evalBlock(ctx context.Context, steps []Step, env *RunningEnv) (Value, stmtResult) {
	env.enter()
	defer env.leave()
	blockVal := None
	for i, step := range steps {
		switch s := step.(type) {
		case Stmt:
			if res := ev.evalStmt(ctx, s, env); res.kind != resultNone {
				return None, res
			}
		case Expr:
			v, res := ev.evalExpr(ctx, s, env)
			if res.kind != resultNone {
				return None, res
			}
			if i == len(steps)-1 {
				blockVal = v
			}
		}
	}
	return blockVal, fellThrough
}

func (ev *evaluator) evalStmt(ctx context.Context, stmt Stmt, env *RunningEnv) stmtResult {
	switch s := stmt.(type) {
	case *VarDecl:
		if s.Init == nil {
			env.declare(symbol.Intern(s.Name))
			return fellThrough
		}
		v, res := ev.evalExpr(ctx, s.Init, env)
		if res.kind != resultNone {
			return res
		}
		env.define(symbol.Intern(s.Name), v)
		return fellThrough
	case *AssignStmt:
		return ev.evalAssign(ctx, s, env)
	case *ExprStmt:
		_, res := ev.evalExpr(ctx, s.X, env)
		return res
	case *LoopStmt:
		for {
			_, res := ev.evalBlock(ctx, s.Body, env)
			switch res.kind {
			case resultReturn:
				return res
			case resultBreak:
				return fellThrough
			}
		}
	case *ReturnStmt:
		if s.X == nil {
			return stmtResult{kind: resultReturn, val: None}
		}
		v, res := ev.evalExpr(ctx, s.X, env)
		if res.kind != resultNone {
			return res
		}
		return stmtResult{kind: resultReturn, val: v}
	case *BreakStmt:
		return stmtResult{kind: resultBreak}
	}
	Panicf(stmt, "unknown statement")
	return fellThrough
}

func (ev *evaluator) evalAssign(ctx context.Context, s *AssignStmt, env *RunningEnv) stmtResult {
	slot, res := ev.evalRefSlot(ctx, s.Target, env)
	if res.kind != resultNone {
		return res
	}
	v, res := ev.evalExpr(ctx, s.Body, env)
	if res.kind != resultNone {
		return res
	}
	if s.Op == PlainAssign {
		slot.Set(v)
		return fellThrough
	}
	if !slot.defined {
		Panicf(s.Target, "identifier `%s` is not defined", s.Target)
	}
	cur := slot.Get().Num(s.Target)
	rhs := v.Num(s.Body)
	var out float64
	switch s.Op {
	case AddAssignOp:
		out = cur + rhs
	case SubAssignOp:
		out = cur - rhs
	case MultAssignOp:
		out = cur * rhs
	case DivAssignOp:
		out = cur / rhs
	default:
		out = math.Mod(cur, rhs)
	}
	slot.Set(NewNum(out))
	return fellThrough
}

// evalRefSlot reduces a reference expression to the slot that an assignment
// mutates.
func (ev *evaluator) evalRefSlot(ctx context.Context, e Expr, env *RunningEnv) (*Slot, stmtResult) {
	switch t := e.(type) {
	case *Identifier:
		slot, ok := env.lookup(symbol.Intern(t.Name))
		if !ok {
			Panicf(t, "identifier `%s` is not defined", t.Name)
		}
		return slot, fellThrough
	case *FieldAccess:
		v, res := ev.evalExpr(ctx, t.Target, env)
		if res.kind != resultNone {
			return nil, res
		}
		slot, ok := v.Struct(t.Target).Field(symbol.Intern(t.Name))
		if !ok {
			Panicf(t, "unknown field name `%s`", t.Name)
		}
		return slot, fellThrough
	case *IndexAccess:
		return ev.indexSlot(ctx, t, env)
	}
	Panicf(e, "invalid assignment target")
	return nil, fellThrough
}

func (ev *evaluator) indexSlot(ctx context.Context, t *IndexAccess, env *RunningEnv) (*Slot, stmtResult) {
	v, res := ev.evalExpr(ctx, t.Target, env)
	if res.kind != resultNone {
		return nil, res
	}
	idx, res := ev.evalExpr(ctx, t.Index, env)
	if res.kind != resultNone {
		return nil, res
	}
	arr := v.Array(t.Target)
	i := int(idx.Num(t.Index))
	if i < 0 || i >= arr.Len() {
		Panicf(t, "index out of range: %s (len %d)", formatNum(idx.Num(t.Index)), arr.Len())
	}
	return arr.Items[i], fellThrough
}

// evalExpr evaluates one expression. The statement result propagates a return
// or break executed inside an if-expression branch.
func (ev *evaluator) evalExpr(ctx context.Context, e Expr, env *RunningEnv) (Value, stmtResult) {
	switch t := e.(type) {
	case *NumberLit:
		return NewNum(t.Value), fellThrough
	case *BoolLit:
		return NewBool(t.Value), fellThrough
	case *CharLit:
		return NewChar(t.Value), fellThrough
	case *StringLit:
		return NewString(t.Value), fellThrough
	case *Identifier:
		slot, ok := env.lookup(symbol.Intern(t.Name))
		if !ok || !slot.defined {
			Panicf(t, "identifier `%s` is not defined", t.Name)
		}
		return slot.Get(), fellThrough
	case *BinaryOp:
		return ev.evalBinaryOp(ctx, t, env)
	case *UnaryOp:
		v, res := ev.evalExpr(ctx, t.X, env)
		if res.kind != resultNone {
			return None, res
		}
		switch t.Op {
		case NotOp:
			return NewBool(!v.Bool(t.X)), fellThrough
		case MinusOp:
			return NewNum(-v.Num(t.X)), fellThrough
		default:
			return NewNum(v.Num(t.X)), fellThrough
		}
	case *Call:
		return ev.evalCall(ctx, t, env)
	case *FieldAccess:
		v, res := ev.evalExpr(ctx, t.Target, env)
		if res.kind != resultNone {
			return None, res
		}
		slot, ok := v.Struct(t.Target).Field(symbol.Intern(t.Name))
		if !ok {
			Panicf(t, "unknown field name `%s`", t.Name)
		}
		return slot.Get(), fellThrough
	case *IndexAccess:
		slot, res := ev.indexSlot(ctx, t, env)
		if res.kind != resultNone {
			return None, res
		}
		return slot.Get(), fellThrough
	case *ArrayNode:
		items := make([]Value, len(t.Items))
		for i, item := range t.Items {
			v, res := ev.evalExpr(ctx, item, env)
			if res.kind != resultNone {
				return None, res
			}
			items[i] = v
		}
		return NewArray(NewArrayVal(items...)), fellThrough
	case *StructExpr:
		sv := NewStructVal()
		for _, f := range t.Fields {
			v, res := ev.evalExpr(ctx, f.Body, env)
			if res.kind != resultNone {
				return None, res
			}
			sv.SetField(symbol.Intern(f.Name), v)
		}
		return NewStructValue(sv), fellThrough
	case *IfExpr:
		v, res := ev.evalExpr(ctx, t.Cond, env)
		if res.kind != resultNone {
			return None, res
		}
		if v.Bool(t.Cond) {
			return ev.evalBlock(ctx, t.Then, env)
		}
		if t.Else == nil {
			return None, fellThrough
		}
		return ev.evalBlock(ctx, t.Else, env)
	}
	Panicf(e, "unknown expression")
	return None, fellThrough
}

func (ev *evaluator) evalBinaryOp(ctx context.Context, t *BinaryOp, env *RunningEnv) (Value, stmtResult) {
	lhs, res := ev.evalExpr(ctx, t.LHS, env)
	if res.kind != resultNone {
		return None, res
	}
	if t.Op.group() == logicalGroup {
		// Short-circuiting && and ||.
		b := lhs.Bool(t.LHS)
		if t.Op == AndOp && !b {
			return False, fellThrough
		}
		if t.Op == OrOp && b {
			return True, fellThrough
		}
		rhs, res := ev.evalExpr(ctx, t.RHS, env)
		if res.kind != resultNone {
			return None, res
		}
		return NewBool(rhs.Bool(t.RHS)), fellThrough
	}
	rhs, res := ev.evalExpr(ctx, t.RHS, env)
	if res.kind != resultNone {
		return None, res
	}
	switch t.Op.group() {
	case equivalentGroup:
		eq := valueEqual(t, lhs, rhs)
		if t.Op == NotEqOp {
			eq = !eq
		}
		return NewBool(eq), fellThrough
	case orderingGroup:
		l, r := lhs.Num(t.LHS), rhs.Num(t.RHS)
		switch t.Op {
		case LessOp:
			return NewBool(l < r), fellThrough
		case LessEqOp:
			return NewBool(l <= r), fellThrough
		case GreaterOp:
			return NewBool(l > r), fellThrough
		default:
			return NewBool(l >= r), fellThrough
		}
	default:
		// Floating-point arithmetic. Division by zero follows IEEE-754.
		l, r := lhs.Num(t.LHS), rhs.Num(t.RHS)
		switch t.Op {
		case AddOp:
			return NewNum(l + r), fellThrough
		case SubOp:
			return NewNum(l - r), fellThrough
		case MultOp:
			return NewNum(l * r), fellThrough
		case DivOp:
			return NewNum(l / r), fellThrough
		default:
			return NewNum(math.Mod(l, r)), fellThrough
		}
	}
}

func (ev *evaluator) evalCall(ctx context.Context, t *Call, env *RunningEnv) (Value, stmtResult) {
	callee, res := ev.evalExpr(ctx, t.Callee, env)
	if res.kind != resultNone {
		return None, res
	}
	args := make([]Value, len(t.Args))
	for i, arg := range t.Args {
		v, res := ev.evalExpr(ctx, arg, env)
		if res.kind != resultNone {
			return None, res
		}
		if v.Kind() == NoneKind {
			Panicf(arg, "cannot pass a void value as an argument")
		}
		args[i] = v
	}
	return ev.callFunction(ctx, t, callee.Func(t.Callee), args), fellThrough
}

// valueEqual implements the equivalence operators. Numbers, bools, chars and
// strings compare by value; function values compare by identity. Structs and
// arrays cannot be equivalence-compared at runtime.
func valueEqual(ast Node, l, r Value) bool {
	if l.Kind() != r.Kind() {
		Panicf(ast, "values of type %v and %v cannot be compared", l.Kind(), r.Kind())
	}
	switch l.Kind() {
	case NumberKind:
		return l.Num(ast) == r.Num(ast)
	case BoolKind:
		return l.Bool(ast) == r.Bool(ast)
	case CharKind:
		return l.Char(ast) == r.Char(ast)
	case StringKind:
		return l.Str(ast) == r.Str(ast)
	case FuncKind:
		return l.Func(ast).Equal(r.Func(ast))
	}
	Panicf(ast, "%v values cannot be used for equivalence comparisons", l.Kind())
	return false
}
