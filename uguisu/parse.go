package uguisu

// Recursive-descent parser. Infix expressions use precedence climbing; call,
// field and index operators are parsed as a suffix chain on the atom.

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// ParseError is a fatal syntax error. The parser performs no local recovery;
// the first error aborts the parse.
type ParseError struct {
	Filename string
	Pos      Pos
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%v: %s", e.Filename, e.Pos, e.Msg)
}

type parser struct {
	lx       *lexer
	filename string
	lastID   nodeID
}

// Parse turns a source text into a syntax tree. On failure the returned error
// wraps a *ParseError (use errors.As to extract it).
func Parse(source, filename string) (file *SourceFile, err error) {
	defer func() {
		if e := recover(); e != nil {
			se, ok := e.(scanError)
			if !ok {
				panic(e)
			}
			err = errors.WithStack(&ParseError{Filename: filename, Pos: se.pos, Msg: se.msg})
		}
	}()
	p := &parser{lx: newLexer(source), filename: filename}
	file = p.parseSourceFile()
	return file, nil
}

// base allocates the node base for a node starting at pos. Node IDs grow
// monotonically in parse order.
func (p *parser) base(pos Pos) nodeBase {
	p.lastID++
	return nodeBase{pos: pos, nid: p.lastID}
}

func (p *parser) tok() Token { return p.lx.token() }

func (p *parser) advance() { p.lx.next() }

func (p *parser) failf(pos Pos, format string, args ...interface{}) {
	panic(scanError{pos: pos, msg: fmt.Sprintf(format, args...)})
}

func (p *parser) unexpected() {
	tok := p.tok()
	p.failf(tok.Pos, "unexpected token: %v", tok.Kind)
}

// expect consumes a token of the given kind or fails.
func (p *parser) expect(kind Kind) Token {
	tok := p.tok()
	if tok.Kind != kind {
		p.unexpected()
	}
	p.advance()
	return tok
}

// eat consumes the current token if it is of the given kind.
func (p *parser) eat(kind Kind) bool {
	if p.tok().Kind != kind {
		return false
	}
	p.advance()
	return true
}

func (p *parser) parseSourceFile() *SourceFile {
	file := &SourceFile{Filename: p.filename}
	for p.tok().Kind != EOF {
		exported := p.eat(KeywordExport)
		switch p.tok().Kind {
		case KeywordFn:
			file.Decls = append(file.Decls, p.parseFuncDecl(exported))
		case KeywordStruct:
			file.Decls = append(file.Decls, p.parseStructDecl(exported))
		default:
			p.unexpected()
		}
	}
	return file
}

func (p *parser) parseFuncDecl(exported bool) *FuncDecl {
	pos := p.expect(KeywordFn).Pos
	name := p.expect(Ident).Ident
	decl := &FuncDecl{nodeBase: p.base(pos), Name: name, Exported: exported}
	p.expect(BeginParen)
	for p.tok().Kind != EndParen {
		decl.Params = append(decl.Params, p.parseFuncParam())
		if !p.eat(Comma) {
			break
		}
	}
	p.expect(EndParen)
	if p.tok().Kind == Colon {
		decl.RetTy = p.parseTyLabel()
	}
	decl.Body = p.parseBlock()
	return decl
}

func (p *parser) parseFuncParam() *FuncParam {
	tok := p.expect(Ident)
	param := &FuncParam{nodeBase: p.base(tok.Pos), Name: tok.Ident}
	if p.tok().Kind == Colon {
		param.Ty = p.parseTyLabel()
	}
	return param
}

func (p *parser) parseStructDecl(exported bool) *StructDecl {
	pos := p.expect(KeywordStruct).Pos
	name := p.expect(Ident).Ident
	decl := &StructDecl{nodeBase: p.base(pos), Name: name, Exported: exported}
	p.expect(BeginBrace)
	for p.tok().Kind != EndBrace {
		field := p.expect(Ident)
		ty := p.parseTyLabel()
		decl.Fields = append(decl.Fields,
			&StructDeclField{nodeBase: p.base(field.Pos), Name: field.Ident, Ty: ty})
		if !p.eat(Comma) {
			break
		}
	}
	p.expect(EndBrace)
	return decl
}

func (p *parser) parseTyLabel() *TyLabel {
	pos := p.expect(Colon).Pos
	name := p.expect(Ident)
	return &TyLabel{nodeBase: p.base(pos), Name: name.Ident}
}

func (p *parser) parseBlock() []Step {
	p.expect(BeginBrace)
	var steps []Step
	for p.tok().Kind != EndBrace {
		steps = append(steps, p.parseStep())
	}
	p.expect(EndBrace)
	return steps
}

func (p *parser) parseStep() Step {
	switch p.tok().Kind {
	case KeywordVar:
		return p.parseVarDecl()
	case KeywordLoop:
		pos := p.tok().Pos
		p.advance()
		return &LoopStmt{nodeBase: p.base(pos), Body: p.parseBlock()}
	case KeywordReturn:
		return p.parseReturn()
	case KeywordBreak:
		pos := p.tok().Pos
		p.advance()
		stmt := &BreakStmt{nodeBase: p.base(pos)}
		p.expect(Semi)
		return stmt
	default:
		return p.parseStmtStartWithExpr()
	}
}

func (p *parser) parseVarDecl() *VarDecl {
	pos := p.expect(KeywordVar).Pos
	name := p.expect(Ident)
	decl := &VarDecl{nodeBase: p.base(pos), Name: name.Ident}
	if p.tok().Kind == Colon {
		decl.Ty = p.parseTyLabel()
	}
	if p.eat(Assign) {
		decl.Init = p.parseExpr()
	}
	p.expect(Semi)
	return decl
}

func (p *parser) parseReturn() *ReturnStmt {
	pos := p.expect(KeywordReturn).Pos
	stmt := &ReturnStmt{nodeBase: p.base(pos)}
	if p.tok().Kind != Semi {
		stmt.X = p.parseExpr()
	}
	p.expect(Semi)
	return stmt
}

var assignOps = map[Kind]AssignOp{
	Assign:     PlainAssign,
	AddAssign:  AddAssignOp,
	SubAssign:  SubAssignOp,
	MultAssign: MultAssignOp,
	DivAssign:  DivAssignOp,
	ModAssign:  ModAssignOp,
}

// parseStmtStartWithExpr disambiguates the three statement forms that start
// with an expression: an assignment, an expression statement, or the
// block-trailing expression (only legal as the final step, so it must be
// followed by the closing brace).
func (p *parser) parseStmtStartWithExpr() Step {
	expr := p.parseExpr()
	if ifExpr, ok := expr.(*IfExpr); ok {
		// A block-shaped if at statement position needs no ";". A trailing if
		// with no ";" stands as the block's value.
		switch p.tok().Kind {
		case Semi:
			p.advance()
			return &ExprStmt{nodeBase: p.base(ifExpr.Pos()), X: ifExpr}
		case EndBrace:
			return ifExpr
		default:
			return &ExprStmt{nodeBase: p.base(ifExpr.Pos()), X: ifExpr}
		}
	}
	if op, ok := assignOps[p.tok().Kind]; ok {
		p.advance()
		body := p.parseExpr()
		stmt := &AssignStmt{nodeBase: p.base(expr.Pos()), Target: expr, Body: body, Op: op}
		p.expect(Semi)
		return stmt
	}
	if p.tok().Kind == Semi {
		stmt := &ExprStmt{nodeBase: p.base(expr.Pos()), X: expr}
		p.advance()
		return stmt
	}
	if p.tok().Kind != EndBrace {
		p.unexpected()
	}
	return expr
}

// Precedence table for infix operators. All levels are left-associative.
var binOps = map[Kind]struct {
	op   BinOp
	prec int
}{
	Or2:           {OrOp, 1},
	And2:          {AndOp, 2},
	Eq2:           {EqOp, 3},
	NotEq:         {NotEqOp, 3},
	LessThan:      {LessOp, 4},
	LessThanEq:    {LessEqOp, 4},
	GreaterThan:   {GreaterOp, 4},
	GreaterThanEq: {GreaterEqOp, 4},
	Plus:          {AddOp, 5},
	Minus:         {SubOp, 5},
	Asterisk:      {MultOp, 6},
	Slash:         {DivOp, 6},
	Percent:       {ModOp, 6},
}

func (p *parser) parseExpr() Expr { return p.parseInfix(1) }

// parseInfix climbs the precedence levels starting at minPrec.
func (p *parser) parseInfix(minPrec int) Expr {
	lhs := p.parseAtom()
	for {
		def, ok := binOps[p.tok().Kind]
		if !ok || def.prec < minPrec {
			return lhs
		}
		p.advance()
		rhs := p.parseInfix(def.prec + 1)
		lhs = &BinaryOp{nodeBase: p.base(lhs.Pos()), Op: def.op, LHS: lhs, RHS: rhs}
	}
}

var prefixOps = map[Kind]UnOp{
	Not:   NotOp,
	Plus:  PlusOp,
	Minus: MinusOp,
}

// parseAtom parses a primary expression and its suffix chain.
func (p *parser) parseAtom() Expr {
	return p.parseSuffixChain(p.parseAtomInner())
}

func (p *parser) parseAtomInner() Expr {
	tok := p.tok()
	switch tok.Kind {
	case Literal:
		return p.parseLiteral()
	case Ident:
		p.advance()
		return &Identifier{nodeBase: p.base(tok.Pos), Name: tok.Ident}
	case KeywordNew:
		return p.parseStructExpr()
	case BeginBracket:
		return p.parseArray()
	case KeywordIf:
		return p.parseIfExpr()
	case BeginParen:
		p.advance()
		expr := p.parseExpr()
		p.expect(EndParen)
		return expr
	}
	if op, ok := prefixOps[tok.Kind]; ok {
		p.advance()
		x := p.parseAtom()
		return &UnaryOp{nodeBase: p.base(tok.Pos), Op: op, X: x}
	}
	p.unexpected()
	return nil
}

func (p *parser) parseLiteral() Expr {
	tok := p.expect(Literal)
	switch tok.Lit.Kind {
	case NumberLitKind:
		v, err := strconv.ParseFloat(tok.Lit.Text, 64)
		if err != nil {
			p.failf(tok.Pos, "invalid number literal: %s", tok.Lit.Text)
		}
		return &NumberLit{nodeBase: p.base(tok.Pos), Value: v, Text: tok.Lit.Text}
	case BoolLitKind:
		return &BoolLit{nodeBase: p.base(tok.Pos), Value: tok.Lit.Text == "true"}
	case CharLitKind:
		return &CharLit{nodeBase: p.base(tok.Pos), Value: tok.Lit.Text}
	default:
		return &StringLit{nodeBase: p.base(tok.Pos), Value: tok.Lit.Text}
	}
}

func (p *parser) parseStructExpr() *StructExpr {
	pos := p.expect(KeywordNew).Pos
	name := p.expect(Ident)
	expr := &StructExpr{nodeBase: p.base(pos), Name: name.Ident}
	p.expect(BeginBrace)
	for p.tok().Kind != EndBrace {
		field := p.expect(Ident)
		p.expect(Colon)
		body := p.parseExpr()
		expr.Fields = append(expr.Fields,
			&StructExprField{nodeBase: p.base(field.Pos), Name: field.Ident, Body: body})
		if !p.eat(Comma) {
			break
		}
	}
	p.expect(EndBrace)
	return expr
}

func (p *parser) parseArray() *ArrayNode {
	pos := p.expect(BeginBracket).Pos
	arr := &ArrayNode{nodeBase: p.base(pos)}
	for p.tok().Kind != EndBracket {
		arr.Items = append(arr.Items, p.parseExpr())
		if !p.eat(Comma) {
			break
		}
	}
	p.expect(EndBracket)
	return arr
}

func (p *parser) parseIfExpr() *IfExpr {
	pos := p.expect(KeywordIf).Pos
	cond := p.parseExpr()
	then := p.parseBlock()
	expr := &IfExpr{nodeBase: p.base(pos), Cond: cond, Then: then}
	if p.eat(KeywordElse) {
		if p.tok().Kind == KeywordIf {
			nested := p.parseIfExpr()
			expr.Else = []Step{nested}
		} else {
			expr.Else = p.parseBlock()
		}
	}
	return expr
}

func (p *parser) parseSuffixChain(expr Expr) Expr {
	for {
		switch p.tok().Kind {
		case BeginParen:
			p.advance()
			call := &Call{nodeBase: p.base(expr.Pos()), Callee: expr}
			for p.tok().Kind != EndParen {
				call.Args = append(call.Args, p.parseExpr())
				if !p.eat(Comma) {
					break
				}
			}
			p.expect(EndParen)
			expr = call
		case Dot:
			p.advance()
			name := p.expect(Ident)
			expr = &FieldAccess{nodeBase: p.base(expr.Pos()), Target: expr, Name: name.Ident}
		case BeginBracket:
			p.advance()
			index := p.parseExpr()
			p.expect(EndBracket)
			expr = &IndexAccess{nodeBase: p.base(expr.Pos()), Target: expr, Index: index}
		default:
			return expr
		}
	}
}
