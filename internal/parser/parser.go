package parser

import (
	"fmt"
	"strings"

	"github.com/roach88/assertrun/internal/ast"
	"github.com/roach88/assertrun/internal/source"
	"github.com/roach88/assertrun/internal/value"
)

type parser struct {
	file  string
	toks  []Token
	pos   int
	loops int // enclosing for-loops, for break/continue checks
}

// Parse parses a source file into a Program.
func Parse(f *source.File) (*ast.Program, error) {
	toks, err := Tokenize(f.Name, f.Text)
	if err != nil {
		return nil, err
	}
	p := &parser{file: f.Name, toks: toks}
	return p.program()
}

// ParseString parses src as if it were the contents of a file called name.
func ParseString(name, src string) (*ast.Program, error) {
	return Parse(source.New(name, src))
}

// ---- Token helpers ----

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) accept(text string) bool {
	if p.peek().is(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text, context string) (Token, error) {
	tok := p.peek()
	if !tok.is(text) {
		return tok, p.errorAt(tok, "expected '%s' %s", text, context)
	}
	p.pos++
	return tok, nil
}

func (p *parser) errorAt(tok Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		File: p.file,
		Line: tok.Pos.Line,
		Col:  tok.Pos.Col,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (p *parser) unexpected(tok Token) *SyntaxError {
	return p.errorAt(tok, "invalid syntax: unexpected %s", tok)
}

// ---- Statements ----

func (p *parser) program() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.peek().Kind != EOF {
		stmts, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmts...)
	}
	return prog, nil
}

// statement parses one logical line or one compound statement. A line of
// ';'-separated simple statements yields several statements.
func (p *parser) statement() ([]ast.Stmt, error) {
	tok := p.peek()
	switch {
	case tok.Kind == Indent:
		return nil, p.errorAt(tok, "unexpected indent")
	case tok.is("if"):
		s, err := p.ifStmt()
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil
	case tok.is("for"):
		s, err := p.forStmt()
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil
	default:
		return p.simpleStmts()
	}
}

func (p *parser) ifStmt() (*ast.If, error) {
	tok := p.next() // if / elif
	test, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":", "after if condition"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	s := &ast.If{Pos: tok.Pos, Test: test, Body: body}

	switch {
	case p.peek().is("elif"):
		elif, err := p.ifStmt()
		if err != nil {
			return nil, err
		}
		s.Else = []ast.Stmt{elif}
	case p.peek().is("else"):
		p.next()
		if _, err := p.expect(":", "after else"); err != nil {
			return nil, err
		}
		if s.Else, err = p.block(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *parser) forStmt() (*ast.For, error) {
	tok := p.next()
	nameTok := p.peek()
	if nameTok.Kind != Name {
		return nil, p.errorAt(nameTok, "expected a name after 'for'")
	}
	p.next()
	if _, err := p.expect("in", "in for statement"); err != nil {
		return nil, err
	}
	iter, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":", "after for clause"); err != nil {
		return nil, err
	}
	p.loops++
	body, err := p.block()
	p.loops--
	if err != nil {
		return nil, err
	}
	return &ast.For{
		Pos:    tok.Pos,
		Target: &ast.Name{Pos: nameTok.Pos, ID: nameTok.Text},
		Iter:   iter,
		Body:   body,
	}, nil
}

// block parses either an indented suite or simple statements on the same line.
func (p *parser) block() ([]ast.Stmt, error) {
	if p.peek().Kind != Newline {
		return p.simpleStmts()
	}
	p.next()
	if tok := p.peek(); tok.Kind != Indent {
		return nil, p.errorAt(tok, "expected an indented block")
	}
	p.next()
	var body []ast.Stmt
	for p.peek().Kind != Dedent && p.peek().Kind != EOF {
		stmts, err := p.statement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}
	p.next()
	return body, nil
}

func (p *parser) simpleStmts() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		s, err := p.simpleStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		if !p.accept(";") || p.peek().Kind == Newline {
			break
		}
	}
	if tok := p.peek(); tok.Kind != Newline {
		return nil, p.unexpected(tok)
	}
	p.next()
	return stmts, nil
}

func (p *parser) simpleStmt() (ast.Stmt, error) {
	tok := p.peek()
	switch {
	case tok.is("assert"):
		p.next()
		test, err := p.expr()
		if err != nil {
			return nil, err
		}
		s := &ast.Assert{Pos: tok.Pos, Test: test}
		if p.accept(",") {
			if s.Msg, err = p.expr(); err != nil {
				return nil, err
			}
		}
		return s, nil

	case tok.is("import"):
		p.next()
		s := &ast.Import{Pos: tok.Pos}
		for {
			name := p.peek()
			if name.Kind != Name {
				return nil, p.errorAt(name, "expected a module name after 'import'")
			}
			p.next()
			if p.peek().is(".") {
				return nil, p.errorAt(p.peek(), "dotted module names are not supported")
			}
			s.Names = append(s.Names, name.Text)
			if !p.accept(",") {
				return s, nil
			}
		}

	case tok.is("pass"):
		p.next()
		return &ast.Pass{Pos: tok.Pos}, nil

	case tok.is("break"), tok.is("continue"):
		p.next()
		if p.loops == 0 {
			return nil, p.errorAt(tok, "'%s' outside loop", tok.Text)
		}
		if tok.Text == "break" {
			return &ast.Break{Pos: tok.Pos}, nil
		}
		return &ast.Continue{Pos: tok.Pos}, nil
	}

	x, err := p.expr()
	if err != nil {
		return nil, err
	}

	op := p.peek()
	switch {
	case op.is("="):
		if err := p.checkTarget(x); err != nil {
			return nil, err
		}
		p.next()
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek().is("=") {
			return nil, p.errorAt(p.peek(), "chained assignment is not supported")
		}
		return &ast.Assign{Pos: tok.Pos, Target: x, Value: v}, nil

	case op.Kind == Op && isAugAssign(op.Text):
		if err := p.checkTarget(x); err != nil {
			return nil, err
		}
		p.next()
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.AugAssign{
			Pos:    tok.Pos,
			Target: x,
			Op:     ast.BinaryOp(strings.TrimSuffix(op.Text, "=")),
			Value:  v,
		}, nil
	}
	return &ast.ExprStmt{Pos: tok.Pos, X: x}, nil
}

func isAugAssign(op string) bool {
	switch op {
	case "+=", "-=", "*=", "/=", "//=", "%=":
		return true
	}
	return false
}

func (p *parser) checkTarget(x ast.Expr) error {
	switch x.(type) {
	case *ast.Name, *ast.Subscript, *ast.Attribute:
		return nil
	}
	return &SyntaxError{
		File: p.file,
		Line: x.Position().Line,
		Col:  x.Position().Col,
		Msg:  fmt.Sprintf("cannot assign to %s", describe(x)),
	}
}

func describe(x ast.Expr) string {
	switch n := x.(type) {
	case *ast.Constant:
		if n.Value == value.None || n.Value == value.Bool(true) || n.Value == value.Bool(false) {
			return value.Repr(n.Value)
		}
		return "literal"
	case *ast.Call:
		return "function call"
	case *ast.Compare:
		return "comparison"
	case *ast.List:
		return "list display"
	case *ast.Dict:
		return "dict literal"
	default:
		return "expression"
	}
}

// ---- Expressions, lowest precedence first ----

func (p *parser) expr() (ast.Expr, error) {
	return p.orTest()
}

func (p *parser) orTest() (ast.Expr, error) {
	return p.boolOp("or", ast.Or, p.andTest)
}

func (p *parser) andTest() (ast.Expr, error) {
	return p.boolOp("and", ast.And, p.notTest)
}

func (p *parser) boolOp(word string, op ast.BoolOperator, operand func() (ast.Expr, error)) (ast.Expr, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}
	if !p.peek().is(word) {
		return first, nil
	}
	values := []ast.Expr{first}
	for p.accept(word) {
		x, err := operand()
		if err != nil {
			return nil, err
		}
		values = append(values, x)
	}
	return &ast.BoolOp{Pos: first.Position(), Op: op, Values: values}, nil
}

func (p *parser) notTest() (ast.Expr, error) {
	tok := p.peek()
	if !tok.is("not") {
		return p.comparison()
	}
	p.next()
	x, err := p.notTest()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Pos: tok.Pos, Op: ast.Not, X: x}, nil
}

func (p *parser) comparison() (ast.Expr, error) {
	left, err := p.arith()
	if err != nil {
		return nil, err
	}
	var (
		ops   []ast.CmpOp
		comps []ast.Expr
	)
	for {
		op, ok := p.compOp()
		if !ok {
			break
		}
		right, err := p.arith()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comps = append(comps, right)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &ast.Compare{Pos: left.Position(), Left: left, Ops: ops, Comparators: comps}, nil
}

// compOp consumes a comparison operator if one is next.
func (p *parser) compOp() (ast.CmpOp, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == Op:
		switch op := ast.CmpOp(tok.Text); op {
		case ast.Eq, ast.NotEq, ast.Lt, ast.LtE, ast.Gt, ast.GtE:
			p.next()
			return op, true
		}
	case tok.is("in"):
		p.next()
		return ast.In, true
	case tok.is("not") && p.peekAt(1).is("in"):
		p.pos += 2
		return ast.NotIn, true
	case tok.is("is"):
		p.next()
		if p.accept("not") {
			return ast.IsNot, true
		}
		return ast.Is, true
	}
	return "", false
}

func (p *parser) arith() (ast.Expr, error) {
	return p.binary(p.term, ast.Add, ast.Sub)
}

func (p *parser) term() (ast.Expr, error) {
	return p.binary(p.factor, ast.Mult, ast.Div, ast.FloorDiv, ast.Mod)
}

// binary parses a left-associative run of operand (op operand)*.
func (p *parser) binary(operand func() (ast.Expr, error), ops ...ast.BinaryOp) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != Op {
			return left, nil
		}
		op := ast.BinaryOp(tok.Text)
		found := false
		for _, want := range ops {
			if op == want {
				found = true
				break
			}
		}
		if !found {
			return left, nil
		}
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Pos: left.Position(), Op: op, Left: left, Right: right}
	}
}

func (p *parser) factor() (ast.Expr, error) {
	tok := p.peek()
	var op ast.UnaryOperator
	switch {
	case tok.is("-"):
		op = ast.UMinus
	case tok.is("+"):
		op = ast.UPlus
	default:
		return p.postfix()
	}
	p.next()
	x, err := p.factor()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Pos: tok.Pos, Op: op, X: x}, nil
}

func (p *parser) postfix() (ast.Expr, error) {
	x, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch {
		case tok.is("("):
			p.next()
			args, err := p.exprList(")", "to close call")
			if err != nil {
				return nil, err
			}
			x = &ast.Call{Pos: x.Position(), Func: x, Args: args}
		case tok.is("."):
			p.next()
			name := p.peek()
			if name.Kind != Name {
				return nil, p.errorAt(name, "expected attribute name after '.'")
			}
			p.next()
			x = &ast.Attribute{Pos: x.Position(), X: x, Attr: name.Text}
		case tok.is("["):
			p.next()
			index, err := p.expr()
			if err != nil {
				return nil, err
			}
			if p.peek().is(":") {
				return nil, p.errorAt(p.peek(), "slices are not supported")
			}
			if _, err := p.expect("]", "to close subscript"); err != nil {
				return nil, err
			}
			x = &ast.Subscript{Pos: x.Position(), X: x, Index: index}
		default:
			return x, nil
		}
	}
}

// exprList parses comma-separated expressions up to and including closer.
// A trailing comma is allowed.
func (p *parser) exprList(closer, context string) ([]ast.Expr, error) {
	var items []ast.Expr
	for !p.peek().is(closer) {
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek().is("=") {
			return nil, p.errorAt(p.peek(), "keyword arguments are not supported")
		}
		items = append(items, x)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect(closer, context); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *parser) atom() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case Name:
		p.next()
		return &ast.Name{Pos: tok.Pos, ID: tok.Text}, nil
	case Number:
		p.next()
		return &ast.Constant{Pos: tok.Pos, Value: tok.Value}, nil
	case String:
		// Adjacent literals concatenate.
		var sb strings.Builder
		for p.peek().Kind == String {
			sb.WriteString(string(p.next().Value.(value.Str)))
		}
		return &ast.Constant{Pos: tok.Pos, Value: value.Str(sb.String())}, nil
	case Keyword:
		switch tok.Text {
		case "True":
			p.next()
			return &ast.Constant{Pos: tok.Pos, Value: value.Bool(true)}, nil
		case "False":
			p.next()
			return &ast.Constant{Pos: tok.Pos, Value: value.Bool(false)}, nil
		case "None":
			p.next()
			return &ast.Constant{Pos: tok.Pos, Value: value.None}, nil
		}
	case Op:
		switch tok.Text {
		case "(":
			return p.parenthesized()
		case "[":
			p.next()
			elts, err := p.exprList("]", "to close list")
			if err != nil {
				return nil, err
			}
			return &ast.List{Pos: tok.Pos, Elts: elts}, nil
		case "{":
			return p.dict()
		}
	}
	return nil, p.unexpected(tok)
}

func (p *parser) parenthesized() (ast.Expr, error) {
	p.next()
	if tok := p.peek(); tok.is(")") {
		return nil, p.errorAt(tok, "tuples are not supported")
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.is(",") {
		return nil, p.errorAt(tok, "tuples are not supported")
	}
	if _, err := p.expect(")", "to close parenthesis"); err != nil {
		return nil, err
	}
	return x, nil
}

func (p *parser) dict() (ast.Expr, error) {
	tok := p.next()
	d := &ast.Dict{Pos: tok.Pos}
	for !p.peek().is("}") {
		k, err := p.expr()
		if err != nil {
			return nil, err
		}
		if sep := p.peek(); sep.is(",") || sep.is("}") {
			return nil, p.errorAt(sep, "sets are not supported")
		}
		if _, err := p.expect(":", "after dict key"); err != nil {
			return nil, err
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		d.Keys = append(d.Keys, k)
		d.Values = append(d.Values, v)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("}", "to close dict"); err != nil {
		return nil, err
	}
	return d, nil
}
