package ast

import (
	"fmt"

	"github.com/roach88/assertrun/internal/value"
)

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

// IsValid reports whether the position was set.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Node is any syntax tree node.
type Node interface {
	Position() Pos
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Program is a parsed test file.
type Program struct {
	Body []Stmt
}

// ---- Statements ----

// Assert is `assert Test` or `assert Test, Msg`. Msg is nil when absent.
type Assert struct {
	Pos  Pos
	Test Expr
	Msg  Expr
}

// Assign is `Target = Value`. Target is a *Name, *Subscript or *Attribute.
type Assign struct {
	Pos    Pos
	Target Expr
	Value  Expr
}

// AugAssign is `Target Op= Value`.
type AugAssign struct {
	Pos    Pos
	Target Expr
	Op     BinaryOp
	Value  Expr
}

// ExprStmt evaluates X and discards the result.
type ExprStmt struct {
	Pos Pos
	X   Expr
}

// Import is `import a, b`.
type Import struct {
	Pos   Pos
	Names []string
}

// If is an if/elif/else chain. An elif is an If as the only Else statement.
type If struct {
	Pos  Pos
	Test Expr
	Body []Stmt
	Else []Stmt
}

// For is `for Target in Iter:` with an indented body.
type For struct {
	Pos    Pos
	Target *Name
	Iter   Expr
	Body   []Stmt
}

// Pass is `pass`.
type Pass struct {
	Pos Pos
}

// Break is `break`.
type Break struct {
	Pos Pos
}

// Continue is `continue`.
type Continue struct {
	Pos Pos
}

func (n *Assert) Position() Pos    { return n.Pos }
func (n *Assign) Position() Pos    { return n.Pos }
func (n *AugAssign) Position() Pos { return n.Pos }
func (n *ExprStmt) Position() Pos  { return n.Pos }
func (n *Import) Position() Pos    { return n.Pos }
func (n *If) Position() Pos        { return n.Pos }
func (n *For) Position() Pos       { return n.Pos }
func (n *Pass) Position() Pos      { return n.Pos }
func (n *Break) Position() Pos     { return n.Pos }
func (n *Continue) Position() Pos  { return n.Pos }

func (*Assert) stmtNode()    {}
func (*Assign) stmtNode()    {}
func (*AugAssign) stmtNode() {}
func (*ExprStmt) stmtNode()  {}
func (*Import) stmtNode()    {}
func (*If) stmtNode()        {}
func (*For) stmtNode()       {}
func (*Pass) stmtNode()      {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode()  {}

// ---- Expressions ----

// Name is an identifier reference.
type Name struct {
	Pos Pos
	ID  string
}

// Constant is a literal: None, bool, int, float or str.
type Constant struct {
	Pos   Pos
	Value value.Value
}

// List is a list display `[a, b]`.
type List struct {
	Pos  Pos
	Elts []Expr
}

// Dict is a dict display `{k: v}`.
type Dict struct {
	Pos    Pos
	Keys   []Expr
	Values []Expr
}

// Attribute is `X.Attr`.
type Attribute struct {
	Pos  Pos
	X    Expr
	Attr string
}

// Subscript is `X[Index]`.
type Subscript struct {
	Pos   Pos
	X     Expr
	Index Expr
}

// Call is `Func(Args...)`.
type Call struct {
	Pos  Pos
	Func Expr
	Args []Expr
}

// UnaryOp is a prefix operator applied to X.
type UnaryOp struct {
	Pos Pos
	Op  UnaryOperator
	X   Expr
}

// BinOp is an arithmetic operator.
type BinOp struct {
	Pos   Pos
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// BoolOp is a short-circuit `and` / `or` over two or more values.
type BoolOp struct {
	Pos    Pos
	Op     BoolOperator
	Values []Expr
}

// Compare is `Left Ops[0] Comparators[0] Ops[1] Comparators[1] ...`.
// len(Ops) == len(Comparators) >= 1; more than one operator is a chain.
type Compare struct {
	Pos         Pos
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
}

func (n *Name) Position() Pos      { return n.Pos }
func (n *Constant) Position() Pos  { return n.Pos }
func (n *List) Position() Pos      { return n.Pos }
func (n *Dict) Position() Pos      { return n.Pos }
func (n *Attribute) Position() Pos { return n.Pos }
func (n *Subscript) Position() Pos { return n.Pos }
func (n *Call) Position() Pos      { return n.Pos }
func (n *UnaryOp) Position() Pos   { return n.Pos }
func (n *BinOp) Position() Pos     { return n.Pos }
func (n *BoolOp) Position() Pos    { return n.Pos }
func (n *Compare) Position() Pos   { return n.Pos }

func (*Name) exprNode()      {}
func (*Constant) exprNode()  {}
func (*List) exprNode()      {}
func (*Dict) exprNode()      {}
func (*Attribute) exprNode() {}
func (*Subscript) exprNode() {}
func (*Call) exprNode()      {}
func (*UnaryOp) exprNode()   {}
func (*BinOp) exprNode()     {}
func (*BoolOp) exprNode()    {}
func (*Compare) exprNode()   {}

// ---- Operators ----

// CmpOp is a comparison operator.
type CmpOp string

const (
	Eq    CmpOp = "=="
	NotEq CmpOp = "!="
	Lt    CmpOp = "<"
	LtE   CmpOp = "<="
	Gt    CmpOp = ">"
	GtE   CmpOp = ">="
	In    CmpOp = "in"
	NotIn CmpOp = "not in"
	Is    CmpOp = "is"
	IsNot CmpOp = "is not"
)

// BinaryOp is an arithmetic operator.
type BinaryOp string

const (
	Add      BinaryOp = "+"
	Sub      BinaryOp = "-"
	Mult     BinaryOp = "*"
	Div      BinaryOp = "/"
	FloorDiv BinaryOp = "//"
	Mod      BinaryOp = "%"
)

// UnaryOperator is a prefix operator.
type UnaryOperator string

const (
	Not    UnaryOperator = "not"
	UMinus UnaryOperator = "-"
	UPlus  UnaryOperator = "+"
)

// BoolOperator is `and` or `or`.
type BoolOperator string

const (
	And BoolOperator = "and"
	Or  BoolOperator = "or"
)
