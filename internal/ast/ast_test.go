package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/assertrun/internal/value"
)

func at(line int) Pos { return Pos{Line: line, Col: 1} }

func intConst(line int, n int64) *Constant {
	return &Constant{Pos: at(line), Value: value.Int(n)}
}

func TestDump(t *testing.T) {
	prog := &Program{Body: []Stmt{
		&Assert{Pos: at(1), Test: &Compare{
			Pos:         at(1),
			Left:        intConst(1, 1),
			Ops:         []CmpOp{Eq},
			Comparators: []Expr{intConst(1, 2)},
		}},
		&Assign{Pos: at(2), Target: &Name{Pos: at(2), ID: "x"}, Value: &List{Pos: at(2), Elts: []Expr{
			&Constant{Pos: at(2), Value: value.Str("a")},
		}}},
		&If{Pos: at(3), Test: &Name{Pos: at(3), ID: "x"}, Body: []Stmt{&Pass{Pos: at(4)}}},
	}}

	want := "1: (assert (compare (const 1) \"==\" (const 2)))\n" +
		"2: (assign (name x) (list (const 'a')))\n" +
		"3: (if (name x) (block (pass)))\n"
	assert.Equal(t, want, Dump(prog))
}

func TestDumpExpr(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"call", &Call{Func: &Name{ID: "len"}, Args: []Expr{&Name{ID: "xs"}}}, "(call (name len) (name xs))"},
		{"attr", &Attribute{X: &Name{ID: "random"}, Attr: "randint"}, "(attr (name random) randint)"},
		{"subscript", &Subscript{X: &Name{ID: "d"}, Index: &Constant{Value: value.Str("k")}}, "(idx (name d) (const 'k'))"},
		{"unary", &UnaryOp{Op: Not, X: &Name{ID: "x"}}, "(unary \"not\" (name x))"},
		{"binary", &BinOp{Op: FloorDiv, Left: &Name{ID: "a"}, Right: &Name{ID: "b"}}, "(binary \"//\" (name a) (name b))"},
		{"boolop", &BoolOp{Op: Or, Values: []Expr{&Name{ID: "a"}, &Name{ID: "b"}}}, "(or (name a) (name b))"},
		{"dict", &Dict{Keys: []Expr{&Constant{Value: value.Str("k")}}, Values: []Expr{&Constant{Value: value.None}}}, "(dict ((const 'k') (const None)))"},
		{"chain", &Compare{
			Left:        &Constant{Value: value.Str("a")},
			Ops:         []CmpOp{Lt, NotIn},
			Comparators: []Expr{&Name{ID: "b"}, &Name{ID: "c"}},
		}, "(compare (const 'a') \"<\" (name b) \"not in\" (name c))"},
		{"nil", nil, "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DumpExpr(tt.expr))
		})
	}
}

func TestTransform_IdentitySharesTree(t *testing.T) {
	inner := &Assert{Pos: at(2), Test: &Name{Pos: at(2), ID: "x"}}
	ifStmt := &If{Pos: at(1), Test: &Name{Pos: at(1), ID: "x"}, Body: []Stmt{inner}}
	prog := &Program{Body: []Stmt{ifStmt, &Pass{Pos: at(3)}}}

	out := Transform(Identity{}, prog)

	require.NotNil(t, out)
	require.Len(t, out.Body, 2)
	assert.Same(t, ifStmt, out.Body[0])
	assert.Same(t, prog.Body[1], out.Body[1])
}

type passToBreak struct{ Identity }

func (passToBreak) VisitPass(p *Pass) Stmt { return &Break{Pos: p.Pos} }

func TestTransform_RewritesNestedWithoutMutating(t *testing.T) {
	pass := &Pass{Pos: at(3)}
	loop := &For{
		Pos:    at(2),
		Target: &Name{Pos: at(2), ID: "i"},
		Iter:   &Name{Pos: at(2), ID: "xs"},
		Body:   []Stmt{pass},
	}
	keep := &Assign{Pos: at(1), Target: &Name{Pos: at(1), ID: "xs"}, Value: &List{Pos: at(1)}}
	prog := &Program{Body: []Stmt{keep, loop}}

	out := Transform(passToBreak{}, prog)

	// Input untouched.
	assert.Same(t, pass, loop.Body[0])
	assert.Same(t, loop, prog.Body[1])

	assert.Same(t, keep, out.Body[0])
	newLoop, ok := out.Body[1].(*For)
	require.True(t, ok)
	assert.NotSame(t, loop, newLoop)
	assert.Same(t, loop.Target, newLoop.Target)
	assert.Equal(t, "(for (name i) (name xs) (block (break)))", DumpStmt(newLoop))
	assert.Equal(t, at(3), newLoop.Body[0].Position())
}

func TestTransform_ElseBranch(t *testing.T) {
	prog := &Program{Body: []Stmt{
		&If{Pos: at(1), Test: &Name{ID: "c"}, Body: []Stmt{&Import{Pos: at(2), Names: []string{"random"}}}, Else: []Stmt{&Pass{Pos: at(4)}}},
	}}
	out := Transform(passToBreak{}, prog)
	assert.Equal(t, "1: (if (name c) (block (import random)) (block (break)))\n", Dump(out))
	assert.Equal(t, "1: (if (name c) (block (import random)) (block (pass)))\n", Dump(prog))
}

func TestTransform_Nil(t *testing.T) {
	assert.Nil(t, Transform(Identity{}, nil))
}

func TestPos(t *testing.T) {
	assert.False(t, Pos{}.IsValid())
	assert.True(t, Pos{Line: 3, Col: 5}.IsValid())
	assert.Equal(t, "3:5", Pos{Line: 3, Col: 5}.String())
}
