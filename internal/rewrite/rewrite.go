package rewrite

import (
	"github.com/roach88/assertrun/internal/ast"
)

// AssertEqualName is the reserved name the diagnostic function is bound to.
const AssertEqualName = "assert_equal"

// Rewrite returns prog with every single-operator equality assert replaced by
// a call to AssertEqualName. prog is not modified; unmatched statements are
// shared with the result.
func Rewrite(prog *ast.Program) *ast.Program {
	return ast.Transform(assertTransformer{}, prog)
}

type assertTransformer struct {
	ast.Identity
}

// VisitAssert rewrites `assert a == b`. The message operand, if any, is
// dropped; assert_equal reports its own.
func (assertTransformer) VisitAssert(s *ast.Assert) ast.Stmt {
	cmp, ok := s.Test.(*ast.Compare)
	if !ok || len(cmp.Ops) != 1 || cmp.Ops[0] != ast.Eq {
		return s
	}
	call := &ast.Call{
		Pos:  s.Pos,
		Func: &ast.Name{Pos: s.Pos, ID: AssertEqualName},
		Args: []ast.Expr{cmp.Left, cmp.Comparators[0]},
	}
	return &ast.ExprStmt{Pos: s.Pos, X: call}
}
