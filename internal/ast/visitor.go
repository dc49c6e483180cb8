package ast

// Visitor rewrites statements. Each method receives a statement whose nested
// blocks have already been transformed and returns its replacement, which may
// be the argument itself.
type Visitor interface {
	VisitAssert(*Assert) Stmt
	VisitAssign(*Assign) Stmt
	VisitAugAssign(*AugAssign) Stmt
	VisitExprStmt(*ExprStmt) Stmt
	VisitImport(*Import) Stmt
	VisitIf(*If) Stmt
	VisitFor(*For) Stmt
	VisitPass(*Pass) Stmt
	VisitBreak(*Break) Stmt
	VisitContinue(*Continue) Stmt
}

// Identity is a Visitor that returns every statement unchanged. Embed it and
// override the methods for the shapes being rewritten.
type Identity struct{}

func (Identity) VisitAssert(s *Assert) Stmt       { return s }
func (Identity) VisitAssign(s *Assign) Stmt       { return s }
func (Identity) VisitAugAssign(s *AugAssign) Stmt { return s }
func (Identity) VisitExprStmt(s *ExprStmt) Stmt   { return s }
func (Identity) VisitImport(s *Import) Stmt       { return s }
func (Identity) VisitIf(s *If) Stmt               { return s }
func (Identity) VisitFor(s *For) Stmt             { return s }
func (Identity) VisitPass(s *Pass) Stmt           { return s }
func (Identity) VisitBreak(s *Break) Stmt         { return s }
func (Identity) VisitContinue(s *Continue) Stmt   { return s }

// Transform applies v to every statement of prog, including statements nested
// in if/for blocks. prog is not modified. When v changes nothing the result
// shares all statements with prog.
func Transform(v Visitor, prog *Program) *Program {
	if prog == nil {
		return nil
	}
	body, _ := transformBlock(v, prog.Body)
	return &Program{Body: body}
}

// transformBlock returns the transformed block and whether any statement in
// it was replaced. An unchanged block is returned as-is.
func transformBlock(v Visitor, block []Stmt) ([]Stmt, bool) {
	var out []Stmt
	for i, s := range block {
		ns := transformStmt(v, s)
		if ns != s && out == nil {
			out = make([]Stmt, i, len(block))
			copy(out, block[:i])
		}
		if out != nil {
			out = append(out, ns)
		}
	}
	if out == nil {
		return block, false
	}
	return out, true
}

func transformStmt(v Visitor, s Stmt) Stmt {
	switch n := s.(type) {
	case *Assert:
		return v.VisitAssert(n)
	case *Assign:
		return v.VisitAssign(n)
	case *AugAssign:
		return v.VisitAugAssign(n)
	case *ExprStmt:
		return v.VisitExprStmt(n)
	case *Import:
		return v.VisitImport(n)
	case *If:
		body, bodyChanged := transformBlock(v, n.Body)
		els, elseChanged := transformBlock(v, n.Else)
		if bodyChanged || elseChanged {
			n = &If{Pos: n.Pos, Test: n.Test, Body: body, Else: els}
		}
		return v.VisitIf(n)
	case *For:
		body, changed := transformBlock(v, n.Body)
		if changed {
			n = &For{Pos: n.Pos, Target: n.Target, Iter: n.Iter, Body: body}
		}
		return v.VisitFor(n)
	case *Pass:
		return v.VisitPass(n)
	case *Break:
		return v.VisitBreak(n)
	case *Continue:
		return v.VisitContinue(n)
	default:
		return s
	}
}
