// Package ast defines the syntax tree of assertion test files.
//
// A Program is an ordered list of top-level statements. Every node records
// the 1-based line and column where it starts; diagnostics are reported
// against the line of the top-level statement that failed.
//
// Statement-level rewrites go through Transform and a Visitor. A Visitor
// has one method per statement kind; embedding Identity makes every method
// return its input unchanged, so a rewrite only overrides the shapes it
// cares about:
//
//	type dropPass struct{ ast.Identity }
//
//	func (dropPass) VisitPass(p *ast.Pass) ast.Stmt { ... }
//
// Transform never mutates its input. Containers (if/for bodies) are copied
// only when one of their children was replaced; everything else is shared.
package ast
