// Package rewrite turns equality assertions into diagnostic calls.
//
// A statement `assert left == right` becomes the expression statement
// `assert_equal(left, right)`, positioned on the assert's line, so a
// mismatch can report both operand values. Every other statement is returned
// as the identical node.
package rewrite
