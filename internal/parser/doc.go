// Package parser turns assertion test files into syntax trees.
//
// The accepted language is the statement and expression subset of Python
// that test files use: assert, assignment, augmented assignment, import,
// pass, expression statements, and the if/elif/else and for-in block
// statements. Blocks are delimited by indentation.
//
// Lexing happens up front (Tokenize); the parser is a recursive-descent
// parser over the resulting token slice with one function per precedence
// level. Any malformed input yields a *SyntaxError and no Program.
package parser
