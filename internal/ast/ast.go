// Package ast defines the immutable, span-bearing syntax tree produced by
// the parser and walked by the evaluator and the symbol service.
package ast

import "github.com/pseudocode-lang/pseudocode/internal/lexer"

// Span is the (line, column) pair attached to every node, used for error
// localisation. It is a type alias for lexer.Position so tokens and nodes
// share one position type end to end.
type Span = lexer.Position

// Node is implemented by every expression and statement node.
type Node interface {
	Pos() Span
}

// Program is a parsed source file: a flat sequence of top-level
// statements.
type Program struct {
	Statements []Stmt
}
