// Package perror formats interpreter errors with source context: a line
// excerpt and a caret pointing at the offending column.
package perror

import (
	"fmt"
	"strings"

	"github.com/pseudocode-lang/pseudocode/internal/lexer"
)

// Kind classifies an error by where in the pipeline it arose.
type Kind int

const (
	KindLex Kind = iota
	KindParse
	KindName
	KindType
	KindArity
	KindBounds
	KindValue
	KindArithmetic
	KindState
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindParse:
		return "parse error"
	case KindName:
		return "name error"
	case KindType:
		return "type error"
	case KindArity:
		return "arity error"
	case KindBounds:
		return "bounds error"
	case KindValue:
		return "value error"
	case KindArithmetic:
		return "arithmetic error"
	case KindState:
		return "state error"
	case KindIO:
		return "I/O error"
	default:
		return "error"
	}
}

// Error is a positioned interpreter error. It carries enough context
// (call stack, context stack, in-scope variable names) that a caller can
// render a useful diagnostic without re-deriving it.
type Error struct {
	Kind    Kind
	Message string
	Pos     lexer.Position
	Source  string // full source text, for Format's excerpt; may be empty
	File    string // empty for REPL/inline input

	CallStack    []string
	ContextStack []string
	InScope      []string
}

// New creates an Error with no decoration; callers typically attach
// CallStack/ContextStack/InScope via the evaluator before it escapes.
func New(kind Kind, pos lexer.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Format(false)
}

// Format renders the error as a single block: a header with file/position,
// a source excerpt with a caret, the message, and — when present — the
// call stack, context stack, and in-scope variables. Colorized with ANSI
// codes when color is true.
func (e *Error) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNum := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNum)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNum)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	if len(e.CallStack) > 0 {
		sb.WriteString("\n  call stack: " + strings.Join(e.CallStack, " -> "))
	}
	if len(e.ContextStack) > 0 {
		sb.WriteString("\n  in: " + strings.Join(e.ContextStack, ", "))
	}
	if len(e.InScope) > 0 {
		sb.WriteString("\n  in scope: " + strings.Join(e.InScope, ", "))
	}

	return sb.String()
}

func (e *Error) sourceLine(line int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
