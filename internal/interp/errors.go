package interp

import (
	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
)

// newError builds a perror.Error decorated with the interpreter's
// current call stack, context stack, and in-scope variable names.
func (in *Interpreter) newError(kind perror.Kind, pos ast.Span, format string, args ...any) *perror.Error {
	e := perror.New(kind, pos, format, args...)
	e.Source = in.Source
	e.File = in.File
	if len(in.callStack) > 0 {
		e.CallStack = append([]string(nil), in.callStack...)
	}
	if len(in.contextStack) > 0 {
		e.ContextStack = append([]string(nil), in.contextStack...)
	}
	e.InScope = in.Env.Names()
	return e
}
