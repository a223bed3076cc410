package interp

import (
	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/host"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
	"github.com/pseudocode-lang/pseudocode/internal/value"
)

// Interpreter walks a parsed Program against an Environment and a Host
// adapter. One Interpreter instance owns exactly one Environment and one
// open-file table, so that nested calls and embedded-engine "execute
// next statement" stepping share consistent state.
type Interpreter struct {
	Env    *Environment
	Host   host.Host
	Source string // full source text, for error excerpts
	File   string // empty for REPL/inline input

	// RecordSize is the fixed length GETRECORD/PUTRECORD use. Defaults
	// to 256; a pseudocode.toml can override it.
	RecordSize int

	openFiles map[string]*openFile

	callStack    []string
	contextStack []string
}

// defaultRecordSize applies when no configuration overrides it.
const defaultRecordSize = 256

// New returns an Interpreter ready to run a program against host h.
func New(h host.Host) *Interpreter {
	return &Interpreter{
		Env:        NewEnvironment(),
		Host:       h,
		RecordSize: defaultRecordSize,
		openFiles:  make(map[string]*openFile),
	}
}

// controlSignal is returned internally by statement execution to carry a
// RETURN (and its value, if any) out to the enclosing call without
// allocating an error for ordinary control flow.
type controlSignal struct {
	isReturn     bool
	returnValue  value.Value
	hasRetValue  bool
}

// Run executes every top-level statement in program in order, on one
// logical thread. A RETURN at top level is a state error.
func (in *Interpreter) Run(program *ast.Program) error {
	for _, stmt := range program.Statements {
		if err := in.ExecStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ExecStatement executes a single top-level statement and is the
// building block pkg/engine's stepped execution (ExecuteNextStatement)
// is built on.
func (in *Interpreter) ExecStatement(stmt ast.Stmt) error {
	sig, err := in.execStmt(stmt)
	if err != nil {
		return err
	}
	if sig != nil && sig.isReturn {
		return in.newError(perror.KindState, stmt.Pos(), "RETURN outside a function or procedure")
	}
	return nil
}
