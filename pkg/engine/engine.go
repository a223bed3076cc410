// Package engine is the embeddable interpreter surface: one-shot and
// stepped execution against a virtual filesystem, a scripted input
// queue, captured output, and the completion/hover language services —
// everything a host UI needs without touching the OS.
package engine

import (
	"fmt"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/host/virtual"
	"github.com/pseudocode-lang/pseudocode/internal/interp"
	"github.com/pseudocode-lang/pseudocode/internal/parser"
	"github.com/pseudocode-lang/pseudocode/internal/symbols"
)

// StatementInfo describes the next statement a stepped execution would
// run, for a caller (e.g. a visual debugger) that wants to show it
// before it executes.
type StatementInfo struct {
	Index int
	Kind  string
	Line  int
}

// Engine is one embeddable interpreter session: a virtual host, an
// Interpreter that each Execute and ParseForExecution rebuilds, and (once
// ParseForExecution has run) the parsed program and a cursor into it for
// stepped execution.
type Engine struct {
	host *virtual.Host
	in   *interp.Interpreter

	recordSize int

	program *ast.Program
	cursor  int
	table   *symbols.Table
}

// New returns a ready-to-use Engine backed by a fresh virtual host.
func New() *Engine {
	h := virtual.New()
	eng := &Engine{host: h}
	eng.in = eng.newInterpreter()
	return eng
}

// newInterpreter builds a fresh interpreter against the engine's host,
// carrying over the engine-level record size override.
func (eng *Engine) newInterpreter() *interp.Interpreter {
	in := interp.New(eng.host)
	if eng.recordSize > 0 {
		in.RecordSize = eng.recordSize
	}
	return in
}

// SetVirtualFile seeds or overwrites a virtual file the program's
// OPENFILE statements can see.
func (eng *Engine) SetVirtualFile(name, content string) {
	eng.host.SetFile(name, content)
}

// GetVirtualFile reads back a virtual file's current content.
func (eng *Engine) GetVirtualFile(name string) (string, bool) {
	return eng.host.GetFile(name)
}

// AddInput appends one scripted line to the INPUT queue.
func (eng *Engine) AddInput(line string) {
	eng.host.AddInput(line)
}

// SetRecordSize overrides the GETRECORD/PUTRECORD record length used by
// the interpreter backing this engine (default 256). The override
// survives the fresh interpreter each Execute/ParseForExecution
// builds.
func (eng *Engine) SetRecordSize(n int) {
	eng.recordSize = n
	eng.in.RecordSize = n
}

// ClearInputs empties the scripted INPUT queue.
func (eng *Engine) ClearInputs() {
	eng.host.ClearInputs()
}

// CheckSyntax parses source without executing it and reports whether it
// is syntactically complete and valid. A parser.ErrNeedsMoreInput is
// reported as incomplete rather than invalid.
func (eng *Engine) CheckSyntax(source string) (ok bool, incomplete bool, err error) {
	p, err := parser.New(source)
	if err != nil {
		return false, false, err
	}
	_, err = p.ParseProgram()
	if err == nil {
		return true, false, nil
	}
	if _, needsMore := err.(*parser.ErrNeedsMoreInput); needsMore {
		return false, true, nil
	}
	return false, false, err
}

// Execute parses and runs source to completion in one call, returning
// the captured output. This is the one-shot embedding entry point;
// ParseForExecution/ExecuteNextStatement is the stepped alternative.
func (eng *Engine) Execute(source string) (output string, err error) {
	p, err := parser.New(source)
	if err != nil {
		return "", err
	}
	program, err := p.ParseProgram()
	if err != nil {
		return "", err
	}
	eng.in = eng.newInterpreter()
	eng.host.ResetOutput()
	if err := eng.in.Run(program); err != nil {
		return eng.host.Output(), err
	}
	return eng.host.Output(), nil
}

// ParseForExecution parses source and arms the engine for stepped
// execution via ExecuteNextStatement/HasMoreStatements, resetting any
// previous stepped run's interpreter state and output.
func (eng *Engine) ParseForExecution(source string) error {
	p, err := parser.New(source)
	if err != nil {
		return err
	}
	program, err := p.ParseProgram()
	if err != nil {
		return err
	}
	eng.program = program
	eng.cursor = 0
	eng.table = symbols.Collect(program)
	eng.in = eng.newInterpreter()
	eng.host.ResetOutput()
	return nil
}

// HasMoreStatements reports whether ExecuteNextStatement has more work
// to do.
func (eng *Engine) HasMoreStatements() bool {
	return eng.program != nil && eng.cursor < len(eng.program.Statements)
}

// GetNextStatementInfo describes the statement ExecuteNextStatement
// would run next, or ok=false if the program has finished.
func (eng *Engine) GetNextStatementInfo() (StatementInfo, bool) {
	if !eng.HasMoreStatements() {
		return StatementInfo{}, false
	}
	stmt := eng.program.Statements[eng.cursor]
	pos := stmt.Pos()
	return StatementInfo{
		Index: eng.cursor,
		Kind:  fmt.Sprintf("%T", stmt),
		Line:  pos.Line,
	}, true
}

// ExecuteNextStatement runs exactly one top-level statement and advances
// the cursor, returning the output produced since the previous call.
func (eng *Engine) ExecuteNextStatement() (output string, err error) {
	if !eng.HasMoreStatements() {
		return "", fmt.Errorf("no more statements to execute")
	}
	stmt := eng.program.Statements[eng.cursor]
	eng.cursor++
	before := eng.host.Output()
	if err := eng.in.ExecStatement(stmt); err != nil {
		return eng.host.Output()[len(before):], err
	}
	return eng.host.Output()[len(before):], nil
}

// GetInputStatements returns every INPUT-targeted variable name in
// source, in program order, without executing it.
func (eng *Engine) GetInputStatements(source string) ([]string, error) {
	p, err := parser.New(source)
	if err != nil {
		return nil, err
	}
	program, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	return symbols.GetInputStatements(program), nil
}

// GetCompletions parses source, builds its symbol table, and returns
// completion items for the (line, column) cursor: the cursor's context
// and trailing identifier prefix are extracted from the source text
// itself. If source fails to parse, the engine falls back to the symbol
// table of the program last armed by ParseForExecution, or, when there is
// none, to the keyword/built-in table alone, so completion still works on
// an in-progress, syntactically broken buffer.
func (eng *Engine) GetCompletions(source string, line, column int) []symbols.CompletionItem {
	return symbols.GetCompletionsAt(eng.tableFor(source), source, line, column)
}

// GetHover looks up the identifier under the (line, column) cursor in
// source's symbol table. On a broken buffer it uses the same fallback
// table as GetCompletions.
func (eng *Engine) GetHover(source string, line, column int) (symbols.Symbol, bool) {
	return symbols.GetHoverAt(eng.tableFor(source), source, line, column)
}

// tableFor returns source's symbol table. When source does not parse it
// returns the table built by the last ParseForExecution, or the fixed
// keyword/built-in table if there is none.
func (eng *Engine) tableFor(source string) *symbols.Table {
	table := eng.table
	if p, err := parser.New(source); err == nil {
		if program, err := p.ParseProgram(); err == nil {
			table = symbols.Collect(program)
		}
	}
	if table == nil {
		table = symbols.Collect(&ast.Program{})
	}
	return table
}
