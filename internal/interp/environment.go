// Package interp implements the tree-walking evaluator: statement
// execution and expression evaluation over a scoped Environment, the
// built-in function table, and the file handle table.
package interp

import (
	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/value"
)

// FunctionDef is a registered user FUNCTION: its parameter list, return
// type, and body, captured at declaration time.
type FunctionDef struct {
	Params     []ast.Param
	ReturnType ast.Type
	Body       []ast.Stmt
}

// ProcedureDef is a registered user PROCEDURE.
type ProcedureDef struct {
	Params []ast.Param
	Body   []ast.Stmt
}

// snapshot is the saved pair taken at call entry and restored at exit:
// two whole mappings, not a scope chain.
type snapshot struct {
	variables     map[string]value.Value
	variableTypes map[string]ast.Type
}

// Environment owns the interpreter's mappings — variables, declared
// types, functions, procedures, type definitions — plus the constants
// set and the snapshot stack used for call-entry/exit scoping and
// For-loop counter restoration.
type Environment struct {
	variables     map[string]value.Value
	variableTypes map[string]ast.Type
	functions     map[string]*FunctionDef
	procedures    map[string]*ProcedureDef
	typeDefs      map[string]ast.Type
	constants     map[string]bool

	snapshots []snapshot
}

// NewEnvironment returns an empty Environment ready for a top-level
// program.
func NewEnvironment() *Environment {
	return &Environment{
		variables:     make(map[string]value.Value),
		variableTypes: make(map[string]ast.Type),
		functions:     make(map[string]*FunctionDef),
		procedures:    make(map[string]*ProcedureDef),
		typeDefs:      make(map[string]ast.Type),
		constants:     make(map[string]bool),
	}
}

// Get returns a variable's current value.
func (e *Environment) Get(name string) (value.Value, bool) {
	v, ok := e.variables[name]
	return v, ok
}

// GetType returns a variable's declared type.
func (e *Environment) GetType(name string) (ast.Type, bool) {
	t, ok := e.variableTypes[name]
	return t, ok
}

// Declare binds name to v with declared type t; both mappings gain the
// key together.
func (e *Environment) Declare(name string, v value.Value, t ast.Type) {
	e.variables[name] = v
	e.variableTypes[name] = t
}

// Set overwrites an already-declared variable's value without touching
// its declared type.
func (e *Environment) Set(name string, v value.Value) {
	e.variables[name] = v
}

// Remove deletes a variable from both mappings, used when a For-loop
// counter leaves scope and had no prior binding.
func (e *Environment) Remove(name string) {
	delete(e.variables, name)
	delete(e.variableTypes, name)
}

// IsConstant reports whether name was declared CONSTANT.
func (e *Environment) IsConstant(name string) bool {
	return e.constants[name]
}

// MarkConstant adds name to the constants set.
func (e *Environment) MarkConstant(name string) {
	e.constants[name] = true
}

// LookupFunction returns a registered user function.
func (e *Environment) LookupFunction(name string) (*FunctionDef, bool) {
	f, ok := e.functions[name]
	return f, ok
}

// DeclareFunction registers a user function. Callers must check
// HasCallable first; registration is write-once.
func (e *Environment) DeclareFunction(name string, def *FunctionDef) {
	e.functions[name] = def
}

// LookupProcedure returns a registered user procedure.
func (e *Environment) LookupProcedure(name string) (*ProcedureDef, bool) {
	p, ok := e.procedures[name]
	return p, ok
}

// DeclareProcedure registers a user procedure.
func (e *Environment) DeclareProcedure(name string, def *ProcedureDef) {
	e.procedures[name] = def
}

// HasCallable reports whether name is already registered as either a
// function or a procedure, for the write-once check.
func (e *Environment) HasCallable(name string) bool {
	_, isFunc := e.functions[name]
	_, isProc := e.procedures[name]
	return isFunc || isProc
}

// LookupType resolves a named TYPE declaration.
func (e *Environment) LookupType(name string) (ast.Type, bool) {
	t, ok := e.typeDefs[name]
	return t, ok
}

// DeclareType registers a named TYPE declaration.
func (e *Environment) DeclareType(name string, t ast.Type) {
	e.typeDefs[name] = t
}

// TypeDefs exposes the raw type-definition map for Value default
// construction, which needs it to resolve Custom(name) recursively.
func (e *Environment) TypeDefs() map[string]ast.Type {
	return e.typeDefs
}

// Names returns every currently bound variable name, for InScope error
// decoration.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.variables))
	for name := range e.variables {
		names = append(names, name)
	}
	return names
}

// PushScope saves the current variables/variableTypes mappings and
// installs working copies, per the snapshot/restore scoping model:
// existing bindings stay readable inside the call, and every mutation
// made during the call is discarded when the snapshot is restored.
func (e *Environment) PushScope() {
	e.snapshots = append(e.snapshots, snapshot{
		variables:     e.variables,
		variableTypes: e.variableTypes,
	})
	vars := make(map[string]value.Value, len(e.variables))
	for k, v := range e.variables {
		vars[k] = v
	}
	types := make(map[string]ast.Type, len(e.variableTypes))
	for k, t := range e.variableTypes {
		types[k] = t
	}
	e.variables = vars
	e.variableTypes = types
}

// PopScope restores the mappings saved by the matching PushScope. It is
// safe to call even when the body being popped errored partway through;
// scope restoration holds on success and error alike.
func (e *Environment) PopScope() {
	n := len(e.snapshots)
	if n == 0 {
		return
	}
	saved := e.snapshots[n-1]
	e.snapshots = e.snapshots[:n-1]
	e.variables = saved.variables
	e.variableTypes = saved.variableTypes
}
