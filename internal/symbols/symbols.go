// Package symbols implements the static symbol/completion service: an
// AST walk that collects every declared name, a cursor-position context
// classifier, and completion/hover providers built on the same
// internal/builtin table the evaluator dispatches against.
package symbols

import (
	"sort"
	"strings"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/builtin"
	"github.com/pseudocode-lang/pseudocode/internal/lexer"
)

// Kind classifies one entry in a Table or one CompletionItem.
type Kind int

const (
	KindKeyword Kind = iota
	KindFunction
	KindProcedure
	KindVariable
	KindConstant
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindFunction:
		return "function"
	case KindProcedure:
		return "procedure"
	case KindVariable:
		return "variable"
	case KindConstant:
		return "constant"
	case KindType:
		return "type"
	default:
		return "unknown"
	}
}

// Symbol is one declared name discovered by Collect.
type Symbol struct {
	Name string
	Kind Kind
	Type string // the declared type's String(), empty for procedures/keywords
	Doc  string // built-in doc string, empty for user declarations
	Pos  lexer.Position
}

// Table is every symbol visible in a program, built once by Collect and
// reused by both GetCompletions and GetHover.
type Table struct {
	Symbols []Symbol
}

// Collect walks program and every nested block (If/While/For/
// RepeatUntil/Case branches, function and procedure bodies) and returns
// every declared variable, constant, type, function, and procedure name
// in declaration order, plus the fixed keyword and built-in function
// sets.
func Collect(program *ast.Program) *Table {
	t := &Table{}
	for _, kw := range keywordList() {
		// Built-in function names lex as keywords but hover and
		// complete as functions; their table entry below wins.
		if _, isBuiltin := builtin.Lookup(kw); isBuiltin {
			continue
		}
		t.Symbols = append(t.Symbols, Symbol{Name: kw, Kind: KindKeyword})
	}
	for _, b := range builtin.Specs {
		t.Symbols = append(t.Symbols, Symbol{Name: b.Name, Kind: KindFunction, Doc: b.Doc})
	}
	walkStmts(program.Statements, t)
	return t
}

func keywordList() []string {
	names := make([]string, 0, len(lexer.Keywords))
	for k := range lexer.Keywords {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func walkStmts(stmts []ast.Stmt, t *Table) {
	for _, s := range stmts {
		walkStmt(s, t)
	}
}

func walkStmt(stmt ast.Stmt, t *Table) {
	switch s := stmt.(type) {
	case *ast.Declare:
		t.Symbols = append(t.Symbols, Symbol{Name: s.Name, Kind: KindVariable, Type: typeString(s.Type), Pos: s.Span})
	case *ast.Define:
		t.Symbols = append(t.Symbols, Symbol{Name: s.Name, Kind: KindVariable, Type: s.TypeName, Pos: s.Span})
	case *ast.Constant:
		t.Symbols = append(t.Symbols, Symbol{Name: s.Name, Kind: KindConstant, Pos: s.Span})
	case *ast.TypeDeclaration:
		t.Symbols = append(t.Symbols, Symbol{Name: s.Name, Kind: KindType, Pos: s.Span})
	case *ast.If:
		walkStmts(s.Then, t)
		walkStmts(s.Else, t)
	case *ast.While:
		walkStmts(s.Body, t)
	case *ast.For:
		t.Symbols = append(t.Symbols, Symbol{Name: s.Counter, Kind: KindVariable, Type: "INTEGER", Pos: s.Span})
		walkStmts(s.Body, t)
	case *ast.RepeatUntil:
		walkStmts(s.Body, t)
	case *ast.Case:
		for _, br := range s.Branches {
			walkStmts(br.Body, t)
		}
		walkStmts(s.Otherwise, t)
	case *ast.FunctionDeclaration:
		t.Symbols = append(t.Symbols, Symbol{Name: s.Name, Kind: KindFunction, Type: typeString(s.ReturnType), Pos: s.Span})
		for _, p := range s.Params {
			t.Symbols = append(t.Symbols, Symbol{Name: p.Name, Kind: KindVariable, Type: typeString(p.Type), Pos: p.Span})
		}
		walkStmts(s.Body, t)
	case *ast.ProcedureDeclaration:
		t.Symbols = append(t.Symbols, Symbol{Name: s.Name, Kind: KindProcedure, Pos: s.Span})
		for _, p := range s.Params {
			t.Symbols = append(t.Symbols, Symbol{Name: p.Name, Kind: KindVariable, Type: typeString(p.Type), Pos: p.Span})
		}
		walkStmts(s.Body, t)
	}
}

func typeString(t ast.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// GetInputStatements is the static INPUT-variable scan: every variable
// an INPUT statement targets, in source order, recursing into every
// nested block the same way Collect does. It does not execute the
// program.
func GetInputStatements(program *ast.Program) []string {
	var names []string
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.Input:
				names = append(names, s.Name)
			case *ast.If:
				walk(s.Then)
				walk(s.Else)
			case *ast.While:
				walk(s.Body)
			case *ast.For:
				walk(s.Body)
			case *ast.RepeatUntil:
				walk(s.Body)
			case *ast.Case:
				for _, br := range s.Branches {
					walk(br.Body)
				}
				walk(s.Otherwise)
			case *ast.FunctionDeclaration:
				walk(s.Body)
			case *ast.ProcedureDeclaration:
				walk(s.Body)
			}
		}
	}
	walk(program.Statements)
	return names
}

// CompletionItem is one suggestion returned by GetCompletions.
type CompletionItem struct {
	Label         string
	Kind          Kind
	Detail        string
	Documentation string
	InsertText    string
}

// insertText returns what accepting the suggestion should type: the
// label itself, except CASE completes to its opening form and user
// callables open their argument list.
func insertText(sym Symbol) string {
	if sym.Kind == KindKeyword && sym.Name == "CASE" {
		return "CASE OF "
	}
	userCallable := (sym.Kind == KindFunction && sym.Doc == "") || sym.Kind == KindProcedure
	if userCallable {
		return sym.Name + "("
	}
	return sym.Name
}

// LineContext is the cursor classification driving completion: which
// of the textual situations the cursor sits in, plus the trailing
// identifier prefix left of it. All flags come from local line
// patterns; nothing here re-parses the program.
type LineContext struct {
	AfterDeclare bool // right of `DECLARE name :`
	AfterReturns bool // right of `FUNCTION name(...) RETURNS`
	InArrayDecl  bool // inside an `ARRAY[...]` dimension list
	InAssignment bool // right of `<-`
	AfterCond    bool // right of `IF ... THEN` / `... DO`
	AfterForTo   bool // right of `FOR name <- e TO`
	InCallArgs   bool // inside a call's argument list
	StartOfLine  bool
	Prefix       string
}

// typePosition reports whether the cursor wants a type name rather than
// an expression or a statement.
func (c LineContext) typePosition() bool {
	return c.AfterDeclare || c.AfterReturns
}

// lineUpToCursor returns the text of the 1-based line truncated at the
// 1-based column.
func lineUpToCursor(source string, line, column int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	runes := []rune(lines[line-1])
	if column < 1 || column > len(runes)+1 {
		return string(runes)
	}
	return string(runes[:column-1])
}

// extractPrefix returns the trailing identifier characters of text, or
// "" when the cursor does not touch an identifier.
func extractPrefix(text string) string {
	end := len(text)
	start := end
	for start > 0 {
		ch := text[start-1]
		if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			start--
			continue
		}
		break
	}
	return text[start:end]
}

// ClassifyCursor inspects source around the (line, column) cursor and
// returns the completion context. A textual heuristic is enough here; a
// full incremental parse would buy nothing.
func ClassifyCursor(source string, line, column int) LineContext {
	before := lineUpToCursor(source, line, column)
	trimmed := strings.TrimRight(before, " \t")
	upper := strings.ToUpper(trimmed)

	ctx := LineContext{
		Prefix:      extractPrefix(before),
		StartOfLine: strings.TrimSpace(before) == "",
	}

	ctx.AfterDeclare = strings.Contains(upper, "DECLARE") && strings.HasSuffix(upper, ":")
	ctx.AfterReturns = strings.Contains(upper, "FUNCTION") && strings.HasSuffix(upper, "RETURNS")
	if i := strings.LastIndex(upper, "ARRAY"); i >= 0 {
		rest := upper[i:]
		ctx.InArrayDecl = strings.Contains(rest, "[") && !strings.Contains(rest, "]")
	}
	ctx.InAssignment = strings.Contains(upper, "<-")
	ctx.AfterCond = strings.Contains(upper, "IF") &&
		(strings.HasSuffix(upper, "THEN") || strings.HasSuffix(upper, "DO"))
	ctx.AfterForTo = strings.Contains(upper, "FOR") && strings.Contains(upper, "<-") &&
		strings.HasSuffix(upper, "TO")
	ctx.InCallArgs = strings.HasSuffix(upper, "(") ||
		(strings.Count(upper, "(") > strings.Count(upper, ")") && strings.HasSuffix(upper, ","))

	return ctx
}

// offered reports whether a symbol belongs in the suggestions for the
// given context. Keywords, built-ins, variables, and constants are
// always offered; type names only where a type is expected; user
// callables everywhere except where a type is expected.
func offered(sym Symbol, ctx LineContext) bool {
	switch sym.Kind {
	case KindType:
		return ctx.typePosition()
	case KindFunction, KindProcedure:
		if sym.Doc != "" {
			return true // built-in
		}
		return !ctx.typePosition()
	default:
		return true
	}
}

// GetCompletionsAt classifies the cursor, then returns every offered
// symbol whose name has the cursor's trailing identifier as a
// case-insensitive prefix, sorted lexicographically by label. There is
// no ranking beyond alphabetical.
func GetCompletionsAt(t *Table, source string, line, column int) []CompletionItem {
	ctx := ClassifyCursor(source, line, column)
	seen := make(map[string]bool)
	upperPrefix := strings.ToUpper(ctx.Prefix)
	var items []CompletionItem
	for _, sym := range t.Symbols {
		if seen[sym.Name] {
			continue
		}
		if !offered(sym, ctx) {
			continue
		}
		if !strings.HasPrefix(strings.ToUpper(sym.Name), upperPrefix) {
			continue
		}
		seen[sym.Name] = true
		detail := sym.Type
		if detail == "" {
			detail = sym.Doc
		}
		items = append(items, CompletionItem{
			Label:         sym.Name,
			Kind:          sym.Kind,
			Detail:        detail,
			Documentation: sym.Doc,
			InsertText:    insertText(sym),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// GetHoverAt extracts the identifier ending at the cursor and returns
// its symbol: keywords first, then built-ins, then user declarations,
// in the order Collect laid them out.
func GetHoverAt(t *Table, source string, line, column int) (Symbol, bool) {
	word := extractPrefix(lineUpToCursor(source, line, column))
	if word == "" {
		return Symbol{}, false
	}
	return GetHover(t, word)
}

// GetHover returns the first symbol named exactly name (case-sensitive),
// or ok=false if there is none.
func GetHover(t *Table, name string) (Symbol, bool) {
	for _, sym := range t.Symbols {
		if sym.Name == name {
			return sym, true
		}
	}
	return Symbol{}, false
}
