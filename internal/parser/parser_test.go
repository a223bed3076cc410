package parser

import (
	"errors"
	"testing"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
)

// parse is a test helper that parses source and fails the test on any
// lex or parse error.
func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	p, err := New(source)
	if err != nil {
		t.Fatalf("New(%q): %s", source, err)
	}
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram(%q): %s", source, err)
	}
	return program
}

// parseOne parses source and asserts it contains exactly one statement.
func parseOne(t *testing.T, source string) ast.Stmt {
	t.Helper()
	program := parse(t, source)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	return program.Statements[0]
}

func TestDeclareStatement(t *testing.T) {
	stmt := parseOne(t, "DECLARE count : INTEGER")
	decl, ok := stmt.(*ast.Declare)
	if !ok {
		t.Fatalf("expected *ast.Declare, got %T", stmt)
	}
	if decl.Name != "count" {
		t.Errorf("expected name %q, got %q", "count", decl.Name)
	}
	scalar, ok := decl.Type.(*ast.ScalarType)
	if !ok || scalar.Kind != ast.KindInteger {
		t.Errorf("expected INTEGER type, got %s", decl.Type)
	}
	if decl.Span.Line != 1 || decl.Span.Column != 1 {
		t.Errorf("expected span 1:1, got %s", decl.Span)
	}
}

func TestDeclareArrayType(t *testing.T) {
	tests := []struct {
		source string
		dims   int
	}{
		{"DECLARE a : ARRAY[1:10] OF INTEGER", 1},
		{"DECLARE m : ARRAY[1:2, 1:3] OF INTEGER", 2},
		{"DECLARE c : ARRAY[0:4] ARRAY[1:3] OF STRING", 2},
	}

	for _, tt := range tests {
		stmt := parseOne(t, tt.source)
		decl := stmt.(*ast.Declare)
		arr, ok := decl.Type.(*ast.ArrayType)
		if !ok {
			t.Fatalf("%q: expected *ast.ArrayType, got %T", tt.source, decl.Type)
		}
		if len(arr.Dimensions) != tt.dims {
			t.Errorf("%q: expected %d dimensions, got %d", tt.source, tt.dims, len(arr.Dimensions))
		}
	}
}

func TestTypeDeclarationForms(t *testing.T) {
	t.Run("enum", func(t *testing.T) {
		stmt := parseOne(t, "TYPE Season = (Spring, Summer, Autumn, Winter)")
		td := stmt.(*ast.TypeDeclaration)
		enum, ok := td.Decl.(*ast.EnumType)
		if !ok {
			t.Fatalf("expected *ast.EnumType, got %T", td.Decl)
		}
		if len(enum.Values) != 4 || enum.Values[0] != "Spring" || enum.Values[3] != "Winter" {
			t.Errorf("unexpected enum values %v", enum.Values)
		}
	})

	t.Run("pointer", func(t *testing.T) {
		stmt := parseOne(t, "TYPE IntPtr = ^INTEGER")
		td := stmt.(*ast.TypeDeclaration)
		ptr, ok := td.Decl.(*ast.PointerType)
		if !ok {
			t.Fatalf("expected *ast.PointerType, got %T", td.Decl)
		}
		if ptr.PointsTo.String() != "INTEGER" {
			t.Errorf("expected ^INTEGER, got ^%s", ptr.PointsTo)
		}
	})

	t.Run("set", func(t *testing.T) {
		stmt := parseOne(t, "TYPE Letters = SET OF CHAR")
		td := stmt.(*ast.TypeDeclaration)
		set, ok := td.Decl.(*ast.SetType)
		if !ok {
			t.Fatalf("expected *ast.SetType, got %T", td.Decl)
		}
		if set.Element.String() != "CHAR" {
			t.Errorf("expected SET OF CHAR, got SET OF %s", set.Element)
		}
	})

	t.Run("record", func(t *testing.T) {
		stmt := parseOne(t, "TYPE Point\nDECLARE x : INTEGER\nDECLARE y : INTEGER\nENDTYPE")
		td := stmt.(*ast.TypeDeclaration)
		rec, ok := td.Decl.(*ast.RecordType)
		if !ok {
			t.Fatalf("expected *ast.RecordType, got %T", td.Decl)
		}
		if len(rec.Fields) != 2 || rec.Fields[0].Name != "x" || rec.Fields[1].Name != "y" {
			t.Errorf("unexpected record fields %+v", rec.Fields)
		}
	})
}

func TestAssignmentLValues(t *testing.T) {
	tests := []struct {
		source string
		check  func(ast.LValue) bool
	}{
		{"x <- 1", func(lv ast.LValue) bool {
			v, ok := lv.(*ast.VarLValue)
			return ok && v.Name == "x"
		}},
		{"a[i] <- 1", func(lv ast.LValue) bool {
			ix, ok := lv.(*ast.IndexLValue)
			return ok && len(ix.Indices) == 1
		}},
		{"m[i, j] <- 1", func(lv ast.LValue) bool {
			ix, ok := lv.(*ast.IndexLValue)
			return ok && len(ix.Indices) == 2
		}},
		{"p.x <- 1", func(lv ast.LValue) bool {
			f, ok := lv.(*ast.FieldLValue)
			return ok && f.Field == "x"
		}},
		{"ptr^ <- 1", func(lv ast.LValue) bool {
			_, ok := lv.(*ast.DerefLValue)
			return ok
		}},
		{"recs[i].name <- 1", func(lv ast.LValue) bool {
			f, ok := lv.(*ast.FieldLValue)
			if !ok {
				return false
			}
			_, ok = f.Base.(*ast.IndexLValue)
			return ok && f.Field == "name"
		}},
	}

	for _, tt := range tests {
		stmt := parseOne(t, tt.source)
		assign, ok := stmt.(*ast.Assign)
		if !ok {
			t.Fatalf("%q: expected *ast.Assign, got %T", tt.source, stmt)
		}
		if !tt.check(assign.Target) {
			t.Errorf("%q: unexpected lvalue %T", tt.source, assign.Target)
		}
	}
}

func TestIfElse(t *testing.T) {
	stmt := parseOne(t, "IF x > 0 THEN\nOUTPUT 1\nELSE\nOUTPUT 2\nENDIF")
	ifStmt := stmt.(*ast.If)
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Errorf("expected 1 then and 1 else statement, got %d and %d", len(ifStmt.Then), len(ifStmt.Else))
	}
}

func TestForStatement(t *testing.T) {
	stmt := parseOne(t, "FOR i <- 1 TO 10 STEP 2\nOUTPUT i\nNEXT i")
	forStmt := stmt.(*ast.For)
	if forStmt.Counter != "i" {
		t.Errorf("expected counter %q, got %q", "i", forStmt.Counter)
	}
	if forStmt.Step == nil {
		t.Errorf("expected a STEP expression")
	}
}

func TestForNextMismatch(t *testing.T) {
	p, err := New("FOR i <- 1 TO 10\nOUTPUT i\nNEXT j")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.ParseProgram(); err == nil {
		t.Fatal("expected a parse error for mismatched NEXT")
	}
}

func TestCaseStatement(t *testing.T) {
	source := `CASE x OF
1: OUTPUT "one"
2: OUTPUT "two"
OTHERWISE: OUTPUT "many"
ENDCASE`
	stmt := parseOne(t, source)
	caseStmt := stmt.(*ast.Case)
	if len(caseStmt.Branches) != 2 {
		t.Errorf("expected 2 branches, got %d", len(caseStmt.Branches))
	}
	if caseStmt.Otherwise == nil {
		t.Errorf("expected an OTHERWISE body")
	}
}

func TestFunctionAndProcedureDeclarations(t *testing.T) {
	source := `FUNCTION add(a : INTEGER, b : INTEGER) RETURNS INTEGER
RETURN a + b
ENDFUNCTION
PROCEDURE greet(name : STRING)
OUTPUT "hi ", name
ENDPROCEDURE`
	program := parse(t, source)
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	fn := program.Statements[0].(*ast.FunctionDeclaration)
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Errorf("unexpected function %q with %d params", fn.Name, len(fn.Params))
	}
	if fn.ReturnType.String() != "INTEGER" {
		t.Errorf("expected INTEGER return type, got %s", fn.ReturnType)
	}
	proc := program.Statements[1].(*ast.ProcedureDeclaration)
	if proc.Name != "greet" || len(proc.Params) != 1 {
		t.Errorf("unexpected procedure %q with %d params", proc.Name, len(proc.Params))
	}
}

func TestFileStatements(t *testing.T) {
	source := `OPENFILE "db" FOR RANDOM
PUTRECORD "db", rec
SEEK "db", 0
GETRECORD "db", rec2
READFILE "db", line
WRITEFILE "db", "a", "b"
CLOSEFILE "db"`
	program := parse(t, source)
	kinds := []any{
		&ast.OpenFile{}, &ast.PutRecord{}, &ast.Seek{}, &ast.GetRecord{},
		&ast.ReadFile{}, &ast.WriteFile{}, &ast.CloseFile{},
	}
	if len(program.Statements) != len(kinds) {
		t.Fatalf("expected %d statements, got %d", len(kinds), len(program.Statements))
	}
	open := program.Statements[0].(*ast.OpenFile)
	if open.Mode != ast.FileRandom {
		t.Errorf("expected RANDOM mode, got %v", open.Mode)
	}
	write := program.Statements[5].(*ast.WriteFile)
	if len(write.Exprs) != 2 {
		t.Errorf("expected 2 WRITEFILE expressions, got %d", len(write.Exprs))
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		source string
		opener string
	}{
		{"IF x > 0 THEN\nOUTPUT 1", "IF"},
		{"WHILE x DO", "WHILE"},
		{"FOR i <- 1 TO 3\nOUTPUT i", "FOR"},
		{"REPEAT\nOUTPUT 1", "REPEAT"},
		{"FUNCTION f() RETURNS INTEGER", "FUNCTION"},
		{"TYPE Point\nDECLARE x : INTEGER", "TYPE"},
		{"CASE x OF\n1: OUTPUT 1", "CASE"},
	}

	for _, tt := range tests {
		p, err := New(tt.source)
		if err != nil {
			t.Fatal(err)
		}
		_, err = p.ParseProgram()
		var needsMore *ErrNeedsMoreInput
		if !errors.As(err, &needsMore) {
			t.Errorf("%q: expected ErrNeedsMoreInput, got %v", tt.source, err)
			continue
		}
		if needsMore.Opener != tt.opener {
			t.Errorf("%q: expected opener %q, got %q", tt.source, tt.opener, needsMore.Opener)
		}
	}
}

func TestParseErrorsArePositioned(t *testing.T) {
	p, err := New("DECLARE 42 : INTEGER")
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.ParseProgram()
	var perr *perror.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *perror.Error, got %T", err)
	}
	if perr.Kind != perror.KindParse {
		t.Errorf("expected parse error kind, got %s", perr.Kind)
	}
	if perr.Pos.Line != 1 || perr.Pos.Column != 9 {
		t.Errorf("expected error at 1:9, got %s", perr.Pos)
	}
}

func TestBlankLinesBetweenStatements(t *testing.T) {
	program := parse(t, "\n\nOUTPUT 1\n\n\nOUTPUT 2\n\n")
	if len(program.Statements) != 2 {
		t.Errorf("expected 2 statements, got %d", len(program.Statements))
	}
}
