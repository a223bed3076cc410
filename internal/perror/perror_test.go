package perror

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pseudocode-lang/pseudocode/internal/lexer"
)

func TestKindStrings(t *testing.T) {
	tests := []struct {
		kind Kind
		str  string
	}{
		{KindLex, "lex error"},
		{KindParse, "parse error"},
		{KindName, "name error"},
		{KindType, "type error"},
		{KindArity, "arity error"},
		{KindBounds, "bounds error"},
		{KindValue, "value error"},
		{KindArithmetic, "arithmetic error"},
		{KindState, "state error"},
		{KindIO, "I/O error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.str, tt.kind.String())
	}
}

func TestFormatWithSourceExcerpt(t *testing.T) {
	e := New(KindState, lexer.Position{Line: 2, Column: 1}, "cannot assign to constant %q", "PI")
	e.Source = "CONSTANT PI <- 3.14\nPI <- 3"

	out := e.Format(false)

	assert.Contains(t, out, "state error at 2:1")
	assert.Contains(t, out, "   2 | PI <- 3")
	assert.Contains(t, out, `cannot assign to constant "PI"`)

	// The caret lines up under column 1 of the excerpt line.
	lines := strings.Split(out, "\n")
	var caretLine string
	for _, l := range lines {
		if strings.Contains(l, "^") {
			caretLine = l
			break
		}
	}
	assert.Equal(t, strings.Repeat(" ", len("   2 | "))+"^", caretLine)
}

func TestFormatWithFile(t *testing.T) {
	e := New(KindParse, lexer.Position{Line: 1, Column: 5}, "expected ':'")
	e.File = "prog.pseudo"
	assert.Contains(t, e.Format(false), "parse error in prog.pseudo:1:5")
}

func TestFormatDecoration(t *testing.T) {
	e := New(KindArithmetic, lexer.Position{Line: 3, Column: 7}, "division by zero")
	e.CallStack = []string{"main", "compute"}
	e.ContextStack = []string{"in FOR loop (iteration 2)"}
	e.InScope = []string{"x"}

	out := e.Format(false)
	assert.Contains(t, out, "call stack: main -> compute")
	assert.Contains(t, out, "in: in FOR loop (iteration 2)")
	assert.Contains(t, out, "in scope: x")
}

func TestErrorIsSingleLineWithoutDecoration(t *testing.T) {
	e := New(KindName, lexer.Position{Line: 1, Column: 1}, "unknown variable %q", "x")
	// No Source, no stacks: header plus message only.
	assert.Equal(t, "name error at 1:1\nunknown variable \"x\"", e.Error())
}

func TestFormatColorWrapsCaretAndMessage(t *testing.T) {
	e := New(KindType, lexer.Position{Line: 1, Column: 1}, "bad operand")
	e.Source = "x <- TRUE + 1"

	colored := e.Format(true)
	assert.Contains(t, colored, "\033[1;31m^\033[0m")
	assert.Contains(t, colored, "\033[1mbad operand\033[0m")

	plain := e.Format(false)
	assert.NotContains(t, plain, "\033[")
}
