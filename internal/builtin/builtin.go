// Package builtin is the single built-in function table shared by the
// evaluator, the parser, and the completion provider: name, arity, and
// a one-line doc string for each reserved callable. internal/interp
// implements the actual call semantics against this table;
// internal/symbols reads the same table for completion items and hover
// text.
package builtin

// Spec describes one built-in function's calling shape.
type Spec struct {
	Name  string
	Arity int
	Doc   string
}

// Specs is the fixed built-in table.
var Specs = []Spec{
	{"MOD", 2, "Integer remainder; b=0 is fatal."},
	{"DIV", 2, "Integer quotient; b=0 is fatal."},
	{"LENGTH", 1, "Length of a string."},
	{"UCASE", 1, "Case fold to upper case; result is STRING."},
	{"LCASE", 1, "Case fold to lower case; result is STRING."},
	{"SUBSTRING", 3, "1-based start, length; clamped to the string."},
	{"MID", 3, "Alias of SUBSTRING."},
	{"RIGHT", 2, "Rightmost n characters; n<0 is fatal."},
	{"ROUND", 2, "Round a REAL to p decimal places."},
	{"RANDOM", 0, "Uniform REAL in [0,1]."},
	{"RAND", 1, "Uniform REAL in [0,n]."},
	{"INT", 1, "Floor of a REAL to an INTEGER."},
	{"EOF", 1, "True iff the open handle is positioned at end of stream; the file must be open."},
}

var byName = func() map[string]Spec {
	m := make(map[string]Spec, len(Specs))
	for _, s := range Specs {
		m[s.Name] = s
	}
	return m
}()

// Lookup returns the Spec for a built-in name, or ok=false if name is
// not a built-in.
func Lookup(name string) (Spec, bool) {
	s, ok := byName[name]
	return s, ok
}
