// Package value defines the runtime value universe the evaluator operates
// over: scalars, records, enumerations, pointers, sets, and multi-
// dimensional arrays.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
)

// Value is implemented by every runtime value kind.
type Value interface {
	// TypeName returns the pseudocode type name (e.g. "INTEGER").
	TypeName() string
	// String returns the stringified form used by OUTPUT and
	// concatenation.
	String() string
}

// Integer is a 32-bit signed integer; the width is fixed end to end,
// from literal parsing to storage.
type Integer struct{ Value int32 }

func (Integer) TypeName() string   { return "INTEGER" }
func (i Integer) String() string   { return strconv.FormatInt(int64(i.Value), 10) }

// Real is a 64-bit float. Equality on Real is direct floating equality,
// matching the pedagogical intent; NaN/precision surprises are a known
// limitation.
type Real struct{ Value float64 }

func (Real) TypeName() string { return "REAL" }
func (r Real) String() string {
	return strconv.FormatFloat(r.Value, 'g', -1, 64)
}

// String is a pseudocode STRING.
type String struct{ Value string }

func (String) TypeName() string  { return "STRING" }
func (s String) String() string  { return s.Value }

// Char is a single-character value.
type Char struct{ Value rune }

func (Char) TypeName() string  { return "CHAR" }
func (c Char) String() string  { return string(c.Value) }

// Boolean is TRUE/FALSE, stringified in the language's own casing.
type Boolean struct{ Value bool }

func (Boolean) TypeName() string { return "BOOLEAN" }
func (b Boolean) String() string {
	if b.Value {
		return "TRUE"
	}
	return "FALSE"
}

// Date is stored as its textual representation; no calendar arithmetic is
// specified, so it is treated as an opaque stamped string.
type Date struct{ Value string }

func (Date) TypeName() string { return "DATE" }
func (d Date) String() string { return d.Value }

// Record is a named record value: an ordered field list plus a lookup map
// for O(1) field access.
type Record struct {
	TypeName_ string
	Fields    map[string]Value
	Order     []string
}

func (r Record) TypeName() string { return r.TypeName_ }
func (r Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.TypeName_)
	sb.WriteString("(")
	for i, name := range r.Order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		if v, ok := r.Fields[name]; ok && v != nil {
			sb.WriteString(v.String())
		}
	}
	sb.WriteString(")")
	return sb.String()
}

// Enum is one named value of a user enumeration.
type Enum struct {
	TypeName_  string
	ValueName string
}

func (e Enum) TypeName() string { return e.TypeName_ }
func (e Enum) String() string   { return e.ValueName }

// Pointer stores a snapshot copy of its target, not a live reference:
// assigning through `p^` mutates the copy, never the variable the
// `^name` was taken from.
type Pointer struct {
	PointsTo ast.Type
	Target   Value
}

func (Pointer) TypeName() string { return "POINTER" }
func (p Pointer) String() string {
	if p.Target == nil {
		return "nil"
	}
	return "^" + p.Target.String()
}

// Set is an unordered collection of same-typed elements, indexed 1-based
// when accessed positionally.
type Set struct {
	ElementType ast.Type
	Elements    []Value
}

func (Set) TypeName() string { return "SET" }
func (s Set) String() string {
	parts := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Array is a flattened, row-major, multi-dimensional array. Dimensions
// and StartIndices always have matching length; len(Data) ==
// product(Dimensions).
type Array struct {
	ElementType  ast.Type
	Dimensions   []int
	StartIndices []int
	Data         []Value
}

func (Array) TypeName() string { return "ARRAY" }

// String renders nested-bracket form recursing one dimension at a time,
// the same shape the evaluator uses for OUTPUT of a whole array.
func (a Array) String() string {
	if len(a.Dimensions) == 0 {
		return "[]"
	}
	return formatArrayDim(a.Data, a.Dimensions, 0)
}

func formatArrayDim(data []Value, dims []int, dimIndex int) string {
	if dimIndex == len(dims)-1 {
		parts := make([]string, len(data))
		for i, v := range data {
			parts[i] = v.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	stride := 1
	for _, d := range dims[dimIndex+1:] {
		stride *= d
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < dims[dimIndex]; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		start := i * stride
		end := start + stride
		sb.WriteString(formatArrayDim(data[start:end], dims, dimIndex+1))
	}
	sb.WriteString("]")
	return sb.String()
}

// FlatIndex translates 1-or-more user indices (already base-adjusted) into
// a flat offset using row-major striding, per the GLOSSARY definition:
// offset = i_n + d_n*i_(n-1) + d_n*d_(n-1)*i_(n-2) + ...
func (a Array) FlatIndex(zeroBased []int) (int, error) {
	if len(zeroBased) != len(a.Dimensions) {
		return 0, fmt.Errorf("expected %d indices, got %d", len(a.Dimensions), len(zeroBased))
	}
	offset := 0
	for i, idx := range zeroBased {
		if idx < 0 || idx >= a.Dimensions[i] {
			return 0, fmt.Errorf("index %d out of bounds for dimension of size %d", idx+a.StartIndices[i], a.Dimensions[i])
		}
		offset = offset*a.Dimensions[i] + idx
	}
	return offset, nil
}

// Truthy implements the condition rule: Boolean(b)->b,
// Integer(i)->i!=0, Real(r)->r!=0, String(s)->non-empty, everything else
// is an error.
func Truthy(v Value) (bool, error) {
	switch t := v.(type) {
	case Boolean:
		return t.Value, nil
	case Integer:
		return t.Value != 0, nil
	case Real:
		return t.Value != 0, nil
	case String:
		return t.Value != "", nil
	default:
		return false, fmt.Errorf("value of type %s has no truth value", v.TypeName())
	}
}
