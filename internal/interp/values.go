package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/value"
)

// inferType reconstructs a best-effort ast.Type for a runtime Value, used
// by CONSTANT when no declared type is available: every variable entry
// must have a paired type entry.
func inferType(v value.Value) ast.Type {
	switch v.(type) {
	case value.Integer:
		return &ast.ScalarType{Kind: ast.KindInteger}
	case value.Real:
		return &ast.ScalarType{Kind: ast.KindReal}
	case value.String:
		return &ast.ScalarType{Kind: ast.KindString}
	case value.Char:
		return &ast.ScalarType{Kind: ast.KindChar}
	case value.Boolean:
		return &ast.ScalarType{Kind: ast.KindBoolean}
	case value.Date:
		return &ast.ScalarType{Kind: ast.KindDate}
	case value.Record:
		return &ast.CustomType{Name: v.TypeName()}
	case value.Enum:
		return &ast.CustomType{Name: v.TypeName()}
	case value.Pointer:
		p := v.(value.Pointer)
		return &ast.PointerType{PointsTo: p.PointsTo}
	case value.Set:
		s := v.(value.Set)
		return &ast.SetType{Element: s.ElementType}
	case value.Array:
		a := v.(value.Array)
		return &ast.ArrayType{Element: a.ElementType}
	default:
		return &ast.CustomType{Name: v.TypeName()}
	}
}

// valuesEqual implements structural value equality for CASE branch
// matching. Integer/Real compare across kinds per the mixed-arithmetic
// convention used elsewhere in the evaluator.
func valuesEqual(a, b value.Value) bool {
	switch av := a.(type) {
	case value.Integer:
		switch bv := b.(type) {
		case value.Integer:
			return av.Value == bv.Value
		case value.Real:
			return float64(av.Value) == bv.Value
		}
		return false
	case value.Real:
		switch bv := b.(type) {
		case value.Integer:
			return av.Value == float64(bv.Value)
		case value.Real:
			return av.Value == bv.Value
		}
		return false
	case value.String:
		bv, ok := b.(value.String)
		return ok && av.Value == bv.Value
	case value.Char:
		bv, ok := b.(value.Char)
		return ok && av.Value == bv.Value
	case value.Boolean:
		bv, ok := b.(value.Boolean)
		return ok && av.Value == bv.Value
	case value.Date:
		bv, ok := b.(value.Date)
		return ok && av.Value == bv.Value
	case value.Enum:
		bv, ok := b.(value.Enum)
		return ok && av.TypeName_ == bv.TypeName_ && av.ValueName == bv.ValueName
	default:
		return false
	}
}

// parseInputValue parses one INPUT line according to the variable's
// declared type; booleans accept true/false/1/0/yes/no
// case-insensitively.
func parseInputValue(line string, t ast.Type) (value.Value, error) {
	scalar, ok := t.(*ast.ScalarType)
	if !ok {
		return nil, fmt.Errorf("INPUT target must be a scalar type, got %s", t.String())
	}
	return parseScalarText(line, scalar.Kind)
}

// parseLiteralValue parses one DEFINE element literal according to the
// set's element type.
func parseLiteralValue(text string, t ast.Type) (value.Value, error) {
	scalar, ok := t.(*ast.ScalarType)
	if !ok {
		return nil, fmt.Errorf("DEFINE element type must be scalar, got %s", t.String())
	}
	return parseScalarText(text, scalar.Kind)
}

func parseScalarText(text string, kind ast.ScalarKind) (value.Value, error) {
	switch kind {
	case ast.KindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid INTEGER literal %q", text)
		}
		return value.Integer{Value: int32(n)}, nil
	case ast.KindReal:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REAL literal %q", text)
		}
		return value.Real{Value: f}, nil
	case ast.KindString:
		return value.String{Value: text}, nil
	case ast.KindChar:
		runes := []rune(text)
		if len(runes) == 0 {
			return nil, fmt.Errorf("empty CHAR literal")
		}
		return value.Char{Value: runes[0]}, nil
	case ast.KindBoolean:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true", "1", "yes":
			return value.Boolean{Value: true}, nil
		case "false", "0", "no":
			return value.Boolean{Value: false}, nil
		default:
			return nil, fmt.Errorf("invalid BOOLEAN literal %q", text)
		}
	case ast.KindDate:
		return value.Date{Value: text}, nil
	default:
		return nil, fmt.Errorf("unsupported scalar kind")
	}
}
