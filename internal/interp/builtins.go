package interp

import (
	"math"
	"math/rand"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/builtin"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
	"github.com/pseudocode-lang/pseudocode/internal/value"
)

var upperCaser = cases.Upper(language.English)
var lowerCaser = cases.Lower(language.English)

// callBuiltin evaluates a built-in call. ok is false when name is not a
// built-in at all, in which case the caller falls through to user
// function lookup; built-ins always win the name.
func (in *Interpreter) callBuiltin(name string, args []value.Value, pos ast.Span) (result value.Value, ok bool, err error) {
	spec, isBuiltin := builtin.Lookup(name)
	if !isBuiltin {
		return nil, false, nil
	}
	if len(args) != spec.Arity {
		return nil, true, in.newError(perror.KindArity, pos, "%s expects %d argument(s), got %d", name, spec.Arity, len(args))
	}

	switch name {
	case "MOD":
		a, b, err := in.twoInts(name, args, pos)
		if err != nil {
			return nil, true, err
		}
		if b == 0 {
			return nil, true, in.newError(perror.KindArithmetic, pos, "MOD by zero")
		}
		return value.Integer{Value: a % b}, true, nil

	case "DIV":
		a, b, err := in.twoInts(name, args, pos)
		if err != nil {
			return nil, true, err
		}
		if b == 0 {
			return nil, true, in.newError(perror.KindArithmetic, pos, "DIV by zero")
		}
		return value.Integer{Value: a / b}, true, nil

	case "LENGTH":
		s, err := in.asString(name, args[0], pos)
		if err != nil {
			return nil, true, err
		}
		return value.Integer{Value: int32(len(s))}, true, nil

	case "UCASE":
		s, err := in.asString(name, args[0], pos)
		if err != nil {
			return nil, true, err
		}
		return value.String{Value: upperCaser.String(s)}, true, nil

	case "LCASE":
		s, err := in.asString(name, args[0], pos)
		if err != nil {
			return nil, true, err
		}
		return value.String{Value: lowerCaser.String(s)}, true, nil

	case "SUBSTRING", "MID":
		s, err := in.asString(name, args[0], pos)
		if err != nil {
			return nil, true, err
		}
		start, ok := args[1].(value.Integer)
		if !ok {
			return nil, true, in.newError(perror.KindType, pos, "%s start must be INTEGER", name)
		}
		length, ok := args[2].(value.Integer)
		if !ok {
			return nil, true, in.newError(perror.KindType, pos, "%s length must be INTEGER", name)
		}
		runes := []rune(s)
		idx := int(start.Value) - 1
		if idx >= len(runes) || idx < 0 {
			return value.String{}, true, nil
		}
		end := idx + int(length.Value)
		if end > len(runes) {
			end = len(runes)
		}
		if end < idx {
			end = idx
		}
		return value.String{Value: string(runes[idx:end])}, true, nil

	case "RIGHT":
		s, err := in.asString(name, args[0], pos)
		if err != nil {
			return nil, true, err
		}
		n, ok := args[1].(value.Integer)
		if !ok {
			return nil, true, in.newError(perror.KindType, pos, "RIGHT count must be INTEGER")
		}
		if n.Value < 0 {
			return nil, true, in.newError(perror.KindValue, pos, "RIGHT count must not be negative")
		}
		runes := []rune(s)
		count := int(n.Value)
		if count > len(runes) {
			count = len(runes)
		}
		return value.String{Value: string(runes[len(runes)-count:])}, true, nil

	case "ROUND":
		x, err := in.asFloat(name, args[0], pos)
		if err != nil {
			return nil, true, err
		}
		places, ok := args[1].(value.Integer)
		if !ok {
			return nil, true, in.newError(perror.KindType, pos, "ROUND places must be INTEGER")
		}
		mult := math.Pow(10, float64(places.Value))
		rounded := math.Round(x*mult) / mult
		if _, isInt := args[0].(value.Integer); isInt {
			return value.Integer{Value: int32(rounded)}, true, nil
		}
		return value.Real{Value: rounded}, true, nil

	case "RANDOM":
		return value.Real{Value: rand.Float64()}, true, nil

	case "RAND":
		n, ok := args[0].(value.Integer)
		if !ok {
			return nil, true, in.newError(perror.KindType, pos, "RAND argument must be INTEGER")
		}
		return value.Real{Value: rand.Float64() * float64(n.Value)}, true, nil

	case "INT":
		x, err := in.asFloat(name, args[0], pos)
		if err != nil {
			return nil, true, err
		}
		return value.Integer{Value: int32(math.Floor(x))}, true, nil

	case "EOF":
		s, err := in.asString(name, args[0], pos)
		if err != nil {
			return nil, true, err
		}
		of, ok := in.openFiles[s]
		if !ok {
			return nil, true, in.newError(perror.KindState, pos, "file %q is not open", s)
		}
		return value.Boolean{Value: of.handle.AtEOF()}, true, nil
	}

	return nil, true, in.newError(perror.KindName, pos, "unimplemented built-in %s", name)
}

func (in *Interpreter) twoInts(name string, args []value.Value, pos ast.Span) (int32, int32, error) {
	a, ok := args[0].(value.Integer)
	if !ok {
		return 0, 0, in.newError(perror.KindType, pos, "%s requires INTEGER operands", name)
	}
	b, ok := args[1].(value.Integer)
	if !ok {
		return 0, 0, in.newError(perror.KindType, pos, "%s requires INTEGER operands", name)
	}
	return a.Value, b.Value, nil
}

func (in *Interpreter) asString(name string, v value.Value, pos ast.Span) (string, error) {
	switch t := v.(type) {
	case value.String:
		return t.Value, nil
	case value.Char:
		return string(t.Value), nil
	default:
		return "", in.newError(perror.KindType, pos, "%s requires a STRING or CHAR argument, got %s", name, v.TypeName())
	}
}

func (in *Interpreter) asFloat(name string, v value.Value, pos ast.Span) (float64, error) {
	switch t := v.(type) {
	case value.Integer:
		return float64(t.Value), nil
	case value.Real:
		return t.Value, nil
	default:
		return 0, in.newError(perror.KindType, pos, "%s requires a numeric argument, got %s", name, v.TypeName())
	}
}
