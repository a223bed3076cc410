package interp

import (
	"strconv"
	"strings"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
	"github.com/pseudocode-lang/pseudocode/internal/value"
)

// Eval evaluates one expression node against the interpreter's current
// environment.
func (in *Interpreter) Eval(e ast.Expr) (value.Value, error) {
	switch ex := e.(type) {
	case *ast.NumberLiteral:
		return in.evalNumber(ex)
	case *ast.StringLiteral:
		return value.String{Value: ex.Value}, nil
	case *ast.CharLiteral:
		runes := []rune(ex.Value)
		if len(runes) == 0 {
			return nil, in.newError(perror.KindValue, ex.Span, "empty CHAR literal")
		}
		return value.Char{Value: runes[0]}, nil
	case *ast.BoolLiteral:
		return value.Boolean{Value: ex.Value}, nil
	case *ast.Variable:
		v, ok := in.Env.Get(ex.Name)
		if !ok {
			return nil, in.newError(perror.KindName, ex.Span, "unknown variable %q", ex.Name)
		}
		return v, nil
	case *ast.BinaryExpr:
		return in.evalBinary(ex)
	case *ast.UnaryExpr:
		return in.evalUnary(ex)
	case *ast.CallExpr:
		return in.evalCall(ex)
	case *ast.IndexExpr:
		return in.evalIndexExpr(ex)
	case *ast.FieldExpr:
		return in.evalFieldExpr(ex)
	case *ast.DerefExpr:
		return in.evalDerefExpr(ex)
	case *ast.RefExpr:
		return in.evalRefExpr(ex)
	default:
		return nil, in.newError(perror.KindParse, e.Pos(), "unsupported expression %T", e)
	}
}

func (in *Interpreter) evalNumber(n *ast.NumberLiteral) (value.Value, error) {
	if strings.Contains(n.Text, ".") {
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return nil, in.newError(perror.KindValue, n.Span, "invalid REAL literal %q", n.Text)
		}
		return value.Real{Value: f}, nil
	}
	i, err := strconv.ParseInt(n.Text, 10, 32)
	if err != nil {
		return nil, in.newError(perror.KindValue, n.Span, "invalid INTEGER literal %q", n.Text)
	}
	return value.Integer{Value: int32(i)}, nil
}

func (in *Interpreter) evalUnary(e *ast.UnaryExpr) (value.Value, error) {
	operand, err := in.Eval(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpNot:
		b, ok := operand.(value.Boolean)
		if !ok {
			return nil, in.newError(perror.KindType, e.Span, "NOT requires a BOOLEAN operand, got %s", operand.TypeName())
		}
		return value.Boolean{Value: !b.Value}, nil
	case ast.OpNegate:
		switch v := operand.(type) {
		case value.Integer:
			return value.Integer{Value: -v.Value}, nil
		case value.Real:
			return value.Real{Value: -v.Value}, nil
		default:
			return nil, in.newError(perror.KindType, e.Span, "unary - requires a numeric operand, got %s", operand.TypeName())
		}
	default:
		return nil, in.newError(perror.KindParse, e.Span, "unsupported unary operator")
	}
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpr) (value.Value, error) {
	left, err := in.Eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.Eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpAdd:
		return in.opAdd(left, right, e.Span)
	case ast.OpSubtract:
		return in.opArith(left, right, e.Span, "-",
			func(a, b int32) int32 { return a - b },
			func(a, b float64) float64 { return a - b })
	case ast.OpMultiply:
		return in.opArith(left, right, e.Span, "*",
			func(a, b int32) int32 { return a * b },
			func(a, b float64) float64 { return a * b })
	case ast.OpDivide:
		return in.opDivide(left, right, e.Span)
	case ast.OpDiv:
		return in.opIntDiv(left, right, e.Span)
	case ast.OpModulus:
		return in.opIntMod(left, right, e.Span)
	case ast.OpEquals:
		return value.Boolean{Value: valuesEqual(left, right)}, nil
	case ast.OpNotEquals:
		return value.Boolean{Value: !valuesEqual(left, right)}, nil
	case ast.OpLessThan, ast.OpGreaterThan, ast.OpLessThanOrEqual, ast.OpGreaterThanOrEqual:
		return in.evalCompare(e.Op, left, right, e.Span)
	case ast.OpAnd:
		return in.boolOp(left, right, e.Span, "AND", func(a, b bool) bool { return a && b })
	case ast.OpOr:
		return in.boolOp(left, right, e.Span, "OR", func(a, b bool) bool { return a || b })
	default:
		return nil, in.newError(perror.KindParse, e.Span, "unsupported binary operator")
	}
}

func isNumericValue(v value.Value) bool {
	switch v.(type) {
	case value.Integer, value.Real:
		return true
	}
	return false
}

func asFloatValue(v value.Value) (float64, bool) {
	switch t := v.(type) {
	case value.Integer:
		return float64(t.Value), true
	case value.Real:
		return t.Value, true
	}
	return 0, false
}

// stringifyForConcat returns the + operator's stringified form of v when
// v is a valid operand of a concatenation: String, Char, Integer, Real
// are all acceptable once at least one side of the pair is String or
// Char.
func stringifyForConcat(v value.Value) (string, bool) {
	switch t := v.(type) {
	case value.String:
		return t.Value, true
	case value.Char:
		return string(t.Value), true
	case value.Integer, value.Real:
		return v.String(), true
	}
	return "", false
}

func isStringyValue(v value.Value) bool {
	switch v.(type) {
	case value.String, value.Char:
		return true
	}
	return false
}

// opAdd implements +: numeric arithmetic with Integer x Real promotion,
// or concatenation whenever at least one operand is String/Char and the
// other stringifies.
func (in *Interpreter) opAdd(l, r value.Value, pos ast.Span) (value.Value, error) {
	if li, ok := l.(value.Integer); ok {
		if ri, ok := r.(value.Integer); ok {
			return value.Integer{Value: li.Value + ri.Value}, nil
		}
		if rr, ok := r.(value.Real); ok {
			return value.Real{Value: float64(li.Value) + rr.Value}, nil
		}
	}
	if lr, ok := l.(value.Real); ok {
		if ri, ok := r.(value.Integer); ok {
			return value.Real{Value: lr.Value + float64(ri.Value)}, nil
		}
		if rr, ok := r.(value.Real); ok {
			return value.Real{Value: lr.Value + rr.Value}, nil
		}
	}
	if isStringyValue(l) || isStringyValue(r) {
		ls, lok := stringifyForConcat(l)
		rs, rok := stringifyForConcat(r)
		if lok && rok {
			return value.String{Value: ls + rs}, nil
		}
	}
	return nil, in.newError(perror.KindType, pos, "+ does not support %s and %s", l.TypeName(), r.TypeName())
}

// opArith implements - and *, numeric-only with Integer x Real promotion.
func (in *Interpreter) opArith(l, r value.Value, pos ast.Span, opName string, intOp func(int32, int32) int32, fltOp func(float64, float64) float64) (value.Value, error) {
	if li, ok := l.(value.Integer); ok {
		if ri, ok := r.(value.Integer); ok {
			return value.Integer{Value: intOp(li.Value, ri.Value)}, nil
		}
		if rr, ok := r.(value.Real); ok {
			return value.Real{Value: fltOp(float64(li.Value), rr.Value)}, nil
		}
	}
	if lr, ok := l.(value.Real); ok {
		if ri, ok := r.(value.Integer); ok {
			return value.Real{Value: fltOp(lr.Value, float64(ri.Value))}, nil
		}
		if rr, ok := r.(value.Real); ok {
			return value.Real{Value: fltOp(lr.Value, rr.Value)}, nil
		}
	}
	return nil, in.newError(perror.KindType, pos, "%s requires numeric operands, got %s and %s", opName, l.TypeName(), r.TypeName())
}

// opDivide implements /, which always yields REAL, for integer and
// mixed operands alike.
func (in *Interpreter) opDivide(l, r value.Value, pos ast.Span) (value.Value, error) {
	lf, lok := asFloatValue(l)
	rf, rok := asFloatValue(r)
	if !lok || !rok {
		return nil, in.newError(perror.KindType, pos, "/ requires numeric operands, got %s and %s", l.TypeName(), r.TypeName())
	}
	if rf == 0 {
		return nil, in.newError(perror.KindArithmetic, pos, "division by zero")
	}
	return value.Real{Value: lf / rf}, nil
}

func (in *Interpreter) opIntDiv(l, r value.Value, pos ast.Span) (value.Value, error) {
	li, ok := l.(value.Integer)
	if !ok {
		return nil, in.newError(perror.KindType, pos, "DIV requires INTEGER operands, got %s", l.TypeName())
	}
	ri, ok := r.(value.Integer)
	if !ok {
		return nil, in.newError(perror.KindType, pos, "DIV requires INTEGER operands, got %s", r.TypeName())
	}
	if ri.Value == 0 {
		return nil, in.newError(perror.KindArithmetic, pos, "DIV by zero")
	}
	return value.Integer{Value: li.Value / ri.Value}, nil
}

func (in *Interpreter) opIntMod(l, r value.Value, pos ast.Span) (value.Value, error) {
	li, ok := l.(value.Integer)
	if !ok {
		return nil, in.newError(perror.KindType, pos, "MOD requires INTEGER operands, got %s", l.TypeName())
	}
	ri, ok := r.(value.Integer)
	if !ok {
		return nil, in.newError(perror.KindType, pos, "MOD requires INTEGER operands, got %s", r.TypeName())
	}
	if ri.Value == 0 {
		return nil, in.newError(perror.KindArithmetic, pos, "MOD by zero")
	}
	return value.Integer{Value: li.Value % ri.Value}, nil
}

func (in *Interpreter) boolOp(l, r value.Value, pos ast.Span, opName string, f func(a, b bool) bool) (value.Value, error) {
	lb, ok := l.(value.Boolean)
	if !ok {
		return nil, in.newError(perror.KindType, pos, "%s requires BOOLEAN operands, got %s", opName, l.TypeName())
	}
	rb, ok := r.(value.Boolean)
	if !ok {
		return nil, in.newError(perror.KindType, pos, "%s requires BOOLEAN operands, got %s", opName, r.TypeName())
	}
	return value.Boolean{Value: f(lb.Value, rb.Value)}, nil
}

// compareValues implements the ordering behind <, >, <=, >=:
// same-typed pairs (String lexicographic, Char by rune) and mixed
// Integer/Real. Callers must check comparable(l, r) first; the fallback
// 0 is never observed otherwise.
func compareValues(l, r value.Value) int {
	if lf, lok := asFloatValue(l); lok {
		if rf, rok := asFloatValue(r); rok {
			switch {
			case lf < rf:
				return -1
			case lf > rf:
				return 1
			default:
				return 0
			}
		}
	}
	if ls, ok := l.(value.String); ok {
		if rs, ok := r.(value.String); ok {
			return strings.Compare(ls.Value, rs.Value)
		}
	}
	if lc, ok := l.(value.Char); ok {
		if rc, ok := r.(value.Char); ok {
			switch {
			case lc.Value < rc.Value:
				return -1
			case lc.Value > rc.Value:
				return 1
			default:
				return 0
			}
		}
	}
	return 0
}

func (in *Interpreter) evalCompare(op ast.BinaryOperator, l, r value.Value, pos ast.Span) (value.Value, error) {
	if !comparable(l, r) {
		return nil, in.newError(perror.KindType, pos, "comparison not defined for %s and %s", l.TypeName(), r.TypeName())
	}
	cmp := compareValues(l, r)
	switch op {
	case ast.OpLessThan:
		return value.Boolean{Value: cmp < 0}, nil
	case ast.OpGreaterThan:
		return value.Boolean{Value: cmp > 0}, nil
	case ast.OpLessThanOrEqual:
		return value.Boolean{Value: cmp <= 0}, nil
	case ast.OpGreaterThanOrEqual:
		return value.Boolean{Value: cmp >= 0}, nil
	}
	return nil, in.newError(perror.KindParse, pos, "unsupported comparison operator")
}

func comparable(l, r value.Value) bool {
	if isNumericValue(l) && isNumericValue(r) {
		return true
	}
	if _, ok := l.(value.String); ok {
		_, ok := r.(value.String)
		return ok
	}
	if _, ok := l.(value.Char); ok {
		_, ok := r.(value.Char)
		return ok
	}
	return false
}

// evalCall evaluates a FunctionCall: built-ins take precedence over
// user functions.
func (in *Interpreter) evalCall(e *ast.CallExpr) (value.Value, error) {
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.Eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if result, ok, err := in.callBuiltin(e.Name, args, e.Span); ok {
		return result, err
	}

	fn, ok := in.Env.LookupFunction(e.Name)
	if !ok {
		return nil, in.newError(perror.KindName, e.Span, "unknown function %q", e.Name)
	}
	if len(args) != len(fn.Params) {
		return nil, in.newError(perror.KindArity, e.Span, "%s expects %d argument(s), got %d", e.Name, len(fn.Params), len(args))
	}

	in.callStack = append(in.callStack, e.Name)
	defer func() { in.callStack = in.callStack[:len(in.callStack)-1] }()

	in.Env.PushScope()
	defer in.Env.PopScope()
	for i, p := range fn.Params {
		in.Env.Declare(p.Name, args[i], p.Type)
	}

	sig, err := in.execBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	if sig != nil && sig.isReturn && sig.hasRetValue {
		return sig.returnValue, nil
	}
	dv, err := value.Default(fn.ReturnType, in.Env.TypeDefs())
	if err != nil {
		return nil, in.newError(perror.KindType, e.Span, "%s", err)
	}
	return dv, nil
}

func (in *Interpreter) evalIndexExpr(e *ast.IndexExpr) (value.Value, error) {
	base, ok := in.Env.Get(e.Name)
	if !ok {
		return nil, in.newError(perror.KindName, e.Span, "unknown variable %q", e.Name)
	}
	indices := make([]value.Value, len(e.Indices))
	for i, ix := range e.Indices {
		v, err := in.Eval(ix)
		if err != nil {
			return nil, err
		}
		indices[i] = v
	}

	switch b := base.(type) {
	case value.Array:
		if len(indices) != len(b.Dimensions) {
			return nil, in.newError(perror.KindArity, e.Span, "%s expects %d index(es), got %d", e.Name, len(b.Dimensions), len(indices))
		}
		zero := make([]int, len(indices))
		for i, iv := range indices {
			ii, ok := iv.(value.Integer)
			if !ok {
				return nil, in.newError(perror.KindType, e.Span, "array index must be INTEGER, got %s", iv.TypeName())
			}
			zero[i] = int(ii.Value) - b.StartIndices[i]
		}
		flat, err := b.FlatIndex(zero)
		if err != nil {
			return nil, in.newError(perror.KindBounds, e.Span, "%s", err)
		}
		return b.Data[flat], nil

	case value.Set:
		if len(indices) != 1 {
			return nil, in.newError(perror.KindArity, e.Span, "SET index takes exactly one index")
		}
		ii, ok := indices[0].(value.Integer)
		if !ok {
			return nil, in.newError(perror.KindType, e.Span, "set index must be INTEGER, got %s", indices[0].TypeName())
		}
		idx := int(ii.Value) - 1
		if idx < 0 || idx >= len(b.Elements) {
			return nil, in.newError(perror.KindBounds, e.Span, "set index %d out of range", ii.Value)
		}
		return b.Elements[idx], nil

	default:
		return nil, in.newError(perror.KindType, e.Span, "cannot index value of type %s", base.TypeName())
	}
}

func (in *Interpreter) evalFieldExpr(e *ast.FieldExpr) (value.Value, error) {
	obj, err := in.Eval(e.Object)
	if err != nil {
		return nil, err
	}
	rec, ok := obj.(value.Record)
	if !ok {
		return nil, in.newError(perror.KindType, e.Span, "field access requires a record, got %s", obj.TypeName())
	}
	v, ok := rec.Fields[e.Field]
	if !ok {
		return nil, in.newError(perror.KindName, e.Span, "unknown field %q on %s", e.Field, rec.TypeName_)
	}
	return v, nil
}

func (in *Interpreter) evalDerefExpr(e *ast.DerefExpr) (value.Value, error) {
	p, err := in.Eval(e.Pointer)
	if err != nil {
		return nil, err
	}
	ptr, ok := p.(value.Pointer)
	if !ok {
		return nil, in.newError(perror.KindType, e.Span, "cannot dereference non-pointer value of type %s", p.TypeName())
	}
	if ptr.Target == nil {
		return nil, in.newError(perror.KindValue, e.Span, "dereference of an unset pointer")
	}
	return ptr.Target, nil
}

// evalRefExpr implements ^name, which only supports a Variable target.
// The resulting Pointer snapshots the current value; it never aliases
// the environment entry.
func (in *Interpreter) evalRefExpr(e *ast.RefExpr) (value.Value, error) {
	v, ok := e.Target.(*ast.Variable)
	if !ok {
		return nil, in.newError(perror.KindType, e.Span, "^ requires a variable operand")
	}
	val, ok := in.Env.Get(v.Name)
	if !ok {
		return nil, in.newError(perror.KindName, e.Span, "unknown variable %q", v.Name)
	}
	t, _ := in.Env.GetType(v.Name)
	return value.Pointer{PointsTo: t, Target: val}, nil
}
