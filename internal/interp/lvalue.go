package interp

import (
	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
	"github.com/pseudocode-lang/pseudocode/internal/value"
)

// lvalRef is the resolved read/write pair for one LValue node. set
// writes back through whatever container produced get — a map entry, an
// array slot, or (for a bare variable or a pointer's Target) the
// Environment/parent directly.
type lvalRef struct {
	get func() (value.Value, error)
	set func(value.Value) error
}

// assignLValue resolves target and writes v through it: a bare
// variable, an array element, a record field, or a pointer target.
func (in *Interpreter) assignLValue(target ast.LValue, v value.Value) error {
	ref, err := in.resolveLValue(target)
	if err != nil {
		return err
	}
	return ref.set(v)
}

func (in *Interpreter) resolveLValue(lv ast.LValue) (lvalRef, error) {
	switch t := lv.(type) {
	case *ast.VarLValue:
		return in.resolveVarLValue(t)
	case *ast.IndexLValue:
		return in.resolveIndexLValue(t)
	case *ast.FieldLValue:
		return in.resolveFieldLValue(t)
	case *ast.DerefLValue:
		return in.resolveDerefLValue(t)
	default:
		return lvalRef{}, in.newError(perror.KindParse, lv.Pos(), "unsupported assignment target %T", lv)
	}
}

func (in *Interpreter) resolveVarLValue(lv *ast.VarLValue) (lvalRef, error) {
	name := lv.Name
	if _, ok := in.Env.GetType(name); !ok {
		return lvalRef{}, in.newError(perror.KindName, lv.Span, "unknown variable %q", name)
	}
	return lvalRef{
		get: func() (value.Value, error) {
			v, _ := in.Env.Get(name)
			return v, nil
		},
		set: func(v value.Value) error {
			if in.Env.IsConstant(name) {
				return in.newError(perror.KindState, lv.Span, "cannot assign to constant %q", name)
			}
			in.Env.Set(name, v)
			return nil
		},
	}, nil
}

// resolveIndexLValue handles `base[i, j, ...] <- e`: evaluate all
// indices first, then read the array's dims/start indices, translate by
// subtracting the base, reject indices below base, then write via
// row-major striding.
func (in *Interpreter) resolveIndexLValue(lv *ast.IndexLValue) (lvalRef, error) {
	baseRef, err := in.resolveLValue(lv.Base)
	if err != nil {
		return lvalRef{}, err
	}

	indices := make([]value.Value, len(lv.Indices))
	for i, ix := range lv.Indices {
		v, err := in.Eval(ix)
		if err != nil {
			return lvalRef{}, err
		}
		indices[i] = v
	}

	baseVal, err := baseRef.get()
	if err != nil {
		return lvalRef{}, err
	}

	switch arr := baseVal.(type) {
	case value.Array:
		if len(indices) != len(arr.Dimensions) {
			return lvalRef{}, in.newError(perror.KindArity, lv.Span, "expected %d index(es), got %d", len(arr.Dimensions), len(indices))
		}
		zero := make([]int, len(indices))
		for i, iv := range indices {
			ii, ok := iv.(value.Integer)
			if !ok {
				return lvalRef{}, in.newError(perror.KindType, lv.Span, "array index must be INTEGER, got %s", iv.TypeName())
			}
			zero[i] = int(ii.Value) - arr.StartIndices[i]
		}
		flat, err := arr.FlatIndex(zero)
		if err != nil {
			return lvalRef{}, in.newError(perror.KindBounds, lv.Span, "%s", err)
		}
		return lvalRef{
			get: func() (value.Value, error) { return arr.Data[flat], nil },
			set: func(v value.Value) error {
				data := append([]value.Value(nil), arr.Data...)
				data[flat] = v
				arr.Data = data
				return baseRef.set(arr)
			},
		}, nil

	case value.Set:
		if len(indices) != 1 {
			return lvalRef{}, in.newError(perror.KindArity, lv.Span, "SET index takes exactly one index")
		}
		ii, ok := indices[0].(value.Integer)
		if !ok {
			return lvalRef{}, in.newError(perror.KindType, lv.Span, "set index must be INTEGER, got %s", indices[0].TypeName())
		}
		idx := int(ii.Value) - 1
		if idx < 0 || idx >= len(arr.Elements) {
			return lvalRef{}, in.newError(perror.KindBounds, lv.Span, "set index %d out of range", ii.Value)
		}
		return lvalRef{
			get: func() (value.Value, error) { return arr.Elements[idx], nil },
			set: func(v value.Value) error {
				elems := append([]value.Value(nil), arr.Elements...)
				elems[idx] = v
				arr.Elements = elems
				return baseRef.set(arr)
			},
		}, nil

	default:
		return lvalRef{}, in.newError(perror.KindType, lv.Span, "cannot index value of type %s", baseVal.TypeName())
	}
}

// resolveFieldLValue handles `base.field <- e`: mutable record field
// write, failing if base is not a record.
func (in *Interpreter) resolveFieldLValue(lv *ast.FieldLValue) (lvalRef, error) {
	baseRef, err := in.resolveLValue(lv.Base)
	if err != nil {
		return lvalRef{}, err
	}
	baseVal, err := baseRef.get()
	if err != nil {
		return lvalRef{}, err
	}
	rec, ok := baseVal.(value.Record)
	if !ok {
		return lvalRef{}, in.newError(perror.KindType, lv.Span, "field assignment requires a record, got %s", baseVal.TypeName())
	}
	if _, ok := rec.Fields[lv.Field]; !ok {
		return lvalRef{}, in.newError(perror.KindName, lv.Span, "unknown field %q on %s", lv.Field, rec.TypeName_)
	}
	return lvalRef{
		get: func() (value.Value, error) { return rec.Fields[lv.Field], nil },
		set: func(v value.Value) error {
			fields := make(map[string]value.Value, len(rec.Fields))
			for k, fv := range rec.Fields {
				fields[k] = fv
			}
			fields[lv.Field] = v
			rec.Fields = fields
			return baseRef.set(rec)
		},
	}, nil
}

// resolveDerefLValue handles `base^ <- e`: overwrite the pointer's
// target. Since Pointer is a value type, the updated pointer must be
// written back through the base ref, not mutated in place.
func (in *Interpreter) resolveDerefLValue(lv *ast.DerefLValue) (lvalRef, error) {
	baseRef, err := in.resolveLValue(lv.Base)
	if err != nil {
		return lvalRef{}, err
	}
	baseVal, err := baseRef.get()
	if err != nil {
		return lvalRef{}, err
	}
	ptr, ok := baseVal.(value.Pointer)
	if !ok {
		return lvalRef{}, in.newError(perror.KindType, lv.Span, "cannot dereference non-pointer value of type %s", baseVal.TypeName())
	}
	return lvalRef{
		get: func() (value.Value, error) {
			if ptr.Target == nil {
				return nil, in.newError(perror.KindValue, lv.Span, "dereference of an unset pointer")
			}
			return ptr.Target, nil
		},
		set: func(v value.Value) error {
			ptr.Target = v
			return baseRef.set(ptr)
		},
	}, nil
}
