package value

import (
	"fmt"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
)

// Default returns the zero value for a declared type: 0 for INTEGER,
// 0.0 for REAL, "" for STRING, the nul char for CHAR, FALSE for BOOLEAN,
// an empty Date for DATE, and structurally-zeroed composites for the
// rest. Array/Record/Enum/Pointer/Set defaults require typeDefs to
// resolve Custom(name) and nested element types.
func Default(t ast.Type, typeDefs map[string]ast.Type) (Value, error) {
	switch tt := t.(type) {
	case *ast.ScalarType:
		switch tt.Kind {
		case ast.KindInteger:
			return Integer{}, nil
		case ast.KindReal:
			return Real{}, nil
		case ast.KindString:
			return String{}, nil
		case ast.KindChar:
			return Char{}, nil
		case ast.KindBoolean:
			return Boolean{}, nil
		case ast.KindDate:
			return Date{}, nil
		}
		return nil, fmt.Errorf("unknown scalar kind")

	case *ast.CustomType:
		resolved, ok := typeDefs[tt.Name]
		if !ok {
			return nil, fmt.Errorf("unknown type %q", tt.Name)
		}
		return Default(resolved, typeDefs)

	case *ast.RecordType:
		fields := make(map[string]Value, len(tt.Fields))
		order := make([]string, len(tt.Fields))
		for i, f := range tt.Fields {
			dv, err := Default(f.Type, typeDefs)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = dv
			order[i] = f.Name
		}
		return Record{TypeName_: tt.Name, Fields: fields, Order: order}, nil

	case *ast.EnumType:
		if len(tt.Values) == 0 {
			return nil, fmt.Errorf("enum %q has no values", tt.Name)
		}
		return Enum{TypeName_: tt.Name, ValueName: tt.Values[0]}, nil

	case *ast.PointerType:
		return Pointer{PointsTo: tt.PointsTo, Target: nil}, nil

	case *ast.SetType:
		return Set{ElementType: tt.Element, Elements: nil}, nil

	case *ast.ArrayType:
		return nil, fmt.Errorf("array default requires evaluated dimensions; use NewArray")
	}
	return nil, fmt.Errorf("unsupported type %T", t)
}

// NewArray builds a zero-filled Array for the given dimension sizes and
// start indices, defaulting every element via Default.
func NewArray(elementType ast.Type, dims, startIndices []int, typeDefs map[string]ast.Type) (Array, error) {
	size := 1
	for _, d := range dims {
		size *= d
	}
	data := make([]Value, size)
	for i := range data {
		dv, err := Default(elementType, typeDefs)
		if err != nil {
			return Array{}, err
		}
		data[i] = dv
	}
	return Array{
		ElementType:  elementType,
		Dimensions:   dims,
		StartIndices: startIndices,
		Data:         data,
	}, nil
}
