package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
)

func TestScalarStringification(t *testing.T) {
	tests := []struct {
		v        Value
		typeName string
		str      string
	}{
		{Integer{Value: 42}, "INTEGER", "42"},
		{Integer{Value: -7}, "INTEGER", "-7"},
		{Real{Value: 3.14}, "REAL", "3.14"},
		{Real{Value: 7}, "REAL", "7"},
		{String{Value: "hi"}, "STRING", "hi"},
		{Char{Value: 'x'}, "CHAR", "x"},
		{Boolean{Value: true}, "BOOLEAN", "TRUE"},
		{Boolean{Value: false}, "BOOLEAN", "FALSE"},
		{Date{Value: "2024-01-01"}, "DATE", "2024-01-01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.typeName, tt.v.TypeName())
		assert.Equal(t, tt.str, tt.v.String())
	}
}

func TestRecordStringification(t *testing.T) {
	rec := Record{
		TypeName_: "Point",
		Fields:    map[string]Value{"x": Integer{Value: 1}, "y": Integer{Value: 2}},
		Order:     []string{"x", "y"},
	}
	assert.Equal(t, "Point", rec.TypeName())
	assert.Equal(t, "Point(x: 1, y: 2)", rec.String())
}

func TestSetStringification(t *testing.T) {
	s := Set{
		ElementType: &ast.ScalarType{Kind: ast.KindInteger},
		Elements:    []Value{Integer{Value: 1}, Integer{Value: 3}, Integer{Value: 5}},
	}
	assert.Equal(t, "{1, 3, 5}", s.String())
}

func TestPointerStringification(t *testing.T) {
	assert.Equal(t, "nil", Pointer{}.String())
	p := Pointer{Target: Integer{Value: 9}}
	assert.Equal(t, "^9", p.String())
}

func TestArrayStringification(t *testing.T) {
	intType := &ast.ScalarType{Kind: ast.KindInteger}

	oneD := Array{
		ElementType:  intType,
		Dimensions:   []int{3},
		StartIndices: []int{1},
		Data:         []Value{Integer{Value: 1}, Integer{Value: 2}, Integer{Value: 3}},
	}
	assert.Equal(t, "[1, 2, 3]", oneD.String())

	twoD := Array{
		ElementType:  intType,
		Dimensions:   []int{2, 3},
		StartIndices: []int{1, 1},
		Data: []Value{
			Integer{Value: 1}, Integer{Value: 2}, Integer{Value: 3},
			Integer{Value: 4}, Integer{Value: 5}, Integer{Value: 6},
		},
	}
	assert.Equal(t, "[[1, 2, 3], [4, 5, 6]]", twoD.String())
}

func TestFlatIndexRowMajor(t *testing.T) {
	a := Array{
		Dimensions:   []int{2, 3},
		StartIndices: []int{1, 1},
	}

	tests := []struct {
		zero []int
		flat int
	}{
		{[]int{0, 0}, 0},
		{[]int{0, 2}, 2},
		{[]int{1, 0}, 3},
		{[]int{1, 2}, 5},
	}
	for _, tt := range tests {
		flat, err := a.FlatIndex(tt.zero)
		require.NoError(t, err)
		assert.Equal(t, tt.flat, flat)
	}
}

func TestFlatIndexBounds(t *testing.T) {
	a := Array{Dimensions: []int{2, 3}, StartIndices: []int{1, 1}}

	_, err := a.FlatIndex([]int{2, 0})
	assert.Error(t, err)
	_, err = a.FlatIndex([]int{0, -1})
	assert.Error(t, err)
	_, err = a.FlatIndex([]int{0})
	assert.Error(t, err, "wrong index count")
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v     Value
		truth bool
	}{
		{Boolean{Value: true}, true},
		{Boolean{Value: false}, false},
		{Integer{Value: 1}, true},
		{Integer{Value: 0}, false},
		{Real{Value: 0.5}, true},
		{Real{Value: 0}, false},
		{String{Value: "x"}, true},
		{String{Value: ""}, false},
	}
	for _, tt := range tests {
		truth, err := Truthy(tt.v)
		require.NoError(t, err)
		assert.Equal(t, tt.truth, truth)
	}

	_, err := Truthy(Char{Value: 'a'})
	assert.Error(t, err, "CHAR has no truth value")
	_, err = Truthy(Date{Value: "2024-01-01"})
	assert.Error(t, err, "DATE has no truth value")
}

func TestScalarDefaults(t *testing.T) {
	tests := []struct {
		kind     ast.ScalarKind
		expected Value
	}{
		{ast.KindInteger, Integer{}},
		{ast.KindReal, Real{}},
		{ast.KindString, String{}},
		{ast.KindChar, Char{}},
		{ast.KindBoolean, Boolean{}},
		{ast.KindDate, Date{}},
	}
	for _, tt := range tests {
		v, err := Default(&ast.ScalarType{Kind: tt.kind}, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, v)
	}
}

func TestCompositeDefaults(t *testing.T) {
	typeDefs := map[string]ast.Type{
		"Point": &ast.RecordType{
			Name: "Point",
			Fields: []ast.RecordField{
				{Name: "x", Type: &ast.ScalarType{Kind: ast.KindInteger}},
				{Name: "y", Type: &ast.ScalarType{Kind: ast.KindInteger}},
			},
		},
		"Color": &ast.EnumType{Name: "Color", Values: []string{"Red", "Green"}},
	}

	v, err := Default(&ast.CustomType{Name: "Point"}, typeDefs)
	require.NoError(t, err)
	rec, ok := v.(Record)
	require.True(t, ok)
	assert.Equal(t, Integer{}, rec.Fields["x"])
	assert.Equal(t, []string{"x", "y"}, rec.Order)

	v, err = Default(&ast.CustomType{Name: "Color"}, typeDefs)
	require.NoError(t, err)
	assert.Equal(t, Enum{TypeName_: "Color", ValueName: "Red"}, v)

	_, err = Default(&ast.CustomType{Name: "Nope"}, typeDefs)
	assert.Error(t, err)

	_, err = Default(&ast.EnumType{Name: "Empty"}, nil)
	assert.Error(t, err, "empty enum has no default")
}

func TestNewArrayLayoutInvariant(t *testing.T) {
	intType := &ast.ScalarType{Kind: ast.KindInteger}
	a, err := NewArray(intType, []int{2, 3, 4}, []int{1, 0, 1}, nil)
	require.NoError(t, err)

	// product(dimensions) == len(data), len(dimensions) == len(start_indices)
	assert.Equal(t, 24, len(a.Data))
	assert.Equal(t, len(a.Dimensions), len(a.StartIndices))
	for _, v := range a.Data {
		assert.Equal(t, Integer{}, v)
	}
}
