package ast

// Type is any type expression: a scalar keyword, an array shape, or a
// reference to a user TYPE declaration (custom, record, enum, pointer,
// set).
type Type interface {
	typeNode()
	String() string
}

// ScalarKind enumerates the built-in scalar types.
type ScalarKind int

const (
	KindInteger ScalarKind = iota
	KindReal
	KindString
	KindChar
	KindBoolean
	KindDate
)

func (k ScalarKind) String() string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindReal:
		return "REAL"
	case KindString:
		return "STRING"
	case KindChar:
		return "CHAR"
	case KindBoolean:
		return "BOOLEAN"
	case KindDate:
		return "DATE"
	default:
		return "UNKNOWN"
	}
}

// ScalarType is one of INTEGER, REAL, STRING, CHAR, BOOLEAN, DATE.
type ScalarType struct {
	Kind ScalarKind
}

func (*ScalarType) typeNode()        {}
func (t *ScalarType) String() string { return t.Kind.String() }

// Dimension is one `lo:hi` pair of an array type; bounds are expressions
// evaluated eagerly at Declare time.
type Dimension struct {
	Lo, Hi Expr
}

// ArrayType is `ARRAY[lo:hi (, lo:hi)*] OF T`, flattened from however many
// bracket groups or comma-separated pairs the source used.
type ArrayType struct {
	Dimensions []Dimension
	Element    Type
}

func (*ArrayType) typeNode() {}
func (t *ArrayType) String() string {
	return "ARRAY OF " + t.Element.String()
}

// CustomType is a reference to a user TYPE declaration, resolved against
// Environment.TypeDefs at the point of use.
type CustomType struct {
	Name string
}

func (*CustomType) typeNode()        {}
func (t *CustomType) String() string { return t.Name }

// RecordType is `TYPE name ... DECLARE field : T ... ENDTYPE`.
type RecordType struct {
	Name   string
	Fields []RecordField
}

// RecordField is one `field : T` line inside a record TYPE declaration.
type RecordField struct {
	Name string
	Type Type
}

func (*RecordType) typeNode()        {}
func (t *RecordType) String() string { return "RECORD " + t.Name }

// EnumType is `TYPE name = (v1, v2, ...)`.
type EnumType struct {
	Name   string
	Values []string
}

func (*EnumType) typeNode()        {}
func (t *EnumType) String() string { return "ENUM " + t.Name }

// PointerType is `TYPE name = ^T`.
type PointerType struct {
	PointsTo Type
}

func (*PointerType) typeNode()        {}
func (t *PointerType) String() string { return "^" + t.PointsTo.String() }

// SetType is `TYPE name = SET OF T`.
type SetType struct {
	Element Type
}

func (*SetType) typeNode()        {}
func (t *SetType) String() string { return "SET OF " + t.Element.String() }
