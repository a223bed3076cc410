package ast

// LValue is the assignable-target side of an Assign statement. Composite
// targets (`obj.field`, `a[i]`, `ptr^`) are modeled as their own nodes
// rather than spliced into the variable name, so the parser and the
// evaluator talk in structure, not string conventions.
type LValue interface {
	Node
	lvalueNode()
}

// VarLValue is a bare `name`.
type VarLValue struct {
	Name string
	Span Span
}

func (*VarLValue) lvalueNode()  {}
func (n *VarLValue) Pos() Span  { return n.Span }

// IndexLValue is `base[i, j, ...]`.
type IndexLValue struct {
	Base    LValue
	Indices []Expr
	Span    Span
}

func (*IndexLValue) lvalueNode() {}
func (n *IndexLValue) Pos() Span { return n.Span }

// FieldLValue is `base.field`.
type FieldLValue struct {
	Base  LValue
	Field string
	Span  Span
}

func (*FieldLValue) lvalueNode() {}
func (n *FieldLValue) Pos() Span { return n.Span }

// DerefLValue is `base^`.
type DerefLValue struct {
	Base LValue
	Span Span
}

func (*DerefLValue) lvalueNode() {}
func (n *DerefLValue) Pos() Span { return n.Span }
