// Package orderby compiles typed sort specifications into the engine's
// order_by term. A sort key is either a named secondary index or a field
// accessor: a small expression tree describing "given one record, read
// this (possibly nested) field", built through Row/Path/Field.
package orderby

import "reflect"

// Expr is the interface all accessor expression nodes implement.
type Expr interface {
	expr() // marker method
}

// Param is the accessor root: the record bound by the synthetic
// one-argument function a nested sort key compiles into.
type Param struct{}

// Member reads one named field off its base expression.
type Member struct {
	Base Expr
	Name string
}

// Convert is a type conversion around an expression. Only the boxing
// conversion to `any` — the shape the fluent API produces when sort keys of
// differing primitive types share one signature — is transparent to the
// resolver; every other target type fails shape validation.
type Convert struct {
	Of Expr
	To reflect.Type
}

// Call is a method call on an expression. Never resolvable: a computed
// value is not a field path.
type Call struct {
	Recv Expr
	Name string
	Args []Expr
}

// Index is a subscript access on an expression. Never resolvable.
type Index struct {
	Base Expr
	Key  any
}

func (*Param) expr()   {}
func (*Member) expr()  {}
func (*Convert) expr() {}
func (*Call) expr()    {}
func (*Index) expr()   {}

// Row returns the accessor root parameter.
func Row() *Param { return &Param{} }

// Field selects a member off the root record.
func (p *Param) Field(name string) *Member {
	return &Member{Base: p, Name: name}
}

// Field selects a nested member, extending the access chain.
func (m *Member) Field(name string) *Member {
	return &Member{Base: m, Name: name}
}

// Path builds a member chain rooted at the row parameter, outermost name
// last: Path("Address", "City") is Row().Field("Address").Field("City").
func Path(names ...string) Expr {
	var e Expr = Row()
	for _, name := range names {
		e = &Member{Base: e, Name: name}
	}
	return e
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Boxed wraps an accessor in the boxing conversion to `any`.
func Boxed(e Expr) Expr {
	return &Convert{Of: e, To: anyType}
}
