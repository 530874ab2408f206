// Package term builds the generic expression trees the query engine
// understands. A term is either a literal datum or a tagged node with
// positional child terms and optional named arguments; Build renders the
// tree into the engine's JSON wire grammar.
package term

import (
	"encoding/json"
	"fmt"
)

// TermType is the protocol tag of a term node.
type TermType int

const (
	TermDatum     TermType = 1
	TermMakeArray TermType = 2
	TermVar       TermType = 10
	TermDB        TermType = 14
	TermTable     TermType = 15
	TermGetField  TermType = 31
	TermOrderBy   TermType = 41
	TermFunc      TermType = 69
	TermAsc       TermType = 73
	TermDesc      TermType = 74
)

// Term is one node of a query expression tree. Terms are immutable: every
// constructor returns a fresh node and no node is modified after creation.
// A term owns its children; trees carry no back-references and no sharing.
type Term struct {
	typ   TermType
	datum any
	args  []Term
	opts  map[string]Term
}

// Type returns the protocol tag of the node.
func (t Term) Type() TermType { return t.typ }

// Args returns a copy of the positional child terms.
func (t Term) Args() []Term {
	out := make([]Term, len(t.args))
	copy(out, t.args)
	return out
}

// OptArg returns the named argument with the given key, if present.
func (t Term) OptArg(name string) (Term, bool) {
	v, ok := t.opts[name]
	return v, ok
}

// WithOptArg returns a copy of the term with one named argument added.
// The receiver is left untouched.
func (t Term) WithOptArg(name string, v Term) Term {
	opts := make(map[string]Term, len(t.opts)+1)
	for k, o := range t.opts {
		opts[k] = o
	}
	opts[name] = v
	t.opts = opts
	return t
}

func node(typ TermType, args ...Term) Term {
	return Term{typ: typ, args: args}
}

// Datum returns a literal leaf term. The value is converted to its wire
// form at Build time; see buildDatum for the accepted kinds.
func Datum(v any) Term {
	return Term{typ: TermDatum, datum: v}
}

// MakeArray returns an array term over the given elements.
func MakeArray(elems ...Term) Term {
	return node(TermMakeArray, elems...)
}

// Var returns a reference to a bound function parameter slot.
func Var(slot int) Term {
	return node(TermVar, Datum(slot))
}

// Func returns an anonymous function term. params declares the bound
// parameter slots; body is the function body referencing them via Var.
func Func(params []int, body Term) Term {
	decl := make([]Term, len(params))
	for i, p := range params {
		decl[i] = Datum(p)
	}
	return node(TermFunc, MakeArray(decl...), body)
}

// GetField returns a field-access term: source must evaluate to a document,
// name to the field's string name.
func GetField(source, name Term) Term {
	return node(TermGetField, source, name)
}

// Asc wraps a sort key in an ascending-direction marker.
func Asc(key Term) Term {
	return node(TermAsc, key)
}

// Desc wraps a sort key in a descending-direction marker.
func Desc(key Term) Term {
	return node(TermDesc, key)
}

// OrderBy returns the order operation over a sequence. Sort keys are
// positional and applied by consecutive refinement: the first is the
// primary key, later ones break ties. A secondary-index sort is attached
// separately via WithOptArg("index", ...), never positionally.
func OrderBy(seq Term, sorts ...Term) Term {
	args := append([]Term{seq}, sorts...)
	return node(TermOrderBy, args...)
}

// DB returns a database reference term.
func DB(name string) Term {
	return node(TermDB, Datum(name))
}

// Table returns a table term in the connection's default database.
func Table(name string) Term {
	return node(TermTable, Datum(name))
}

// Table returns a table term scoped to the receiver, which must be a DB term.
func (t Term) Table(name string) Term {
	return node(TermTable, t, Datum(name))
}

// Build renders the term into its wire form: a datum becomes its bare JSON
// value, any other node becomes [type, [args...]] with a trailing object of
// named arguments when any are set. Build is pure; calling it twice on the
// same tree yields equal values.
func (t Term) Build() (any, error) {
	if t.typ == TermDatum {
		return buildDatum(t.datum)
	}

	args := make([]any, len(t.args))
	for i, a := range t.args {
		b, err := a.Build()
		if err != nil {
			return nil, err
		}
		args[i] = b
	}

	wire := []any{int(t.typ), args}
	if len(t.opts) > 0 {
		opts := make(map[string]any, len(t.opts))
		for k, o := range t.opts {
			b, err := o.Build()
			if err != nil {
				return nil, err
			}
			opts[k] = b
		}
		wire = append(wire, opts)
	}
	return wire, nil
}

// MarshalJSON renders the built wire form.
func (t Term) MarshalJSON() ([]byte, error) {
	wire, err := t.Build()
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// String returns the wire JSON, or an error placeholder for unbuildable trees.
func (t Term) String() string {
	b, err := t.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid term: %v>", err)
	}
	return string(b)
}
