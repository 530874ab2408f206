package orderby

import (
	"fmt"

	"github.com/docql/docql/internal/codec"
	"github.com/docql/docql/internal/term"
)

// wrap applies the direction marker to a sort key term.
func (d Direction) wrap(key term.Term) term.Term {
	switch d {
	case Ascending:
		return term.Asc(key)
	case Descending:
		return term.Desc(key)
	default:
		panic(fmt.Sprintf("orderby: invalid direction %d", int(d)))
	}
}

// emit converts one sort spec into its direction-wrapped term.
//
// An index sort wraps the index name literal; the caller attaches it as the
// "index" named argument, never positionally. A single-level field sort is
// a bare field-name literal, mapped through the record codec. A nested
// path cannot be expressed as a literal and becomes a one-parameter
// function: Var(1) wrapped in a GetField per path element, innermost field
// first, using the declared member names as-is.
func emit(s SortSpec, mapper codec.FieldMapper) (term.Term, error) {
	if s.IsIndex() {
		return s.dir.wrap(term.Datum(s.index)), nil
	}

	path, err := FieldPath(s.field)
	if err != nil {
		return term.Term{}, err
	}

	if len(path) == 1 {
		name := path[0]
		if wire, ok := mapper.FieldName(name); ok {
			name = wire
		}
		return s.dir.wrap(term.Datum(name)), nil
	}

	key := term.Var(1)
	for _, name := range path {
		key = term.GetField(key, term.Datum(name))
	}
	return s.dir.wrap(term.Func([]int{1}, key)), nil
}
