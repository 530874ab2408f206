package orderby

import (
	"fmt"

	"github.com/docql/docql/internal/codec"
	"github.com/docql/docql/internal/term"
)

// Compile translates an ordered, non-empty list of sort specs into the
// order_by term over the given upstream sequence. The sequence term is
// treated as opaque and placed first; field sorts follow positionally in
// input order (the first is the primary key, later ones break ties); the
// one permitted index sort is attached as the "index" named argument.
//
// Validation runs before any term is built, so every failure is
// all-or-nothing: the codec must expose field names, and at most one spec
// may name a secondary index.
func Compile(seq term.Term, c codec.Codec, specs []SortSpec) (term.Term, error) {
	if len(specs) == 0 {
		return term.Term{}, fmt.Errorf("order_by: at least one sort spec is required")
	}

	mapper, ok := c.(codec.FieldMapper)
	if !ok {
		return term.Term{}, fmt.Errorf("order_by: %w (type %v)", ErrNoFieldNames, c.GoType())
	}

	indexAt := -1
	for i, s := range specs {
		if !s.IsIndex() {
			continue
		}
		if indexAt >= 0 {
			return term.Term{}, fmt.Errorf("order_by: %w (specs %d and %d)",
				ErrMultipleIndexSort, indexAt, i)
		}
		indexAt = i
	}

	var (
		sorts     []term.Term
		indexSort *term.Term
	)
	for i, s := range specs {
		t, err := emit(s, mapper)
		if err != nil {
			return term.Term{}, fmt.Errorf("order_by: spec %d: %w", i, err)
		}
		if s.IsIndex() {
			indexSort = &t
		} else {
			sorts = append(sorts, t)
		}
	}

	out := term.OrderBy(seq, sorts...)
	if indexSort != nil {
		out = out.WithOptArg("index", *indexSort)
	}
	return out, nil
}
