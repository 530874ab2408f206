// Package store executes compiled queries against a local Postgres-backed
// document store: one documents table with the body in a jsonb column.
// Sort plans and filters are rendered to SQL with squirrel; secondary
// indexes exist only on the remote engine and are refused here.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/docql/docql/internal/codec"
	"github.com/docql/docql/internal/orderby"
)

// ErrIndexUnsupported: a secondary-index sort reached the SQL translation.
var ErrIndexUnsupported = errors.New("index sorts are not supported by the SQL store")

// OrderClause is one resolved ordering rule over the jsonb document body.
type OrderClause struct {
	Path []string // root-to-leaf field names
	Desc bool
}

// TranslateOrder renders sort specs into SQL-ready order clauses, keeping
// input order. The same accessor rules apply as for term compilation:
// single-level fields go through the codec's field mapping, nested paths
// use the declared names.
func TranslateOrder(specs []orderby.SortSpec, c codec.Codec) ([]OrderClause, error) {
	mapper, ok := c.(codec.FieldMapper)
	if !ok {
		return nil, fmt.Errorf("order: %w (type %v)", orderby.ErrNoFieldNames, c.GoType())
	}

	clauses := make([]OrderClause, 0, len(specs))
	for i, s := range specs {
		if s.IsIndex() {
			return nil, fmt.Errorf("order: spec %d (%q): %w", i, s.IndexName(), ErrIndexUnsupported)
		}
		path, err := orderby.FieldPath(s.Accessor())
		if err != nil {
			return nil, fmt.Errorf("order: spec %d: %w", i, err)
		}
		if len(path) == 1 {
			if wire, ok := mapper.FieldName(path[0]); ok {
				path[0] = wire
			}
		}
		clauses = append(clauses, OrderClause{Path: path, Desc: s.Direction() == orderby.Descending})
	}
	return clauses, nil
}

// DocExpr returns the SQL expression extracting the clause's field from the
// jsonb body as text: doc->>'f' for top-level fields, doc#>>'{a,b}' for
// nested paths.
func (c OrderClause) DocExpr() string {
	return docExpr(c.Path)
}

func docExpr(path []string) string {
	if len(path) == 1 {
		return "doc->>" + quoteLit(path[0])
	}
	return "doc#>>" + quoteLit("{"+strings.Join(path, ",")+"}")
}

// quoteLit quotes a SQL string literal, escaping embedded single quotes.
func quoteLit(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
