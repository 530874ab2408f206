package orderby

import "fmt"

// Direction is the sort direction. The set is closed: any value outside
// Ascending and Descending is a caller bug and panics at emission, not a
// recoverable translation error.
type Direction int

const (
	Ascending Direction = iota + 1
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// SortSpec is one user-declared ordering rule: a direction plus either a
// field accessor or a secondary-index name, never both. Immutable once
// constructed.
type SortSpec struct {
	dir   Direction
	field Expr
	index string
}

// Asc sorts ascending by the given field accessor.
func Asc(field Expr) SortSpec {
	return SortSpec{dir: Ascending, field: field}
}

// Desc sorts descending by the given field accessor.
func Desc(field Expr) SortSpec {
	return SortSpec{dir: Descending, field: field}
}

// AscIndex sorts ascending by a named secondary index.
func AscIndex(name string) SortSpec {
	return SortSpec{dir: Ascending, index: name}
}

// DescIndex sorts descending by a named secondary index.
func DescIndex(name string) SortSpec {
	return SortSpec{dir: Descending, index: name}
}

// Direction returns the spec's sort direction.
func (s SortSpec) Direction() Direction { return s.dir }

// IsIndex reports whether the spec names a secondary index.
func (s SortSpec) IsIndex() bool { return s.index != "" }

// IndexName returns the secondary-index name, or "" for field specs.
func (s SortSpec) IndexName() string { return s.index }

// Accessor returns the field accessor, or nil for index specs.
func (s SortSpec) Accessor() Expr { return s.field }
