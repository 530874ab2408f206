package orderby

import "errors"

// Translation errors. All are synchronous, non-retryable and abort the
// whole compilation; no partial term is ever produced.
var (
	// ErrNoFieldNames: the record type's codec cannot map members to wire
	// field names.
	ErrNoFieldNames = errors.New("codec does not expose field names")

	// ErrMultipleIndexSort: more than one spec names a secondary index.
	// The engine accepts at most one index per order_by.
	ErrMultipleIndexSort = errors.New("at most one index sort is allowed")

	// ErrBadAccessor: an accessor is not a member-access chain rooted at
	// the row parameter.
	ErrBadAccessor = errors.New("unsupported accessor expression")
)
