package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const docTable = "documents"

// Builder generates SQL for one collection of the documents table.
type Builder struct {
	collection string
}

func NewBuilder(collection string) *Builder {
	return &Builder{collection: collection}
}

// BuildList builds the page query. Columns: the raw document, the cursor
// id, and — when ordering — the primary sort value for the next-page token.
// One extra row beyond the limit is fetched to detect a next page.
func (b *Builder) BuildList(p *QueryParams) (string, []any, error) {
	columns := []string{"doc", `id::text AS _cursor_id`}
	for i, c := range p.Order {
		columns = append(columns, fmt.Sprintf(`%s AS _cursor_val_%d`, c.DocExpr(), i))
	}

	qb := sq.Select(columns...).
		From(docTable).
		Where(sq.Eq{"collection": b.collection}).
		PlaceholderFormat(sq.Dollar)

	for _, f := range p.Filters {
		qb = qb.Where(filterCondition(f))
	}
	for _, clause := range b.orderClauses(p) {
		qb = qb.OrderBy(clause)
	}
	qb, err := b.applyCursor(qb, p)
	if err != nil {
		return "", nil, err
	}
	qb = qb.Suffix("LIMIT ?", p.Limit+1)

	return qb.ToSql()
}

// BuildCount builds the exact-count query under the same filters.
func (b *Builder) BuildCount(p *QueryParams) (string, []any, error) {
	qb := sq.Select("count(*)").
		From(docTable).
		Where(sq.Eq{"collection": b.collection}).
		PlaceholderFormat(sq.Dollar)
	for _, f := range p.Filters {
		qb = qb.Where(filterCondition(f))
	}
	return qb.ToSql()
}

// BuildEstimate returns SELECT 1 FROM ... WHERE ... for use with
// EXPLAIN (FORMAT JSON).
func (b *Builder) BuildEstimate(p *QueryParams) (string, []any, error) {
	qb := sq.Select("1").
		From(docTable).
		Where(sq.Eq{"collection": b.collection}).
		PlaceholderFormat(sq.Dollar)
	for _, f := range p.Filters {
		qb = qb.Where(filterCondition(f))
	}
	return qb.ToSql()
}

// orderClauses renders the order plan in input order, with the document id
// as the final tiebreaker so pagination stays total.
func (b *Builder) orderClauses(p *QueryParams) []string {
	clauses := make([]string, 0, len(p.Order)+1)
	for _, c := range p.Order {
		clauses = append(clauses, fmt.Sprintf("%s %s", c.DocExpr(), sqlDir(c.Desc)))
	}
	clauses = append(clauses, fmt.Sprintf("id %s", sqlDir(primaryDesc(p))))
	return clauses
}

func sqlDir(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}

// primaryDesc is the direction of the primary sort key, which the id
// tiebreaker and the cursor comparison follow.
func primaryDesc(p *QueryParams) bool {
	return len(p.Order) > 0 && p.Order[0].Desc
}

// applyCursor adds the keyset predicate resuming after the cursor row.
// The sort key tuple is every order value plus the id tiebreaker, and the
// predicate is the expanded row comparison
//
//	(k1 > v1) OR (k1 = v1 AND k2 > v2) OR ... OR (k1 = v1 AND ... AND id > vid)
//
// so each key honors its own direction; rows tied on a prefix of the tuple
// are neither skipped nor repeated across pages.
func (b *Builder) applyCursor(qb sq.SelectBuilder, p *QueryParams) (sq.SelectBuilder, error) {
	if p.Cursor == nil {
		return qb, nil
	}
	if len(p.Cursor.OrderVals) != len(p.Order) {
		return qb, fmt.Errorf("cursor carries %d order values for %d order clauses",
			len(p.Cursor.OrderVals), len(p.Order))
	}

	exprs := make([]string, 0, len(p.Order)+1)
	descs := make([]bool, 0, len(p.Order)+1)
	vals := make([]any, 0, len(p.Order)+1)
	for i, c := range p.Order {
		exprs = append(exprs, c.DocExpr())
		descs = append(descs, c.Desc)
		vals = append(vals, p.Cursor.OrderVals[i])
	}
	exprs = append(exprs, "id::text")
	descs = append(descs, primaryDesc(p))
	vals = append(vals, p.Cursor.ID)

	var pred sq.Or
	for i := range exprs {
		branch := make(sq.And, 0, i+1)
		for j := 0; j < i; j++ {
			branch = append(branch, sq.Expr(exprs[j]+" = ?", vals[j]))
		}
		cmp := ">"
		if descs[i] {
			cmp = "<"
		}
		branch = append(branch, sq.Expr(fmt.Sprintf("%s %s ?", exprs[i], cmp), vals[i]))
		pred = append(pred, branch)
	}

	return qb.Where(pred), nil
}
