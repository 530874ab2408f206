package store

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"google.golang.org/protobuf/types/known/structpb"
)

type FilterOp string

const (
	OpEq    FilterOp = "eq"
	OpNeq   FilterOp = "neq"
	OpGt    FilterOp = "gt"
	OpGte   FilterOp = "gte"
	OpLt    FilterOp = "lt"
	OpLte   FilterOp = "lte"
	OpLike  FilterOp = "like"
	OpIlike FilterOp = "ilike"
	OpIn    FilterOp = "in"
	OpIs    FilterOp = "is"
)

var validOps = map[FilterOp]bool{
	OpEq: true, OpNeq: true, OpGt: true, OpGte: true,
	OpLt: true, OpLte: true, OpLike: true, OpIlike: true,
	OpIn: true, OpIs: true,
}

// Filter compares one document field against a literal. The value rides as
// a structpb value so JSON literals keep their type all the way to the SQL
// argument: numbers compare numerically, everything else as text.
type Filter struct {
	Field string
	Op    FilterOp
	Value *structpb.Value
}

// ParseFilter parses a query-parameter filter like "eq.hello" into op plus
// a typed value: numeric and boolean literals are recognized, the rest stay
// strings.
func ParseFilter(field, raw string) (Filter, error) {
	before, after, ok := strings.Cut(raw, ".")
	if !ok {
		return Filter{}, fmt.Errorf("invalid filter format %q, expected op.value", raw)
	}

	op := FilterOp(before)
	if !validOps[op] {
		return Filter{}, fmt.Errorf("unknown filter operator %q", op)
	}

	if op == OpIs && after != "null" && after != "not_null" {
		return Filter{}, fmt.Errorf("is operator only accepts null or not_null, got %q", after)
	}

	if op == OpIn {
		// The comma-separated list stays raw; it is split at SQL build
		// time, so a single numeric element must not be retyped here.
		return Filter{Field: field, Op: op, Value: structpb.NewStringValue(after)}, nil
	}

	return Filter{Field: field, Op: op, Value: literalValue(after)}, nil
}

// literalValue types a raw query-parameter value.
func literalValue(raw string) *structpb.Value {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return structpb.NewNumberValue(n)
	}
	if raw == "true" || raw == "false" {
		return structpb.NewBoolValue(raw == "true")
	}
	return structpb.NewStringValue(raw)
}

// SQLOp returns the SQL operator for a FilterOp.
func SQLOp(op FilterOp) string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpLike:
		return "LIKE"
	case OpIlike:
		return "ILIKE"
	default:
		return "="
	}
}

// filterCondition returns the squirrel condition for one filter over the
// document body.
func filterCondition(f Filter) sq.Sqlizer {
	col := docExpr([]string{f.Field})

	switch f.Op {
	case OpIn:
		var raw string
		switch v := f.Value.AsInterface().(type) {
		case string:
			raw = v
		default:
			// Hand-built filters may carry a typed single value.
			raw = fmt.Sprint(v)
		}
		return sq.Expr(fmt.Sprintf(`%s = ANY(?)`, col), strings.Split(raw, ","))
	case OpIs:
		if s, _ := f.Value.AsInterface().(string); s == "null" {
			return sq.Eq{col: nil}
		}
		return sq.NotEq{col: nil}
	}

	arg := f.Value.AsInterface()
	if _, isNum := arg.(float64); isNum && f.Op != OpLike && f.Op != OpIlike {
		// Numeric literals compare numerically, not lexicographically.
		return sq.Expr(fmt.Sprintf(`(%s)::numeric %s ?`, col, SQLOp(f.Op)), arg)
	}
	return sq.Expr(fmt.Sprintf(`%s %s ?`, col, SQLOp(f.Op)), arg)
}
