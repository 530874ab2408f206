package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/docql/docql/internal/codec"
	"github.com/docql/docql/internal/orderby"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var reservedParams = map[string]bool{
	"order":  true,
	"limit":  true,
	"cursor": true,
}

// QueryParams holds one parsed list request.
type QueryParams struct {
	Order   []OrderClause
	Filters []Filter
	Limit   int
	Cursor  *Cursor
}

// Cursor holds keyset pagination state: the last row's id plus that row's
// value for every active order clause, in clause order.
type Cursor struct {
	ID        string   `json:"id"`
	OrderVals []string `json:"v,omitempty"`
}

// EncodeCursor returns an opaque base64 token for the cursor.
func EncodeCursor(id string, orderVals []string) string {
	c := Cursor{ID: id, OrderVals: orderVals}
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses a cursor token. Accepts both base64 tokens and plain
// document UUIDs (id-only ordering).
func DecodeCursor(raw string) (*Cursor, error) {
	if _, err := uuid.Parse(raw); err == nil {
		return &Cursor{ID: raw}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor token: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("invalid cursor token: %w", err)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("invalid cursor token: missing id")
	}
	return &c, nil
}

// ParseQueryParams parses list parameters from the request URL.
//
// order is a comma-separated list of field paths, dot-nested, with a "-"
// prefix for descending: order=-age,address.city. Entries become sort
// specs and go through TranslateOrder like any typed caller. Every
// non-reserved parameter is a filter in op.value form: age=gte.21.
func ParseQueryParams(r *http.Request) (*QueryParams, error) {
	q := r.URL.Query()
	p := &QueryParams{Limit: DefaultLimit}

	if raw := q.Get("order"); raw != "" {
		var specs []orderby.SortSpec
		for _, entry := range strings.Split(raw, ",") {
			spec, err := parseOrderEntry(entry)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
		clauses, err := TranslateOrder(specs, codec.Dynamic())
		if err != nil {
			return nil, err
		}
		p.Order = clauses
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid limit %q", raw)
		}
		if n > MaxLimit {
			n = MaxLimit
		}
		p.Limit = n
	}

	if raw := q.Get("cursor"); raw != "" {
		c, err := DecodeCursor(raw)
		if err != nil {
			return nil, err
		}
		p.Cursor = c
	}

	for key, values := range q {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		f, err := ParseFilter(key, values[0])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", key, err)
		}
		p.Filters = append(p.Filters, f)
	}

	return p, nil
}

func parseOrderEntry(entry string) (orderby.SortSpec, error) {
	entry = strings.TrimSpace(entry)
	desc := false
	if rest, ok := strings.CutPrefix(entry, "-"); ok {
		desc = true
		entry = rest
	}
	if entry == "" {
		return orderby.SortSpec{}, fmt.Errorf("empty order entry")
	}
	acc := orderby.Path(strings.Split(entry, ".")...)
	if desc {
		return orderby.Desc(acc), nil
	}
	return orderby.Asc(acc), nil
}
