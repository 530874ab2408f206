// Package handler is the REST surface: term compilation plus list/count
// execution against the local document store.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/docql/docql/internal/store"
)

// exactCountThreshold is the planner estimate below which we run an exact
// count. Above this, the EXPLAIN estimate is returned directly.
const exactCountThreshold = 50_000

type Handler struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

// Routes returns the router with all endpoints registered.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/{collection}/compile", h.Compile).Methods(http.MethodPost)
	r.HandleFunc("/api/{collection}/count", h.Count).Methods(http.MethodGet)
	r.HandleFunc("/api/{collection}", h.List).Methods(http.MethodGet)
	return r
}

// jsonRow holds a single result row as raw JSON plus cursor extraction
// columns.
type jsonRow struct {
	Data       json.RawMessage
	CursorID   string
	CursorVals []string
}

// List handles GET /api/{collection}
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]

	params, err := store.ParseQueryParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error(), "")
		return
	}

	builder := store.NewBuilder(collection)

	g, ctx := errgroup.WithContext(r.Context())

	var totalCount int64
	g.Go(func() error {
		var err error
		totalCount, err = h.resolveCount(ctx, builder, params)
		return err
	})

	var results []jsonRow
	g.Go(func() error {
		sqlStr, args, err := builder.BuildList(params)
		if err != nil {
			return err
		}
		rows, err := h.pool.Query(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		results, err = scanJSONRows(rows, len(params.Order))
		return err
	})

	if err := g.Wait(); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Query failed", err.Error())
		return
	}

	// Pagination: limit+1 rows fetched means there is a next page.
	var nextCursor *string
	if len(results) > params.Limit {
		results = results[:params.Limit]
		last := results[params.Limit-1]
		encoded := store.EncodeCursor(last.CursorID, last.CursorVals)
		nextCursor = &encoded
	}

	writeJSONList(w, totalCount, nextCursor, results)
}

// Count handles GET /api/{collection}/count — always returns exact count.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]

	params, err := store.ParseQueryParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error(), "")
		return
	}

	countSQL, countArgs, err := store.NewBuilder(collection).BuildCount(params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build query", err.Error())
		return
	}

	var count int64
	err = h.pool.QueryRow(r.Context(), countSQL, countArgs...).Scan(&count)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Query failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// resolveCount uses the EXPLAIN trick for cheap estimation on large
// collections, falling back to exact count only when the planner estimate
// is small.
func (h *Handler) resolveCount(ctx context.Context, builder *store.Builder, params *store.QueryParams) (int64, error) {
	estSQL, estArgs, err := builder.BuildEstimate(params)
	if err != nil {
		return 0, err
	}

	var planJSON string
	err = h.pool.QueryRow(ctx, "EXPLAIN (FORMAT JSON) "+estSQL, estArgs...).Scan(&planJSON)
	if err != nil {
		return 0, fmt.Errorf("explain estimate: %w", err)
	}

	estimated := parsePlanRows(planJSON)

	if estimated <= exactCountThreshold {
		countSQL, countArgs, err := builder.BuildCount(params)
		if err != nil {
			return estimated, nil
		}

		var count int64
		if err := h.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&count); err != nil {
			return estimated, nil
		}

		return count, nil
	}

	return estimated, nil
}

// parsePlanRows extracts "Plan Rows" from EXPLAIN (FORMAT JSON) output.
func parsePlanRows(planJSON string) int64 {
	var plan []struct {
		Plan struct {
			PlanRows float64 `json:"Plan Rows"`
		} `json:"Plan"`
	}
	if err := json.Unmarshal([]byte(planJSON), &plan); err != nil || len(plan) == 0 {
		return 0
	}
	return int64(plan[0].Plan.PlanRows)
}

// scanJSONRows scans rows where the first column is the document body, the
// second the cursor id, and the rest one cursor value per order clause.
func scanJSONRows(rows pgx.Rows, orderCols int) ([]jsonRow, error) {
	var results []jsonRow
	for rows.Next() {
		var r jsonRow
		vals := make([]*string, orderCols)
		dest := make([]any, 0, orderCols+2)
		dest = append(dest, &r.Data, &r.CursorID)
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		r.CursorVals = make([]string, orderCols)
		for i, v := range vals {
			if v != nil {
				r.CursorVals[i] = *v
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// writeJSONList writes the list response, streaming raw JSON rows without
// re-marshaling.
func writeJSONList(w http.ResponseWriter, totalCount int64, nextCursor *string, rows []jsonRow) {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, `{"total_count":%d`, totalCount)
	if nextCursor != nil {
		buf.WriteString(`,"next_cursor":`)
		enc, _ := json.Marshal(*nextCursor)
		buf.Write(enc)
	}
	buf.WriteString(`,"results":[`)
	for i, r := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(r.Data)
	}
	buf.WriteString("]}\n")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
