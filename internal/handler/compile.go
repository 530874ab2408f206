package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docql/docql/internal/codec"
	"github.com/docql/docql/internal/orderby"
	"github.com/docql/docql/internal/term"
)

type compileRequest struct {
	OrderBy []sortEntry `json:"order_by"`
}

// sortEntry is one sort rule in a compile request. Exactly one of field,
// path or index must be set.
type sortEntry struct {
	Field     string   `json:"field,omitempty"`
	Path      []string `json:"path,omitempty"`
	Index     string   `json:"index,omitempty"`
	Direction string   `json:"direction,omitempty"`
}

// Compile handles POST /api/{collection}/compile — translates the sort
// rules into the engine's wire term without touching the database.
func (h *Handler) Compile(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]

	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body", err.Error())
		return
	}

	specs := make([]orderby.SortSpec, 0, len(req.OrderBy))
	for i, entry := range req.OrderBy {
		spec, err := entry.spec()
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ORDER",
				fmt.Sprintf("order_by entry %d: %v", i, err), "")
			return
		}
		specs = append(specs, spec)
	}

	out, err := orderby.Compile(term.Table(collection), codec.Dynamic(), specs)
	if err != nil {
		status := http.StatusBadRequest
		code := "INVALID_ORDER"
		if errors.Is(err, orderby.ErrMultipleIndexSort) {
			code = "MULTIPLE_INDEX_SORT"
		}
		writeError(w, status, code, err.Error(), "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"term": out})
}

func (e sortEntry) spec() (orderby.SortSpec, error) {
	var dir orderby.Direction
	switch e.Direction {
	case "", "asc":
		dir = orderby.Ascending
	case "desc":
		dir = orderby.Descending
	default:
		return orderby.SortSpec{}, fmt.Errorf("unknown direction %q", e.Direction)
	}

	set := 0
	if e.Field != "" {
		set++
	}
	if len(e.Path) > 0 {
		set++
	}
	if e.Index != "" {
		set++
	}
	if set != 1 {
		return orderby.SortSpec{}, fmt.Errorf("exactly one of field, path or index is required")
	}

	switch {
	case e.Index != "":
		if dir == orderby.Descending {
			return orderby.DescIndex(e.Index), nil
		}
		return orderby.AscIndex(e.Index), nil
	case e.Field != "":
		if dir == orderby.Descending {
			return orderby.Desc(orderby.Path(e.Field)), nil
		}
		return orderby.Asc(orderby.Path(e.Field)), nil
	default:
		if dir == orderby.Descending {
			return orderby.Desc(orderby.Path(e.Path...)), nil
		}
		return orderby.Asc(orderby.Path(e.Path...)), nil
	}
}
