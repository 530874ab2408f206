package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postCompile(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := New(nil) // compile never touches the pool
	req := httptest.NewRequest(http.MethodPost, "/api/users/compile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestCompileEndpointFieldSorts(t *testing.T) {
	rec := postCompile(t, `{"order_by":[
		{"field":"age"},
		{"path":["address","city"],"direction":"desc"}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Term json.RawMessage `json:"term"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := `[41,[[15,["users"]],[73,["age"]],[74,[[69,[[2,[1]],[31,[[31,[[10,[1]],"address"]],"city"]]]]]]]]`
	if string(resp.Term) != want {
		t.Fatalf("expected %s, got %s", want, resp.Term)
	}
}

func TestCompileEndpointIndexSort(t *testing.T) {
	rec := postCompile(t, `{"order_by":[{"index":"by_age"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `{"index":[73,["by_age"]]}`) {
		t.Fatalf("expected index optarg in %s", rec.Body)
	}
}

func TestCompileEndpointMultipleIndexSorts(t *testing.T) {
	rec := postCompile(t, `{"order_by":[{"index":"a"},{"index":"b","direction":"desc"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MULTIPLE_INDEX_SORT") {
		t.Fatalf("expected MULTIPLE_INDEX_SORT code in %s", rec.Body)
	}
}

func TestCompileEndpointBadDirection(t *testing.T) {
	rec := postCompile(t, `{"order_by":[{"field":"age","direction":"sideways"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompileEndpointAmbiguousEntry(t *testing.T) {
	rec := postCompile(t, `{"order_by":[{"field":"age","index":"by_age"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompileEndpointEmptyOrder(t *testing.T) {
	rec := postCompile(t, `{"order_by":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompileEndpointBadBody(t *testing.T) {
	rec := postCompile(t, `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
