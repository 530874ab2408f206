package orderby

import (
	"errors"
	"strings"
	"testing"

	"github.com/docql/docql/internal/codec"
	"github.com/docql/docql/internal/term"
)

type user struct {
	Age     int     `json:"age"`
	Name    string  `json:"name"`
	Address address `json:"address"`
}

type address struct {
	City string `json:"city"`
}

func userCodec() codec.Codec { return codec.For(user{}) }

func compileJSON(t *testing.T, specs ...SortSpec) string {
	t.Helper()
	out, err := Compile(term.Table("users"), userCodec(), specs)
	if err != nil {
		t.Fatal(err)
	}
	b, err := out.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestCompileSingleFieldAscending(t *testing.T) {
	got := compileJSON(t, Asc(Row().Field("Age")))
	want := `[41,[[15,["users"]],[73,["age"]]]]`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestCompileNestedFieldDescending(t *testing.T) {
	// Nested paths compile to a one-parameter function; the declared
	// member names are used as-is, applied root-first against Var(1).
	got := compileJSON(t, Desc(Row().Field("Address").Field("City")))
	want := `[41,[[15,["users"]],[74,[[69,[[2,[1]],[31,[[31,[[10,[1]],"Address"]],"City"]]]]]]]]`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestCompilePreservesInputOrder(t *testing.T) {
	got := compileJSON(t,
		Desc(Row().Field("Name")),
		Asc(Row().Field("Age")),
	)
	name := strings.Index(got, `"name"`)
	age := strings.Index(got, `"age"`)
	if name < 0 || age < 0 || name > age {
		t.Fatalf("expected name before age, got %s", got)
	}
}

func TestCompileIndexAsOptArgOnly(t *testing.T) {
	out, err := Compile(term.Table("users"), userCodec(), []SortSpec{
		AscIndex("by_age"),
		Asc(Row().Field("Name")),
	})
	if err != nil {
		t.Fatal(err)
	}

	idx, ok := out.OptArg("index")
	if !ok {
		t.Fatal("expected index optarg")
	}
	b, err := idx.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `[73,["by_age"]]` {
		t.Fatalf("expected Asc(by_age), got %s", b)
	}

	// The index sort must never appear positionally.
	args := out.Args()
	if len(args) != 2 { // sequence + one field sort
		t.Fatalf("expected 2 positional args, got %d", len(args))
	}
	for _, a := range args {
		ab, err := a.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(ab), "by_age") {
			t.Fatalf("index term leaked into positional args: %s", ab)
		}
	}
}

func TestCompileNoIndexNoOptArg(t *testing.T) {
	out, err := Compile(term.Table("users"), userCodec(), []SortSpec{
		Asc(Row().Field("Age")),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.OptArg("index"); ok {
		t.Fatal("index optarg must be absent without an index spec")
	}
}

func TestCompileMultipleIndexSortsFail(t *testing.T) {
	positions := [][]SortSpec{
		{AscIndex("a"), DescIndex("b")},
		{AscIndex("a"), Asc(Row().Field("Age")), AscIndex("b")},
		{Desc(Row().Field("Age")), DescIndex("a"), AscIndex("b")},
	}
	for i, specs := range positions {
		_, err := Compile(term.Table("users"), userCodec(), specs)
		if !errors.Is(err, ErrMultipleIndexSort) {
			t.Errorf("case %d: expected ErrMultipleIndexSort, got %v", i, err)
		}
	}
}

func TestCompileMethodCallAccessorFails(t *testing.T) {
	_, err := Compile(term.Table("users"), userCodec(), []SortSpec{
		Asc(&Call{Recv: Row().Field("Name"), Name: "Len"}),
	})
	if !errors.Is(err, ErrBadAccessor) {
		t.Fatalf("expected ErrBadAccessor, got %v", err)
	}
	// The failing spec is identified by position.
	if !strings.Contains(err.Error(), "spec 0") {
		t.Fatalf("expected spec position in error, got %v", err)
	}
}

func TestCompileScalarCodecFailsBeforeSpecs(t *testing.T) {
	// Capability failure wins even when the specs themselves are broken:
	// it is checked before any spec is examined.
	_, err := Compile(term.Table("users"), codec.For(42), []SortSpec{
		Asc(&Call{Recv: Row(), Name: "Bogus"}),
	})
	if !errors.Is(err, ErrNoFieldNames) {
		t.Fatalf("expected ErrNoFieldNames, got %v", err)
	}
}

func TestCompileEmptySpecsFails(t *testing.T) {
	_, err := Compile(term.Table("users"), userCodec(), nil)
	if err == nil {
		t.Fatal("expected error for empty spec list")
	}
}

func TestCompileIdempotent(t *testing.T) {
	specs := []SortSpec{
		Asc(Row().Field("Age")),
		Desc(Row().Field("Address").Field("City")),
		AscIndex("by_age"),
	}
	first := compileJSON(t, specs...)
	second := compileJSON(t, specs...)
	if first != second {
		t.Fatalf("expected identical output, got %s then %s", first, second)
	}
}

func TestInvalidDirectionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range direction")
		}
	}()
	Direction(7).wrap(term.Datum("age"))
}

func TestDirectionString(t *testing.T) {
	if Ascending.String() != "asc" || Descending.String() != "desc" {
		t.Fatal("unexpected direction strings")
	}
}
