package codec

import (
	"reflect"
	"testing"
)

type person struct {
	Age     int    `json:"age"`
	Name    string `reql:"full_name" json:"name"`
	Street  string
	hidden  int
	Skipped string `json:"-"`
}

func TestStructFieldMapping(t *testing.T) {
	c := For(person{})
	fm, ok := c.(FieldMapper)
	if !ok {
		t.Fatal("expected struct codec to expose field names")
	}

	tests := []struct {
		goName string
		want   string
		ok     bool
	}{
		{"Age", "age", true},       // json tag
		{"Name", "full_name", true}, // reql tag wins over json
		{"Street", "Street", true}, // untagged falls back to Go name
		{"Skipped", "", false},     // excluded
		{"hidden", "", false},      // unexported
		{"Nope", "", false},        // undeclared
	}
	for _, tt := range tests {
		got, ok := fm.FieldName(tt.goName)
		if ok != tt.ok || got != tt.want {
			t.Errorf("FieldName(%q): expected (%q, %v), got (%q, %v)",
				tt.goName, tt.want, tt.ok, got, ok)
		}
	}
}

func TestPointerResolvesToElem(t *testing.T) {
	a := For(person{})
	b := For(&person{})
	if a != b {
		t.Fatal("expected pointer and value codecs to be the same instance")
	}
}

func TestScalarLacksFieldNames(t *testing.T) {
	c := For("a string")
	if _, ok := c.(FieldMapper); ok {
		t.Fatal("scalar codec must not expose field names")
	}
	if c.GoType() != reflect.TypeOf("") {
		t.Fatalf("unexpected GoType %v", c.GoType())
	}
}

func TestRegistryIdentityStable(t *testing.T) {
	r := NewRegistry()
	typ := reflect.TypeOf(person{})
	a := r.For(typ)
	b := r.For(typ)
	if a != b {
		t.Fatal("expected cached codec on second lookup")
	}
}

func TestDynamicIdentityMapping(t *testing.T) {
	fm := Dynamic()
	got, ok := fm.FieldName("address")
	if !ok || got != "address" {
		t.Fatalf("expected identity mapping, got (%q, %v)", got, ok)
	}
}
