// Package codec resolves how Go types map onto engine documents. The only
// concern exposed here is field naming: which wire field a struct member is
// stored under. Converters for non-document types exist but do not carry
// the field-naming capability, and callers that need it must check for
// FieldMapper before use.
package codec

import (
	"reflect"
	"strings"
	"sync"
)

// Codec is a converter handle for a single Go type.
type Codec interface {
	// GoType returns the Go type the codec was built for.
	GoType() reflect.Type
}

// FieldMapper is the capability of mapping a declared struct member to its
// wire-protocol field name. Only document (struct) codecs implement it.
type FieldMapper interface {
	Codec

	// FieldName returns the wire name of the given Go field. ok is false
	// when the type declares no such field; callers treat that as "no
	// custom mapping" since schema validation is not this layer's job.
	FieldName(goName string) (wire string, ok bool)
}

// Registry caches codecs per Go type. Reads vastly outnumber writes, so
// lookups take the read lock and only a first-time build takes the write
// lock. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[reflect.Type]Codec
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[reflect.Type]Codec)}
}

var defaultRegistry = NewRegistry()

// For returns the codec for the dynamic type of v, building it on first use.
// Pointer types are resolved through to their element type.
func For(v any) Codec {
	return defaultRegistry.For(reflect.TypeOf(v))
}

// ForType returns the codec for t from the default registry.
func ForType(t reflect.Type) Codec {
	return defaultRegistry.For(t)
}

func (r *Registry) For(t reflect.Type) Codec {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.RLock()
	c, ok := r.codecs[t]
	r.mu.RUnlock()
	if ok {
		return c
	}

	c = build(t)

	r.mu.Lock()
	// Another goroutine may have built it meanwhile; keep the first one so
	// repeated lookups stay identity-stable.
	if prev, ok := r.codecs[t]; ok {
		c = prev
	} else {
		r.codecs[t] = c
	}
	r.mu.Unlock()

	return c
}

func build(t reflect.Type) Codec {
	if t != nil && t.Kind() == reflect.Struct {
		return buildStructCodec(t)
	}
	return &scalarCodec{typ: t}
}

// scalarCodec covers every non-struct type. It deliberately does not
// implement FieldMapper: there are no members to name.
type scalarCodec struct {
	typ reflect.Type
}

func (c *scalarCodec) GoType() reflect.Type { return c.typ }

// structCodec maps a struct's exported fields to their wire names.
type structCodec struct {
	typ    reflect.Type
	fields map[string]string // Go field name -> wire name
}

func buildStructCodec(t reflect.Type) *structCodec {
	c := &structCodec{typ: t, fields: make(map[string]string, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, ok := wireName(f)
		if !ok {
			continue
		}
		c.fields[f.Name] = name
	}
	return c
}

// wireName resolves a field's wire name: the reql tag wins, then the json
// tag, then the Go field name itself. A "-" tag excludes the field.
func wireName(f reflect.StructField) (string, bool) {
	for _, key := range []string{"reql", "json"} {
		tag, ok := f.Tag.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", false
		}
		if name != "" {
			return name, true
		}
	}
	return f.Name, true
}

func (c *structCodec) GoType() reflect.Type { return c.typ }

func (c *structCodec) FieldName(goName string) (string, bool) {
	wire, ok := c.fields[goName]
	return wire, ok
}

// dynamicCodec is the codec for schemaless documents: every field maps to
// itself. Used by surfaces that address documents by wire name directly.
type dynamicCodec struct{}

func (dynamicCodec) GoType() reflect.Type { return nil }

func (dynamicCodec) FieldName(goName string) (string, bool) { return goName, true }

// Dynamic returns the identity field mapper for schemaless documents.
func Dynamic() FieldMapper { return dynamicCodec{} }
