package types

import (
	"encoding/json"
	"reflect"
)

// Document is an entity record kept in a bound ordered list: a mapping from
// field name to value plus a synthetic identity attribute.
//
// The identity is carried next to the field map, not inside it. It never
// participates in Equal, field enumeration, or JSON marshalling, so two
// documents holding the same fields compare equal regardless of the key the
// source stored them under. Converters that want full control over the record
// shape simply leave the id empty and encode identity into the fields
// themselves.
type Document struct {
	id string

	// Fields holds the record's own attributes.
	Fields map[string]any
}

// NewDocument creates a document with the given identity and fields.
//
// The fields map is used as-is (not copied); callers that keep mutating the
// map should pass a copy.
func NewDocument(id string, fields map[string]any) Document {
	return Document{id: id, Fields: fields}
}

// ID returns the document's synthetic identity.
//
// Returns an empty string when the document was produced by a custom
// converter that owns the record shape.
func (d Document) ID() string {
	return d.id
}

// Field returns the named field value and whether it is present.
func (d Document) Field(name string) (any, bool) {
	v, ok := d.Fields[name]
	return v, ok
}

// Clone returns a copy of the document with a shallow copy of the field map.
//
// The identity is preserved. Nested field values are shared with the
// original.
func (d Document) Clone() Document {
	if d.Fields == nil {
		return Document{id: d.id}
	}

	fields := make(map[string]any, len(d.Fields))
	for k, v := range d.Fields {
		fields[k] = v
	}

	return Document{id: d.id, Fields: fields}
}

// Equal reports whether two documents hold the same fields.
//
// The identity attribute is excluded from the comparison.
func (d Document) Equal(other Document) bool {
	if len(d.Fields) != len(other.Fields) {
		return false
	}

	return reflect.DeepEqual(d.Fields, other.Fields)
}

// MarshalJSON encodes the document's fields only.
//
// The identity attribute is never serialized; consumers that need it read it
// through ID() explicitly.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.Fields == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(d.Fields)
}
