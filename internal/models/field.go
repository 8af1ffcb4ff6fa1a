package models

import "encoding/json"

// Field is an optional string value. Absence is a first-class state: an
// empty or missing column yields an absent Field, which aggregation treats
// differently from a present value (missing-field counts, sentinel keys).
// Sentinel strings like "UNKNOWN" or "ANONYMOUS" are substituted only at
// grouping and rendering boundaries via Or; a Field never stores them.
type Field struct {
	value   string
	present bool
}

// StringField returns a present Field holding s. The value is stored as-is;
// callers normalize (trim) before constructing.
func StringField(s string) Field {
	return Field{value: s, present: true}
}

// AbsentField returns the absent Field.
func AbsentField() Field {
	return Field{}
}

// Present reports whether the field holds a value.
func (f Field) Present() bool {
	return f.present
}

// Value returns the held value, or the empty string when absent.
func (f Field) Value() string {
	return f.value
}

// Or returns the held value, or sentinel when the field is absent.
func (f Field) Or(sentinel string) string {
	if f.present {
		return f.value
	}
	return sentinel
}

// MarshalJSON encodes a present field as its string and an absent one as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.present {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes null as absent and any string as present.
func (f *Field) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Field{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Field{value: s, present: true}
	return nil
}
