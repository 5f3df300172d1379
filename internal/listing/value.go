// Package listing defines the field values of an editable partner listing.
//
// A Value is a tagged union: text, number or an ordered list of strings.
// The zero Value is "unset" and is only used on the wire to clear a field
// from a draft. The same type is shared by the editing engine, the wire
// codec and the server, so every layer agrees on which shapes are valid.
package listing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the payload carried by a Value.
type Kind int

const (
	KindUnset Kind = iota
	KindText
	KindNumber
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an immutable field value.
type Value struct {
	kind Kind
	text string
	num  float64
	list []string
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// List returns a list value holding a copy of items.
func List(items ...string) Value {
	l := make([]string, len(items))
	copy(l, items)
	return Value{kind: KindList, list: l}
}

// Unset returns the value that clears a field.
func Unset() Value {
	return Value{}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsUnset() bool {
	return v.kind == KindUnset
}

// AsText returns the text payload, or "" for other kinds.
func (v Value) AsText() string {
	return v.text
}

// AsNumber returns the numeric payload, or 0 for other kinds.
func (v Value) AsNumber() float64 {
	return v.num
}

// AsList returns a copy of the list payload, or nil for other kinds.
func (v Value) AsList() []string {
	if v.kind != KindList {
		return nil
	}
	return slices.Clone(v.list)
}

// Equal reports whether v and o carry the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindList:
		return slices.Equal(v.list, o.list)
	default:
		return true
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.kind == KindList {
		return List(v.list...)
	}
	return v
}

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return strconv.Quote(v.text)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindList:
		return "[" + strings.Join(v.list, ", ") + "]"
	default:
		return "<unset>"
	}
}

// MarshalJSON encodes text as a JSON string, number as a JSON number, list
// as an array of strings and unset as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.num)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON. The JSON type selects the kind.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("listing: empty value")
	}
	switch data[0] {
	case 'n':
		*v = Unset()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case '[':
		var l []string
		if err := json.Unmarshal(data, &l); err != nil {
			return fmt.Errorf("listing: list items must be strings: %w", err)
		}
		*v = List(l...)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("listing: unsupported value %s", data)
		}
		*v = Number(f)
		return nil
	}
}
