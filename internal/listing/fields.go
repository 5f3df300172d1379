package listing

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldKind    = errors.New("field kind mismatch")
)

// Fields maps field names to values.
type Fields map[string]Value

// Clone returns a deep copy of f. A nil map clones to an empty one.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v.Clone()
	}
	return out
}

// Equal reports whether f and o hold equal values for the same keys.
func (f Fields) Equal(o Fields) bool {
	if len(f) != len(o) {
		return false
	}
	for k, v := range f {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	return slices.Sorted(maps.Keys(f))
}

// Apply merges changes into f. Unset values remove the field.
func (f Fields) Apply(changes Fields) {
	for k, v := range changes {
		if v.IsUnset() {
			delete(f, k)
			continue
		}
		f[k] = v.Clone()
	}
}

// Schema lists the recognized field names of an entity and their kinds.
type Schema map[string]Kind

// Check validates the shape of a value for key. Unset passes for any
// recognized key when allowUnset is true.
func (s Schema) Check(key string, v Value, allowUnset bool) error {
	want, ok := s[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	if v.IsUnset() && allowUnset {
		return nil
	}
	if v.Kind() != want {
		return fmt.Errorf("%w: %q is %s, got %s", ErrFieldKind, key, want, v.Kind())
	}
	return nil
}

// CheckAll validates every entry of changes.
func (s Schema) CheckAll(changes Fields, allowUnset bool) error {
	for _, k := range changes.Keys() {
		if err := s.Check(k, changes[k], allowUnset); err != nil {
			return err
		}
	}
	return nil
}

// PartnerSchema is the field set a taxi partner can edit on their listing.
var PartnerSchema = Schema{
	"name":         KindText,
	"phone":        KindText,
	"website":      KindText,
	"email":        KindText,
	"description":  KindText,
	"city":         KindText,
	"title":        KindText,
	"rating":       KindNumber,
	"price_per_km": KindNumber,
	"services":     KindList,
	"languages":    KindList,
}
