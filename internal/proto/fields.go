// Package proto holds the wire contract of the draft service.
//
// Every RPC carries a google.protobuf.Struct encoded with the default gRPC
// proto codec. The typed request and response values in this package
// convert to and from that Struct; field values map to Struct values as
// string (text), number, list of strings and null (clear field).
package proto

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

// ErrMalformedMessage is returned when a Struct does not have the shape of
// the expected message.
var ErrMalformedMessage = errors.New("malformed message")

func fieldsToValue(f listing.Fields) *structpb.Value {
	out := make(map[string]*structpb.Value, len(f))
	for k, v := range f {
		out[k] = valueToProto(v)
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: out})
}

func valueToProto(v listing.Value) *structpb.Value {
	switch v.Kind() {
	case listing.KindText:
		return structpb.NewStringValue(v.AsText())
	case listing.KindNumber:
		return structpb.NewNumberValue(v.AsNumber())
	case listing.KindList:
		items := v.AsList()
		vals := make([]*structpb.Value, len(items))
		for i, s := range items {
			vals[i] = structpb.NewStringValue(s)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: vals})
	default:
		return structpb.NewNullValue()
	}
}

func valueFromProto(key string, pv *structpb.Value) (listing.Value, error) {
	switch k := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return listing.Unset(), nil
	case *structpb.Value_StringValue:
		return listing.Text(k.StringValue), nil
	case *structpb.Value_NumberValue:
		return listing.Number(k.NumberValue), nil
	case *structpb.Value_ListValue:
		items := make([]string, 0, len(k.ListValue.GetValues()))
		for i, item := range k.ListValue.GetValues() {
			s, ok := item.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return listing.Value{}, fmt.Errorf("%w: field %q item %d is not a string", ErrMalformedMessage, key, i)
			}
			items = append(items, s.StringValue)
		}
		return listing.List(items...), nil
	default:
		return listing.Value{}, fmt.Errorf("%w: field %q has unsupported type %T", ErrMalformedMessage, key, k)
	}
}

// reader extracts typed members from a message Struct. The first failure
// sticks; later calls return zero values.
type reader struct {
	s   *structpb.Struct
	err error
}

func newReader(s *structpb.Struct) *reader {
	r := &reader{s: s}
	if s == nil {
		r.err = fmt.Errorf("%w: nil message", ErrMalformedMessage)
	}
	return r
}

func (r *reader) value(key string) *structpb.Value {
	if r.err != nil {
		return nil
	}
	v, ok := r.s.GetFields()[key]
	if !ok {
		return nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	return v
}

func (r *reader) fail(key, want string) {
	r.err = fmt.Errorf("%w: %q is not a %s", ErrMalformedMessage, key, want)
}

func (r *reader) str(key string) string {
	v := r.value(key)
	if v == nil {
		return ""
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		r.fail(key, "string")
		return ""
	}
	return s.StringValue
}

func (r *reader) boolean(key string) bool {
	v := r.value(key)
	if v == nil {
		return false
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		r.fail(key, "bool")
		return false
	}
	return b.BoolValue
}

func (r *reader) time(key string) time.Time {
	s := r.str(key)
	if s == "" || r.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		r.err = fmt.Errorf("%w: %q: %v", ErrMalformedMessage, key, err)
		return time.Time{}
	}
	return t
}

func (r *reader) fields(key string) listing.Fields {
	v := r.value(key)
	if v == nil {
		return nil
	}
	st, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		r.fail(key, "struct")
		return nil
	}
	out := make(listing.Fields, len(st.StructValue.GetFields()))
	for k, pv := range st.StructValue.GetFields() {
		lv, err := valueFromProto(k, pv)
		if err != nil {
			r.err = err
			return nil
		}
		out[k] = lv
	}
	return out
}

type writer map[string]*structpb.Value

func (w writer) str(key, s string) {
	if s != "" {
		w[key] = structpb.NewStringValue(s)
	}
}

func (w writer) boolean(key string, b bool) {
	w[key] = structpb.NewBoolValue(b)
}

func (w writer) time(key string, t time.Time) {
	if !t.IsZero() {
		w[key] = structpb.NewStringValue(t.UTC().Format(time.RFC3339Nano))
	}
}

func (w writer) fields(key string, f listing.Fields) {
	if f != nil {
		w[key] = fieldsToValue(f)
	}
}

func (w writer) build() *structpb.Struct {
	return &structpb.Struct{Fields: w}
}
