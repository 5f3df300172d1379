package proto

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

// Message is implemented by every request and response of the service.
type Message interface {
	Struct() *structpb.Struct
}

type LoadRequest struct {
	EntityID string
}

func (m *LoadRequest) Struct() *structpb.Struct {
	w := writer{}
	w.str("entity_id", m.EntityID)
	return w.build()
}

func DecodeLoadRequest(s *structpb.Struct) (*LoadRequest, error) {
	r := newReader(s)
	m := &LoadRequest{EntityID: r.str("entity_id")}
	return m, r.err
}

// LoadResponse carries the published fields of an entity and its open
// draft, if any.
type LoadResponse struct {
	EntityID    string
	Fields      listing.Fields
	DraftID     string
	DraftFields listing.Fields
	UpdatedAt   time.Time
}

func (m *LoadResponse) Struct() *structpb.Struct {
	w := writer{}
	w.str("entity_id", m.EntityID)
	w.fields("fields", m.Fields)
	w.str("draft_id", m.DraftID)
	w.fields("draft_fields", m.DraftFields)
	w.time("updated_at", m.UpdatedAt)
	return w.build()
}

func DecodeLoadResponse(s *structpb.Struct) (*LoadResponse, error) {
	r := newReader(s)
	m := &LoadResponse{
		EntityID:    r.str("entity_id"),
		Fields:      r.fields("fields"),
		DraftID:     r.str("draft_id"),
		DraftFields: r.fields("draft_fields"),
		UpdatedAt:   r.time("updated_at"),
	}
	return m, r.err
}

// SaveRequest merges Changes into the draft DraftID, or into a new draft
// when DraftID is empty. A null change clears the field.
type SaveRequest struct {
	EntityID string
	DraftID  string
	Changes  listing.Fields
}

func (m *SaveRequest) Struct() *structpb.Struct {
	w := writer{}
	w.str("entity_id", m.EntityID)
	w.str("draft_id", m.DraftID)
	w.fields("changes", m.Changes)
	return w.build()
}

func DecodeSaveRequest(s *structpb.Struct) (*SaveRequest, error) {
	r := newReader(s)
	m := &SaveRequest{
		EntityID: r.str("entity_id"),
		DraftID:  r.str("draft_id"),
		Changes:  r.fields("changes"),
	}
	return m, r.err
}

type SaveResponse struct {
	Success   bool
	DraftID   string
	UpdatedAt time.Time
	Error     string
}

func (m *SaveResponse) Struct() *structpb.Struct {
	w := writer{}
	w.boolean("success", m.Success)
	w.str("draft_id", m.DraftID)
	w.time("updated_at", m.UpdatedAt)
	w.str("error", m.Error)
	return w.build()
}

func DecodeSaveResponse(s *structpb.Struct) (*SaveResponse, error) {
	r := newReader(s)
	m := &SaveResponse{
		Success:   r.boolean("success"),
		DraftID:   r.str("draft_id"),
		UpdatedAt: r.time("updated_at"),
		Error:     r.str("error"),
	}
	return m, r.err
}

type PublishRequest struct {
	EntityID string
	DraftID  string
}

func (m *PublishRequest) Struct() *structpb.Struct {
	w := writer{}
	w.str("entity_id", m.EntityID)
	w.str("draft_id", m.DraftID)
	return w.build()
}

func DecodePublishRequest(s *structpb.Struct) (*PublishRequest, error) {
	r := newReader(s)
	m := &PublishRequest{
		EntityID: r.str("entity_id"),
		DraftID:  r.str("draft_id"),
	}
	return m, r.err
}

type PublishResponse struct {
	Success     bool
	PublishedAt time.Time
	Error       string
}

func (m *PublishResponse) Struct() *structpb.Struct {
	w := writer{}
	w.boolean("success", m.Success)
	w.time("published_at", m.PublishedAt)
	w.str("error", m.Error)
	return w.build()
}

func DecodePublishResponse(s *structpb.Struct) (*PublishResponse, error) {
	r := newReader(s)
	m := &PublishResponse{
		Success:     r.boolean("success"),
		PublishedAt: r.time("published_at"),
		Error:       r.str("error"),
	}
	return m, r.err
}

type PingRequest struct{}

func (m *PingRequest) Struct() *structpb.Struct {
	return writer{}.build()
}

func DecodePingRequest(s *structpb.Struct) (*PingRequest, error) {
	r := newReader(s)
	return &PingRequest{}, r.err
}

type PingResponse struct {
	Status string
}

func (m *PingResponse) Struct() *structpb.Struct {
	w := writer{}
	w.str("status", m.Status)
	return w.build()
}

func DecodePingResponse(s *structpb.Struct) (*PingResponse, error) {
	r := newReader(s)
	m := &PingResponse{Status: r.str("status")}
	return m, r.err
}
