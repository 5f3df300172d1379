// Package models holds the draft service's persisted records.
package models

import (
	"time"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusPublished DraftStatus = "published"
	DraftStatusRejected  DraftStatus = "rejected"
)

// Draft is the unpublished edit of one listing. Fields holds only the
// fields changed since the draft was opened.
type Draft struct {
	ID            string
	EntityID      string
	PartnerID     string
	Status        DraftStatus
	Fields        listing.Fields
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ReviewedAt    *time.Time
	PublishedAt   *time.Time
	PublishedHash string
}

// Listing is the live field set of an entity.
type Listing struct {
	EntityID    string
	PartnerID   string
	Fields      listing.Fields
	ContentHash string
	PublishedAt time.Time
	UpdatedAt   time.Time
}
