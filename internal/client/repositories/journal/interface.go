package journal

import (
	"context"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

// Repository stores the unsaved edits of every entity the editor touched.
type Repository interface {
	// Replace makes fields the complete journal of entityID.
	Replace(ctx context.Context, entityID string, fields listing.Fields) error
	Load(ctx context.Context, entityID string) (listing.Fields, error)
	Clear(ctx context.Context, entityID string) error
	// Entities lists the entities with journaled edits.
	Entities(ctx context.Context) ([]string, error)
}
