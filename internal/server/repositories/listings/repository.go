// Package listings stores the published field set of each entity.
package listings

import (
	"context"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound for an entity that was never published.
	Get(ctx context.Context, entityID string) (*models.Listing, error)
	Upsert(ctx context.Context, l *models.Listing) error
}
