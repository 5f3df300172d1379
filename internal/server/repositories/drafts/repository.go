package drafts

import (
	"context"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
)

// Repository stores drafts. Lookups of unknown ids return
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, d *models.Draft) error
	Get(ctx context.Context, id string) (*models.Draft, error)
	// GetForUpdate is Get that also locks the row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Draft, error)
	// FindOpen returns the entity's draft in status "draft".
	FindOpen(ctx context.Context, entityID string) (*models.Draft, error)
	Update(ctx context.Context, d *models.Draft) error
}
