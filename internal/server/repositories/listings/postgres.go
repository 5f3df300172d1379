package listings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/dbx"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, entityID string) (*models.Listing, error) {
	query := `
		SELECT entity_id, partner_id, fields, content_hash, published_at, updated_at
		FROM listings WHERE entity_id = $1
	`
	var (
		l   models.Listing
		raw []byte
	)
	err := r.db.QueryRowContext(ctx, query, entityID).
		Scan(&l.EntityID, &l.PartnerID, &raw, &l.ContentHash, &l.PublishedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	l.Fields = listing.Fields{}
	if err := json.Unmarshal(raw, &l.Fields); err != nil {
		return nil, fmt.Errorf("decode fields of listing %s: %w", l.EntityID, err)
	}
	return &l, nil
}

// Upsert replaces the stored fields of the entity. The owning partner is
// fixed by the first publish and never changed afterwards.
func (r *PostgresRepository) Upsert(ctx context.Context, l *models.Listing) error {
	fields := l.Fields
	if fields == nil {
		fields = listing.Fields{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	query := `
		INSERT INTO listings (entity_id, partner_id, fields, content_hash, published_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (entity_id) DO UPDATE SET
			fields = EXCLUDED.fields,
			content_hash = EXCLUDED.content_hash,
			published_at = EXCLUDED.published_at,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query,
		l.EntityID, l.PartnerID, raw, l.ContentHash, l.PublishedAt, l.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
