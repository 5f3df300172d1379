// Package drafts provides draft storage: a PostgreSQL repository over
// dbx.DBTX and an in-memory one for development and tests.
package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/dbx"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
)

// PostgresRepository implements draft storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectDraft = `SELECT id, entity_id, partner_id, status, fields, created_at, updated_at, reviewed_at, published_at, published_hash
		FROM drafts`

func (r *PostgresRepository) Create(ctx context.Context, d *models.Draft) error {
	fields, err := json.Marshal(fieldsOrEmpty(d.Fields))
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	query := `
		INSERT INTO drafts (id, entity_id, partner_id, status, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		d.ID, d.EntityID, d.PartnerID, string(d.Status), fields, d.CreatedAt, d.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Draft, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectDraft+` WHERE id = $1`, id))
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Draft, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectDraft+` WHERE id = $1 FOR UPDATE`, id))
}

func (r *PostgresRepository) FindOpen(ctx context.Context, entityID string) (*models.Draft, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		selectDraft+` WHERE entity_id = $1 AND status = 'draft' ORDER BY updated_at DESC LIMIT 1`, entityID))
}

func (r *PostgresRepository) Update(ctx context.Context, d *models.Draft) error {
	fields, err := json.Marshal(fieldsOrEmpty(d.Fields))
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	query := `
		UPDATE drafts SET status = $2, fields = $3, updated_at = $4,
			reviewed_at = $5, published_at = $6, published_hash = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		d.ID, string(d.Status), fields, d.UpdatedAt, nullTime(d.ReviewedAt), nullTime(d.PublishedAt), d.PublishedHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Draft, error) {
	var (
		d         models.Draft
		status    string
		raw       []byte
		reviewed  sql.NullTime
		published sql.NullTime
	)
	err := row.Scan(&d.ID, &d.EntityID, &d.PartnerID, &status, &raw,
		&d.CreatedAt, &d.UpdatedAt, &reviewed, &published, &d.PublishedHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	d.Status = models.DraftStatus(status)
	d.Fields = listing.Fields{}
	if err := json.Unmarshal(raw, &d.Fields); err != nil {
		return nil, fmt.Errorf("decode fields of draft %s: %w", d.ID, err)
	}
	if reviewed.Valid {
		d.ReviewedAt = &reviewed.Time
	}
	if published.Valid {
		d.PublishedAt = &published.Time
	}
	return &d, nil
}

func fieldsOrEmpty(f listing.Fields) listing.Fields {
	if f == nil {
		return listing.Fields{}
	}
	return f
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
