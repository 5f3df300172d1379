package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/dbx"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Replace(ctx context.Context, entityID string, fields listing.Fields) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM journal WHERE entity_id = ?`, entityID); err != nil {
			return err
		}
		for _, k := range fields.Keys() {
			raw, err := json.Marshal(fields[k])
			if err != nil {
				return fmt.Errorf("encode %s: %w", k, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO journal (entity_id, field, value) VALUES (?, ?, ?)`,
				entityID, k, string(raw)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace journal[%s]: %w", entityID, err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context, entityID string) (listing.Fields, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT field, value FROM journal WHERE entity_id = ?`, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal[%s]: %w", entityID, err)
	}
	defer rows.Close()

	result := make(listing.Fields)
	for rows.Next() {
		var field, raw string
		if err := rows.Scan(&field, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		var v listing.Value
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("failed to decode journal[%s].%s: %w", entityID, field, err)
		}
		result[field] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, entityID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM journal WHERE entity_id = ?`, entityID)
	if err != nil {
		return fmt.Errorf("failed to clear journal[%s]: %w", entityID, err)
	}
	return nil
}

func (r *SQLiteRepository) Entities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT entity_id FROM journal ORDER BY entity_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entities: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan journal entity: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Entity binds a repository to one entity. It satisfies draft.Journal.
type Entity struct {
	repo     Repository
	entityID string
}

func ForEntity(repo Repository, entityID string) *Entity {
	return &Entity{repo: repo, entityID: entityID}
}

// Replace clears the journal of the entity when fields is empty.
func (e *Entity) Replace(ctx context.Context, fields listing.Fields) error {
	if len(fields) == 0 {
		return e.repo.Clear(ctx, e.entityID)
	}
	return e.repo.Replace(ctx, e.entityID, fields)
}

func (e *Entity) Load(ctx context.Context) (listing.Fields, error) {
	return e.repo.Load(ctx, e.entityID)
}
