package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfall/reforge/internal/game/item"
	"github.com/emberfall/reforge/internal/game/reforge"
)

// ReforgeRepository is the durable storage for reforge records. It implements
// reforge.RecordRepository.
type ReforgeRepository struct {
	db *pgxpool.Pool
}

// NewReforgeRepository creates a ReforgeRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewReforgeRepository(db *pgxpool.Pool) *ReforgeRepository {
	return &ReforgeRepository{db: db}
}

// ReadAll returns every persisted reforge record.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ReforgeRepository) ReadAll(ctx context.Context) ([]reforge.Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT owner_id, item_id, decreased, increased, moved_value
		FROM character_reforges`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading reforge records: %w", err)
	}
	defer rows.Close()

	records := make([]reforge.Record, 0)
	for rows.Next() {
		var rec reforge.Record
		var decreased, increased string
		if err := rows.Scan(&rec.OwnerID, &rec.ItemID, &decreased, &increased, &rec.MovedValue); err != nil {
			return nil, fmt.Errorf("scanning reforge row: %w", err)
		}
		rec.Decreased = item.Attribute(decreased)
		rec.Increased = item.Attribute(increased)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Write inserts or replaces the record for its item.
//
// Precondition: rec.OwnerID and rec.ItemID must reference existing rows.
// Postcondition: Exactly one row exists for rec.ItemID on success.
func (r *ReforgeRepository) Write(ctx context.Context, rec reforge.Record) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO character_reforges (owner_id, item_id, decreased, increased, moved_value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (item_id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			decreased = EXCLUDED.decreased,
			increased = EXCLUDED.increased,
			moved_value = EXCLUDED.moved_value`,
		rec.OwnerID, rec.ItemID, string(rec.Decreased), string(rec.Increased), rec.MovedValue,
	)
	if err != nil {
		return fmt.Errorf("writing reforge record: %w", err)
	}
	return nil
}

// Delete removes the record for the given item. Absent is not an error.
func (r *ReforgeRepository) Delete(ctx context.Context, itemID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM character_reforges WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("deleting reforge record: %w", err)
	}
	return nil
}

// DeleteForOwner removes all records belonging to a character.
func (r *ReforgeRepository) DeleteForOwner(ctx context.Context, ownerID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM character_reforges WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("deleting reforge records for owner: %w", err)
	}
	return nil
}

// Sweep transactionally deletes records whose owning character or item no
// longer exists and returns the number removed. Run at startup before the
// store loads, so stale rows never reach memory.
func (r *ReforgeRepository) Sweep(ctx context.Context) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning sweep transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM character_reforges cr
		WHERE NOT EXISTS (SELECT 1 FROM characters c WHERE c.id = cr.owner_id)
		   OR NOT EXISTS (SELECT 1 FROM item_instances i WHERE i.id = cr.item_id)`,
	)
	if err != nil {
		return 0, fmt.Errorf("sweeping orphaned reforge records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing sweep transaction: %w", err)
	}
	return tag.RowsAffected(), nil
}
