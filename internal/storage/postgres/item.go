package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfall/reforge/internal/game/item"
)

// ErrItemInstanceNotFound is returned when an item instance lookup yields no results.
var ErrItemInstanceNotFound = errors.New("item instance not found")

// ItemInstanceRepository persists item instances. Templates are content-file
// data and never hit the database; only the per-instance state does.
type ItemInstanceRepository struct {
	db *pgxpool.Pool
}

// NewItemInstanceRepository creates an ItemInstanceRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewItemInstanceRepository(db *pgxpool.Pool) *ItemInstanceRepository {
	return &ItemInstanceRepository{db: db}
}

// Save inserts or updates an item instance.
//
// Precondition: inst.OwnerID must reference an existing character.
// Postcondition: The row matches inst on success.
func (r *ItemInstanceRepository) Save(ctx context.Context, inst *item.Instance) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO item_instances (id, template_id, owner_id, slot)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			template_id = EXCLUDED.template_id,
			owner_id = EXCLUDED.owner_id,
			slot = EXCLUDED.slot,
			updated_at = NOW()`,
		inst.ID, inst.TemplateID, inst.OwnerID, inst.Slot,
	)
	if err != nil {
		return fmt.Errorf("saving item instance: %w", err)
	}
	return nil
}

// GetByID retrieves an item instance by its ID.
//
// Postcondition: Returns the Instance or ErrItemInstanceNotFound.
func (r *ItemInstanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Instance, error) {
	var inst item.Instance
	err := r.db.QueryRow(ctx, `
		SELECT id, template_id, owner_id, slot
		FROM item_instances WHERE id = $1`,
		id,
	).Scan(&inst.ID, &inst.TemplateID, &inst.OwnerID, &inst.Slot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemInstanceNotFound
		}
		return nil, fmt.Errorf("querying item instance: %w", err)
	}
	return &inst, nil
}

// ListAll returns every persisted item instance, ordered by owner.
// Used at startup to hydrate the in-memory item directory.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ItemInstanceRepository) ListAll(ctx context.Context) ([]*item.Instance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, template_id, owner_id, slot
		FROM item_instances ORDER BY owner_id, slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item instances: %w", err)
	}
	defer rows.Close()

	instances := make([]*item.Instance, 0)
	for rows.Next() {
		var inst item.Instance
		if err := rows.Scan(&inst.ID, &inst.TemplateID, &inst.OwnerID, &inst.Slot); err != nil {
			return nil, fmt.Errorf("scanning item instance row: %w", err)
		}
		instances = append(instances, &inst)
	}
	return instances, rows.Err()
}

// ListByOwner returns all item instances held by the given character.
//
// Precondition: ownerID must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ItemInstanceRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*item.Instance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, template_id, owner_id, slot
		FROM item_instances WHERE owner_id = $1 ORDER BY slot`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item instances: %w", err)
	}
	defer rows.Close()

	instances := make([]*item.Instance, 0)
	for rows.Next() {
		var inst item.Instance
		if err := rows.Scan(&inst.ID, &inst.TemplateID, &inst.OwnerID, &inst.Slot); err != nil {
			return nil, fmt.Errorf("scanning item instance row: %w", err)
		}
		instances = append(instances, &inst)
	}
	return instances, rows.Err()
}

// Delete removes an item instance. Its reforge record, if any, is removed
// separately by the caller or the startup sweep.
//
// Postcondition: Returns nil on success, ErrItemInstanceNotFound if no row deleted.
func (r *ItemInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM item_instances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting item instance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemInstanceNotFound
	}
	return nil
}
