package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfall/reforge/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name that is already in use.
var ErrCharacterNameTaken = errors.New("character name already taken")

// ErrInsufficientCurrency is returned when a debit exceeds the character's balance.
var ErrInsufficientCurrency = errors.New("insufficient currency")

// CharacterRepository provides character persistence and the currency ledger.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c.Name must be non-empty; c.Currency must be >= 0.
// Postcondition: Returns the created character with ID set, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	var out character.Character
	err := r.db.QueryRow(ctx, `
		INSERT INTO characters (name, currency)
		VALUES ($1, $2)
		RETURNING id, name, currency, created_at, updated_at`,
		c.Name, c.Currency,
	).Scan(&out.ID, &out.Name, &out.Currency, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	var c character.Character
	err := r.db.QueryRow(ctx, `
		SELECT id, name, currency, created_at, updated_at
		FROM characters WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Currency, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return &c, nil
}

// GetByName retrieves a character by name.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (*character.Character, error) {
	var c character.Character
	err := r.db.QueryRow(ctx, `
		SELECT id, name, currency, created_at, updated_at
		FROM characters WHERE name = $1`,
		name,
	).Scan(&c.ID, &c.Name, &c.Currency, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character by name: %w", err)
	}
	return &c, nil
}

// Delete removes a character and, via cascade, their item instances. Reforge
// records are removed separately by the caller or the startup sweep.
//
// Precondition: id must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Balance returns the character's currency balance in copper.
//
// Precondition: ownerID must be > 0.
// Postcondition: Returns the balance or ErrCharacterNotFound.
func (r *CharacterRepository) Balance(ctx context.Context, ownerID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `SELECT currency FROM characters WHERE id = $1`, ownerID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrCharacterNotFound
		}
		return 0, fmt.Errorf("querying balance: %w", err)
	}
	return balance, nil
}

// Debit atomically subtracts amount from the character's balance. The
// conditional update guards against concurrent spends driving the balance
// negative.
//
// Precondition: ownerID must be > 0; amount must be >= 0.
// Postcondition: Returns nil on success, ErrInsufficientCurrency if the
// balance would go negative, ErrCharacterNotFound if the character is absent.
func (r *CharacterRepository) Debit(ctx context.Context, ownerID int64, amount int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET currency = currency - $2, updated_at = NOW()
		WHERE id = $1 AND currency >= $2`,
		ownerID, amount,
	)
	if err != nil {
		return fmt.Errorf("debiting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, existsErr := r.exists(ctx, ownerID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return ErrCharacterNotFound
		}
		return ErrInsufficientCurrency
	}
	return nil
}

// Credit adds amount to the character's balance.
//
// Precondition: ownerID must be > 0; amount must be >= 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) Credit(ctx context.Context, ownerID int64, amount int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET currency = currency + $2, updated_at = NOW()
		WHERE id = $1`,
		ownerID, amount,
	)
	if err != nil {
		return fmt.Errorf("crediting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

func (r *CharacterRepository) exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM characters WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("checking character existence: %w", err)
	}
	return found, nil
}
