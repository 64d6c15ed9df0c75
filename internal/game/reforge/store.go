package reforge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emberfall/reforge/internal/game/item"
)

// Record is one active reforge: the value moved between two attributes on a
// single item. At most one Record exists per item at any time. Records are
// never edited in place; a re-reforge is a remove followed by a create.
type Record struct {
	// OwnerID is the owning character's ID.
	OwnerID int64
	// ItemID is the reforged item instance's ID.
	ItemID uuid.UUID
	// Decreased is the attribute the moved value was taken from.
	Decreased item.Attribute
	// Increased is the attribute the moved value was added to.
	Increased item.Attribute
	// MovedValue is the non-negative amount shifted between the two attributes.
	MovedValue int
}

// RecordRepository is the durable storage behind the Store.
type RecordRepository interface {
	// ReadAll returns every persisted record.
	ReadAll(ctx context.Context) ([]Record, error)
	// Write inserts or replaces the record for its item.
	Write(ctx context.Context, rec Record) error
	// Delete removes the record for the given item. Absent is not an error.
	Delete(ctx context.Context, itemID uuid.UUID) error
	// DeleteForOwner removes all records belonging to a character.
	DeleteForOwner(ctx context.Context, ownerID int64) error
	// Sweep transactionally deletes records whose owning character or item no
	// longer exists, returning the number removed.
	Sweep(ctx context.Context) (int64, error)
}

// Store is the single source of truth for active reforge records: an
// in-memory index mirrored write-through to a RecordRepository. The durable
// write always completes before the in-memory state advances, so a crash can
// never leave a record in memory that storage does not know about.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
	repo    RecordRepository
	logger  *zap.Logger
}

// NewStore creates an empty Store backed by the given repository.
//
// Precondition: repo and logger must be non-nil.
func NewStore(repo RecordRepository, logger *zap.Logger) *Store {
	return &Store{
		records: make(map[uuid.UUID]Record),
		repo:    repo,
		logger:  logger,
	}
}

// Load replaces the entire in-memory index from durable storage. Orphaned
// records (deleted characters or items) are swept from storage first.
//
// Postcondition: On success the index mirrors storage exactly.
func (s *Store) Load(ctx context.Context) error {
	start := time.Now()

	swept, err := s.repo.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweeping orphaned reforges: %w", err)
	}
	if swept > 0 {
		s.logger.Info("swept orphaned reforge records", zap.Int64("removed", swept))
	}

	records, err := s.repo.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("reading reforge records: %w", err)
	}

	index := make(map[uuid.UUID]Record, len(records))
	for _, rec := range records {
		index[rec.ItemID] = rec
	}

	s.mu.Lock()
	s.records = index
	s.mu.Unlock()

	s.logger.Info("loaded item reforges",
		zap.Int("count", len(index)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Get returns the record for the given item, if any.
func (s *Store) Get(itemID uuid.UUID) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[itemID]
	return rec, ok
}

// Count returns the number of active records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Upsert inserts or replaces the record for rec.ItemID, persisting it first.
// If the durable write fails the in-memory index is untouched and the caller
// must treat the operation as not committed.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	if err := s.repo.Write(ctx, rec); err != nil {
		return fmt.Errorf("persisting reforge record: %w", err)
	}

	s.mu.Lock()
	s.records[rec.ItemID] = rec
	s.mu.Unlock()
	return nil
}

// Remove deletes the record for the given item from storage and memory.
// A missing record is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, itemID uuid.UUID) error {
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("deleting reforge record: %w", err)
	}

	s.mu.Lock()
	delete(s.records, itemID)
	s.mu.Unlock()
	return nil
}

// RemoveAllForOwner deletes every record belonging to a character. Used when
// the character is permanently deleted.
func (s *Store) RemoveAllForOwner(ctx context.Context, ownerID int64) error {
	if err := s.repo.DeleteForOwner(ctx, ownerID); err != nil {
		return fmt.Errorf("deleting reforge records for owner %d: %w", ownerID, err)
	}

	s.mu.Lock()
	for id, rec := range s.records {
		if rec.OwnerID == ownerID {
			delete(s.records, id)
		}
	}
	s.mu.Unlock()
	return nil
}
