package reforge

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/emberfall/reforge/internal/game/item"
)

// memRepo is an in-memory RecordRepository for tests.
type memRepo struct {
	mu         sync.Mutex
	records    map[uuid.UUID]Record
	failWrite  bool
	failDelete bool
	writes     int
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[uuid.UUID]Record)}
}

func (r *memRepo) ReadAll(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

func (r *memRepo) Write(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errors.New("write refused")
	}
	r.records[rec.ItemID] = rec
	r.writes++
	return nil
}

func (r *memRepo) Delete(ctx context.Context, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete {
		return errors.New("delete refused")
	}
	delete(r.records, itemID)
	return nil
}

func (r *memRepo) DeleteForOwner(ctx context.Context, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.records {
		if rec.OwnerID == ownerID {
			delete(r.records, id)
		}
	}
	return nil
}

func (r *memRepo) Sweep(ctx context.Context) (int64, error) {
	return 0, nil
}

func (r *memRepo) has(itemID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[itemID]
	return ok
}

// memLedger is an in-memory CurrencyLedger for tests.
type memLedger struct {
	mu        sync.Mutex
	balances  map[int64]int64
	failDebit bool
}

func newMemLedger() *memLedger {
	return &memLedger{balances: make(map[int64]int64)}
}

func (l *memLedger) Balance(ctx context.Context, ownerID int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[ownerID], nil
}

func (l *memLedger) Debit(ctx context.Context, ownerID int64, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failDebit {
		return errors.New("debit refused")
	}
	if l.balances[ownerID] < amount {
		return errors.New("insufficient balance")
	}
	l.balances[ownerID] -= amount
	return nil
}

// memMods accumulates applied stat modifiers for tests.
type memMods struct {
	mu     sync.Mutex
	totals map[int64]map[UnitStat]int
}

func newMemMods() *memMods {
	return &memMods{totals: make(map[int64]map[UnitStat]int)}
}

func (m *memMods) ApplyStatMod(ownerID int64, stat UnitStat, amount int, engage bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.totals[ownerID] == nil {
		m.totals[ownerID] = make(map[UnitStat]int)
	}
	if engage {
		m.totals[ownerID][stat] += amount
	} else {
		m.totals[ownerID][stat] -= amount
	}
	if m.totals[ownerID][stat] == 0 {
		delete(m.totals[ownerID], stat)
	}
}

func (m *memMods) total(ownerID int64, stat UnitStat) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals[ownerID][stat]
}

func (m *memMods) count(ownerID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.totals[ownerID])
}

// memBroadcast records ItemChanged notifications for tests.
type memBroadcast struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (b *memBroadcast) ItemChanged(ownerID int64, itemID uuid.UUID, stats []item.StatValue) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, itemID)
}

func (b *memBroadcast) notified() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}
