// Package stats tracks the live unit stat contributions applied to online
// characters.
package stats

import (
	"sync"

	"go.uber.org/zap"

	"github.com/emberfall/reforge/internal/game/reforge"
)

// Tracker accumulates unit stat modifications per character. It implements
// reforge.AttributeModifier. Engaging adds the amount; disengaging subtracts
// the same amount, so a matched engage/disengage pair is always a no-op.
// All methods are safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	totals map[int64]map[reforge.UnitStat]int
	logger *zap.Logger
}

// NewTracker creates an empty Tracker.
//
// Precondition: logger must be non-nil.
func NewTracker(logger *zap.Logger) *Tracker {
	return &Tracker{
		totals: make(map[int64]map[reforge.UnitStat]int),
		logger: logger,
	}
}

// ApplyStatMod adjusts the character's total for the given stat. engage true
// adds amount, false subtracts it. Entries that return to zero are removed.
func (t *Tracker) ApplyStatMod(ownerID int64, stat reforge.UnitStat, amount int, engage bool) {
	if amount == 0 {
		return
	}
	delta := amount
	if !engage {
		delta = -amount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	byStat := t.totals[ownerID]
	if byStat == nil {
		byStat = make(map[reforge.UnitStat]int)
		t.totals[ownerID] = byStat
	}
	byStat[stat] += delta
	if byStat[stat] == 0 {
		delete(byStat, stat)
		if len(byStat) == 0 {
			delete(t.totals, ownerID)
		}
	}

	t.logger.Debug("stat modifier applied",
		zap.Int64("owner_id", ownerID),
		zap.String("stat", string(stat)),
		zap.Int("delta", delta),
	)
}

// Total returns the character's current total for one stat.
func (t *Tracker) Total(ownerID int64, stat reforge.UnitStat) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totals[ownerID][stat]
}

// Totals returns a copy of all of the character's stat totals.
func (t *Tracker) Totals(ownerID int64) map[reforge.UnitStat]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[reforge.UnitStat]int, len(t.totals[ownerID]))
	for stat, v := range t.totals[ownerID] {
		out[stat] = v
	}
	return out
}

// Clear removes all totals for a character, for use when they disconnect.
func (t *Tracker) Clear(ownerID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.totals, ownerID)
}
