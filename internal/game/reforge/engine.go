package reforge

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emberfall/reforge/internal/config"
	"github.com/emberfall/reforge/internal/game/item"
)

// Sentinel errors for reforge operations. ErrNotEligible covers every
// fail-closed ineligibility case; ErrInsufficientFunds is the only failure a
// player needs a message for.
var (
	ErrNotEligible        = errors.New("item is not eligible for reforging")
	ErrItemNotFound       = errors.New("item not found")
	ErrStatNotPresent     = errors.New("attribute not present on item")
	ErrStatAlreadyPresent = errors.New("attribute already present on item")
	ErrInsufficientFunds  = errors.New("not enough money to reforge")
	ErrNotReforged        = errors.New("item has no active reforge")
)

// AttributeModifier applies unit-stat adjustments to a live character.
// engage=true adds the amount, false removes it. The service is infallible at
// this layer; its own failures are not the engine's concern.
type AttributeModifier interface {
	ApplyStatMod(ownerID int64, stat UnitStat, amount int, engage bool)
}

// CurrencyLedger holds character currency balances.
type CurrencyLedger interface {
	Balance(ctx context.Context, ownerID int64) (int64, error)
	Debit(ctx context.Context, ownerID int64, amount int64) error
}

// ItemDirectory resolves live items and ownership.
type ItemDirectory interface {
	// Find resolves an item instance and its static template.
	Find(id uuid.UUID) (*item.Instance, *item.Template, bool)
	// OwnedBy returns the items a character currently holds.
	OwnedBy(ownerID int64, includeBanked bool) []*item.Instance
}

// Broadcaster notifies the owning session that an item's externally visible
// attribute list changed.
type Broadcaster interface {
	ItemChanged(ownerID int64, itemID uuid.UUID, stats []item.StatValue)
}

// Engine is the reforging decision core. It owns no record state of its own:
// every call re-reads the Store.
type Engine struct {
	settings  *Settings
	store     *Store
	items     ItemDirectory
	mods      AttributeModifier
	ledger    CurrencyLedger
	broadcast Broadcaster
	logger    *zap.Logger
}

// NewEngine wires the engine to its collaborators.
//
// Precondition: all arguments must be non-nil.
func NewEngine(settings *Settings, store *Store, items ItemDirectory, mods AttributeModifier, ledger CurrencyLedger, broadcast Broadcaster, logger *zap.Logger) *Engine {
	return &Engine{
		settings:  settings,
		store:     store,
		items:     items,
		mods:      mods,
		ledger:    ledger,
		broadcast: broadcast,
		logger:    logger,
	}
}

// Settings returns the live configuration.
func (e *Engine) Settings() *Settings {
	return e.settings
}

// MovedValue computes how much of a base stat one reforge moves:
// floor(base * percentage / 100), or 0 for non-positive bases. This is the
// single source of truth for moved values; it always uses the percentage
// configured at call time.
func (e *Engine) MovedValue(base int) int {
	if base <= 0 {
		return 0
	}
	return int(math.Floor(float64(base) * e.settings.Percentage() / 100))
}

// IsReforgeable reports whether the item can be reforged by the given
// character right now. Every failure mode returns false; nothing here raises.
func (e *Engine) IsReforgeable(ownerID int64, itemID uuid.UUID) bool {
	inst, tpl, ok := e.items.Find(itemID)
	if !ok || !inst.Equipped() {
		return false
	}
	if inst.OwnerID != ownerID {
		return false
	}
	if len(e.settings.Attributes()) == 0 {
		return false
	}
	if len(tpl.Stats) == 0 || len(tpl.Stats) > item.MaxTemplateStats {
		return false
	}
	if tpl.QualityTier() > item.MaxReforgeableQuality {
		return false
	}
	if _, reforged := e.store.Get(itemID); reforged {
		return false
	}

	for _, s := range tpl.Snapshot() {
		if !e.settings.IsReforgeableAttribute(s.Attribute) {
			continue
		}
		if e.MovedValue(s.Value) >= 1 {
			return true
		}
	}
	return false
}

// RecordFor returns the active record for an item. When the feature is
// disabled no record is reported, so items fall back to base stats without
// records being deleted.
func (e *Engine) RecordFor(itemID uuid.UUID) (Record, bool) {
	if !e.settings.Enabled() {
		return Record{}, false
	}
	return e.store.Get(itemID)
}

// EffectiveStats returns the externally visible attribute list for an item:
// the template snapshot with any active record folded in.
func (e *Engine) EffectiveStats(itemID uuid.UUID) ([]item.StatValue, error) {
	_, tpl, ok := e.items.Find(itemID)
	if !ok {
		return nil, ErrItemNotFound
	}
	snapshot := tpl.Snapshot()
	if rec, ok := e.RecordFor(itemID); ok {
		return EffectiveStats(snapshot, &rec), nil
	}
	return EffectiveStats(snapshot, nil), nil
}

// ReforgeableStats returns the subset of an item's snapshot whose attributes
// are in the eligible set and would move at least one point.
func (e *Engine) ReforgeableStats(itemID uuid.UUID) []item.StatValue {
	_, tpl, ok := e.items.Find(itemID)
	if !ok {
		return nil
	}
	var out []item.StatValue
	for _, s := range tpl.Snapshot() {
		if e.settings.IsReforgeableAttribute(s.Attribute) && e.MovedValue(s.Value) >= 1 {
			out = append(out, s)
		}
	}
	return out
}

// Preview returns the moved value and the post-reforge remainder for taking
// from the given attribute, without mutating anything.
func (e *Engine) Preview(itemID uuid.UUID, decreased item.Attribute) (moved, remaining int, err error) {
	_, tpl, ok := e.items.Find(itemID)
	if !ok {
		return 0, 0, ErrItemNotFound
	}
	stat, ok := item.FindStat(tpl.Snapshot(), decreased)
	if !ok {
		return 0, 0, ErrStatNotPresent
	}
	moved = e.MovedValue(stat.Value)
	return moved, stat.Value - moved, nil
}

// Reforge permanently moves part of one attribute's value onto another for
// the given equipped item. On success the record is persisted, live stats are
// re-applied with the record folded in, the cost is debited, and the owner is
// notified of the changed item description.
//
// Failures before the unapply step leave all state untouched. A persistence
// failure mid-operation restores the item's prior contribution and reports
// the operation as not committed.
func (e *Engine) Reforge(ctx context.Context, ownerID int64, itemID uuid.UUID, decreased, increased item.Attribute) error {
	if !e.IsReforgeable(ownerID, itemID) {
		return ErrNotEligible
	}

	inst, tpl, _ := e.items.Find(itemID)
	snapshot := tpl.Snapshot()

	stat, ok := item.FindStat(snapshot, decreased)
	if !ok {
		return ErrStatNotPresent
	}
	// Moving value onto an attribute the item already has would double-count it.
	if _, present := item.FindStat(snapshot, increased); present {
		return ErrStatAlreadyPresent
	}

	cost := e.settings.Cost()
	balance, err := e.ledger.Balance(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("reading balance for character %d: %w", ownerID, err)
	}
	if balance < cost {
		return ErrInsufficientFunds
	}

	// Point of no return: retract the item's current contribution, commit the
	// record, re-apply with the record folded in.
	e.applyItemMods(inst, tpl, false)

	rec := Record{
		OwnerID:    ownerID,
		ItemID:     itemID,
		Decreased:  decreased,
		Increased:  increased,
		MovedValue: e.MovedValue(stat.Value),
	}
	if err := e.store.Upsert(ctx, rec); err != nil {
		e.applyItemMods(inst, tpl, true)
		return err
	}

	e.applyItemMods(inst, tpl, true)

	if err := e.ledger.Debit(ctx, ownerID, cost); err != nil {
		// The reforge itself is committed; the caller sees the debit failure.
		e.logger.Error("debit failed after committed reforge",
			zap.Int64("owner_id", ownerID),
			zap.String("item_id", itemID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("debiting reforge cost: %w", err)
	}

	e.notifyItemChanged(inst)

	e.logger.Info("item reforged",
		zap.Int64("owner_id", ownerID),
		zap.String("item_id", itemID.String()),
		zap.String("decreased", string(decreased)),
		zap.String("increased", string(increased)),
		zap.Int("moved_value", rec.MovedValue),
	)
	return nil
}

// RemoveReforge deletes an item's active reforge and restores its base
// stats. There is no currency refund.
func (e *Engine) RemoveReforge(ctx context.Context, itemID uuid.UUID) error {
	inst, tpl, ok := e.items.Find(itemID)
	if !ok {
		return ErrItemNotFound
	}
	if _, reforged := e.store.Get(itemID); !reforged {
		return ErrNotReforged
	}

	equipped := inst.Equipped()
	if equipped {
		e.applyItemMods(inst, tpl, false)
	}

	if err := e.store.Remove(ctx, itemID); err != nil {
		if equipped {
			e.applyItemMods(inst, tpl, true)
		}
		return err
	}

	if equipped {
		e.applyItemMods(inst, tpl, true)
	}

	e.notifyItemChanged(inst)

	e.logger.Info("reforge removed",
		zap.Int64("owner_id", inst.OwnerID),
		zap.String("item_id", itemID.String()),
	)
	return nil
}

// Reconcile re-applies a character's items after the feature toggles. With
// apply=true every held item's description is re-broadcast and equipped items
// get their attribute contribution re-applied (folding in records when the
// feature is enabled); with apply=false equipped contributions are retracted.
// Records themselves are never touched: disabling is reversible.
func (e *Engine) Reconcile(ownerID int64, apply bool) {
	for _, inst := range e.items.OwnedBy(ownerID, true) {
		if apply {
			e.notifyItemChanged(inst)
		}
		if !inst.Equipped() {
			continue
		}
		_, tpl, ok := e.items.Find(inst.ID)
		if !ok {
			continue
		}
		e.applyItemMods(inst, tpl, apply)
	}
}

// ReloadConfig applies a new configuration section. When the enabled flag
// changes, every online character's items are reconciled around the switch so
// live stats and descriptions match the new state.
func (e *Engine) ReloadConfig(cfg config.ReforgeConfig, onlineOwners []int64) {
	toggled := e.settings.Enabled() != cfg.Enabled
	if toggled {
		for _, ownerID := range onlineOwners {
			e.Reconcile(ownerID, false)
		}
	}

	e.settings.ApplyConfig(cfg)

	if toggled {
		for _, ownerID := range onlineOwners {
			e.Reconcile(ownerID, true)
		}
	}
}

// OnCharacterRemoved drops every record belonging to a permanently deleted
// character.
func (e *Engine) OnCharacterRemoved(ctx context.Context, ownerID int64) error {
	return e.store.RemoveAllForOwner(ctx, ownerID)
}

// OnItemDestroyed clears any reforge on an item that is being destroyed.
// Items without a record pass through untouched.
func (e *Engine) OnItemDestroyed(ctx context.Context, itemID uuid.UUID) error {
	err := e.RemoveReforge(ctx, itemID)
	if errors.Is(err, ErrNotReforged) || errors.Is(err, ErrItemNotFound) {
		return nil
	}
	return err
}

// applyItemMods applies (engage=true) or retracts (engage=false) the item's
// full attribute contribution, with any active record folded in. Unknown
// attribute kinds translate to no operations and are logged, never fatal.
func (e *Engine) applyItemMods(inst *item.Instance, tpl *item.Template, engage bool) {
	stats := tpl.Snapshot()
	if rec, ok := e.RecordFor(inst.ID); ok {
		stats = EffectiveStats(stats, &rec)
	}

	for _, s := range stats {
		if s.Value == 0 {
			continue
		}
		ops := Expand(s.Attribute)
		if ops == nil {
			e.logger.Warn("no stat translation for attribute",
				zap.String("attribute", string(s.Attribute)),
				zap.String("item_id", inst.ID.String()),
			)
			continue
		}
		for _, op := range ops {
			e.mods.ApplyStatMod(inst.OwnerID, op.Stat, int(float64(s.Value)*op.Scale), engage)
		}
	}
}

func (e *Engine) notifyItemChanged(inst *item.Instance) {
	stats, err := e.EffectiveStats(inst.ID)
	if err != nil {
		return
	}
	e.broadcast.ItemChanged(inst.OwnerID, inst.ID, stats)
}
