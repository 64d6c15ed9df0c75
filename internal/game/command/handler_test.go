package command

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emberfall/reforge/internal/game/item"
	"github.com/emberfall/reforge/internal/game/reforge"
)

type stubRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]reforge.Record
}

func (r *stubRepo) ReadAll(ctx context.Context) ([]reforge.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]reforge.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

func (r *stubRepo) Write(ctx context.Context, rec reforge.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ItemID] = rec
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, itemID)
	return nil
}

func (r *stubRepo) DeleteForOwner(ctx context.Context, ownerID int64) error {
	return nil
}

func (r *stubRepo) Sweep(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubLedger struct {
	mu      sync.Mutex
	balance int64
}

func (l *stubLedger) Balance(ctx context.Context, ownerID int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance, nil
}

func (l *stubLedger) Debit(ctx context.Context, ownerID int64, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance -= amount
	return nil
}

type stubMods struct{}

func (stubMods) ApplyStatMod(ownerID int64, stat reforge.UnitStat, amount int, engage bool) {}

type stubBroadcast struct{}

func (stubBroadcast) ItemChanged(ownerID int64, itemID uuid.UUID, stats []item.StatValue) {}

type handlerHarness struct {
	handler  *Handler
	settings *reforge.Settings
	ledger   *stubLedger
	itemID   uuid.UUID
}

const harnessOwner = int64(7)

func newHandlerHarness(t *testing.T) *handlerHarness {
	t.Helper()

	tpl := &item.Template{
		ID:      "warblade",
		Name:    "Warblade",
		Quality: "epic",
		Stats: []item.StatValue{
			{Attribute: item.AttrStrength, Value: 100},
			{Attribute: item.AttrStamina, Value: 80},
		},
	}
	require.NoError(t, tpl.Validate())
	directory, err := item.NewDirectory([]*item.Template{tpl})
	require.NoError(t, err)

	itemID := uuid.New()
	require.NoError(t, directory.Add(&item.Instance{
		ID:         itemID,
		TemplateID: "warblade",
		OwnerID:    harnessOwner,
		Slot:       item.SlotMainHand,
	}))

	settings := reforge.NewSettings()
	settings.SetAttributes([]string{"strength", "stamina", "crit_rating"})
	settings.SetPercentage(10)
	settings.SetCost(1000)

	ledger := &stubLedger{balance: 5000}
	store := reforge.NewStore(&stubRepo{records: make(map[uuid.UUID]reforge.Record)}, zap.NewNop())
	engine := reforge.NewEngine(settings, store, directory, stubMods{}, ledger, stubBroadcast{}, zap.NewNop())
	handler := NewHandler(engine, directory, DefaultRegistry(), zap.NewNop())

	return &handlerHarness{
		handler:  handler,
		settings: settings,
		ledger:   ledger,
		itemID:   itemID,
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	h := newHandlerHarness(t)
	reply := h.handler.Handle(context.Background(), harnessOwner, "smelt")
	assert.Contains(t, reply, "Unknown command")
}

func TestHandleEmptyLine(t *testing.T) {
	h := newHandlerHarness(t)
	assert.Empty(t, h.handler.Handle(context.Background(), harnessOwner, "  "))
}

func TestHandleHelp(t *testing.T) {
	h := newHandlerHarness(t)
	reply := h.handler.Handle(context.Background(), harnessOwner, "help")
	assert.Contains(t, reply, "reforge")
	assert.Contains(t, reply, "unreforge")
	assert.Contains(t, reply, "attributes")
}

func TestHandleAttributes(t *testing.T) {
	h := newHandlerHarness(t)
	reply := h.handler.Handle(context.Background(), harnessOwner, "attributes")
	assert.Contains(t, reply, "Strength")
	assert.Contains(t, reply, "Critical Strike Rating")
	assert.Contains(t, reply, "10s") // 1000 copper
	assert.Contains(t, reply, "10%")
}

func TestHandleReforgeSlotList(t *testing.T) {
	h := newHandlerHarness(t)
	reply := h.handler.Handle(context.Background(), harnessOwner, "reforge")
	assert.Contains(t, reply, "Main Hand")
	assert.Contains(t, reply, "[reforgeable]")
	assert.Contains(t, reply, "[no item]")
}

func TestHandleReforgeSlotDetail(t *testing.T) {
	h := newHandlerHarness(t)
	reply := h.handler.Handle(context.Background(), harnessOwner, "reforge main_hand")
	assert.Contains(t, reply, "Strength: 100 -> 90 (moves 10)")
	assert.Contains(t, reply, "Stamina: 80 -> 72 (moves 8)")
	assert.Contains(t, reply, "Critical Strike Rating")
}

func TestHandleReforgeEmptySlot(t *testing.T) {
	h := newHandlerHarness(t)
	reply := h.handler.Handle(context.Background(), harnessOwner, "reforge head")
	assert.Contains(t, reply, "no item equipped")
}

func TestHandleReforgeExecute(t *testing.T) {
	h := newHandlerHarness(t)
	reply := h.handler.Handle(context.Background(), harnessOwner, "reforge main_hand strength crit_rating")
	assert.Contains(t, reply, "Reforged")
	assert.Contains(t, reply, "-10 Strength")
	assert.Contains(t, reply, "+10 Critical Strike Rating")
	assert.Equal(t, int64(4000), h.ledger.balance)

	// Slot list now reports the item as reforged.
	reply = h.handler.Handle(context.Background(), harnessOwner, "reforge")
	assert.Contains(t, reply, "[reforged]")
}

func TestHandleReforgeInsufficientFunds(t *testing.T) {
	h := newHandlerHarness(t)
	h.ledger.balance = 10
	reply := h.handler.Handle(context.Background(), harnessOwner, "reforge main_hand strength crit_rating")
	assert.Contains(t, reply, "enough money")
}

func TestHandleReforgeBadAttributes(t *testing.T) {
	h := newHandlerHarness(t)

	reply := h.handler.Handle(context.Background(), harnessOwner, "reforge main_hand luck crit_rating")
	assert.Contains(t, reply, "Unknown attribute")

	reply = h.handler.Handle(context.Background(), harnessOwner, "reforge main_hand intellect crit_rating")
	assert.Contains(t, reply, "does not have")

	reply = h.handler.Handle(context.Background(), harnessOwner, "reforge main_hand strength stamina")
	assert.Contains(t, reply, "already has")
}

func TestHandleUnreforge(t *testing.T) {
	h := newHandlerHarness(t)
	ctx := context.Background()

	reply := h.handler.Handle(ctx, harnessOwner, "unreforge main_hand")
	assert.Contains(t, reply, "not reforged")

	h.handler.Handle(ctx, harnessOwner, "reforge main_hand strength crit_rating")
	reply = h.handler.Handle(ctx, harnessOwner, "unreforge main_hand")
	assert.Contains(t, reply, "Reforge removed")
	assert.Contains(t, reply, "Strength restored")
}

func TestHandleDisabledFeature(t *testing.T) {
	h := newHandlerHarness(t)
	h.settings.SetEnabled(false)

	for _, line := range []string{"reforge", "reforge main_hand", "unreforge main_hand", "attributes"} {
		reply := h.handler.Handle(context.Background(), harnessOwner, line)
		assert.Contains(t, reply, "unavailable", "line %q", line)
	}
}

func TestHandleAliases(t *testing.T) {
	h := newHandlerHarness(t)
	reply := h.handler.Handle(context.Background(), harnessOwner, "rf")
	assert.Contains(t, reply, "Main Hand")

	reply = h.handler.Handle(context.Background(), harnessOwner, "attrs")
	assert.Contains(t, reply, "Strength")
}

func TestHandleUsageErrors(t *testing.T) {
	h := newHandlerHarness(t)

	reply := h.handler.Handle(context.Background(), harnessOwner, "reforge a b")
	assert.Contains(t, reply, "Usage:")

	reply = h.handler.Handle(context.Background(), harnessOwner, "unreforge")
	assert.Contains(t, reply, "Usage:")
}

func TestHandleAttributesCostFormatting(t *testing.T) {
	h := newHandlerHarness(t)
	h.settings.SetCost(54321)
	reply := h.handler.Handle(context.Background(), harnessOwner, "attributes")
	assert.Contains(t, reply, "5g 43s 21c")
	assert.False(t, strings.Contains(reply, "54321"))
}
