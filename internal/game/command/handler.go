package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/emberfall/reforge/internal/game/currency"
	"github.com/emberfall/reforge/internal/game/item"
	"github.com/emberfall/reforge/internal/game/reforge"
)

// Handler parses player input and translates it into reforge engine calls,
// rendering the results as text. This layer carries no rules of its own; the
// engine decides everything.
type Handler struct {
	engine   *reforge.Engine
	items    *item.Directory
	registry *Registry
	logger   *zap.Logger
}

// NewHandler creates a Handler.
//
// Precondition: all arguments must be non-nil.
func NewHandler(engine *reforge.Engine, items *item.Directory, registry *Registry, logger *zap.Logger) *Handler {
	return &Handler{
		engine:   engine,
		items:    items,
		registry: registry,
		logger:   logger,
	}
}

// Handle processes one line of player input and returns the rendered reply.
func (h *Handler) Handle(ctx context.Context, ownerID int64, line string) string {
	parsed := Parse(line)
	if parsed.Command == "" {
		return ""
	}

	cmd, ok := h.registry.Resolve(parsed.Command)
	if !ok {
		return fmt.Sprintf("Unknown command %q. Try 'help'.", parsed.Command)
	}

	switch cmd.Handler {
	case HandlerReforge:
		return h.handleReforge(ctx, ownerID, parsed.Args)
	case HandlerUnreforge:
		return h.handleUnreforge(ctx, ownerID, parsed.Args)
	case HandlerAttributes:
		return h.handleAttributes()
	case HandlerHelp:
		return h.handleHelp()
	default:
		return fmt.Sprintf("Command %q has no handler.", cmd.Name)
	}
}

func (h *Handler) handleReforge(ctx context.Context, ownerID int64, args []string) string {
	if !h.engine.Settings().Enabled() {
		return "Reforging is currently unavailable."
	}

	switch len(args) {
	case 0:
		return h.renderSlotList(ownerID)
	case 1:
		return h.renderSlotDetail(ownerID, args[0])
	case 3:
		return h.performReforge(ctx, ownerID, args[0], args[1], args[2])
	default:
		return "Usage: reforge [slot] [from-attribute] [to-attribute]"
	}
}

// renderSlotList shows every equipment slot with its reforge status, mirroring
// the reforger's opening menu.
func (h *Handler) renderSlotList(ownerID int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Each reforge costs %s and moves %.0f%% of a stat.\n",
		currency.Format(h.engine.Settings().Cost()), h.engine.Settings().Percentage())

	for _, slot := range item.EquipSlots() {
		fmt.Fprintf(&b, "%-12s", item.SlotDisplayName(slot))
		inst, ok := h.items.InSlot(ownerID, slot)
		switch {
		case !ok:
			b.WriteString(" [no item]")
		case h.hasReforge(inst):
			b.WriteString(" [reforged]")
		case h.engine.IsReforgeable(ownerID, inst.ID):
			b.WriteString(" [reforgeable]")
		default:
			b.WriteString(" [not reforgeable]")
		}
		b.WriteString("\n")
	}
	b.WriteString("Use 'reforge <slot>' to inspect an item.")
	return b.String()
}

// renderSlotDetail shows the reforgeable stats on one equipped item with the
// moved-value preview, and the candidate attributes value can move to.
func (h *Handler) renderSlotDetail(ownerID int64, slot string) string {
	inst, ok := h.items.InSlot(ownerID, slot)
	if !ok {
		return "There is no item equipped in that slot."
	}
	if h.hasReforge(inst) {
		return "That item is already reforged. Use 'unreforge' first."
	}
	if !h.engine.IsReforgeable(ownerID, inst.ID) {
		return "That item cannot be reforged."
	}

	var b strings.Builder
	b.WriteString("Reforgeable stats:\n")
	for _, s := range h.engine.ReforgeableStats(inst.ID) {
		moved, remaining, err := h.engine.Preview(inst.ID, s.Attribute)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  %s: %d -> %d (moves %d)\n",
			s.Attribute.DisplayName(), s.Value, remaining, moved)
	}

	b.WriteString("Can move value to:")
	stats, err := h.engine.EffectiveStats(inst.ID)
	if err != nil {
		return "That item cannot be inspected."
	}
	for _, attr := range h.engine.Settings().Attributes() {
		if _, present := item.FindStat(stats, attr); present {
			continue
		}
		fmt.Fprintf(&b, "\n  %s", attr.DisplayName())
	}
	b.WriteString("\nUse 'reforge <slot> <from> <to>' to commit.")
	return b.String()
}

func (h *Handler) performReforge(ctx context.Context, ownerID int64, slot, from, to string) string {
	inst, ok := h.items.InSlot(ownerID, slot)
	if !ok {
		return "There is no item equipped in that slot."
	}

	decreased, err := item.ParseAttribute(from)
	if err != nil {
		return fmt.Sprintf("Unknown attribute %q.", from)
	}
	increased, err := item.ParseAttribute(to)
	if err != nil {
		return fmt.Sprintf("Unknown attribute %q.", to)
	}

	err = h.engine.Reforge(ctx, ownerID, inst.ID, decreased, increased)
	switch {
	case err == nil:
		rec, _ := h.engine.RecordFor(inst.ID)
		return fmt.Sprintf("Reforged: -%d %s, +%d %s.",
			rec.MovedValue, decreased.DisplayName(), rec.MovedValue, increased.DisplayName())
	case errors.Is(err, reforge.ErrInsufficientFunds):
		return "You do not have enough money to reforge."
	case errors.Is(err, reforge.ErrStatNotPresent):
		return "That item does not have that attribute."
	case errors.Is(err, reforge.ErrStatAlreadyPresent):
		return "That item already has that attribute."
	case errors.Is(err, reforge.ErrNotEligible):
		return "That item cannot be reforged."
	default:
		h.logger.Error("reforge failed",
			zap.Int64("owner_id", ownerID),
			zap.String("slot", slot),
			zap.Error(err),
		)
		return "Reforging failed. Please try again."
	}
}

func (h *Handler) handleUnreforge(ctx context.Context, ownerID int64, args []string) string {
	if !h.engine.Settings().Enabled() {
		return "Reforging is currently unavailable."
	}
	if len(args) != 1 {
		return "Usage: unreforge <slot>"
	}

	inst, ok := h.items.InSlot(ownerID, args[0])
	if !ok {
		return "There is no item equipped in that slot."
	}

	rec, reforged := h.engine.RecordFor(inst.ID)
	if !reforged {
		return "That item is not reforged."
	}

	err := h.engine.RemoveReforge(ctx, inst.ID)
	switch {
	case err == nil:
		return fmt.Sprintf("Reforge removed: %s restored, -%d %s.",
			rec.Decreased.DisplayName(), rec.MovedValue, rec.Increased.DisplayName())
	case errors.Is(err, reforge.ErrNotReforged):
		return "That item is not reforged."
	default:
		h.logger.Error("unreforge failed",
			zap.Int64("owner_id", ownerID),
			zap.String("slot", args[0]),
			zap.Error(err),
		)
		return "Removing the reforge failed. Please try again."
	}
}

func (h *Handler) handleAttributes() string {
	if !h.engine.Settings().Enabled() {
		return "Reforging is currently unavailable."
	}

	attrs := h.engine.Settings().Attributes()
	if len(attrs) == 0 {
		return "No attributes are currently reforgeable."
	}

	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a.DisplayName())
	}
	return fmt.Sprintf("Reforgeable attributes: %s.\nEach reforge costs %s and moves %.0f%% of the chosen stat.",
		strings.Join(names, ", "),
		currency.Format(h.engine.Settings().Cost()),
		h.engine.Settings().Percentage())
}

func (h *Handler) handleHelp() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, cmd := range h.registry.Commands() {
		fmt.Fprintf(&b, "  %-10s %s\n", cmd.Name, cmd.Help)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (h *Handler) hasReforge(inst *item.Instance) bool {
	_, ok := h.engine.RecordFor(inst.ID)
	return ok
}
