package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfall/reforge/internal/game/item"
	"github.com/emberfall/reforge/internal/storage/postgres"
	"github.com/emberfall/reforge/internal/testutil"
)

func TestItemInstanceRepository_SaveAndGet(t *testing.T) {
	pool := testutil.NewPool(t)
	chars := postgres.NewCharacterRepository(pool)
	items := postgres.NewItemInstanceRepository(pool)
	ctx := context.Background()

	owner := createCharacter(t, chars, 0)
	inst := &item.Instance{
		ID:         uuid.New(),
		TemplateID: "warblade",
		OwnerID:    owner.ID,
		Slot:       item.SlotMainHand,
	}
	require.NoError(t, items.Save(ctx, inst))

	got, err := items.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, inst, got)

	_, err = items.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, postgres.ErrItemInstanceNotFound)
}

func TestItemInstanceRepository_SaveUpdatesSlot(t *testing.T) {
	pool := testutil.NewPool(t)
	chars := postgres.NewCharacterRepository(pool)
	items := postgres.NewItemInstanceRepository(pool)
	ctx := context.Background()

	owner := createCharacter(t, chars, 0)
	inst := &item.Instance{
		ID:         uuid.New(),
		TemplateID: "warblade",
		OwnerID:    owner.ID,
		Slot:       item.SlotMainHand,
	}
	require.NoError(t, items.Save(ctx, inst))

	inst.Slot = item.LocationBank
	require.NoError(t, items.Save(ctx, inst))

	got, err := items.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, item.LocationBank, got.Slot)
}

func TestItemInstanceRepository_ListByOwner(t *testing.T) {
	pool := testutil.NewPool(t)
	chars := postgres.NewCharacterRepository(pool)
	items := postgres.NewItemInstanceRepository(pool)
	ctx := context.Background()

	owner := createCharacter(t, chars, 0)
	other := createCharacter(t, chars, 0)

	for _, slot := range []string{item.SlotMainHand, item.SlotChest} {
		require.NoError(t, items.Save(ctx, &item.Instance{
			ID: uuid.New(), TemplateID: "warblade", OwnerID: owner.ID, Slot: slot,
		}))
	}
	require.NoError(t, items.Save(ctx, &item.Instance{
		ID: uuid.New(), TemplateID: "warblade", OwnerID: other.ID, Slot: item.SlotHead,
	}))

	mine, err := items.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := items.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestItemInstanceRepository_Delete(t *testing.T) {
	pool := testutil.NewPool(t)
	chars := postgres.NewCharacterRepository(pool)
	items := postgres.NewItemInstanceRepository(pool)
	ctx := context.Background()

	owner := createCharacter(t, chars, 0)
	inst := &item.Instance{
		ID:         uuid.New(),
		TemplateID: "warblade",
		OwnerID:    owner.ID,
		Slot:       item.SlotMainHand,
	}
	require.NoError(t, items.Save(ctx, inst))
	require.NoError(t, items.Delete(ctx, inst.ID))

	_, err := items.GetByID(ctx, inst.ID)
	assert.ErrorIs(t, err, postgres.ErrItemInstanceNotFound)
	assert.ErrorIs(t, items.Delete(ctx, inst.ID), postgres.ErrItemInstanceNotFound)
}

func TestItemInstanceRepository_CascadeOnCharacterDelete(t *testing.T) {
	pool := testutil.NewPool(t)
	chars := postgres.NewCharacterRepository(pool)
	items := postgres.NewItemInstanceRepository(pool)
	ctx := context.Background()

	owner := createCharacter(t, chars, 0)
	inst := &item.Instance{
		ID:         uuid.New(),
		TemplateID: "warblade",
		OwnerID:    owner.ID,
		Slot:       item.SlotMainHand,
	}
	require.NoError(t, items.Save(ctx, inst))
	require.NoError(t, chars.Delete(ctx, owner.ID))

	_, err := items.GetByID(ctx, inst.ID)
	assert.ErrorIs(t, err, postgres.ErrItemInstanceNotFound)
}
