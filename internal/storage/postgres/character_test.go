package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfall/reforge/internal/game/character"
	"github.com/emberfall/reforge/internal/storage/postgres"
	"github.com/emberfall/reforge/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func createCharacter(t *testing.T, repo *postgres.CharacterRepository, currency int64) *character.Character {
	t.Helper()
	created, err := repo.Create(context.Background(), &character.Character{
		Name:     uniqueName("char"),
		Currency: currency,
	})
	require.NoError(t, err)
	return created
}

func TestCharacterRepository_Create(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t))
	ctx := context.Background()

	name := uniqueName("keth")
	created, err := repo.Create(ctx, &character.Character{Name: name, Currency: 5000})
	require.NoError(t, err)

	assert.Greater(t, created.ID, int64(0))
	assert.Equal(t, name, created.Name)
	assert.Equal(t, int64(5000), created.Currency)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCharacterRepository_CreateDuplicateName(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t))
	ctx := context.Background()

	name := uniqueName("dup")
	_, err := repo.Create(ctx, &character.Character{Name: name})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &character.Character{Name: name})
	assert.ErrorIs(t, err, postgres.ErrCharacterNameTaken)
}

func TestCharacterRepository_GetByIDAndName(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t))
	ctx := context.Background()

	created := createCharacter(t, repo, 100)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, byID.Name)

	byName, err := repo.GetByName(ctx, created.Name)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)

	_, err = repo.GetByName(ctx, "nobody")
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_Delete(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t))
	ctx := context.Background()

	created := createCharacter(t, repo, 0)
	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_BalanceAndDebit(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t))
	ctx := context.Background()

	created := createCharacter(t, repo, 5000)

	balance, err := repo.Balance(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)

	require.NoError(t, repo.Debit(ctx, created.ID, 1000))
	balance, err = repo.Balance(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), balance)
}

func TestCharacterRepository_DebitInsufficient(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t))
	ctx := context.Background()

	created := createCharacter(t, repo, 500)

	err := repo.Debit(ctx, created.ID, 1000)
	assert.ErrorIs(t, err, postgres.ErrInsufficientCurrency)

	balance, err := repo.Balance(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)
}

func TestCharacterRepository_DebitMissingCharacter(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t))
	err := repo.Debit(context.Background(), 999999, 100)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_Credit(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t))
	ctx := context.Background()

	created := createCharacter(t, repo, 100)
	require.NoError(t, repo.Credit(ctx, created.ID, 900))

	balance, err := repo.Balance(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	assert.ErrorIs(t, repo.Credit(ctx, 999999, 1), postgres.ErrCharacterNotFound)
}
