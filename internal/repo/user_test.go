package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/repo"
)

func TestUserRepo_Create(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	r := repo.NewUserRepo(tx)

	got, err := r.Create(ctx, domain.User{
		Email:        "  Ana@Example.COM ",
		PasswordHash: "hash",
		DisplayName:  "Ana",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "ana@example.com", got.Email, "email normalized on write")
	assert.Equal(t, "Ana", got.DisplayName)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	r := repo.NewUserRepo(tx)

	u := domain.User{Email: "dup@example.com", PasswordHash: "hash"}
	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	_, err = r.Create(ctx, u)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	r := repo.NewUserRepo(tx)

	created, err := r.Create(ctx, domain.User{Email: "ana@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	// Lookup is case-insensitive through normalization.
	got, err := r.GetByEmail(ctx, "ANA@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	tx := testTx(t)

	_, err := repo.NewUserRepo(tx).GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	tx := testTx(t)

	_, err := repo.NewUserRepo(tx).GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
