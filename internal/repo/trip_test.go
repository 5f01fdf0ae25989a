package repo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/repo"
	"github.com/mpreston/tripdesk/backend/testutil"
)

// testTx opens a transaction against the test database. The transaction is
// rolled back when the test finishes, giving free per-test isolation; every
// repo in a test shares the one transaction so inserts are visible across them.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies migrations.
func testTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test.
		_ = tx.Rollback(context.Background())
	})

	return tx
}

// createTestUser inserts a user row to satisfy the owner foreign key on trips.
// Each call uses a fresh random email so tests never collide.
func createTestUser(t *testing.T, tx pgx.Tx) domain.User {
	t.Helper()

	u, err := repo.NewUserRepo(tx).Create(context.Background(), domain.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "not-a-real-hash",
		DisplayName:  "Test User",
	})
	require.NoError(t, err, "create test user")
	return u
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture(userID uuid.UUID) domain.Trip {
	return domain.Trip{
		UserID:      userID,
		Title:       "Kyoto in Autumn",
		Destination: "Kyoto, Japan",
		StartDate:   time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC),
		Status:      domain.StatusPlanning,
		Description: "Temples and momiji",
	}
}

func TestTripRepo_Create(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := createTestUser(t, tx)
	r := repo.NewTripRepo(tx)

	input := tripFixture(owner.ID)
	input.Metadata = map[string]any{"budget": "medium"}

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated")
	assert.Equal(t, owner.ID, got.UserID)
	assert.Equal(t, input.Title, got.Title)
	assert.True(t, got.StartDate.Equal(input.StartDate), "StartDate mismatch")
	assert.True(t, got.EndDate.Equal(input.EndDate), "EndDate mismatch")
	assert.Equal(t, domain.StatusPlanning, got.Status)
	assert.False(t, got.IsPublic)
	assert.Equal(t, map[string]any{"budget": "medium"}, got.Metadata)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by DB")
}

func TestTripRepo_Create_NilMetadata(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := createTestUser(t, tx)
	r := repo.NewTripRepo(tx)

	input := tripFixture(owner.ID)
	input.Metadata = nil

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got.Metadata, "nil metadata should round-trip as an empty object")
}

func TestTripRepo_Create_InvertedDateRange(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := createTestUser(t, tx)
	r := repo.NewTripRepo(tx)

	input := tripFixture(owner.ID)
	input.StartDate, input.EndDate = input.EndDate, input.StartDate

	// The service validates first; the CHECK constraint is the backstop and
	// still classifies as a validation failure, not a store error.
	_, err := r.Create(ctx, input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripRepo_GetByID(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := createTestUser(t, tx)
	r := repo.NewTripRepo(tx)

	created, err := r.Create(ctx, tripFixture(owner.ID))
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	tx := testTx(t)

	_, err := repo.NewTripRepo(tx).GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ListVisible(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := createTestUser(t, tx)
	other := createTestUser(t, tx)
	r := repo.NewTripRepo(tx)

	mine := tripFixture(owner.ID)
	mine.Title = "Mine Private"

	theirsPublic := tripFixture(other.ID)
	theirsPublic.Title = "Theirs Public"
	theirsPublic.IsPublic = true
	theirsPublic.StartDate = mine.StartDate.AddDate(0, 1, 0)
	theirsPublic.EndDate = mine.EndDate.AddDate(0, 1, 0)

	theirsPrivate := tripFixture(other.ID)
	theirsPrivate.Title = "Theirs Private"

	for _, in := range []domain.Trip{mine, theirsPublic, theirsPrivate} {
		_, err := r.Create(ctx, in)
		require.NoError(t, err)
	}

	got, err := r.ListVisible(ctx, owner.ID, domain.PaginationParams{Page: 1, Limit: 10})

	require.NoError(t, err)
	require.Len(t, got, 2, "own trip plus the public one; their private trip stays hidden")
	// Most recent start date first.
	assert.Equal(t, "Theirs Public", got[0].Title)
	assert.Equal(t, "Mine Private", got[1].Title)

	total, err := r.CountVisible(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestTripRepo_ListVisible_Pagination(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := createTestUser(t, tx)
	r := repo.NewTripRepo(tx)

	base := tripFixture(owner.ID)
	for i := 0; i < 3; i++ {
		in := base
		in.Title = fmt.Sprintf("Trip %d", i+1)
		in.StartDate = base.StartDate.AddDate(0, 0, 30*i)
		in.EndDate = base.EndDate.AddDate(0, 0, 30*i)
		_, err := r.Create(ctx, in)
		require.NoError(t, err)
	}

	page1, err := r.ListVisible(ctx, owner.ID, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	page2, err := r.ListVisible(ctx, owner.ID, domain.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)

	require.Len(t, page1, 2)
	require.Len(t, page2, 1)
	assert.Equal(t, "Trip 3", page1[0].Title)
	assert.Equal(t, "Trip 2", page1[1].Title)
	assert.Equal(t, "Trip 1", page2[0].Title)
}

func TestTripRepo_Update(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := createTestUser(t, tx)
	r := repo.NewTripRepo(tx)

	created, err := r.Create(ctx, tripFixture(owner.ID))
	require.NoError(t, err)

	created.Title = "Kyoto and Nara"
	created.Status = domain.StatusActive
	created.IsPublic = true

	got, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Kyoto and Nara", got.Title)
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.True(t, got.IsPublic)
	assert.True(t, got.StartDate.Equal(created.StartDate), "date range is immutable")
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	tx := testTx(t)
	owner := createTestUser(t, tx)

	missing := tripFixture(owner.ID)
	missing.ID = uuid.New()

	_, err := repo.NewTripRepo(tx).Update(context.Background(), missing)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := createTestUser(t, tx)
	r := repo.NewTripRepo(tx)

	created, err := r.Create(ctx, tripFixture(owner.ID))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	tx := testTx(t)

	err := repo.NewTripRepo(tx).Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete_CascadesToDays(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := createTestUser(t, tx)
	trips := repo.NewTripRepo(tx)
	days := repo.NewDayRepo(tx)

	trip, err := trips.Create(ctx, tripFixture(owner.ID))
	require.NoError(t, err)

	err = days.CreateBatch(ctx, []domain.Day{
		{TripID: trip.ID, DayNumber: 1, Date: trip.StartDate, Title: "Day 1"},
	})
	require.NoError(t, err)

	require.NoError(t, trips.Delete(ctx, trip.ID))

	left, err := days.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, left, "days should be removed with their trip")
}
