package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/repo"
	"github.com/pkordes/numberfinder/backend/testutil"
)

// newTestRepo opens a transaction against the test database and returns a
// ContactRepo backed by that transaction. The transaction is automatically
// rolled back when the test finishes, giving free per-test isolation.
func newTestRepo(t *testing.T) repo.ContactRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewContactRepo(tx)
}

// contactsFixture returns the six contacts every backend test seeds.
func contactsFixture() []domain.Contact {
	return []domain.Contact{
		{Name: "Ahmad Mohammed", Phone: "0501234567", Tag: "seed"},
		{Name: "Sara Ali", Phone: "0559876543", Tag: "seed"},
		{Name: "Khaled Abdullah", Phone: "0543210987", Tag: "seed"},
		{Name: "Noura Saad", Phone: "0567890123", Tag: "seed"},
		{Name: "Faisal Omar", Phone: "0591112233", Tag: "seed"},
		{Name: "Reem AlQahtani", Phone: "0534445566"},
	}
}

func TestContactRepo_InsertBatch_AssignsIDs(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.InsertBatch(ctx, contactsFixture()))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "05"}, 20)

	require.NoError(t, err)
	require.Len(t, got, 6)
	for _, c := range got {
		require.NotNil(t, c.ID, "ID should be DB-generated")
		require.NotNil(t, c.CreatedAt)
	}
	assert.Equal(t, "Ahmad Mohammed", got[0].Name, "rows come back in id order")
	assert.Equal(t, "seed", got[0].Tag)
	assert.Empty(t, got[5].Tag, "NULL tag maps to empty string")
}

func TestContactRepo_InsertBatch_Empty(t *testing.T) {
	r := newTestRepo(t)

	err := r.InsertBatch(context.Background(), nil)

	require.NoError(t, err)
}

func TestContactRepo_InsertBatch_InvalidRowRejectsBatch(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	batch := contactsFixture()
	batch[2].Phone = ""

	err := r.InsertBatch(ctx, batch)

	assert.ErrorIs(t, err, domain.ErrInsert)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := r.Query(ctx, domain.ContactFilter{Term: "a"}, 20)
	require.NoError(t, err)
	assert.Empty(t, got, "nothing from a rejected batch may be stored")
}

func TestContactRepo_Query_NameCaseInsensitive(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, r.InsertBatch(ctx, contactsFixture()))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "ahmad"}, 20)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ahmad Mohammed", got[0].Name)
}

func TestContactRepo_Query_PhoneSubstring(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, r.InsertBatch(ctx, contactsFixture()))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "1112"}, 20)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Faisal Omar", got[0].Name)
}

func TestContactRepo_Query_WildcardsAreLiteral(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, r.InsertBatch(ctx, contactsFixture()))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "%"}, 20)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestContactRepo_Query_Limit(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, r.InsertBatch(ctx, contactsFixture()))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "05"}, 2)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestContactRepo_Query_ConnectionError(t *testing.T) {
	pool := testutil.NewPool(t)
	r := repo.NewContactRepo(pool)
	pool.Close()

	_, err := r.Query(context.Background(), domain.ContactFilter{Term: "a"}, 20)

	assert.ErrorIs(t, err, domain.ErrConnection)
	var pgErr *pgconn.PgError
	assert.False(t, errors.As(err, &pgErr))
}
