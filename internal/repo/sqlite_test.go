package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/repo"
	"github.com/pkordes/numberfinder/backend/testutil"
)

func newSQLiteRepo(t *testing.T) repo.ContactRepo {
	t.Helper()
	return repo.NewSQLiteContactRepo(testutil.NewSQLiteDB(t))
}

func TestSQLiteContactRepo_InsertBatch_AssignsIDs(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, r.InsertBatch(ctx, contactsFixture()))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "05"}, 20)

	require.NoError(t, err)
	require.Len(t, got, 6)
	for i, c := range got {
		require.NotNil(t, c.ID)
		require.NotNil(t, c.CreatedAt)
		assert.False(t, c.CreatedAt.IsZero())
		if i > 0 {
			assert.Greater(t, *c.ID, *got[i-1].ID, "rows come back in id order")
		}
	}
	assert.Equal(t, "seed", got[0].Tag)
	assert.Empty(t, got[5].Tag)
}

func TestSQLiteContactRepo_IDsNeverReused(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	r := repo.NewSQLiteContactRepo(db)
	ctx := context.Background()

	require.NoError(t, r.InsertBatch(ctx, contactsFixture()[:1]))
	first, err := r.Query(ctx, domain.ContactFilter{Term: "Ahmad"}, 20)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = db.ExecContext(ctx, `DELETE FROM contacts`)
	require.NoError(t, err)

	require.NoError(t, r.InsertBatch(ctx, contactsFixture()[:1]))
	second, err := r.Query(ctx, domain.ContactFilter{Term: "Ahmad"}, 20)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Greater(t, *second[0].ID, *first[0].ID)
}

func TestSQLiteContactRepo_InsertBatch_InvalidRowRejectsBatch(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	batch := contactsFixture()
	batch[4].Name = "  "

	err := r.InsertBatch(ctx, batch)

	assert.ErrorIs(t, err, domain.ErrInsert)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := r.Query(ctx, domain.ContactFilter{Term: "05"}, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteContactRepo_Query_NameCaseInsensitive(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	require.NoError(t, r.InsertBatch(ctx, contactsFixture()))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "ahmad"}, 20)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ahmad Mohammed", got[0].Name)
}

func TestSQLiteContactRepo_Query_UnicodeNames(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	require.NoError(t, r.InsertBatch(ctx, []domain.Contact{
		{Name: "أحمد محمد", Phone: "0501234567"},
		{Name: "ÉLODIE Dupont", Phone: "0550000000"},
	}))

	arabic, err := r.Query(ctx, domain.ContactFilter{Term: "محمد"}, 20)
	require.NoError(t, err)
	require.Len(t, arabic, 1)
	assert.Equal(t, "أحمد محمد", arabic[0].Name)

	accented, err := r.Query(ctx, domain.ContactFilter{Term: "élodie"}, 20)
	require.NoError(t, err)
	require.Len(t, accented, 1, "non-ASCII letters must fold too")
}

func TestSQLiteContactRepo_Query_PhoneSubstring(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	require.NoError(t, r.InsertBatch(ctx, contactsFixture()))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "1112"}, 20)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Faisal Omar", got[0].Name)
}

func TestSQLiteContactRepo_Query_WildcardsAreLiteral(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	require.NoError(t, r.InsertBatch(ctx, contactsFixture()))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "_"}, 20)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLiteContactRepo_Query_LimitCapped(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	batch := make([]domain.Contact, 0, 30)
	for i := 0; i < 30; i++ {
		batch = append(batch, domain.Contact{Name: "Sara Ali", Phone: "0559876543"})
	}
	require.NoError(t, r.InsertBatch(ctx, batch))

	got, err := r.Query(ctx, domain.ContactFilter{Term: "sara"}, 500)

	require.NoError(t, err)
	assert.Len(t, got, domain.MaxSearchResults)
}

func TestCasefold(t *testing.T) {
	assert.Equal(t, "ahmad", repo.Casefold("AHMAD"))
	assert.Equal(t, "strasse", repo.Casefold("STRASSE"))
	assert.Equal(t, repo.Casefold("Élodie"), repo.Casefold("éLODIE"))
}
