package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/service"
)

func sampleContacts() []domain.Contact {
	return []domain.Contact{
		{Name: "Ahmad Mohammed", Phone: "0501234567"},
		{Name: "Ahmad Ali", Phone: "0507654321"},
	}
}

func TestSearchService_Search_Found(t *testing.T) {
	var gotFilter domain.ContactFilter
	var gotLimit int
	m := &mockContactRepo{query: func(_ context.Context, f domain.ContactFilter, limit int) ([]domain.Contact, error) {
		gotFilter, gotLimit = f, limit
		return sampleContacts(), nil
	}}
	svc := service.NewSearchService(m, nil)

	res := svc.Search(context.Background(), "  ahmad ")

	assert.Equal(t, domain.SearchFound, res.Status)
	assert.Equal(t, "ahmad", res.Query)
	assert.Equal(t, sampleContacts(), res.Contacts)
	assert.NoError(t, res.Err)
	assert.Equal(t, "ahmad", gotFilter.Term, "query must be trimmed before it reaches the table")
	assert.Equal(t, domain.MaxSearchResults, gotLimit)
}

func TestSearchService_Search_EmptyQuery_NoBackendCall(t *testing.T) {
	m := &mockContactRepo{query: func(context.Context, domain.ContactFilter, int) ([]domain.Contact, error) {
		t.Fatal("Query must not be called for a blank query")
		return nil, nil
	}}
	svc := service.NewSearchService(m, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		res := svc.Search(context.Background(), q)
		assert.Equal(t, domain.SearchEmptyQuery, res.Status, "query %q", q)
		assert.NotNil(t, res.Contacts)
		assert.Empty(t, res.Contacts)
	}
	assert.Zero(t, m.queryCalls())
}

func TestSearchService_Search_NotFound(t *testing.T) {
	m := &mockContactRepo{query: func(context.Context, domain.ContactFilter, int) ([]domain.Contact, error) {
		return []domain.Contact{}, nil
	}}
	svc := service.NewSearchService(m, nil)

	res := svc.Search(context.Background(), "zzz")

	assert.Equal(t, domain.SearchNotFound, res.Status)
	assert.NotNil(t, res.Contacts)
	assert.Empty(t, res.Contacts)
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, m.queryCalls())
}

func TestSearchService_Search_NilRowsIsNotFound(t *testing.T) {
	m := &mockContactRepo{query: func(context.Context, domain.ContactFilter, int) ([]domain.Contact, error) {
		return nil, nil
	}}
	svc := service.NewSearchService(m, nil)

	res := svc.Search(context.Background(), "zzz")

	assert.Equal(t, domain.SearchNotFound, res.Status)
	assert.NotNil(t, res.Contacts)
}

func TestSearchService_Search_FailureIsDistinctFromNotFound(t *testing.T) {
	cause := fmt.Errorf("%w: dial tcp: connection refused", domain.ErrConnection)
	m := &mockContactRepo{query: func(context.Context, domain.ContactFilter, int) ([]domain.Contact, error) {
		return nil, cause
	}}
	svc := service.NewSearchService(m, nil)

	res := svc.Search(context.Background(), "ahmad")

	assert.Equal(t, domain.SearchFailed, res.Status)
	assert.NotEqual(t, domain.SearchNotFound, res.Status)
	assert.NotNil(t, res.Contacts)
	assert.Empty(t, res.Contacts)
	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, domain.ErrConnection))
}

func TestSearchService_Search_Idempotent(t *testing.T) {
	m := &mockContactRepo{query: func(context.Context, domain.ContactFilter, int) ([]domain.Contact, error) {
		return sampleContacts(), nil
	}}
	svc := service.NewSearchService(m, nil)

	first := svc.Search(context.Background(), "ahmad")
	second := svc.Search(context.Background(), "ahmad")

	assert.Equal(t, first, second)
	assert.Equal(t, 2, m.queryCalls())
}
