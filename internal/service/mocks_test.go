package service_test

import (
	"context"
	"sync"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/repo"
	"github.com/pkordes/numberfinder/backend/internal/service"
)

// mockContactRepo is a hand-written test double for repo.ContactRepo.
// Each method is a function field: set only the ones your test needs.
// Calls are counted so tests can assert how often the table was touched.
type mockContactRepo struct {
	query       func(ctx context.Context, filter domain.ContactFilter, limit int) ([]domain.Contact, error)
	insertBatch func(ctx context.Context, contacts []domain.Contact) error

	mu      sync.Mutex
	queries int
	batches [][]domain.Contact
}

func (m *mockContactRepo) Query(ctx context.Context, filter domain.ContactFilter, limit int) ([]domain.Contact, error) {
	m.mu.Lock()
	m.queries++
	m.mu.Unlock()
	return m.query(ctx, filter, limit)
}

func (m *mockContactRepo) InsertBatch(ctx context.Context, contacts []domain.Contact) error {
	m.mu.Lock()
	m.batches = append(m.batches, contacts)
	m.mu.Unlock()
	if m.insertBatch == nil {
		return nil
	}
	return m.insertBatch(ctx, contacts)
}

func (m *mockContactRepo) queryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries
}

func (m *mockContactRepo) insertCalls() [][]domain.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Contact(nil), m.batches...)
}

// compile-time check: mockContactRepo must satisfy repo.ContactRepo.
var _ repo.ContactRepo = (*mockContactRepo)(nil)

// mockGenerator is a test double for service.RecordGenerator.
type mockGenerator struct {
	generate func(count int) ([]domain.Contact, error)

	mu    sync.Mutex
	calls int
}

func (m *mockGenerator) Generate(count int) ([]domain.Contact, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.generate(count)
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ service.RecordGenerator = (*mockGenerator)(nil)

// ---- helpers ---------------------------------------------------------------

func contactsN(n int) []domain.Contact {
	out := make([]domain.Contact, n)
	for i := range out {
		out[i] = domain.Contact{Name: "Contact", Phone: "0500000000", Tag: "run"}
	}
	return out
}

func fixedGenerator() *mockGenerator {
	return &mockGenerator{generate: func(count int) ([]domain.Contact, error) {
		if count < 0 {
			return nil, domain.ErrValidation
		}
		return contactsN(count), nil
	}}
}
