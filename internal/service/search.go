// Package service contains the business logic for the Number Finder service.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL or HTTP lives here: services depend on the repo.ContactRepo interface,
// not on any one backend.
package service

import (
	"context"
	"log/slog"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/repo"
)

// SearchService implements free-text contact search.
// Its primary responsibility is keeping "nothing matched" and "the search
// itself failed" apart, since both come back without rows.
type SearchService struct {
	contacts repo.ContactRepo
	log      *slog.Logger
}

// NewSearchService constructs a SearchService backed by the provided ContactRepo.
// A nil logger falls back to slog.Default().
func NewSearchService(contacts repo.ContactRepo, log *slog.Logger) *SearchService {
	if log == nil {
		log = slog.Default()
	}
	return &SearchService{contacts: contacts, log: log}
}

// Search matches query against contact names (case-insensitive) and phones.
// It never returns an error: failures are reported through
// domain.SearchFailed so callers can show a different message than for
// domain.SearchNotFound. Whitespace-only input short-circuits to
// domain.SearchEmptyQuery without touching the table.
// Contacts in the result is always non-nil.
func (s *SearchService) Search(ctx context.Context, query string) domain.SearchResult {
	filter, ok := domain.NewContactFilter(query)
	if !ok {
		return domain.SearchResult{Query: filter.Term, Status: domain.SearchEmptyQuery, Contacts: []domain.Contact{}}
	}

	contacts, err := s.contacts.Query(ctx, filter, domain.MaxSearchResults)
	if err != nil {
		s.log.WarnContext(ctx, "contact search failed", "query", filter.Term, "error", err)
		return domain.SearchResult{Query: filter.Term, Status: domain.SearchFailed, Contacts: []domain.Contact{}, Err: err}
	}

	if len(contacts) == 0 {
		return domain.SearchResult{Query: filter.Term, Status: domain.SearchNotFound, Contacts: []domain.Contact{}}
	}
	return domain.SearchResult{Query: filter.Term, Status: domain.SearchFound, Contacts: contacts}
}
