// Package session holds the state a single operator console sees: the last
// applied search and the upload pipeline's progress. Changes are published
// to subscribers through a Broker.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/service"
)

// Searcher is the subset of service.SearchService the session needs.
type Searcher interface {
	Search(ctx context.Context, query string) domain.SearchResult
}

// Uploader is the subset of service.UploadPipeline the session needs.
type Uploader interface {
	Start(ctx context.Context, total int) (*service.UploadTask, error)
	Snapshot() domain.UploadProgress
}

// SearchSummary is the applied search as other subscribers see it.
type SearchSummary struct {
	Query       string              `json:"query"`
	Status      domain.SearchStatus `json:"status"`
	ResultCount int                 `json:"result_count"`
	Error       string              `json:"error,omitempty"`
}

// State is a point-in-time copy of the session.
type State struct {
	Search  SearchSummary         `json:"search"`
	Results []domain.Contact      `json:"results"`
	Upload  domain.UploadProgress `json:"upload"`
}

// SearchOutcome is what Session.Search returns to its caller.
// Stale is true when a newer search was issued before this one finished;
// a stale result is returned but never applied to the session state.
type SearchOutcome struct {
	domain.SearchResult
	Seq   uint64
	Stale bool
}

// Session coordinates search and upload for one console.
// Search and upload are independent: an upload in progress never blocks a search.
type Session struct {
	base     context.Context
	searcher Searcher
	uploader Uploader
	broker   *Broker
	log      *slog.Logger

	mu      sync.Mutex
	issued  uint64
	search  SearchSummary
	results []domain.Contact
}

// New returns a Session. base is the context background uploads run under;
// it should be cancelled only on shutdown.
func New(base context.Context, searcher Searcher, uploader Uploader, broker *Broker, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	if broker == nil {
		broker = NewBroker(0)
	}
	return &Session{
		base:     base,
		searcher: searcher,
		uploader: uploader,
		broker:   broker,
		log:      log,
		search:   SearchSummary{Status: domain.SearchEmptyQuery},
		results:  []domain.Contact{},
	}
}

// Search runs query and applies the result unless a newer search was issued
// in the meantime.
func (s *Session) Search(ctx context.Context, query string) SearchOutcome {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	res := s.searcher.Search(ctx, query)

	s.mu.Lock()
	if seq != s.issued {
		s.mu.Unlock()
		s.log.DebugContext(ctx, "discarding superseded search", "query", res.Query, "seq", seq)
		return SearchOutcome{SearchResult: res, Seq: seq, Stale: true}
	}
	summary := SearchSummary{
		Query:       res.Query,
		Status:      res.Status,
		ResultCount: len(res.Contacts),
	}
	if res.Err != nil {
		summary.Error = res.Err.Error()
	}
	s.search = summary
	s.results = res.Contacts
	s.mu.Unlock()

	s.broker.Publish(Event{Kind: EventSearch, Search: &summary})
	return SearchOutcome{SearchResult: res, Seq: seq}
}

// StartUpload starts a background upload of total records.
// It returns domain.ErrUploadInProgress when a run is already active.
func (s *Session) StartUpload(total int) (*service.UploadTask, error) {
	return s.uploader.Start(s.base, total)
}

// State returns a copy of the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	st := State{
		Search:  s.search,
		Results: append([]domain.Contact{}, s.results...),
	}
	s.mu.Unlock()
	st.Upload = s.uploader.Snapshot()
	return st
}

// Upload returns the pipeline's current progress.
func (s *Session) Upload() domain.UploadProgress {
	return s.uploader.Snapshot()
}

// Subscribe returns a channel of session change notifications.
func (s *Session) Subscribe() (<-chan Event, func()) {
	return s.broker.Subscribe()
}
