package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/handler"
	"github.com/pkordes/numberfinder/backend/internal/service"
	"github.com/pkordes/numberfinder/backend/internal/session"
)

// mockSessioner is a test double for handler.Sessioner.
// Set only the method fields your test needs.
type mockSessioner struct {
	search      func(ctx context.Context, query string) session.SearchOutcome
	startUpload func(total int) (*service.UploadTask, error)
	upload      func() domain.UploadProgress
	state       func() session.State
	subscribe   func() (<-chan session.Event, func())
}

func (m *mockSessioner) Search(ctx context.Context, query string) session.SearchOutcome {
	return m.search(ctx, query)
}
func (m *mockSessioner) StartUpload(total int) (*service.UploadTask, error) {
	return m.startUpload(total)
}
func (m *mockSessioner) Upload() domain.UploadProgress {
	return m.upload()
}
func (m *mockSessioner) State() session.State {
	return m.state()
}
func (m *mockSessioner) Subscribe() (<-chan session.Event, func()) {
	return m.subscribe()
}

// compile-time check: mockSessioner must satisfy handler.Sessioner.
var _ handler.Sessioner = (*mockSessioner)(nil)

// ---- helpers ---------------------------------------------------------------

const (
	defaultUploadTotal = 20
	fixtureRunID       = "6f1c2b9e-3d4a-4e5f-8a7b-9c0d1e2f3a4b"
)

var fixtureTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// newHTTPHandler wires a Server with the given mock into the full router.
// This mirrors exactly how the serve command wires it in production.
func newHTTPHandler(m handler.Sessioner) http.Handler {
	log := slog.New(slog.DiscardHandler)
	srv := handler.NewServer(m, defaultUploadTotal, log)
	return handler.NewRouter(srv, log, handler.RouterConfig{
		CORSOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes: 1 << 20,
	})
}

// newGolden returns a goldie instance reading testdata/<name>.golden.
// Run `go test ./internal/handler -update` to regenerate after an intended change.
func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
}

func contactFixture() domain.Contact {
	id := int64(1)
	created := fixtureTime
	return domain.Contact{
		ID:        &id,
		Name:      "Ahmad Mohammed",
		Phone:     "0501234567",
		Tag:       "batch-1",
		CreatedAt: &created,
	}
}

func idleProgress() domain.UploadProgress {
	return domain.UploadProgress{Phase: domain.PhaseIdle, At: fixtureTime}
}
