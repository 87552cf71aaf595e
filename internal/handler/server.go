// Package handler implements the HTTP handlers for the Number Finder API.
// All handlers are methods on Server, which implements gen.StrictServerInterface.
// Methods are split into domain-specific files (health.go, contacts.go, etc.) but
// all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/service"
	"github.com/pkordes/numberfinder/backend/internal/session"
)

// Sessioner defines the console operations the handlers depend on.
// session.Session satisfies it; handler tests inject a mock.
type Sessioner interface {
	Search(ctx context.Context, query string) session.SearchOutcome
	StartUpload(total int) (*service.UploadTask, error)
	Upload() domain.UploadProgress
	State() session.State
	Subscribe() (<-chan session.Event, func())
}

// MaxUploadTotal bounds the total a client may request in one upload.
const MaxUploadTotal = 10000

// Server implements gen.StrictServerInterface for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	session     Sessioner
	uploadTotal int
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// uploadTotal is used when POST /uploads omits a total.
func NewServer(sess Sessioner, uploadTotal int, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{session: sess, uploadTotal: uploadTotal, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, 0, nil)
}
