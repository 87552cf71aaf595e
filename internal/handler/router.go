package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/numberfinder/backend/internal/handler/gen"
	"github.com/pkordes/numberfinder/backend/internal/middleware"
	"github.com/pkordes/numberfinder/backend/spec"
)

// RouterConfig holds the HTTP-level settings for NewRouter.
type RouterConfig struct {
	CORSOrigins  []string
	MaxBodyBytes int64
}

// NewRouter builds the complete HTTP handler: middleware stack, generated
// API routes, the event stream, and the OpenAPI document.
//
// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → MaxBodySize.
func NewRouter(s *Server, log *slog.Logger, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	}

	r.Get("/openapi.yaml", serveOpenAPI)
	r.Get("/uploads/events", s.StreamUploadEvents)

	strict := gen.NewStrictHandlerWithOptions(s, nil, gen.StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  requestErrorHandler,
		ResponseErrorHandlerFunc: s.responseErrorHandler,
	})
	gen.HandlerWithOptions(strict, gen.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: requestErrorHandler,
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
