package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/numberfinder/backend/internal/handler/gen"
)

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. malformed body, out-of-range total).
func requestBody(message string) gen.ErrorResponse {
	return gen.ErrorResponse{Error: gen.ErrorDetail{Code: "validation_error", Message: message}}
}

// conflictBody returns an ErrorResponse for a request that clashes with
// work already in progress.
func conflictBody(code, message string) gen.ErrorResponse {
	return gen.ErrorResponse{Error: gen.ErrorDetail{Code: code, Message: message}}
}

// writeError writes body as JSON with the given status.
func writeError(w http.ResponseWriter, status int, body gen.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestErrorHandler reports undecodable bodies and bad parameters in the
// same JSON shape as every other error.
func requestErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, gen.ErrorResponse{
		Error: gen.ErrorDetail{Code: "bad_request", Message: err.Error()},
	})
}

// responseErrorHandler logs unexpected handler errors and hides their text.
func (s *Server) responseErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "unhandled handler error", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, gen.ErrorResponse{
		Error: gen.ErrorDetail{Code: "internal_error", Message: "internal server error"},
	})
}
