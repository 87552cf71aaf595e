package handler

import (
	"context"

	"github.com/pkordes/numberfinder/backend/internal/handler/gen"
	"github.com/pkordes/numberfinder/backend/internal/session"
)

// GetSession handles GET /session.
func (s *Server) GetSession(ctx context.Context, _ gen.GetSessionRequestObject) (gen.GetSessionResponseObject, error) {
	st := s.session.State()
	return gen.GetSession200JSONResponse{
		Search:  summaryToResponse(st.Search),
		Results: contactsToResponse(st.Results),
		Upload:  uploadToResponse(st.Upload),
	}, nil
}

func summaryToResponse(s session.SearchSummary) gen.SearchSummary {
	out := gen.SearchSummary{
		Query:       s.Query,
		Status:      gen.SearchStatus(s.Status),
		ResultCount: s.ResultCount,
	}
	if s.Error != "" {
		msg := s.Error
		out.Error = &msg
	}
	return out
}
