package handler

import (
	"context"
	"errors"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/handler/gen"
)

// SearchContacts handles GET /contacts/search.
// A blank or missing ?q= is not an error: it returns 200 with status
// empty_query. A failed query returns 503 so clients can tell it apart
// from not_found.
func (s *Server) SearchContacts(ctx context.Context, req gen.SearchContactsRequestObject) (gen.SearchContactsResponseObject, error) {
	out := s.session.Search(ctx, derefString(req.Params.Q))

	if out.Status == domain.SearchFailed {
		return gen.SearchContacts503JSONResponse(searchFailedBody(out.Err)), nil
	}

	data := contactsToResponse(out.Contacts)
	return gen.SearchContacts200JSONResponse{
		Status:      gen.SearchStatus(out.Status),
		Query:       out.Query,
		ResultCount: len(data),
		Data:        data,
	}, nil
}

// searchFailedBody picks a message for the failure class without leaking
// backend details to the client.
func searchFailedBody(err error) gen.ErrorResponse {
	msg := "search failed, please try again"
	switch {
	case errors.Is(err, domain.ErrConnection):
		msg = "contacts table is unreachable, check the connection and try again"
	case errors.Is(err, domain.ErrQuery):
		msg = "contacts table rejected the search"
	}
	return gen.ErrorResponse{Error: gen.ErrorDetail{Code: "search_failed", Message: msg}}
}

// contactToResponse converts a domain.Contact to the generated API response type.
func contactToResponse(c domain.Contact) gen.Contact {
	out := gen.Contact{
		Id:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
	if c.Tag != "" {
		tag := c.Tag
		out.Tag = &tag
	}
	return out
}

func contactsToResponse(contacts []domain.Contact) []gen.Contact {
	out := make([]gen.Contact, len(contacts))
	for i, c := range contacts {
		out[i] = contactToResponse(c)
	}
	return out
}

// derefString returns the value of s, or "" if s is nil.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
