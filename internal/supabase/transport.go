package supabase

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
)

// postgrest-go reduces a failed response to its body text, so the status
// code is captured here, below the library, and handed back through the
// request context.

type responseSlotKey struct{}

// responseSlot receives the HTTPError of the one call whose context carries it.
type responseSlot struct {
	mu  sync.Mutex
	err *HTTPError
}

func withResponseSlot(ctx context.Context) (context.Context, *responseSlot) {
	slot := &responseSlot{}
	return context.WithValue(ctx, responseSlotKey{}, slot), slot
}

func (s *responseSlot) set(e *HTTPError) {
	s.mu.Lock()
	s.err = e
	s.mu.Unlock()
}

func (s *responseSlot) get() *HTTPError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// statusTransport records non-2xx responses into the request's slot and
// passes every response on unchanged.
type statusTransport struct {
	next http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || (resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return resp, err
	}
	slot, ok := req.Context().Value(responseSlotKey{}).(*responseSlot)
	if !ok {
		return resp, nil
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	slot.set(newHTTPError(resp.StatusCode, body))
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
