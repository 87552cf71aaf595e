package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tmaxmax/go-sse"

	"github.com/pkordes/numberfinder/backend/internal/session"
)

// StreamUploadEvents handles GET /uploads/events as a server-sent event stream.
// The first event is the current upload state; after that every session
// change is forwarded until the client goes away.
// It is mounted directly on the router because the generated strict handler
// cannot stream.
func (s *Server) StreamUploadEvents(w http.ResponseWriter, r *http.Request) {
	// The server-wide write timeout would cut the stream.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sess, err := sse.Upgrade(w, r)
	if err != nil {
		s.log.WarnContext(r.Context(), "event stream upgrade failed", "error", err)
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, cancel := s.session.Subscribe()
	defer cancel()

	if err := sendEvent(sess, session.EventProgress, uploadToResponse(s.session.Upload())); err != nil {
		s.log.WarnContext(r.Context(), "event stream closed", "error", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, ok := eventPayload(ev)
			if !ok {
				continue
			}
			if err := sendEvent(sess, ev.Kind, payload); err != nil {
				s.log.DebugContext(r.Context(), "event stream closed", "error", err)
				return
			}
		}
	}
}

func eventPayload(ev session.Event) (any, bool) {
	switch {
	case ev.Kind == session.EventProgress && ev.Progress != nil:
		return uploadToResponse(*ev.Progress), true
	case ev.Kind == session.EventSearch && ev.Search != nil:
		return summaryToResponse(*ev.Search), true
	}
	return nil, false
}

// sendEvent writes one named event with a single JSON data line and flushes it.
func sendEvent(sess *sse.Session, kind session.EventKind, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("handler.sendEvent: %w", err)
	}
	msg := &sse.Message{Type: sse.Type(string(kind))}
	msg.AppendData(string(b))
	if err := sess.Send(msg); err != nil {
		return fmt.Errorf("handler.sendEvent: %w", err)
	}
	return sess.Flush()
}
