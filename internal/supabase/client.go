// Package supabase implements repo.ContactRepo against a Supabase project's
// PostgREST endpoint, the hosted table the mobile app reads and writes.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

// selectColumns is the projection every read asks for.
const selectColumns = "id,name,phone,tag,created_at"

// Config holds what the client needs to reach one table.
type Config struct {
	// URL is the project URL, e.g. https://xyzcompany.supabase.co. Must be http or https.
	URL string
	// APIKey is sent both as the apikey header and as a bearer token.
	APIKey string
	// Table defaults to "contacts".
	Table string
	// Timeout bounds each call. Zero means no client-side timeout.
	Timeout time.Duration
	// Transport overrides the default round tripper (tests use httptest's).
	Transport http.RoundTripper
}

// Client handles communication with the PostgREST API.
type Client struct {
	rest    *postgrest.Client
	table   string
	timeout time.Duration
}

// NewClient validates cfg and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	u, err := ValidateURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase: %w: api key is required", domain.ErrValidation)
	}
	table := cfg.Table
	if table == "" {
		table = "contacts"
	}

	next := cfg.Transport
	if next == nil {
		next = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	rest := postgrest.NewClient(u.JoinPath("rest", "v1").String(), "public", map[string]string{
		"apikey": cfg.APIKey,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("supabase: %w: %w", domain.ErrValidation, rest.ClientError)
	}
	rest.TokenAuth(cfg.APIKey)
	rest.Transport.Parent = &statusTransport{next: next}

	return &Client{rest: rest, table: table, timeout: cfg.Timeout}, nil
}

// ValidateURL parses raw and accepts only absolute http(s) URLs with a host.
func ValidateURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("supabase: %w: url is required", domain.ErrValidation)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("supabase: %w: url: %w", domain.ErrValidation, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("supabase: %w: url must be http(s) with a host, got %q", domain.ErrValidation, raw)
	}
	return u, nil
}

// HTTPError represents a non-2xx PostgREST response.
type HTTPError struct {
	StatusCode int
	// Code is the PostgREST or Postgres error code from the body, when present.
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("HTTP %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Query issues GET /rest/v1/<table> with an or=() filter over name and phone.
func (c *Client) Query(ctx context.Context, filter domain.ContactFilter, limit int) ([]domain.Contact, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	ctx, slot := withResponseSlot(ctx)

	pattern := likePattern(filter.Term)
	body, _, err := c.rest.From(c.table).
		Select(selectColumns, "", false).
		Or("name.ilike."+pattern+",phone.like."+pattern, "").
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		Limit(domain.ClampLimit(limit), "").
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("supabase.Client.Query: %w", classify(slot, err, domain.ErrQuery))
	}

	contacts := []domain.Contact{}
	if err := json.Unmarshal(body, &contacts); err != nil {
		return nil, fmt.Errorf("supabase.Client.Query: decode: %w: %w", domain.ErrQuery, err)
	}
	if needsRecheck(filter.Term) {
		contacts = keepLiteralMatches(contacts, filter.Term)
	}
	return contacts, nil
}

// insertRow is the write shape: store-assigned columns are omitted so the
// database fills them in.
type insertRow struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Tag   *string `json:"tag"`
}

// InsertBatch issues one POST with a JSON array body, which PostgREST runs as
// a single INSERT statement.
func (c *Client) InsertBatch(ctx context.Context, contacts []domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	rows := make([]insertRow, len(contacts))
	for i, ct := range contacts {
		if err := domain.ValidateContact(ct); err != nil {
			return fmt.Errorf("supabase.Client.InsertBatch: row %d: %w: %w", i, domain.ErrInsert, err)
		}
		rows[i] = insertRow{Name: ct.Name, Phone: ct.Phone}
		if ct.Tag != "" {
			tag := ct.Tag
			rows[i].Tag = &tag
		}
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	ctx, slot := withResponseSlot(ctx)

	_, _, err := c.rest.From(c.table).
		Insert(rows, false, "", "minimal", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return fmt.Errorf("supabase.Client.InsertBatch: %w", classify(slot, err, domain.ErrInsert))
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// classify maps a failed call to a domain error class. A recorded HTTP
// status decides it; without one the request never got an answer.
// Auth, throttling and server-side failures count as connection errors.
func classify(slot *responseSlot, err error, class error) error {
	httpErr := slot.get()
	if httpErr == nil {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	if isConnectionStatus(httpErr.StatusCode) {
		return fmt.Errorf("%w: %w", domain.ErrConnection, httpErr)
	}
	return fmt.Errorf("%w: %w", class, httpErr)
}

// isConnectionStatus reports whether a status describes reaching the table
// rather than the request itself.
func isConnectionStatus(status int) bool {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return true
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}

// newHTTPError extracts PostgREST's {code, message} body when it has one.
func newHTTPError(status int, body []byte) *HTTPError {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	e := &HTTPError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		e.Code, e.Message = payload.Code, payload.Message
	}
	return e
}

// AsHTTPError returns the HTTPError inside err, if any.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	ok := errors.As(err, &httpErr)
	return httpErr, ok
}
