// Package domain contains the core data types for the Number Finder service.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Contact is a single row of the remote contacts table.
// ID and CreatedAt are assigned by the store on insert and are nil until then.
// Tag groups every contact produced by one generator call.
// A contact is never updated after it has been written.
type Contact struct {
	ID        *int64     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Tag       string     `json:"tag,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ValidateContact enforces the fields every backend requires before an insert.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Phone must be non-empty.
func ValidateContact(c Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	return nil
}
