// Package repo contains all table access logic for the Number Finder service.
// ContactRepo is the contract the services depend on; this package provides
// Postgres and SQLite implementations of it. No business logic lives here,
// only SQL, type mapping and error classification.
package repo

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContactRepo defines the two operations the services need from the remote
// contacts table. Every error returned wraps exactly one of
// domain.ErrConnection, domain.ErrQuery or domain.ErrInsert.
type ContactRepo interface {
	// Query returns at most limit contacts whose name contains filter.Term
	// (case-insensitive) or whose phone contains it, in id order.
	Query(ctx context.Context, filter domain.ContactFilter, limit int) ([]domain.Contact, error)

	// InsertBatch writes all contacts in a single statement. Either every row
	// is stored or none is. An empty batch is a no-op.
	InsertBatch(ctx context.Context, contacts []domain.Contact) error
}

// scanner is satisfied by pgx.Row, pgx.Rows and *sql.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// likeEscaper escapes LIKE metacharacters so a search term is matched literally.
// The backslash is declared as the escape character in every query that uses it.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching any value that contains term.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
