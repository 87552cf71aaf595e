package repo

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

// classifyPg wraps err with domain.ErrConnection when Postgres was never
// reached or refused the session, and with class (ErrQuery or ErrInsert)
// when the server rejected the statement itself.
func classifyPg(class error, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// Dial failures, TLS errors, broken pipes and context expiry never
		// carry a server error code.
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	if isConnectionSQLState(pgErr.SQLState()) {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	return fmt.Errorf("%w: %w", class, err)
}

// isConnectionSQLState reports whether a SQLSTATE describes the session
// rather than the statement.
func isConnectionSQLState(code string) bool {
	switch {
	case strings.HasPrefix(code, "08"), // connection_exception
		strings.HasPrefix(code, "28"), // invalid_authorization_specification
		strings.HasPrefix(code, "53"), // insufficient_resources
		strings.HasPrefix(code, "57P"): // admin_shutdown, cannot_connect_now
		return true
	default:
		return false
	}
}

// classifySQLite is the SQLite counterpart of classifyPg.
func classifySQLite(class error, err error) error {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked,
			sqlite3.ErrIoErr, sqlite3.ErrNotADB, sqlite3.ErrPerm:
			return fmt.Errorf("%w: %w", domain.ErrConnection, err)
		}
		return fmt.Errorf("%w: %w", class, err)
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	return fmt.Errorf("%w: %w", class, err)
}
