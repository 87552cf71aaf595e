package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

// SQLiteDriver is the database/sql driver name registered by this package.
// It is mattn/go-sqlite3 with a casefold(text) SQL function added to every
// connection, because SQLite's own lower() and LIKE only fold ASCII.
const SQLiteDriver = "sqlite3_numberfinder"

func init() {
	sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", Casefold, true)
		},
	})
}

// Casefold returns the Unicode case-folded NFC form of s, the key used for
// case-insensitive name matching in SQLite.
// A cases.Caser is stateful, so a new one is built per call.
func Casefold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// applies connection settings. Pass ":memory:" for a throwaway database.
//
// The database is configured with:
//   - a single open connection (one writer; also keeps :memory: databases alive)
//   - WAL journal mode
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open(SQLiteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("repo.OpenSQLite: %s: %w", pragma, err)
		}
	}
	return sqlDB, nil
}

// sqliteContactRepo is the SQLite implementation of ContactRepo.
type sqliteContactRepo struct {
	db *sql.DB
}

// NewSQLiteContactRepo constructs a ContactRepo backed by a database opened
// with OpenSQLite. The contacts table must already exist (see migrations).
func NewSQLiteContactRepo(db *sql.DB) ContactRepo {
	return &sqliteContactRepo{db: db}
}

// Query uses instr instead of LIKE so the term needs no escaping.
func (r *sqliteContactRepo) Query(ctx context.Context, filter domain.ContactFilter, limit int) ([]domain.Contact, error) {
	const q = `
		SELECT id, name, phone, tag, created_at
		FROM contacts
		WHERE instr(casefold(name), casefold(?1)) > 0
		   OR instr(phone, ?1) > 0
		ORDER BY id
		LIMIT ?2`

	rows, err := r.db.QueryContext(ctx, q, filter.Term, domain.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("repo.SQLiteContactRepo.Query: %w", classifySQLite(domain.ErrQuery, err))
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanSQLiteContact(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SQLiteContactRepo.Query: scan: %w", classifySQLite(domain.ErrQuery, err))
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SQLiteContactRepo.Query: rows: %w", classifySQLite(domain.ErrQuery, err))
	}
	return contacts, nil
}

// InsertBatch writes the batch inside one transaction.
func (r *sqliteContactRepo) InsertBatch(ctx context.Context, contacts []domain.Contact) (err error) {
	if len(contacts) == 0 {
		return nil
	}
	for i, c := range contacts {
		if err := domain.ValidateContact(c); err != nil {
			return fmt.Errorf("repo.SQLiteContactRepo.InsertBatch: row %d: %w: %w", i, domain.ErrInsert, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repo.SQLiteContactRepo.InsertBatch: begin: %w", classifySQLite(domain.ErrConnection, err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO contacts (name, phone, tag) VALUES (?, ?, NULLIF(?, ''))`)
	if err != nil {
		return fmt.Errorf("repo.SQLiteContactRepo.InsertBatch: prepare: %w", classifySQLite(domain.ErrInsert, err))
	}
	defer stmt.Close()

	for _, c := range contacts {
		if _, err = stmt.ExecContext(ctx, c.Name, c.Phone, c.Tag); err != nil {
			return fmt.Errorf("repo.SQLiteContactRepo.InsertBatch: %w", classifySQLite(domain.ErrInsert, err))
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("repo.SQLiteContactRepo.InsertBatch: commit: %w", classifySQLite(domain.ErrInsert, err))
	}
	return nil
}

// scanSQLiteContact maps a single SQLite row into a domain.Contact.
// created_at is declared TIMESTAMP, so the driver hands back a time.Time.
func scanSQLiteContact(s scanner) (domain.Contact, error) {
	var (
		c         domain.Contact
		id        int64
		tag       sql.NullString
		createdAt time.Time
	)
	if err := s.Scan(&id, &c.Name, &c.Phone, &tag, &createdAt); err != nil {
		return domain.Contact{}, err
	}
	c.ID = &id
	c.CreatedAt = &createdAt
	if tag.Valid {
		c.Tag = tag.String
	}
	return c, nil
}
