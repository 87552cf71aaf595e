package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

// pgContactRepo is the Postgres implementation of ContactRepo.
type pgContactRepo struct {
	db db
}

// NewContactRepo constructs a ContactRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewContactRepo(db db) ContactRepo {
	return &pgContactRepo{db: db}
}

// Query matches name with ILIKE and phone with LIKE; both patterns escape
// user-supplied wildcards.
func (r *pgContactRepo) Query(ctx context.Context, filter domain.ContactFilter, limit int) ([]domain.Contact, error) {
	const q = `
		SELECT id, name, phone, tag, created_at
		FROM contacts
		WHERE name ILIKE @pattern ESCAPE '\'
		   OR phone LIKE @pattern ESCAPE '\'
		ORDER BY id
		LIMIT @limit`

	args := pgx.NamedArgs{
		"pattern": containsPattern(filter.Term),
		"limit":   domain.ClampLimit(limit),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ContactRepo.Query: %w", classifyPg(domain.ErrQuery, err))
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanPgContact(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ContactRepo.Query: scan: %w", classifyPg(domain.ErrQuery, err))
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ContactRepo.Query: rows: %w", classifyPg(domain.ErrQuery, err))
	}
	return contacts, nil
}

// InsertBatch sends the whole batch as parallel arrays and lets unnest expand
// them into rows, so the batch is one statement and therefore atomic.
// Empty tags are stored as NULL.
func (r *pgContactRepo) InsertBatch(ctx context.Context, contacts []domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	const q = `
		INSERT INTO contacts (name, phone, tag)
		SELECT b.name, b.phone, NULLIF(b.tag, '')
		FROM unnest(@names::text[], @phones::text[], @tags::text[]) AS b(name, phone, tag)`

	names := make([]string, len(contacts))
	phones := make([]string, len(contacts))
	tags := make([]string, len(contacts))
	for i, c := range contacts {
		if err := domain.ValidateContact(c); err != nil {
			return fmt.Errorf("repo.ContactRepo.InsertBatch: row %d: %w: %w", i, domain.ErrInsert, err)
		}
		names[i], phones[i], tags[i] = c.Name, c.Phone, c.Tag
	}

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"names": names, "phones": phones, "tags": tags})
	if err != nil {
		return fmt.Errorf("repo.ContactRepo.InsertBatch: %w", classifyPg(domain.ErrInsert, err))
	}
	return nil
}

// scanPgContact maps a single database row into a domain.Contact.
// It handles the nullable tag column.
func scanPgContact(s scanner) (domain.Contact, error) {
	var (
		c         domain.Contact
		id        int64
		tag       pgtype.Text
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
