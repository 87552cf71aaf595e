package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

// WithTimeout bounds every call on r to d. A call that runs out of time is
// reported as domain.ErrConnection. A non-positive d returns r unchanged.
func WithTimeout(r ContactRepo, d time.Duration) ContactRepo {
	if d <= 0 {
		return r
	}
	return &timeoutRepo{next: r, timeout: d}
}

type timeoutRepo struct {
	next    ContactRepo
	timeout time.Duration
}

func (r *timeoutRepo) Query(ctx context.Context, filter domain.ContactFilter, limit int) ([]domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	contacts, err := r.next.Query(ctx, filter, limit)
	if err != nil {
		return nil, timedOut(ctx, "repo.timeoutRepo.Query", err)
	}
	return contacts, nil
}

func (r *timeoutRepo) InsertBatch(ctx context.Context, contacts []domain.Contact) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.next.InsertBatch(ctx, contacts); err != nil {
		return timedOut(ctx, "repo.timeoutRepo.InsertBatch", err)
	}
	return nil
}

// timedOut reclassifies err as a connection failure when ctx hit its deadline.
func timedOut(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrConnection) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConnection, context.DeadlineExceeded)
	}
	return err
}
