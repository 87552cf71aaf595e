package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/repo"
)

// Upload pipeline defaults.
const (
	DefaultBatchSize    = 5
	DefaultBatchPause   = 300 * time.Millisecond
	DefaultHoldInterval = 2 * time.Second
)

// RecordGenerator produces the contacts for one upload run.
// generator.Generator satisfies it.
type RecordGenerator interface {
	Generate(count int) ([]domain.Contact, error)
}

// ProgressObserver receives every progress event, in order, on the goroutine
// that made the change. It must not block and must not call back into the
// pipeline's Upload or Start.
type ProgressObserver func(domain.UploadProgress)

// UploadOption configures an UploadPipeline.
type UploadOption func(*UploadPipeline)

// WithBatchSize sets the maximum number of records per InsertBatch call.
// Non-positive values keep the default.
func WithBatchSize(n int) UploadOption {
	return func(p *UploadPipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithBatchPause sets the pause between consecutive chunks.
func WithBatchPause(d time.Duration) UploadOption {
	return func(p *UploadPipeline) { p.pause = d }
}

// WithHoldInterval sets how long a finished run's counters stay visible
// before the pipeline returns to idle. Zero resets immediately.
func WithHoldInterval(d time.Duration) UploadOption {
	return func(p *UploadPipeline) { p.hold = d }
}

// WithProgressObserver registers fn to receive progress events.
func WithProgressObserver(fn ProgressObserver) UploadOption {
	return func(p *UploadPipeline) { p.observers = append(p.observers, fn) }
}

// WithUploadLogger sets the pipeline's logger.
func WithUploadLogger(log *slog.Logger) UploadOption {
	return func(p *UploadPipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) UploadOption {
	return func(p *UploadPipeline) { p.now = now }
}

// UploadPipeline generates a set of contacts and writes them to the table in
// fixed-size chunks, reporting progress after every chunk.
//
// A failed chunk is counted and skipped; the run carries on with the next one.
// Only one run may be active at a time: a second Upload or Start while a run
// is generating or uploading returns domain.ErrUploadInProgress and changes nothing.
type UploadPipeline struct {
	contacts  repo.ContactRepo
	gen       RecordGenerator
	log       *slog.Logger
	batchSize int
	pause     time.Duration
	hold      time.Duration
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
	observers []ProgressObserver

	// emitMu is held from a state change until its event is delivered, so
	// observers see changes in the order they happened. Taken before mu.
	emitMu sync.Mutex
	mu     sync.Mutex
	state domain.UploadProgress
	reset *time.Timer
}

// NewUploadPipeline constructs an idle UploadPipeline.
func NewUploadPipeline(contacts repo.ContactRepo, gen RecordGenerator, opts ...UploadOption) *UploadPipeline {
	p := &UploadPipeline{
		contacts:  contacts,
		gen:       gen,
		log:       slog.Default(),
		batchSize: DefaultBatchSize,
		pause:     DefaultBatchPause,
		hold:      DefaultHoldInterval,
		now:       time.Now,
		sleep:     sleepWithContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state = domain.UploadProgress{Phase: domain.PhaseIdle, At: p.now()}
	return p
}

// Snapshot returns the current pipeline state.
func (p *UploadPipeline) Snapshot() domain.UploadProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyProgress(p.state)
}

// Upload runs one upload of total records and blocks until it finishes.
// The returned error is non-nil only when the run could not start.
func (p *UploadPipeline) Upload(ctx context.Context, total int) (domain.UploadOutcome, error) {
	claimed, err := p.begin(total)
	if err != nil {
		return domain.UploadOutcome{}, err
	}
	return p.run(ctx, claimed.RunID, total), nil
}

// Start runs one upload of total records on a new goroutine.
// ctx governs the whole run, so it must outlive the caller's request.
func (p *UploadPipeline) Start(ctx context.Context, total int) (*UploadTask, error) {
	claimed, err := p.begin(total)
	if err != nil {
		return nil, err
	}
	task := NewUploadTask(claimed)
	go func() {
		outcome := p.run(ctx, claimed.RunID, total)
		task.finish(outcome)
	}()
	return task, nil
}

// begin claims the pipeline for a new run and returns the state it set.
func (p *UploadPipeline) begin(total int) (domain.UploadProgress, error) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	if p.state.Phase.Busy() {
		p.mu.Unlock()
		return domain.UploadProgress{}, fmt.Errorf("service.UploadPipeline.begin: %w", domain.ErrUploadInProgress)
	}
	if p.reset != nil {
		p.reset.Stop()
		p.reset = nil
	}
	runID := uuid.NewString()
	p.state = domain.UploadProgress{
		RunID: runID,
		Phase: domain.PhaseGenerating,
		Total: total,
		At:    p.now(),
	}
	ev := copyProgress(p.state)
	p.mu.Unlock()

	p.log.Info("upload started", "run_id", runID, "total", total, "batch_size", p.batchSize)
	p.emit(ev)
	return copyProgress(ev), nil
}

func (p *UploadPipeline) run(ctx context.Context, runID string, total int) (outcome domain.UploadOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = p.abort(runID, fmt.Sprintf("panic: %v", r))
		}
	}()

	records, err := p.gen.Generate(total)
	if err != nil {
		return p.abort(runID, err.Error())
	}

	p.update(func(s *domain.UploadProgress) {
		s.Phase = domain.PhaseUploading
		s.Total = len(records)
		s.Percent = domain.Percent(0, len(records))
	})

	chunks := chunk(records, p.batchSize)
	failed := 0
	for i, batch := range chunks {
		if err := ctx.Err(); err != nil {
			return p.abort(runID, err.Error())
		}
		if err := p.contacts.InsertBatch(ctx, batch); err != nil {
			failed++
			p.log.Warn("upload batch failed",
				"run_id", runID,
				"batch", i+1,
				"batches", len(chunks),
				"size", len(batch),
				"error", err,
			)
		}
		p.update(func(s *domain.UploadProgress) {
			s.Uploaded += len(batch)
			s.Percent = domain.Percent(s.Uploaded, s.Total)
			s.FailedBatches = failed
		})
		if i < len(chunks)-1 {
			if err := p.sleep(ctx, p.pause); err != nil {
				return p.abort(runID, err.Error())
			}
		}
	}

	outcome = domain.UploadOutcome{Kind: domain.OutcomeSucceeded}
	if failed > 0 {
		outcome = domain.UploadOutcome{Kind: domain.OutcomePartiallyFailed, FailedBatches: failed}
	}
	p.finish(runID, domain.PhaseCompleted, outcome)
	p.log.Info("upload completed", "run_id", runID, "total", len(records), "failed_batches", failed)
	return outcome
}

func (p *UploadPipeline) abort(runID, reason string) domain.UploadOutcome {
	outcome := domain.UploadOutcome{Kind: domain.OutcomeAborted, Reason: reason}
	p.finish(runID, domain.PhaseAborted, outcome)
	p.log.Error("upload aborted", "run_id", runID, "reason", reason)
	return outcome
}

// finish records the terminal phase and schedules the return to idle.
// Aborted runs keep their counters as they stood.
func (p *UploadPipeline) finish(runID string, phase domain.UploadPhase, outcome domain.UploadOutcome) {
	p.update(func(s *domain.UploadProgress) {
		s.Phase = phase
		s.Outcome = &outcome
		if phase == domain.PhaseCompleted {
			s.Uploaded = s.Total
			s.Percent = 100
		}
	})

	if p.hold <= 0 {
		p.resetIfCurrent(runID)
		return
	}
	p.mu.Lock()
	p.reset = time.AfterFunc(p.hold, func() { p.resetIfCurrent(runID) })
	p.mu.Unlock()
}

// resetIfCurrent returns the pipeline to idle unless a newer run has started.
func (p *UploadPipeline) resetIfCurrent(runID string) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	if p.state.RunID != runID || p.state.Phase.Busy() {
		p.mu.Unlock()
		return
	}
	p.state = domain.UploadProgress{Phase: domain.PhaseIdle, At: p.now()}
	p.reset = nil
	ev := copyProgress(p.state)
	p.mu.Unlock()

	p.emit(ev)
}

// update applies fn to the state under the lock and emits the result.
func (p *UploadPipeline) update(fn func(*domain.UploadProgress)) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	fn(&p.state)
	p.state.At = p.now()
	ev := copyProgress(p.state)
	p.mu.Unlock()

	p.emit(ev)
}

func (p *UploadPipeline) emit(ev domain.UploadProgress) {
	for _, fn := range p.observers {
		fn(ev)
	}
}

// UploadTask is a handle on a run started with UploadPipeline.Start.
type UploadTask struct {
	runID   string
	claimed domain.UploadProgress
	done    chan struct{}

	mu      sync.Mutex
	outcome domain.UploadOutcome
}

// NewUploadTask returns an unfinished task for the run that set claimed.
func NewUploadTask(claimed domain.UploadProgress) *UploadTask {
	return &UploadTask{runID: claimed.RunID, claimed: copyProgress(claimed), done: make(chan struct{})}
}

// RunID identifies the run in progress events.
func (t *UploadTask) RunID() string { return t.runID }

// Claimed returns the state the run set when it took the pipeline, before
// any later progress.
func (t *UploadTask) Claimed() domain.UploadProgress { return copyProgress(t.claimed) }

// Done is closed when the run has finished.
func (t *UploadTask) Done() <-chan struct{} { return t.done }

// Outcome returns the run's outcome. ok is false while the run is still going.
func (t *UploadTask) Outcome() (outcome domain.UploadOutcome, ok bool) {
	select {
	case <-t.done:
	default:
		return domain.UploadOutcome{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome, true
}

// Wait blocks until the run finishes or ctx is done.
func (t *UploadTask) Wait(ctx context.Context) (domain.UploadOutcome, error) {
	select {
	case <-t.done:
		o, _ := t.Outcome()
		return o, nil
	case <-ctx.Done():
		return domain.UploadOutcome{}, ctx.Err()
	}
}

func (t *UploadTask) finish(o domain.UploadOutcome) {
	t.mu.Lock()
	t.outcome = o
	t.mu.Unlock()
	close(t.done)
}

// chunk splits records into consecutive slices of at most size elements.
func chunk(records []domain.Contact, size int) [][]domain.Contact {
	var out [][]domain.Contact
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		out = append(out, records[start:end])
	}
	return out
}

// sleepWithContext waits for d or until ctx is done, whichever comes first.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func copyProgress(s domain.UploadProgress) domain.UploadProgress {
	if s.Outcome != nil {
		o := *s.Outcome
		s.Outcome = &o
	}
	return s
}
