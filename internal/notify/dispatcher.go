package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tourtable/internal/infra/db"
	"tourtable/internal/infra/repository"
	"tourtable/internal/pkg/clock"
	"tourtable/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fetchBatchSize = 20

// JobStore is the outbox surface the dispatcher drains.
type JobStore interface {
	FetchDue(ctx context.Context, dbtx db.DBTX, now time.Time, limit int) ([]repository.NotificationJob, error)
	MarkSent(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID, sendErr error, retryAt time.Time, maxAttempts int) error
}

// Dispatcher polls the notification outbox and delivers pending jobs.
// Delivery failures are logged and retried; they never propagate into the
// request path that queued the job.
type Dispatcher struct {
	jobs   JobStore
	sender Sender
	pool   *pgxpool.Pool
	clock  clock.Clock
	cfg    config.SMTPConfig

	cancel context.CancelFunc
	done   chan struct{}
}

func NewDispatcher(jobs JobStore, sender Sender, pool *pgxpool.Pool, clk clock.Clock, cfg config.SMTPConfig) *Dispatcher {
	return &Dispatcher{
		jobs:   jobs,
		sender: sender,
		pool:   pool,
		clock:  clk,
		cfg:    cfg,
	}
}

func (d *Dispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.drainOnce(ctx)
			}
		}
	}()
}

func (d *Dispatcher) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
}

func (d *Dispatcher) drainOnce(ctx context.Context) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		slog.Warn("notification dispatch: begin failed", "error", err)
		return
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Warn("notification dispatch: rollback failed", "error", err)
		}
	}()

	jobs, err := d.jobs.FetchDue(ctx, tx, d.clock.Now(), fetchBatchSize)
	if err != nil {
		slog.Warn("notification dispatch: fetch failed", "error", err)
		return
	}

	d.deliver(ctx, tx, jobs)

	if err := tx.Commit(ctx); err != nil {
		slog.Warn("notification dispatch: commit failed", "error", err)
	}
}

// deliver attempts each job once and records the outcome. A failed job is
// rescheduled with a linear backoff keyed off its attempt count; once the
// store sees maxAttempts the job is parked as failed.
func (d *Dispatcher) deliver(ctx context.Context, dbtx db.DBTX, jobs []repository.NotificationJob) {
	now := d.clock.Now()
	for _, job := range jobs {
		if sendErr := d.sender.Send(job.Recipient, job.Topic, job.Payload); sendErr != nil {
			slog.Warn("notification dispatch: send failed",
				"job_id", job.ID, "topic", job.Topic, "attempts", job.Attempts+1, "error", sendErr)
			retryAt := now.Add(d.cfg.PollInterval * time.Duration(job.Attempts+1))
			if err := d.jobs.MarkFailed(ctx, dbtx, job.ID, sendErr, retryAt, d.cfg.MaxAttempts); err != nil {
				slog.Warn("notification dispatch: mark failed errored", "job_id", job.ID, "error", err)
			}
			continue
		}
		if err := d.jobs.MarkSent(ctx, dbtx, job.ID); err != nil {
			slog.Warn("notification dispatch: mark sent errored", "job_id", job.ID, "error", err)
		}
	}
}
