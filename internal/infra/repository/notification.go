package repository

import (
	"context"
	"time"

	"tourtable/internal/infra"
	"tourtable/internal/infra/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// NotificationJob is one row of the outbox.
type NotificationJob struct {
	ID        uuid.UUID
	Topic     string
	Recipient string
	Payload   []byte
	Attempts  int
}

// NotificationRepository is the transactional outbox store. Jobs are written
// inside the business transaction and picked up later by the dispatcher.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, dbtx db.DBTX, topic, recipient string, payload []byte, runAt time.Time) error {
	query, args, err := qb.Insert("notification_jobs").
		Columns("id", "topic", "recipient", "payload", "run_at").
		Values(uuid.New(), topic, recipient, payload, runAt).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build job insert", err)
	}
	if _, err := dbtx.Exec(ctx, query, args...); err != nil {
		return wrapPgErr("failed to create notification job", err)
	}
	return nil
}

// FetchDue claims up to limit pending jobs that are ready to run. The row
// lock with SKIP LOCKED keeps concurrent dispatchers off each other's jobs.
func (r *NotificationRepository) FetchDue(ctx context.Context, dbtx db.DBTX, now time.Time, limit int) ([]NotificationJob, error) {
	const query = `
		SELECT id, topic, recipient, payload, attempts
		FROM notification_jobs
		WHERE status = 'pending' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED`

	rows, err := dbtx.Query(ctx, query, now, limit)
	if err != nil {
		return nil, wrapPgErr("failed to fetch due jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var job NotificationJob
		if err := rows.Scan(&job.ID, &job.Topic, &job.Recipient, &job.Payload, &job.Attempts); err != nil {
			return nil, wrapPgErr("failed to scan notification job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr("failed to iterate notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID) error {
	query, args, err := qb.Update("notification_jobs").
		Set("status", "sent").
		Set("attempts", sq.Expr("attempts + 1")).
		Set("updated_at", sq.Expr("now()")).
		Where("id = ?", jobID).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build job update", err)
	}
	if _, err := dbtx.Exec(ctx, query, args...); err != nil {
		return wrapPgErr("failed to mark job sent", err)
	}
	return nil
}

// MarkFailed bumps the attempt counter and either reschedules the job or,
// past maxAttempts, parks it as failed.
func (r *NotificationRepository) MarkFailed(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID, sendErr error, retryAt time.Time, maxAttempts int) error {
	const query = `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
		    last_error = $2,
		    status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'pending' END,
		    run_at = $4,
		    updated_at = now()
		WHERE id = $1`

	if _, err := dbtx.Exec(ctx, query, jobID, sendErr.Error(), maxAttempts, retryAt); err != nil {
		return wrapPgErr("failed to mark job failed", err)
	}
	return nil
}
