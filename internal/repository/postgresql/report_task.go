package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pupkingeorgij/proofbot/internal/db"
	"github.com/pupkingeorgij/proofbot/internal/repository"
	"github.com/pupkingeorgij/proofbot/internal/storage"
)

type ReportTaskRepo struct {
	db db.DB
}

func NewReportTaskRepo(db db.DB) storage.ReportTaskRepository {
	return &ReportTaskRepo{db: db}
}

func (r *ReportTaskRepo) Create(ctx context.Context, task *repository.ReportTask) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx, `
        INSERT INTO report_tasks (id, status, payload, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `, task.ID, repository.TaskStatusCreated, task.Payload, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert report task: %w", err)
	}
	return nil
}

func (r *ReportTaskRepo) GetProcessable(ctx context.Context, maxAttempts, limit int) ([]*repository.ReportTask, error) {
	var tasks []*repository.ReportTask
	err := r.db.Select(ctx, &tasks, `
        SELECT id, status, payload, attempts, last_error, created_at, updated_at, completed_at
        FROM report_tasks
        WHERE status = $1 OR (status = $2 AND attempts < $3)
        ORDER BY updated_at ASC
        LIMIT $4
    `, repository.TaskStatusCreated, repository.TaskStatusFailed, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get processable report tasks: %w", err)
	}
	return tasks, nil
}

func (r *ReportTaskRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `
        UPDATE report_tasks
        SET status = $2,
            attempts = $3,
            last_error = $4,
            completed_at = $5,
            updated_at = $6
        WHERE id = $1
    `, id, status, attempts, lastError, completedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update report task %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}
