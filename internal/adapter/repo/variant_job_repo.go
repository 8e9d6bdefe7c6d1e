package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/infra"
	"storefront/internal/sqlinline"
)

// VariantJobRepositoryPG implements domain.VariantJobRepository on media_variant_jobs.
type VariantJobRepositoryPG struct {
	db    infra.SQLExecutor
	newID func() string
}

// NewVariantJobRepository creates a new job repository backed by PostgreSQL.
func NewVariantJobRepository(db infra.SQLExecutor) *VariantJobRepositoryPG {
	return &VariantJobRepositoryPG{db: db, newID: uuid.NewString}
}

// EnsureSchema creates the job table when missing.
func (r *VariantJobRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, sqlinline.QEnsureVariantJobs); err != nil {
		return fmt.Errorf("ensure variant job schema: %w", err)
	}
	return nil
}

// Enqueue validates ref and inserts a QUEUED job.
func (r *VariantJobRepositoryPG) Enqueue(ctx context.Context, ref domain.MediaRef) (*domain.VariantJob, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	job := &domain.VariantJob{ID: r.newID(), Ref: ref, Status: domain.JobStatusQueued}
	row := r.db.QueryRow(ctx, sqlinline.QEnqueueVariantJob, job.ID, string(ref.Kind), ref.OwnerID, ref.Name)
	if err := row.Scan(&job.CreatedAt, &job.UpdatedAt); err != nil {
		return nil, fmt.Errorf("enqueue variant job: %w", err)
	}
	return job, nil
}

// Claim marks the oldest queued job RUNNING and returns it.
func (r *VariantJobRepositoryPG) Claim(ctx context.Context) (*domain.VariantJob, error) {
	row := r.db.QueryRow(ctx, sqlinline.QClaimVariantJob)
	var (
		job  domain.VariantJob
		kind string
	)
	if err := row.Scan(&job.ID, &kind, &job.Ref.OwnerID, &job.Ref.Name, &job.Attempts, &job.CreatedAt, &job.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNoJobAvailable
		}
		return nil, fmt.Errorf("claim variant job: %w", err)
	}
	job.Ref.Kind = domain.MediaKind(kind)
	job.Status = domain.JobStatusRunning
	return &job, nil
}

// Complete records the final status of a job.
func (r *VariantJobRepositoryPG) Complete(ctx context.Context, jobID string, status domain.JobStatus, errMsg string) error {
	tag, err := r.db.Exec(ctx, sqlinline.QCompleteVariantJob, jobID, string(status), errMsg)
	if err != nil {
		return fmt.Errorf("complete variant job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RequeueStale returns RUNNING jobs untouched for longer than olderThan to the queue.
func (r *VariantJobRepositoryPG) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx, sqlinline.QRequeueStaleVariantJobs, fmt.Sprintf("%d seconds", int64(olderThan.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("requeue stale variant jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ domain.VariantJobRepository = (*VariantJobRepositoryPG)(nil)
