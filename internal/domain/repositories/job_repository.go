package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
)

// JobRepository defines persistence operations for processing jobs
type JobRepository interface {
	// Create creates a new processing job
	Create(ctx context.Context, job *entities.ProcessingJob) error

	// FindByID retrieves a job by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ProcessingJob, error)

	// FindByExternalJobID retrieves a job by the provider-side job identifier
	FindByExternalJobID(ctx context.Context, externalJobID string) (*entities.ProcessingJob, error)

	// FindActiveByMeeting retrieves active jobs of a type for a meeting
	FindActiveByMeeting(ctx context.Context, meetingID uuid.UUID, jobType entities.JobType) ([]*entities.ProcessingJob, error)

	// FindByMeeting retrieves all jobs for a meeting, newest first
	FindByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ProcessingJob, error)

	// Claim atomically transitions a pending or retrying job to processing.
	// Returns false when another worker already claimed it.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkAwaiting parks a claimed job until an external callback arrives
	MarkAwaiting(ctx context.Context, id uuid.UUID, externalJobID string) error

	// MarkCompleted finalizes a job as completed
	MarkCompleted(ctx context.Context, id uuid.UUID) error

	// MarkFailed finalizes a job as failed with the terminal error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error

	// ScheduleRetry increments the retry count and re-queues the job
	ScheduleRetry(ctx context.Context, id uuid.UUID, lastError string) error

	// FindRunnable retrieves pending and retrying jobs ready to be claimed
	FindRunnable(ctx context.Context, limit int) ([]*entities.ProcessingJob, error)

	// SweepStale re-queues processing jobs whose worker disappeared
	SweepStale(ctx context.Context, olderThan time.Time) (int64, error)

	// FindStaleAwaiting retrieves awaiting jobs whose callback never arrived
	FindStaleAwaiting(ctx context.Context, olderThan time.Time) ([]*entities.ProcessingJob, error)

	// CountQueued counts jobs waiting for a worker
	CountQueued(ctx context.Context) (int64, error)
}
