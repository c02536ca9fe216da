package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
)

// jobRepository implements the JobRepository interface
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new processing job repository
func NewJobRepository(db *gorm.DB) repositories.JobRepository {
	return &jobRepository{db: db}
}

// Create creates a new processing job
func (r *jobRepository) Create(ctx context.Context, job *entities.ProcessingJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves a job by its ID
func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ProcessingJob, error) {
	var job entities.ProcessingJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindByExternalJobID retrieves a job by the provider-side job identifier
func (r *jobRepository) FindByExternalJobID(ctx context.Context, externalJobID string) (*entities.ProcessingJob, error) {
	var job entities.ProcessingJob
	if err := r.db.WithContext(ctx).Where("external_job_id = ?", externalJobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindActiveByMeeting retrieves active jobs of a type for a meeting
func (r *jobRepository) FindActiveByMeeting(ctx context.Context, meetingID uuid.UUID, jobType entities.JobType) ([]*entities.ProcessingJob, error) {
	var jobs []*entities.ProcessingJob
	activeStatuses := []entities.JobStatus{
		entities.JobStatusPending,
		entities.JobStatusProcessing,
		entities.JobStatusAwaiting,
		entities.JobStatusRetrying,
	}
	query := r.db.WithContext(ctx).
		Where("meeting_id = ? AND status IN ?", meetingID, activeStatuses)
	if jobType != "" {
		query = query.Where("job_type = ?", jobType)
	}
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindByMeeting retrieves all jobs for a meeting, newest first
func (r *jobRepository) FindByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ProcessingJob, error) {
	var jobs []*entities.ProcessingJob
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// Claim atomically transitions a pending or retrying job to processing.
// The status guard makes concurrent workers race on RowsAffected.
func (r *jobRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ? AND status IN ?", id, []entities.JobStatus{
			entities.JobStatusPending,
			entities.JobStatusRetrying,
		}).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusProcessing,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkAwaiting parks a claimed job until an external callback arrives
func (r *jobRepository) MarkAwaiting(ctx context.Context, id uuid.UUID, externalJobID string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          entities.JobStatusAwaiting,
			"external_job_id": externalJobID,
			"updated_at":      time.Now(),
		}).Error
}

// MarkCompleted finalizes a job as completed
func (r *jobRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.JobStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkFailed finalizes a job as failed with the terminal error
func (r *jobRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusFailed,
			"last_error": lastError,
			"updated_at": time.Now(),
		}).Error
}

// ScheduleRetry increments the retry count and re-queues the job
func (r *jobRepository) ScheduleRetry(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      entities.JobStatusRetrying,
			"last_error":  lastError,
			"updated_at":  time.Now(),
		}).Error
}

// FindRunnable retrieves pending and retrying jobs ready to be claimed
func (r *jobRepository) FindRunnable(ctx context.Context, limit int) ([]*entities.ProcessingJob, error) {
	var jobs []*entities.ProcessingJob
	if limit == 0 {
		limit = 10
	}
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND retry_count <= max_retries", []entities.JobStatus{
			entities.JobStatusPending,
			entities.JobStatusRetrying,
		}).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// SweepStale re-queues processing jobs whose worker disappeared
func (r *jobRepository) SweepStale(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("status = ? AND updated_at < ?", entities.JobStatusProcessing, olderThan).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusRetrying,
			"last_error": "worker timed out",
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// FindStaleAwaiting retrieves awaiting jobs whose callback never arrived
func (r *jobRepository) FindStaleAwaiting(ctx context.Context, olderThan time.Time) ([]*entities.ProcessingJob, error) {
	var jobs []*entities.ProcessingJob
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", entities.JobStatusAwaiting, olderThan).
		Order("updated_at ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// CountQueued counts jobs waiting for a worker
func (r *jobRepository) CountQueued(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("status IN ?", []entities.JobStatus{
			entities.JobStatusPending,
			entities.JobStatusRetrying,
		}).
		Count(&count).Error
	return count, err
}
