package entities

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a processing job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"    // Waiting to be claimed by a worker
	JobStatusProcessing JobStatus = "processing" // Claimed, work in flight
	JobStatusAwaiting   JobStatus = "awaiting"   // Submitted to an external service, waiting for a callback
	JobStatusCompleted  JobStatus = "completed"  // Done
	JobStatusFailed     JobStatus = "failed"     // Failed, may be picked up by the retry sweep
	JobStatusRetrying   JobStatus = "retrying"   // Scheduled for another attempt
)

// JobType represents the kind of work a job carries
type JobType string

const (
	JobTypeTranscription JobType = "transcription" // Speech to text
	JobTypeSummary       JobType = "summary"       // LLM analysis of a stored transcript
)

// ProcessingJob is one unit of asynchronous work against a meeting
type ProcessingJob struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID     uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	JobType       JobType   `json:"job_type" gorm:"type:varchar(50);not null;index"`
	Status        JobStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	ExternalJobID *string   `json:"external_job_id,omitempty" gorm:"type:varchar(255);index"` // provider-side id (e.g. AssemblyAI transcript id)

	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ProcessingJob) TableName() string {
	return "processing_jobs"
}

// NewProcessingJob creates a pending job for a meeting
func NewProcessingJob(meetingID uuid.UUID, jobType JobType, maxRetries int) *ProcessingJob {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ProcessingJob{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		JobType:    jobType,
		Status:     JobStatusPending,
		RetryCount: 0,
		MaxRetries: maxRetries,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// IsRetryable checks if the job has attempts left
func (j *ProcessingJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// IsActive reports whether the job is still in flight
func (j *ProcessingJob) IsActive() bool {
	switch j.Status {
	case JobStatusPending, JobStatusProcessing, JobStatusAwaiting, JobStatusRetrying:
		return true
	}
	return false
}

// MarkAwaiting records the external submission id
func (j *ProcessingJob) MarkAwaiting(externalJobID string) {
	j.Status = JobStatusAwaiting
	j.ExternalJobID = &externalJobID
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkCompleted marks the job as done
func (j *ProcessingJob) MarkCompleted() {
	j.Status = JobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkFailed marks the job as failed with the error message
func (j *ProcessingJob) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// IncrementRetry counts the attempt and schedules another
func (j *ProcessingJob) IncrementRetry(errMsg string) {
	j.RetryCount++
	j.Status = JobStatusRetrying
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}
