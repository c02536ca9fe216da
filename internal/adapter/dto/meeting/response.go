package meeting

import (
	"time"

	"github.com/tuandm-dev/meeting-scribe/internal/adapter/dto/common"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
)

// MeetingResponse represents a meeting in responses
type MeetingResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	StartsAt        time.Time `json:"starts_at"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	Participants    []string  `json:"participants"`
	Tags            []string  `json:"tags"`
	Notes           string    `json:"notes,omitempty"`
	HasRecording    bool      `json:"has_recording"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TranscriptResponse represents a transcript in responses
type TranscriptResponse struct {
	ID              string                       `json:"id"`
	FullText        string                       `json:"full_text"`
	Segments        []entities.TranscriptSegment `json:"segments"`
	Language        string                       `json:"language,omitempty"`
	DurationSeconds float64                      `json:"duration_seconds,omitempty"`
	WordCount       int                          `json:"word_count"`
	Provider        string                       `json:"provider,omitempty"`
	ModelUsed       string                       `json:"model_used,omitempty"`
	ProcessingTime  float64                      `json:"processing_time,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
}

// SummaryResponse represents a stored summary in responses
type SummaryResponse struct {
	ID             string              `json:"id"`
	SummaryText    string              `json:"summary_text"`
	KeyPoints      []string            `json:"key_points"`
	Topics         []entities.Topic    `json:"topics"`
	Decisions      []string            `json:"decisions"`
	Questions      []entities.Question `json:"questions"`
	ModelUsed      string              `json:"model_used,omitempty"`
	ProcessingTime float64             `json:"processing_time,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ActionItemResponse represents an action item in responses
type ActionItemResponse struct {
	ID          string     `json:"id"`
	MeetingID   string     `json:"meeting_id"`
	Task        string     `json:"task"`
	Assignee    string     `json:"assignee"`
	Status      string     `json:"status"`
	DueDateText string     `json:"due_date_text"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// JobResponse represents a processing job in responses
type JobResponse struct {
	ID          string     `json:"id"`
	JobType     string     `json:"job_type"`
	Status      string     `json:"status"`
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `json:"max_retries"`
	LastError   *string    `json:"last_error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MeetingDetailResponse represents a meeting with everything processing
// produced for it
type MeetingDetailResponse struct {
	Meeting     *MeetingResponse      `json:"meeting"`
	Transcript  *TranscriptResponse   `json:"transcript,omitempty"`
	Summary     *SummaryResponse      `json:"summary,omitempty"`
	ActionItems []*ActionItemResponse `json:"action_items"`
}

// MeetingListResponse represents a paginated meeting list
type MeetingListResponse struct {
	Meetings   []*MeetingResponse         `json:"meetings"`
	Pagination *common.PaginationResponse `json:"pagination"`
}

// ActionItemListResponse represents a paginated action item list
type ActionItemListResponse struct {
	ActionItems []*ActionItemResponse      `json:"action_items"`
	Pagination  *common.PaginationResponse `json:"pagination"`
}

// UploadRecordingResponse represents the response after uploading a
// recording
type UploadRecordingResponse struct {
	Meeting *MeetingResponse `json:"meeting"`
	Job     *JobResponse     `json:"job,omitempty"`
}

// ProcessResponse represents the response after starting processing
type ProcessResponse struct {
	Job *JobResponse `json:"job"`
}

// StatusResponse represents the processing status of a meeting
type StatusResponse struct {
	MeetingID string         `json:"meeting_id"`
	Status    string         `json:"status"`
	Jobs      []*JobResponse `json:"jobs"`
}
