package meeting

import (
	"context"

	"github.com/google/uuid"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/export"
)

// Service defines the interface for the meeting use case
type Service interface {
	// CreateMeeting creates a new meeting from metadata
	CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error)

	// GetMeeting retrieves a meeting by ID
	GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error)

	// GetMeetingDetail retrieves a meeting with its transcript, summary
	// and action items
	GetMeetingDetail(ctx context.Context, meetingID uuid.UUID) (*Detail, error)

	// ListMeetings retrieves meetings with filters
	ListMeetings(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error)

	// UpdateMeeting applies a partial metadata update
	UpdateMeeting(ctx context.Context, meetingID uuid.UUID, input UpdateMeetingInput) (*entities.Meeting, error)

	// DeleteMeeting removes a meeting, its records and its stored files
	DeleteMeeting(ctx context.Context, meetingID uuid.UUID) error

	// UploadRecording stores an audio recording for the meeting and
	// optionally starts processing
	UploadRecording(ctx context.Context, meetingID uuid.UUID, input UploadRecordingInput) (*UploadResult, error)

	// IngestFile creates a meeting from an audio file on disk and
	// uploads it, titled from the filename
	IngestFile(ctx context.Context, path string) (*UploadResult, error)

	// Process starts (or returns the in-flight) processing pipeline run
	Process(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error)

	// Status reports the meeting status with its processing history
	Status(ctx context.Context, meetingID uuid.UUID) (*StatusResult, error)

	// Export renders the meeting in the requested format
	Export(ctx context.Context, meetingID uuid.UUID, format string) (*export.File, error)
}

// Ensure MeetingService implements Service interface
var _ Service = (*MeetingService)(nil)
