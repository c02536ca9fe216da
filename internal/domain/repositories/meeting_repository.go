package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// Update updates an existing meeting
	Update(ctx context.Context, meeting *entities.Meeting) error

	// Delete removes a meeting and its dependent records
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves meetings with filters and pagination
	List(ctx context.Context, filters MeetingFilters) ([]*entities.Meeting, int64, error)

	// UpdateStatus updates the meeting status
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error

	// UpdateTitle updates the meeting title
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error

	// SetRecording records the uploaded audio object key
	SetRecording(ctx context.Context, id uuid.UUID, objectKey string) error
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	Status    *entities.MeetingStatus
	Search    string // Search in title, notes
	Tags      []string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
	SortBy    string // "created_at", "starts_at", "title"
	SortOrder string // "asc", "desc"
}
