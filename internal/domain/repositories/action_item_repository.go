package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
)

// ActionItemRepository defines persistence operations for action items
type ActionItemRepository interface {
	// ReplaceForMeeting deletes existing items for the meeting and inserts the new set
	ReplaceForMeeting(ctx context.Context, meetingID uuid.UUID, items []*entities.ActionItem) error

	// FindByID retrieves an action item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)

	// List retrieves action items with filters and pagination
	List(ctx context.Context, filters ActionItemFilters) ([]*entities.ActionItem, int64, error)

	// ListByMeetingID retrieves all action items for a meeting
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error)

	// UpdateStatus updates the status of an action item
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ActionItemStatus) error

	// Update updates an existing action item
	Update(ctx context.Context, item *entities.ActionItem) error
}

// ActionItemFilters represents filter options for listing action items
type ActionItemFilters struct {
	MeetingID *uuid.UUID
	Status    *entities.ActionItemStatus
	Assignee  string
	Limit     int
	Offset    int
}
