package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
)

// SummaryRepository defines persistence operations for meeting summaries
type SummaryRepository interface {
	// Upsert creates the summary or replaces the existing one for the meeting
	Upsert(ctx context.Context, summary *entities.Summary) error

	// FindByMeetingID retrieves the summary for a meeting
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error)

	// DeleteByMeetingID removes the summary for a meeting
	DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error
}
