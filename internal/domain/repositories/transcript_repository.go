package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
)

// TranscriptRepository defines persistence operations for transcripts
type TranscriptRepository interface {
	// Upsert creates the transcript or replaces the existing one for the meeting
	Upsert(ctx context.Context, transcript *entities.Transcript) error

	// FindByMeetingID retrieves the transcript for a meeting
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)

	// DeleteByMeetingID removes the transcript for a meeting
	DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error
}
