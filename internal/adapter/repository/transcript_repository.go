package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
)

// transcriptRepository implements the TranscriptRepository interface
type transcriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) repositories.TranscriptRepository {
	return &transcriptRepository{db: db}
}

// Upsert creates the transcript or replaces the existing one for the meeting
func (r *transcriptRepository) Upsert(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}

	segments, err := json.Marshal(transcript.Segments)
	if err != nil {
		return err
	}

	q := `INSERT INTO transcripts (id, meeting_id, full_text, segments, language, duration_seconds, word_count, provider, model_used, processing_time, created_at, updated_at)
        VALUES (?, ?, ?, ?::jsonb, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (meeting_id) DO UPDATE SET full_text = EXCLUDED.full_text, segments = EXCLUDED.segments, language = EXCLUDED.language, duration_seconds = EXCLUDED.duration_seconds, word_count = EXCLUDED.word_count, provider = EXCLUDED.provider, model_used = EXCLUDED.model_used, processing_time = EXCLUDED.processing_time, updated_at = NOW()`

	now := time.Now()
	return r.db.WithContext(ctx).Exec(q,
		transcript.ID, transcript.MeetingID, transcript.FullText, string(segments),
		transcript.Language, transcript.DurationSeconds, transcript.WordCount,
		transcript.Provider, transcript.ModelUsed, transcript.ProcessingTime,
		now, now,
	).Error
}

// FindByMeetingID retrieves the transcript for a meeting
func (r *transcriptRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transcript, nil
}

// DeleteByMeetingID removes the transcript for a meeting
func (r *transcriptRepository) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).Delete(&entities.Transcript{}).Error
}
