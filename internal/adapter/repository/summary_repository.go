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

// summaryRepository implements the SummaryRepository interface
type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) repositories.SummaryRepository {
	return &summaryRepository{db: db}
}

// Upsert creates the summary or replaces the existing one for the meeting
func (r *summaryRepository) Upsert(ctx context.Context, summary *entities.Summary) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}

	keyPoints, err := json.Marshal(summary.KeyPoints)
	if err != nil {
		return err
	}
	topics, err := json.Marshal(summary.Topics)
	if err != nil {
		return err
	}
	decisions, err := json.Marshal(summary.Decisions)
	if err != nil {
		return err
	}
	questions, err := json.Marshal(summary.Questions)
	if err != nil {
		return err
	}

	q := `INSERT INTO summaries (id, meeting_id, summary_text, key_points, topics, decisions, questions, model_used, processing_time, created_at, updated_at)
        VALUES (?, ?, ?, ?::jsonb, ?::jsonb, ?::jsonb, ?::jsonb, ?, ?, ?, ?)
        ON CONFLICT (meeting_id) DO UPDATE SET summary_text = EXCLUDED.summary_text, key_points = EXCLUDED.key_points, topics = EXCLUDED.topics, decisions = EXCLUDED.decisions, questions = EXCLUDED.questions, model_used = EXCLUDED.model_used, processing_time = EXCLUDED.processing_time, updated_at = NOW()`

	now := time.Now()
	return r.db.WithContext(ctx).Exec(q,
		summary.ID, summary.MeetingID, summary.SummaryText,
		string(keyPoints), string(topics), string(decisions), string(questions),
		summary.ModelUsed, summary.ProcessingTime,
		now, now,
	).Error
}

// FindByMeetingID retrieves the summary for a meeting
func (r *summaryRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error) {
	var summary entities.Summary
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// DeleteByMeetingID removes the summary for a meeting
func (r *summaryRepository) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).Delete(&entities.Summary{}).Error
}
