package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/external/transcription"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
)

// WebhookPayload is the transcription completion callback body
type WebhookPayload struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
}

// HandleTranscriptionWebhook resumes a parked job once the provider
// calls back. The finished transcript is fetched through the SDK and
// the job continues identically to the polling path.
func (s *pipelineService) HandleTranscriptionWebhook(ctx context.Context, payload WebhookPayload) error {
	if payload.TranscriptID == "" {
		return usecaseErrors.ErrInvalidInput
	}

	job, err := s.jobRepo.FindByExternalJobID(ctx, payload.TranscriptID)
	if err != nil {
		return fmt.Errorf("failed to look up job: %w", err)
	}
	if job == nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Webhook for unknown transcript",
				zap.String("transcript_id", payload.TranscriptID),
			)
		}
		return usecaseErrors.ErrJobNotFound
	}

	if job.Status == entities.JobStatusCompleted || job.Status == entities.JobStatusFailed {
		// Redelivered callback; already settled
		if s.logger != nil {
			s.logger.Info("⏭️ Webhook for settled job ignored",
				zap.String("job_id", job.ID.String()),
				zap.String("status", string(job.Status)),
			)
		}
		return nil
	}

	async, ok := s.provider.(transcription.AsyncProvider)
	if !ok {
		return fmt.Errorf("provider %s cannot fetch webhook results", s.provider.Name())
	}

	if s.logger != nil {
		s.logger.Info("📬 Transcription webhook received",
			zap.String("job_id", job.ID.String()),
			zap.String("transcript_id", payload.TranscriptID),
			zap.String("status", payload.Status),
		)
	}

	s.jobSemaphore <- struct{}{}
	defer func() { <-s.jobSemaphore }()

	result, err := async.Fetch(ctx, payload.TranscriptID)
	if err != nil {
		if errors.Is(err, transcription.ErrNotReady) {
			// Callback arrived before the transcript finalized; the
			// overdue poll will pick it up
			if s.logger != nil {
				s.logger.Warn("⚠️ Webhook arrived before transcript was ready",
					zap.String("job_id", job.ID.String()),
				)
			}
			return nil
		}
		s.settle(ctx, job, fmt.Errorf("transcription failed: %w", err))
		return nil
	}

	s.settle(ctx, job, s.completeTranscription(ctx, job, result))
	return nil
}
