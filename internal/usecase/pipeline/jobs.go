package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/external/transcription"
	"github.com/tuandm-dev/meeting-scribe/internal/metrics"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/export"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/summarizer"
	"github.com/tuandm-dev/meeting-scribe/pkg/ai"
	"github.com/tuandm-dev/meeting-scribe/pkg/jobcontext"
)

const presignExpiry = time.Hour

// runTranscription resolves the recording audio, calls the provider
// and stores the transcript. Async providers with a webhook configured
// park the job instead of blocking the worker.
func (s *pipelineService) runTranscription(ctx context.Context, job *entities.ProcessingJob) error {
	meeting, err := s.meetingRepo.FindByID(ctx, job.MeetingID)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return fmt.Errorf("%w: meeting %s not found", errPermanent, job.MeetingID)
	}
	if !meeting.HasRecording() {
		return fmt.Errorf("%w: meeting has no uploaded recording", errPermanent)
	}

	req := transcription.Request{Language: s.cfg.Transcription.Language}

	if s.provider.Name() == transcription.ProviderAssemblyAI {
		// Hosted provider downloads the audio itself
		url, err := s.storage.GetFileURL(ctx, meeting.AudioObjectKey, presignExpiry)
		if err != nil {
			return fmt.Errorf("failed to presign recording URL: %w", err)
		}
		req.AudioURL = url
	} else {
		path, cleanup, err := s.downloadRecording(ctx, meeting.AudioObjectKey)
		if err != nil {
			return fmt.Errorf("failed to download recording: %w", err)
		}
		defer cleanup()
		req.FilePath = path
	}

	if async, ok := s.provider.(transcription.AsyncProvider); ok && s.cfg.Transcription.WebhookURL != "" {
		externalID, err := async.Submit(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to submit transcription: %w", err)
		}
		if err := s.jobRepo.MarkAwaiting(ctx, job.ID, externalID); err != nil {
			return fmt.Errorf("failed to park job: %w", err)
		}
		return errParked
	}

	// Only positively transient failures retry in-process; everything
	// else surfaces immediately and goes through the job-level retry
	var result *transcription.Result
	operation := func() error {
		var tErr error
		result, tErr = s.provider.Transcribe(ctx, req)
		if tErr != nil {
			if ai.IsPermanent(tErr) || !jobcontext.IsRetryableError(tErr) {
				return backoff.Permanent(tErr)
			}
			return tErr
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 2 * time.Second
	expo.MaxInterval = 10 * time.Second
	expo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(expo, ctx)); err != nil {
		metrics.RecordTranscription(s.provider.Name(), false, 0)
		return fmt.Errorf("transcription failed: %w", err)
	}

	return s.completeTranscription(ctx, job, result)
}

// downloadRecording copies the stored object into a temp file for
// providers that need a local path. cleanup removes the file.
func (s *pipelineService) downloadRecording(ctx context.Context, objectKey string) (string, func(), error) {
	object, err := s.storage.DownloadFile(ctx, objectKey)
	if err != nil {
		return "", nil, err
	}
	defer object.Close()

	tmp, err := os.CreateTemp("", "recording-*"+filepath.Ext(objectKey))
	if err != nil {
		return "", nil, err
	}
	path := tmp.Name()

	if _, err := io.Copy(tmp, object); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", nil, err
	}
	return path, func() { os.Remove(path) }, nil
}

// completeTranscription stores the transcript and chains the summary
// job. Shared by the synchronous, webhook and overdue-poll paths.
func (s *pipelineService) completeTranscription(ctx context.Context, job *entities.ProcessingJob, result *transcription.Result) error {
	transcript := entities.NewTranscript(job.MeetingID, result.Text)
	transcript.Language = result.Language
	transcript.DurationSeconds = result.Duration
	transcript.Provider = s.provider.Name()
	transcript.ModelUsed = result.ModelUsed
	transcript.ProcessingTime = result.ProcessingTime
	transcript.Segments = make([]entities.TranscriptSegment, len(result.Segments))
	for i, seg := range result.Segments {
		transcript.Segments[i] = entities.TranscriptSegment{
			ID:      seg.ID,
			Start:   seg.Start,
			End:     seg.End,
			Text:    seg.Text,
			Speaker: seg.Speaker,
		}
	}

	if err := s.transcriptRepo.Upsert(ctx, transcript); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}

	// Plain-text copy kept beside the recording
	textKey := fmt.Sprintf("transcripts/%s.txt", job.MeetingID)
	if err := s.storage.UploadText(ctx, textKey, result.Text); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to store transcript text copy",
			zap.String("meeting_id", job.MeetingID.String()),
			zap.String("object_key", textKey),
			zap.Error(err),
		)
	}

	if result.Duration > 0 {
		if meeting, err := s.meetingRepo.FindByID(ctx, job.MeetingID); err == nil && meeting != nil && meeting.DurationSeconds == 0 {
			meeting.DurationSeconds = result.Duration
			if err := s.meetingRepo.Update(ctx, meeting); err != nil && s.logger != nil {
				s.logger.Warn("⚠️ Failed to record meeting duration",
					zap.String("meeting_id", job.MeetingID.String()),
					zap.Error(err),
				)
			}
		}
	}

	metrics.RecordTranscription(s.provider.Name(), true, result.ProcessingTime)
	if s.logger != nil {
		s.logger.Info("📝 Transcript stored",
			zap.String("meeting_id", job.MeetingID.String()),
			zap.String("provider", s.provider.Name()),
			zap.String("language", result.Language),
			zap.Int("word_count", transcript.WordCount),
			zap.Float64("duration_seconds", result.Duration),
		)
	}

	// Chain the summary stage unless one is already queued
	active, err := s.jobRepo.FindActiveByMeeting(ctx, job.MeetingID, entities.JobTypeSummary)
	if err == nil && len(active) > 0 {
		return nil
	}

	summaryJob := entities.NewProcessingJob(job.MeetingID, entities.JobTypeSummary, s.cfg.Pipeline.MaxRetries)
	if err := s.jobRepo.Create(ctx, summaryJob); err != nil {
		return fmt.Errorf("failed to enqueue summary job: %w", err)
	}
	metrics.RecordJob(string(entities.JobTypeSummary), "enqueued")
	return nil
}

// runSummary loads the stored transcript, generates the summary, the
// action items and a title when needed, and marks the meeting ready.
// The summarizer itself never fails; permanent errors here are about
// missing inputs.
func (s *pipelineService) runSummary(ctx context.Context, job *entities.ProcessingJob) error {
	transcript, err := s.transcriptRepo.FindByMeetingID(ctx, job.MeetingID)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}
	if transcript == nil || transcript.FullText == "" {
		return fmt.Errorf("%w: no transcript stored for meeting", errPermanent)
	}

	meeting, err := s.meetingRepo.FindByID(ctx, job.MeetingID)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return fmt.Errorf("%w: meeting %s not found", errPermanent, job.MeetingID)
	}

	result := s.summarizer.GenerateSummary(ctx, transcript.FullText, meeting.Title, meeting.Notes)

	summary := entities.NewSummary(job.MeetingID)
	summary.SummaryText = result.Summary
	summary.KeyPoints = result.KeyPoints
	summary.Topics = result.Topics
	summary.Decisions = result.Decisions
	summary.Questions = result.Questions
	summary.ModelUsed = result.ModelUsed
	summary.ProcessingTime = result.ProcessingTime
	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}

	now := time.Now()
	items := make([]*entities.ActionItem, 0, len(result.ActionItems))
	for _, extracted := range result.ActionItems {
		if strings.TrimSpace(extracted.Task) == "" {
			continue
		}
		item := entities.NewActionItem(job.MeetingID, extracted.Task, extracted.Assignee, extracted.DueDate)
		item.DueDate = summarizer.ParseDueDate(extracted.DueDate, now)
		items = append(items, item)
	}
	if err := s.actionItemRepo.ReplaceForMeeting(ctx, job.MeetingID, items); err != nil {
		return fmt.Errorf("failed to store action items: %w", err)
	}

	if meeting.NeedsTitle() {
		if title := s.summarizer.GenerateTitle(ctx, transcript.FullText); title != entities.DefaultMeetingTitle {
			if err := s.meetingRepo.UpdateTitle(ctx, meeting.ID, title); err != nil && s.logger != nil {
				s.logger.Warn("⚠️ Failed to store generated title",
					zap.String("meeting_id", meeting.ID.String()),
					zap.Error(err),
				)
			} else {
				meeting.Title = title
			}
		}
	}

	if err := s.meetingRepo.UpdateStatus(ctx, job.MeetingID, entities.MeetingStatusReady); err != nil {
		return fmt.Errorf("failed to mark meeting ready: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🎉 Meeting processed",
			zap.String("meeting_id", job.MeetingID.String()),
			zap.Int("action_items", len(items)),
			zap.Int("key_points", len(result.KeyPoints)),
			zap.String("model", result.ModelUsed),
		)
	}

	if s.cfg.Export.AutoExport && s.exporter != nil {
		s.autoExport(ctx, meeting, transcript, summary, items)
	}
	return nil
}

// autoExport renders the configured export format and stores it next
// to the recording in the bucket. Best effort: failures are logged,
// never fail the job.
func (s *pipelineService) autoExport(ctx context.Context, meeting *entities.Meeting, transcript *entities.Transcript, summary *entities.Summary, items []*entities.ActionItem) {
	format, err := export.ParseFormat(s.cfg.Export.DefaultFormat)
	if err != nil {
		format = export.FormatMarkdown
	}

	file, err := s.exporter.Export(&export.Document{
		Meeting:     meeting,
		Transcript:  transcript,
		Summary:     summary,
		ActionItems: items,
	}, format)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Auto-export failed",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
		return
	}

	objectKey := fmt.Sprintf("exports/%s/%s", meeting.ID, file.Name)
	if err := s.storage.UploadFile(ctx, objectKey, bytes.NewReader(file.Data), int64(len(file.Data)), file.ContentType); err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to store export",
				zap.String("object_key", objectKey),
				zap.Error(err),
			)
		}
		return
	}

	if s.logger != nil {
		s.logger.Info("📦 Export stored",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("object_key", objectKey),
		)
	}
}
