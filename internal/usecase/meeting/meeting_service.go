package meeting

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/export"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/pipeline"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

// MaxRecordingBytes caps uploaded recording size (500 MiB)
const MaxRecordingBytes = 500 << 20

// audioContentTypes maps supported recording extensions to the
// content type stored with the object
var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
}

// IsSupportedAudio reports whether the filename carries a supported
// recording extension
func IsSupportedAudio(filename string) bool {
	_, ok := audioContentTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ContentTypeForAudio returns the content type for a supported
// recording filename, empty for unsupported ones
func ContentTypeForAudio(filename string) string {
	return audioContentTypes[strings.ToLower(filepath.Ext(filename))]
}

// Storage is the slice of the object store the meeting service needs
type Storage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	DeleteFile(ctx context.Context, objectName string) error
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}

// MeetingService handles meeting business logic
type MeetingService struct {
	meetingRepo    repositories.MeetingRepository
	transcriptRepo repositories.TranscriptRepository
	summaryRepo    repositories.SummaryRepository
	actionItemRepo repositories.ActionItemRepository
	storage        Storage
	processor      pipeline.Service
	exporter       *export.Exporter
	cfg            *config.Config
	logger         *zap.Logger
}

// NewMeetingService creates a new meeting service
func NewMeetingService(
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	summaryRepo repositories.SummaryRepository,
	actionItemRepo repositories.ActionItemRepository,
	storage Storage,
	processor pipeline.Service,
	exporter *export.Exporter,
	cfg *config.Config,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		summaryRepo:    summaryRepo,
		actionItemRepo: actionItemRepo,
		storage:        storage,
		processor:      processor,
		exporter:       exporter,
		cfg:            cfg,
		logger:         logger,
	}
}

// CreateMeetingInput represents input for creating a meeting
type CreateMeetingInput struct {
	Title           string
	StartsAt        time.Time
	DurationSeconds float64
	Participants    []string
	Tags            []string
	Notes           string
}

// CreateMeeting creates a new meeting
func (s *MeetingService) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error) {
	meeting := entities.NewMeeting(input.Title, input.StartsAt)
	meeting.DurationSeconds = input.DurationSeconds
	meeting.Notes = input.Notes

	if len(input.Participants) > 0 {
		data, err := encodeStringList(input.Participants)
		if err != nil {
			return nil, fmt.Errorf("failed to encode participants: %w", err)
		}
		meeting.Participants = data
	}
	if len(input.Tags) > 0 {
		data, err := encodeStringList(input.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		meeting.Tags = data
	}

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	return meeting, nil
}

// GetMeeting retrieves a meeting by ID
func (s *MeetingService) GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	if meeting == nil {
		return nil, usecaseErrors.ErrMeetingNotFound
	}
	return meeting, nil
}

// Detail is a meeting with everything processing produced for it
type Detail struct {
	Meeting     *entities.Meeting
	Transcript  *entities.Transcript
	Summary     *entities.Summary
	ActionItems []*entities.ActionItem
}

// GetMeetingDetail retrieves a meeting with its transcript, summary
// and action items fetched concurrently
func (s *MeetingService) GetMeetingDetail(ctx context.Context, meetingID uuid.UUID) (*Detail, error) {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Meeting: meeting}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		transcript, err := s.transcriptRepo.FindByMeetingID(gctx, meetingID)
		if err != nil {
			return fmt.Errorf("failed to get transcript: %w", err)
		}
		detail.Transcript = transcript
		return nil
	})
	g.Go(func() error {
		summary, err := s.summaryRepo.FindByMeetingID(gctx, meetingID)
		if err != nil {
			return fmt.Errorf("failed to get summary: %w", err)
		}
		detail.Summary = summary
		return nil
	})
	g.Go(func() error {
		items, err := s.actionItemRepo.ListByMeetingID(gctx, meetingID)
		if err != nil {
			return fmt.Errorf("failed to get action items: %w", err)
		}
		detail.ActionItems = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListMeetings retrieves meetings with filters
func (s *MeetingService) ListMeetings(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	filters.SortBy = normalizeSortBy(filters.SortBy)
	filters.SortOrder = normalizeSortOrder(filters.SortOrder)

	meetings, total, err := s.meetingRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, total, nil
}

// UpdateMeetingInput represents a partial meeting update. Nil fields
// are left untouched.
type UpdateMeetingInput struct {
	Title           *string
	StartsAt        *time.Time
	DurationSeconds *float64
	Participants    *[]string
	Tags            *[]string
	Notes           *string
}

// UpdateMeeting applies a partial metadata update
func (s *MeetingService) UpdateMeeting(ctx context.Context, meetingID uuid.UUID, input UpdateMeetingInput) (*entities.Meeting, error) {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, usecaseErrors.ErrInvalidInput
		}
		meeting.Title = strings.TrimSpace(*input.Title)
	}
	if input.StartsAt != nil {
		meeting.StartsAt = *input.StartsAt
	}
	if input.DurationSeconds != nil {
		meeting.DurationSeconds = *input.DurationSeconds
	}
	if input.Notes != nil {
		meeting.Notes = *input.Notes
	}
	if input.Participants != nil {
		data, err := encodeStringList(*input.Participants)
		if err != nil {
			return nil, fmt.Errorf("failed to encode participants: %w", err)
		}
		meeting.Participants = data
	}
	if input.Tags != nil {
		data, err := encodeStringList(*input.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		meeting.Tags = data
	}
	meeting.UpdatedAt = time.Now()

	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return meeting, nil
}

// DeleteMeeting removes a meeting, its database records and its stored
// files. Storage cleanup is best effort.
func (s *MeetingService) DeleteMeeting(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return err
	}

	if err := s.meetingRepo.Delete(ctx, meetingID); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}

	if s.storage != nil {
		if meeting.HasRecording() {
			if err := s.storage.DeleteFile(ctx, meeting.AudioObjectKey); err != nil && s.logger != nil {
				s.logger.Warn("⚠️ Failed to delete stored recording",
					zap.String("object_key", meeting.AudioObjectKey),
					zap.Error(err),
				)
			}
		}
		exportPrefix := fmt.Sprintf("exports/%s/", meetingID)
		if files, err := s.storage.ListFiles(ctx, exportPrefix); err == nil {
			for _, name := range files {
				if err := s.storage.DeleteFile(ctx, name); err != nil && s.logger != nil {
					s.logger.Warn("⚠️ Failed to delete stored export",
						zap.String("object_key", name),
						zap.Error(err),
					)
				}
			}
		}
		textKey := fmt.Sprintf("transcripts/%s.txt", meetingID)
		if err := s.storage.DeleteFile(ctx, textKey); err != nil && s.logger != nil {
			s.logger.Debug("transcript text copy not removed",
				zap.String("object_key", textKey),
				zap.Error(err),
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("🗑️ Meeting deleted",
			zap.String("meeting_id", meetingID.String()),
			zap.String("title", meeting.Title),
		)
	}
	return nil
}

// UploadRecordingInput carries an uploaded audio file
type UploadRecordingInput struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadResult is the outcome of a recording upload. Job is non-nil
// when processing was auto-started.
type UploadResult struct {
	Meeting *entities.Meeting
	Job     *entities.ProcessingJob
}

// UploadRecording stores an audio recording in the object store and
// optionally starts the processing pipeline
func (s *MeetingService) UploadRecording(ctx context.Context, meetingID uuid.UUID, input UploadRecordingInput) (*UploadResult, error) {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(input.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) || input.Reader == nil || input.Size <= 0 {
		return nil, usecaseErrors.ErrMissingFile
	}
	if input.Size > MaxRecordingBytes {
		return nil, usecaseErrors.ErrRecordingTooLarge
	}
	if !IsSupportedAudio(filename) {
		return nil, usecaseErrors.ErrUnsupportedAudio
	}

	contentType := input.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = ContentTypeForAudio(filename)
	}

	objectKey := fmt.Sprintf("recordings/%s/%s", meetingID, filename)
	if err := s.storage.UploadFile(ctx, objectKey, input.Reader, input.Size, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStorageUnavailable, err)
	}

	if err := s.meetingRepo.SetRecording(ctx, meetingID, objectKey); err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}
	meeting.MarkUploaded(objectKey)

	if s.logger != nil {
		s.logger.Info("📦 Recording uploaded",
			zap.String("meeting_id", meetingID.String()),
			zap.String("object_key", objectKey),
			zap.Int64("size_bytes", input.Size),
			zap.String("content_type", contentType),
		)
	}

	result := &UploadResult{Meeting: meeting}
	if s.cfg != nil && s.cfg.Pipeline.AutoProcess && s.processor != nil {
		job, err := s.processor.ProcessRecording(ctx, meetingID)
		if err != nil {
			// The upload itself succeeded; processing can be started later
			if s.logger != nil {
				s.logger.Warn("⚠️ Auto-processing failed to start",
					zap.String("meeting_id", meetingID.String()),
					zap.Error(err),
				)
			}
			return result, nil
		}
		result.Job = job
		meeting.MarkProcessing()
	}
	return result, nil
}

// IngestFile creates a meeting from an audio file on disk and uploads
// it. Used by the hot-folder watcher.
func (s *MeetingService) IngestFile(ctx context.Context, path string) (*UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	filename := filepath.Base(path)
	meeting, err := s.CreateMeeting(ctx, CreateMeetingInput{Title: titleFromFilename(filename)})
	if err != nil {
		return nil, err
	}

	result, err := s.UploadRecording(ctx, meeting.ID, UploadRecordingInput{
		Filename:    filename,
		ContentType: ContentTypeForAudio(filename),
		Size:        info.Size(),
		Reader:      file,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ingest %s: %w", path, err)
	}
	return result, nil
}

// titleFromFilename turns "weekly_team-sync.mp3" into "weekly team sync"
func titleFromFilename(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return strings.Join(strings.Fields(stem), " ")
}

// Process starts (or returns the in-flight) pipeline run for a meeting
func (s *MeetingService) Process(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error) {
	if s.processor == nil {
		return nil, usecaseErrors.ErrInternalError
	}
	return s.processor.ProcessRecording(ctx, meetingID)
}

// StatusResult reports where a meeting is in its processing lifecycle
type StatusResult struct {
	MeetingID uuid.UUID
	Status    entities.MeetingStatus
	Jobs      []*entities.ProcessingJob
}

// Status reports the meeting status with its processing history
func (s *MeetingService) Status(ctx context.Context, meetingID uuid.UUID) (*StatusResult, error) {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	var jobs []*entities.ProcessingJob
	if s.processor != nil {
		jobs, err = s.processor.JobsForMeeting(ctx, meetingID)
		if err != nil {
			return nil, fmt.Errorf("failed to get processing jobs: %w", err)
		}
	}
	return &StatusResult{
		MeetingID: meetingID,
		Status:    meeting.Status,
		Jobs:      jobs,
	}, nil
}

// Export renders the meeting in the requested format
func (s *MeetingService) Export(ctx context.Context, meetingID uuid.UUID, format string) (*export.File, error) {
	exportFormat, err := export.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
	}

	detail, err := s.GetMeetingDetail(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if detail.Transcript == nil && detail.Summary == nil {
		return nil, usecaseErrors.ErrNotProcessed
	}

	return s.exporter.Export(&export.Document{
		Meeting:     detail.Meeting,
		Transcript:  detail.Transcript,
		Summary:     detail.Summary,
		ActionItems: detail.ActionItems,
	}, exportFormat)
}

func encodeStringList(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func normalizeSortBy(sortBy string) string {
	switch sortBy {
	case "created_at", "starts_at", "title":
		return sortBy
	default:
		return "starts_at"
	}
}

func normalizeSortOrder(order string) string {
	switch strings.ToLower(order) {
	case "asc":
		return "ASC"
	case "desc", "":
		return "DESC"
	default:
		return "DESC"
	}
}
