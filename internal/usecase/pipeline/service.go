package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/external/transcription"
	"github.com/tuandm-dev/meeting-scribe/internal/metrics"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/export"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/summarizer"
	"github.com/tuandm-dev/meeting-scribe/pkg/ai"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
	"github.com/tuandm-dev/meeting-scribe/pkg/jobcontext"
)

// ObjectStore is the slice of the storage client the pipeline needs
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	UploadText(ctx context.Context, objectName, content string) error
	DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, error)
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// errParked signals that a job was handed to an external service and
// will complete through the webhook path, not the worker
var errParked = errors.New("job parked awaiting external callback")

// errPermanent marks failures another attempt cannot fix
var errPermanent = errors.New("permanent job failure")

// Service drives the asynchronous transcription and summarization
// pipeline: it enqueues jobs, runs the worker pool that claims and
// executes them, and resumes jobs completed through webhooks.
type Service interface {
	// ProcessRecording enqueues transcription for an uploaded recording.
	// Idempotent: an already active job is returned, not duplicated.
	ProcessRecording(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error)

	// JobsForMeeting returns the processing history of a meeting
	JobsForMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ProcessingJob, error)

	// HandleTranscriptionWebhook resumes a job parked on an external
	// transcription service after its completion callback
	HandleTranscriptionWebhook(ctx context.Context, payload WebhookPayload) error

	StartWorkerPool(ctx context.Context) error
	StopWorkerPool() error
}

type pipelineService struct {
	meetingRepo    repositories.MeetingRepository
	transcriptRepo repositories.TranscriptRepository
	summaryRepo    repositories.SummaryRepository
	actionItemRepo repositories.ActionItemRepository
	jobRepo        repositories.JobRepository
	storage        ObjectStore
	provider       transcription.Provider
	summarizer     *summarizer.Service
	exporter       *export.Exporter
	cfg            *config.Config
	logger         *zap.Logger

	jobSemaphore   chan struct{} // Bounds concurrent job execution across workers and webhooks
	workerStopChan chan struct{}
	workerWg       sync.WaitGroup
	isRunning      bool
	workerMutex    sync.Mutex
}

// NewService constructs the pipeline service
func NewService(
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	summaryRepo repositories.SummaryRepository,
	actionItemRepo repositories.ActionItemRepository,
	jobRepo repositories.JobRepository,
	storage ObjectStore,
	provider transcription.Provider,
	summarizerSvc *summarizer.Service,
	exporter *export.Exporter,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	workers := cfg.Pipeline.Workers
	if workers <= 0 {
		workers = 2
	}
	return &pipelineService{
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		summaryRepo:    summaryRepo,
		actionItemRepo: actionItemRepo,
		jobRepo:        jobRepo,
		storage:        storage,
		provider:       provider,
		summarizer:     summarizerSvc,
		exporter:       exporter,
		cfg:            cfg,
		logger:         logger,
		jobSemaphore:   make(chan struct{}, workers),
		workerStopChan: make(chan struct{}),
	}
}

// ProcessRecording enqueues transcription for an uploaded recording
func (s *pipelineService) ProcessRecording(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return nil, usecaseErrors.ErrMeetingNotFound
	}
	if !meeting.HasRecording() {
		return nil, usecaseErrors.ErrNoRecording
	}

	// Idempotent: an in-flight job is returned instead of a duplicate
	active, err := s.jobRepo.FindActiveByMeeting(ctx, meetingID, entities.JobTypeTranscription)
	if err != nil {
		return nil, fmt.Errorf("failed to check active jobs: %w", err)
	}
	if len(active) > 0 {
		if s.logger != nil {
			s.logger.Info("⏭️ Transcription already in flight",
				zap.String("meeting_id", meetingID.String()),
				zap.String("job_id", active[0].ID.String()),
			)
		}
		return active[0], nil
	}

	job := entities.NewProcessingJob(meetingID, entities.JobTypeTranscription, s.cfg.Pipeline.MaxRetries)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue transcription job: %w", err)
	}

	if err := s.meetingRepo.UpdateStatus(ctx, meetingID, entities.MeetingStatusProcessing); err != nil {
		return nil, fmt.Errorf("failed to update meeting status: %w", err)
	}

	metrics.RecordJob(string(entities.JobTypeTranscription), "enqueued")
	if s.logger != nil {
		s.logger.Info("📋 Transcription job enqueued",
			zap.String("meeting_id", meetingID.String()),
			zap.String("job_id", job.ID.String()),
			zap.String("provider", s.provider.Name()),
		)
	}
	return job, nil
}

// JobsForMeeting returns the processing history of a meeting
func (s *pipelineService) JobsForMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ProcessingJob, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return nil, usecaseErrors.ErrMeetingNotFound
	}
	return s.jobRepo.FindByMeeting(ctx, meetingID)
}

// StartWorkerPool starts the polling workers and the stale-job sweeper
func (s *pipelineService) StartWorkerPool(ctx context.Context) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isRunning {
		return fmt.Errorf("worker pool already running")
	}
	s.isRunning = true
	s.workerStopChan = make(chan struct{})

	workers := cap(s.jobSemaphore)
	if s.logger != nil {
		s.logger.Info("🚀 Starting pipeline worker pool",
			zap.Int("workers", workers),
			zap.Duration("poll_interval", s.cfg.Pipeline.PollInterval),
			zap.String("provider", s.provider.Name()),
		)
	}

	for i := 0; i < workers; i++ {
		s.workerWg.Add(1)
		go s.worker(ctx, i)
	}

	s.workerWg.Add(1)
	go s.sweeper(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *pipelineService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping pipeline worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Pipeline worker pool stopped")
	}
	return nil
}

// worker polls for runnable jobs and executes one per tick
func (s *pipelineService) worker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	interval := s.cfg.Pipeline.PollInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Worker started", zap.Int("worker_id", workerID))
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Worker stopping", zap.Int("worker_id", workerID))
			}
			return

		case <-ticker.C:
			s.pollOnce(parentCtx, workerID)
		}
	}
}

func (s *pipelineService) pollOnce(parentCtx context.Context, workerID int) {
	if queued, err := s.jobRepo.CountQueued(parentCtx); err == nil {
		metrics.SetQueueDepth(int(queued))
	}

	jobs, err := s.jobRepo.FindRunnable(parentCtx, cap(s.jobSemaphore))
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to poll jobs",
				zap.Int("worker_id", workerID),
				zap.Error(err),
			)
		}
		return
	}

	for _, job := range jobs {
		claimed, err := s.jobRepo.Claim(parentCtx, job.ID)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Failed to claim job",
					zap.String("job_id", job.ID.String()),
					zap.Error(err),
				)
			}
			continue
		}
		if !claimed {
			// Another worker got there first
			continue
		}

		if s.logger != nil {
			s.logger.Info("👷 Worker claimed job",
				zap.Int("worker_id", workerID),
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", string(job.JobType)),
				zap.String("meeting_id", job.MeetingID.String()),
				zap.Int("retry_count", job.RetryCount),
			)
		}

		s.execute(parentCtx, workerID, job)
		return
	}
}

// execute runs a claimed job under the job context and settles its
// terminal status
func (s *pipelineService) execute(parentCtx context.Context, workerID int, job *entities.ProcessingJob) {
	s.jobSemaphore <- struct{}{}
	defer func() { <-s.jobSemaphore }()

	jobCtx, cancel := jobcontext.Begin(parentCtx, job.ID, string(job.JobType), workerID, s.cfg.Pipeline.JobTimeout)
	jobCtx = jobcontext.SetRetryAttempt(jobCtx, job.RetryCount)

	err := jobcontext.Run(jobCtx, func(ctx context.Context) error {
		switch job.JobType {
		case entities.JobTypeTranscription:
			return s.runTranscription(ctx, job)
		case entities.JobTypeSummary:
			return s.runSummary(ctx, job)
		default:
			return fmt.Errorf("%w: unknown job type %q", errPermanent, job.JobType)
		}
	})
	if started, ok := jobcontext.GetJobStartTime(jobCtx); ok {
		metrics.RecordJobDuration(string(job.JobType), time.Since(started).Seconds())
	}
	cancel()

	s.settle(parentCtx, job, err)
}

// settle records a job outcome: completed, parked, retrying or failed
func (s *pipelineService) settle(ctx context.Context, job *entities.ProcessingJob, err error) {
	switch {
	case err == nil:
		if markErr := s.jobRepo.MarkCompleted(ctx, job.ID); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to mark job completed",
				zap.String("job_id", job.ID.String()),
				zap.Error(markErr),
			)
		}
		metrics.RecordJob(string(job.JobType), "completed")
		if s.logger != nil {
			s.logger.Info("✅ Job completed",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", string(job.JobType)),
			)
		}

	case errors.Is(err, errParked):
		metrics.RecordJob(string(job.JobType), "awaiting")
		if s.logger != nil {
			s.logger.Info("📨 Job awaiting webhook callback",
				zap.String("job_id", job.ID.String()),
			)
		}

	case job.IsRetryable() && !s.isPermanent(err):
		if retryErr := s.jobRepo.ScheduleRetry(ctx, job.ID, err.Error()); retryErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to schedule retry",
				zap.String("job_id", job.ID.String()),
				zap.Error(retryErr),
			)
		}
		metrics.RecordJob(string(job.JobType), "retrying")
		if s.logger != nil {
			s.logger.Warn("🔁 Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount+1),
				zap.Int("max_retries", job.MaxRetries),
				zap.Error(err),
			)
		}

	default:
		if failErr := s.jobRepo.MarkFailed(ctx, job.ID, err.Error()); failErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to mark job failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(failErr),
			)
		}
		if statusErr := s.meetingRepo.UpdateStatus(ctx, job.MeetingID, entities.MeetingStatusFailed); statusErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to mark meeting failed",
				zap.String("meeting_id", job.MeetingID.String()),
				zap.Error(statusErr),
			)
		}
		metrics.RecordJob(string(job.JobType), "failed")
		if s.logger != nil {
			s.logger.Error("❌ Job failed permanently",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", string(job.JobType)),
				zap.Error(err),
			)
		}
	}
}

func (s *pipelineService) isPermanent(err error) bool {
	return errors.Is(err, errPermanent) || ai.IsPermanent(err)
}

// sweeper recovers jobs stuck by crashed workers and jobs whose
// webhook callback never arrived
func (s *pipelineService) sweeper(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			cutoff := time.Now().Add(-(s.cfg.Pipeline.JobTimeout + 5*time.Minute))

			swept, err := s.jobRepo.SweepStale(parentCtx, cutoff)
			if err != nil && s.logger != nil {
				s.logger.Error("❌ Stale job sweep failed", zap.Error(err))
			}
			if swept > 0 && s.logger != nil {
				s.logger.Warn("🧹 Re-queued stale jobs", zap.Int64("count", swept))
			}

			s.pollAwaiting(parentCtx, cutoff)
		}
	}
}

// pollAwaiting checks parked jobs directly against the provider when
// their callback is overdue
func (s *pipelineService) pollAwaiting(parentCtx context.Context, cutoff time.Time) {
	async, ok := s.provider.(transcription.AsyncProvider)
	if !ok {
		return
	}

	jobs, err := s.jobRepo.FindStaleAwaiting(parentCtx, cutoff)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to list overdue awaiting jobs", zap.Error(err))
		}
		return
	}

	for _, job := range jobs {
		if job.ExternalJobID == nil {
			s.settle(parentCtx, job, fmt.Errorf("%w: awaiting job has no external id", errPermanent))
			continue
		}

		if s.logger != nil {
			s.logger.Warn("⏰ Webhook overdue, polling provider",
				zap.String("job_id", job.ID.String()),
				zap.String("external_job_id", *job.ExternalJobID),
			)
		}

		result, err := async.Fetch(parentCtx, *job.ExternalJobID)
		if err != nil {
			if errors.Is(err, transcription.ErrNotReady) {
				// Provider is still working; leave the job parked
				continue
			}
			s.settle(parentCtx, job, fmt.Errorf("transcription failed: %w", err))
			continue
		}
		s.settle(parentCtx, job, s.completeTranscription(parentCtx, job, result))
	}
}
