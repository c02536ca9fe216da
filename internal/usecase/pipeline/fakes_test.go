package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/external/transcription"
)

type fakeMeetingRepo struct {
	mu       sync.Mutex
	meetings map[uuid.UUID]*entities.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)}
}

func (f *fakeMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.meetings[m.ID] = &cp
	return nil
}

func (f *fakeMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMeetingRepo) Update(_ context.Context, m *entities.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.meetings[m.ID] = &cp
	return nil
}

func (f *fakeMeetingRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.meetings, id)
	return nil
}

func (f *fakeMeetingRepo) List(_ context.Context, _ repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range f.meetings {
		cp := *m
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMeetingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.meetings[id]; ok {
		m.Status = status
	}
	return nil
}

func (f *fakeMeetingRepo) UpdateTitle(_ context.Context, id uuid.UUID, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.meetings[id]; ok {
		m.Title = title
	}
	return nil
}

func (f *fakeMeetingRepo) SetRecording(_ context.Context, id uuid.UUID, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.meetings[id]; ok {
		m.AudioObjectKey = objectKey
		m.Status = entities.MeetingStatusUploaded
	}
	return nil
}

type fakeTranscriptRepo struct {
	mu          sync.Mutex
	transcripts map[uuid.UUID]*entities.Transcript
}

func newFakeTranscriptRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{transcripts: make(map[uuid.UUID]*entities.Transcript)}
}

func (f *fakeTranscriptRepo) Upsert(_ context.Context, t *entities.Transcript) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.transcripts[t.MeetingID] = &cp
	return nil
}

func (f *fakeTranscriptRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transcripts[meetingID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTranscriptRepo) DeleteByMeetingID(_ context.Context, meetingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.transcripts, meetingID)
	return nil
}

type fakeSummaryRepo struct {
	mu        sync.Mutex
	summaries map[uuid.UUID]*entities.Summary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{summaries: make(map[uuid.UUID]*entities.Summary)}
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, s *entities.Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.summaries[s.MeetingID] = &cp
	return nil
}

func (f *fakeSummaryRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.summaries[meetingID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSummaryRepo) DeleteByMeetingID(_ context.Context, meetingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.summaries, meetingID)
	return nil
}

type fakeActionItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID][]*entities.ActionItem
}

func newFakeActionItemRepo() *fakeActionItemRepo {
	return &fakeActionItemRepo{items: make(map[uuid.UUID][]*entities.ActionItem)}
}

func (f *fakeActionItemRepo) ReplaceForMeeting(_ context.Context, meetingID uuid.UUID, items []*entities.ActionItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := make([]*entities.ActionItem, len(items))
	for i, item := range items {
		cp := *item
		stored[i] = &cp
	}
	f.items[meetingID] = stored
	return nil
}

func (f *fakeActionItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, items := range f.items {
		for _, item := range items {
			if item.ID == id {
				cp := *item
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeActionItemRepo) List(_ context.Context, _ repositories.ActionItemFilters) ([]*entities.ActionItem, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.ActionItem
	for _, items := range f.items {
		for _, item := range items {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeActionItemRepo) ListByMeetingID(_ context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.ActionItem
	for _, item := range f.items[meetingID] {
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeActionItemRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.ActionItemStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, items := range f.items {
		for _, item := range items {
			if item.ID == id {
				item.Status = status
				return nil
			}
		}
	}
	return nil
}

func (f *fakeActionItemRepo) Update(_ context.Context, updated *entities.ActionItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for meetingID, items := range f.items {
		for i, item := range items {
			if item.ID == updated.ID {
				cp := *updated
				f.items[meetingID][i] = &cp
				return nil
			}
		}
	}
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entities.ProcessingJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*entities.ProcessingJob)}
}

func (f *fakeJobRepo) Create(_ context.Context, job *entities.ProcessingJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *job
	return &cp, nil
}

func (f *fakeJobRepo) FindByExternalJobID(_ context.Context, externalJobID string) (*entities.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, job := range f.jobs {
		if job.ExternalJobID != nil && *job.ExternalJobID == externalJobID {
			cp := *job
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeJobRepo) FindActiveByMeeting(_ context.Context, meetingID uuid.UUID, jobType entities.JobType) ([]*entities.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.ProcessingJob
	for _, job := range f.jobs {
		if job.MeetingID != meetingID || !job.IsActive() {
			continue
		}
		if jobType != "" && job.JobType != jobType {
			continue
		}
		cp := *job
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeJobRepo) FindByMeeting(_ context.Context, meetingID uuid.UUID) ([]*entities.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.ProcessingJob
	for _, job := range f.jobs {
		if job.MeetingID == meetingID {
			cp := *job
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeJobRepo) Claim(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return false, nil
	}
	if job.Status != entities.JobStatusPending && job.Status != entities.JobStatusRetrying {
		return false, nil
	}
	now := time.Now()
	job.Status = entities.JobStatusProcessing
	job.StartedAt = &now
	job.UpdatedAt = now
	return true, nil
}

func (f *fakeJobRepo) MarkAwaiting(_ context.Context, id uuid.UUID, externalJobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok {
		job.MarkAwaiting(externalJobID)
	}
	return nil
}

func (f *fakeJobRepo) MarkCompleted(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok {
		job.MarkCompleted()
	}
	return nil
}

func (f *fakeJobRepo) MarkFailed(_ context.Context, id uuid.UUID, lastError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok {
		job.MarkFailed(lastError)
	}
	return nil
}

func (f *fakeJobRepo) ScheduleRetry(_ context.Context, id uuid.UUID, lastError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok {
		job.IncrementRetry(lastError)
	}
	return nil
}

func (f *fakeJobRepo) FindRunnable(_ context.Context, limit int) ([]*entities.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 {
		limit = 10
	}
	var out []*entities.ProcessingJob
	for _, job := range f.jobs {
		if job.Status != entities.JobStatusPending && job.Status != entities.JobStatusRetrying {
			continue
		}
		if job.RetryCount > job.MaxRetries {
			continue
		}
		cp := *job
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeJobRepo) SweepStale(_ context.Context, olderThan time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var swept int64
	for _, job := range f.jobs {
		if job.Status == entities.JobStatusProcessing && job.UpdatedAt.Before(olderThan) {
			job.Status = entities.JobStatusRetrying
			swept++
		}
	}
	return swept, nil
}

func (f *fakeJobRepo) FindStaleAwaiting(_ context.Context, olderThan time.Time) ([]*entities.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.ProcessingJob
	for _, job := range f.jobs {
		if job.Status == entities.JobStatusAwaiting && job.UpdatedAt.Before(olderThan) {
			cp := *job
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) CountQueued(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, job := range f.jobs {
		if job.Status == entities.JobStatusPending || job.Status == entities.JobStatusRetrying {
			count++
		}
	}
	return count, nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = data
	return nil
}

func (f *fakeStore) UploadText(_ context.Context, objectName, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = []byte(content)
	return nil
}

func (f *fakeStore) DownloadFile(_ context.Context, objectName string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectName]
	if !ok {
		return nil, fmt.Errorf("object %s not found", objectName)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) GetFileURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectName, nil
}

func (f *fakeStore) has(objectName string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[objectName]
	return ok
}

func (f *fakeStore) keysWithPrefix(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for name := range f.objects {
		if strings.HasPrefix(name, prefix) {
			keys = append(keys, name)
		}
	}
	return keys
}

type fakeProvider struct {
	mu         sync.Mutex
	name       string
	result     *transcription.Result
	err        error
	failCalls  int // first N calls return err
	calls      int
	lastReq    transcription.Request
	sawTmpFile bool
}

func (p *fakeProvider) Transcribe(_ context.Context, req transcription.Request) (*transcription.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastReq = req
	if req.FilePath != "" {
		if _, err := os.Stat(req.FilePath); err == nil {
			p.sawTmpFile = true
		}
	}
	if p.err != nil && p.calls <= p.failCalls {
		return nil, p.err
	}
	return p.result, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *fakeProvider) request() transcription.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastReq
}

func (p *fakeProvider) Name() string {
	if p.name == "" {
		return transcription.ProviderWhisperAPI
	}
	return p.name
}

func (p *fakeProvider) HealthCheck(_ context.Context) error { return nil }

type fakeAsyncProvider struct {
	fakeProvider
	submitID    string
	submitErr   error
	fetchResult *transcription.Result
	fetchErr    error
	fetchCalls  int
}

func (p *fakeAsyncProvider) Name() string { return transcription.ProviderAssemblyAI }

func (p *fakeAsyncProvider) Submit(_ context.Context, req transcription.Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastReq = req
	if p.submitErr != nil {
		return "", p.submitErr
	}
	return p.submitID, nil
}

func (p *fakeAsyncProvider) Fetch(_ context.Context, _ string) (*transcription.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetchCalls++
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return p.fetchResult, nil
}

func (p *fakeAsyncProvider) fetchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetchCalls
}
