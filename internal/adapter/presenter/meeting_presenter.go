package presenter

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/tuandm-dev/meeting-scribe/internal/adapter/dto"
	"github.com/tuandm-dev/meeting-scribe/internal/adapter/dto/common"
	"github.com/tuandm-dev/meeting-scribe/internal/adapter/dto/meeting"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	meetingUsecase "github.com/tuandm-dev/meeting-scribe/internal/usecase/meeting"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/summarizer"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meeting.MeetingResponse {
	if m == nil {
		return nil
	}
	return &meeting.MeetingResponse{
		ID:              m.ID.String(),
		Title:           m.Title,
		Status:          string(m.Status),
		StartsAt:        m.StartsAt,
		DurationSeconds: m.DurationSeconds,
		Participants:    decodeStringList(m.Participants),
		Tags:            decodeStringList(m.Tags),
		Notes:           m.Notes,
		HasRecording:    m.HasRecording(),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToTranscriptResponse converts a Transcript entity to its DTO
func ToTranscriptResponse(t *entities.Transcript) *meeting.TranscriptResponse {
	if t == nil {
		return nil
	}
	segments := t.Segments
	if segments == nil {
		segments = []entities.TranscriptSegment{}
	}
	return &meeting.TranscriptResponse{
		ID:              t.ID.String(),
		FullText:        t.FullText,
		Segments:        segments,
		Language:        t.Language,
		DurationSeconds: t.DurationSeconds,
		WordCount:       t.WordCount,
		Provider:        t.Provider,
		ModelUsed:       t.ModelUsed,
		ProcessingTime:  t.ProcessingTime,
		CreatedAt:       t.CreatedAt,
	}
}

// ToSummaryResponse converts a Summary entity to its DTO
func ToSummaryResponse(s *entities.Summary) *meeting.SummaryResponse {
	if s == nil {
		return nil
	}
	topics := s.Topics
	if topics == nil {
		topics = []entities.Topic{}
	}
	questions := s.Questions
	if questions == nil {
		questions = []entities.Question{}
	}
	return &meeting.SummaryResponse{
		ID:             s.ID.String(),
		SummaryText:    s.SummaryText,
		KeyPoints:      emptyIfNil(s.KeyPoints),
		Topics:         topics,
		Decisions:      emptyIfNil(s.Decisions),
		Questions:      questions,
		ModelUsed:      s.ModelUsed,
		ProcessingTime: s.ProcessingTime,
		CreatedAt:      s.CreatedAt,
	}
}

// ToActionItemResponse converts an ActionItem entity to its DTO
func ToActionItemResponse(item *entities.ActionItem) *meeting.ActionItemResponse {
	if item == nil {
		return nil
	}
	return &meeting.ActionItemResponse{
		ID:          item.ID.String(),
		MeetingID:   item.MeetingID.String(),
		Task:        item.Task,
		Assignee:    item.Assignee,
		Status:      string(item.Status),
		DueDateText: item.DueDateText,
		DueDate:     item.DueDate,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ToActionItemResponses converts a slice of ActionItem entities
func ToActionItemResponses(items []*entities.ActionItem) []*meeting.ActionItemResponse {
	out := make([]*meeting.ActionItemResponse, len(items))
	for i, item := range items {
		out[i] = ToActionItemResponse(item)
	}
	return out
}

// ToJobResponse converts a ProcessingJob entity to its DTO
func ToJobResponse(job *entities.ProcessingJob) *meeting.JobResponse {
	if job == nil {
		return nil
	}
	return &meeting.JobResponse{
		ID:          job.ID.String(),
		JobType:     string(job.JobType),
		Status:      string(job.Status),
		RetryCount:  job.RetryCount,
		MaxRetries:  job.MaxRetries,
		LastError:   job.LastError,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		CreatedAt:   job.CreatedAt,
	}
}

// ToJobResponses converts a slice of ProcessingJob entities
func ToJobResponses(jobs []*entities.ProcessingJob) []*meeting.JobResponse {
	out := make([]*meeting.JobResponse, len(jobs))
	for i, job := range jobs {
		out[i] = ToJobResponse(job)
	}
	return out
}

// ToMeetingDetailResponse converts an assembled meeting detail
func ToMeetingDetailResponse(d *meetingUsecase.Detail) *meeting.MeetingDetailResponse {
	if d == nil {
		return nil
	}
	return &meeting.MeetingDetailResponse{
		Meeting:     ToMeetingResponse(d.Meeting),
		Transcript:  ToTranscriptResponse(d.Transcript),
		Summary:     ToSummaryResponse(d.Summary),
		ActionItems: ToActionItemResponses(d.ActionItems),
	}
}

// ToMeetingListResponse converts a meeting page with pagination
func ToMeetingListResponse(meetings []*entities.Meeting, total int64, page, pageSize int) *meeting.MeetingListResponse {
	responses := make([]*meeting.MeetingResponse, len(meetings))
	for i, m := range meetings {
		responses[i] = ToMeetingResponse(m)
	}
	return &meeting.MeetingListResponse{
		Meetings:   responses,
		Pagination: common.NewPagination(page, pageSize, total),
	}
}

// ToActionItemListResponse converts an action item page with pagination
func ToActionItemListResponse(items []*entities.ActionItem, total int64, page, pageSize int) *meeting.ActionItemListResponse {
	return &meeting.ActionItemListResponse{
		ActionItems: ToActionItemResponses(items),
		Pagination:  common.NewPagination(page, pageSize, total),
	}
}

// ToStatusResponse converts a meeting status with its job history
func ToStatusResponse(s *meetingUsecase.StatusResult) *meeting.StatusResponse {
	if s == nil {
		return nil
	}
	return &meeting.StatusResponse{
		MeetingID: s.MeetingID.String(),
		Status:    string(s.Status),
		Jobs:      ToJobResponses(s.Jobs),
	}
}

// ToSummarizeResponse converts a summarizer result to its DTO
func ToSummarizeResponse(r *summarizer.Result) *dto.SummarizeResponse {
	if r == nil {
		return nil
	}
	items := make([]dto.SummarizeActionItem, len(r.ActionItems))
	for i, item := range r.ActionItems {
		items[i] = dto.SummarizeActionItem{
			Task:     item.Task,
			Assignee: item.Assignee,
			DueDate:  item.DueDate,
		}
	}
	topics := r.Topics
	if topics == nil {
		topics = []entities.Topic{}
	}
	questions := r.Questions
	if questions == nil {
		questions = []entities.Question{}
	}
	return &dto.SummarizeResponse{
		Summary:        r.Summary,
		ActionItems:    items,
		KeyPoints:      emptyIfNil(r.KeyPoints),
		Topics:         topics,
		Decisions:      emptyIfNil(r.Decisions),
		Questions:      questions,
		ModelUsed:      r.ModelUsed,
		ProcessingTime: r.ProcessingTime,
	}
}

// decodeStringList parses a JSONB-encoded string list, empty slice on
// null or malformed data
func decodeStringList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
