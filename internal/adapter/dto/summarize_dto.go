package dto

import (
	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
)

// SummarizeRequest represents the request for synchronous
// summarization of a raw transcript
type SummarizeRequest struct {
	Transcript string `json:"transcript" validate:"required,min=1"`
	Title      string `json:"title,omitempty" validate:"omitempty,max=500"`
	Context    string `json:"context,omitempty" validate:"omitempty,max=2000"`
}

// SummarizeActionItem represents an extracted action item with the
// due-date text as the model produced it
type SummarizeActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
}

// SummarizeResponse represents the summarization outcome. Degraded
// results keep the same shape with empty sections.
type SummarizeResponse struct {
	Summary        string                `json:"summary"`
	ActionItems    []SummarizeActionItem `json:"action_items"`
	KeyPoints      []string              `json:"key_points"`
	Topics         []entities.Topic      `json:"topics"`
	Decisions      []string              `json:"decisions"`
	Questions      []entities.Question   `json:"questions"`
	ModelUsed      string                `json:"model_used,omitempty"`
	ProcessingTime float64               `json:"processing_time,omitempty"`
}

// TitleRequest represents the request for synchronous title generation
type TitleRequest struct {
	Transcript string `json:"transcript" validate:"required,min=1"`
}

// TitleResponse represents a generated meeting title
type TitleResponse struct {
	Title string `json:"title"`
}

// WebhookRequest represents the transcription completion callback body
type WebhookRequest struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
}
