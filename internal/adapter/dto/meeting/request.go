package meeting

import (
	"time"
)

// CreateMeetingRequest represents the request to create a meeting
type CreateMeetingRequest struct {
	Title           string     `json:"title" validate:"omitempty,max=500"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	DurationSeconds float64    `json:"duration_seconds,omitempty" validate:"omitempty,gte=0"`
	Participants    []string   `json:"participants,omitempty" validate:"omitempty,max=100,dive,max=255"`
	Tags            []string   `json:"tags,omitempty" validate:"omitempty,max=50,dive,max=100"`
	Notes           string     `json:"notes,omitempty"`
}

// UpdateMeetingRequest represents a partial meeting update. Absent
// fields stay untouched; an empty list clears the field.
type UpdateMeetingRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty" validate:"omitempty,gte=0"`
	Participants    *[]string  `json:"participants,omitempty" validate:"omitempty,max=100,dive,max=255"`
	Tags            *[]string  `json:"tags,omitempty" validate:"omitempty,max=50,dive,max=100"`
	Notes           *string    `json:"notes,omitempty"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Status    *string    `query:"status" validate:"omitempty,oneof=created uploaded processing ready failed"`
	Search    string     `query:"search"`
	Tags      []string   `query:"tags"`
	From      *time.Time `query:"from"`
	To        *time.Time `query:"to"`
	Page      int        `query:"page" validate:"omitempty,min=1"`
	PageSize  int        `query:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string     `query:"sort_by" validate:"omitempty,oneof=created_at starts_at title"`
	SortOrder string     `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// ListActionItemsRequest represents query parameters for listing
// action items across meetings
type ListActionItemsRequest struct {
	MeetingID *string `query:"meeting_id" validate:"omitempty,uuid"`
	Status    *string `query:"status" validate:"omitempty,oneof=pending completed cancelled"`
	Assignee  string  `query:"assignee"`
	Page      int     `query:"page" validate:"omitempty,min=1"`
	PageSize  int     `query:"page_size" validate:"omitempty,min=1,max=200"`
}

// UpdateActionItemRequest represents a partial action item update
type UpdateActionItemRequest struct {
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
	Task        *string `json:"task,omitempty" validate:"omitempty,min=1,max=1000"`
	Assignee    *string `json:"assignee,omitempty" validate:"omitempty,max=255"`
	DueDateText *string `json:"due_date_text,omitempty" validate:"omitempty,max=255"`
}
