package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemStatus represents the lifecycle of an action item
type ActionItemStatus string

const (
	ActionItemStatusPending   ActionItemStatus = "pending"
	ActionItemStatusCompleted ActionItemStatus = "completed"
	ActionItemStatusCancelled ActionItemStatus = "cancelled"
)

// Defaults applied when the extraction model omits a field
const (
	UnassignedAssignee = "Unassigned"
	NoDueDateText      = "Not specified"
)

// ActionItem is a task extracted from a meeting transcript
type ActionItem struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   uuid.UUID        `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Task        string           `json:"task" gorm:"type:text;not null"`
	Assignee    string           `json:"assignee" gorm:"type:varchar(255);default:'Unassigned'"`
	DueDateText string           `json:"due_date_text,omitempty" gorm:"type:varchar(255)"` // as spoken/written in the transcript
	DueDate     *time.Time       `json:"due_date,omitempty" gorm:"type:timestamp;index"`
	Status      ActionItemStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates a pending action item with extraction defaults
func NewActionItem(meetingID uuid.UUID, task, assignee, dueDateText string) *ActionItem {
	if assignee == "" {
		assignee = UnassignedAssignee
	}
	if dueDateText == "" {
		dueDateText = NoDueDateText
	}
	return &ActionItem{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Task:        task,
		Assignee:    assignee,
		DueDateText: dueDateText,
		Status:      ActionItemStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// ValidStatus reports whether s is a known action item status
func ValidStatus(s string) bool {
	switch ActionItemStatus(s) {
	case ActionItemStatusPending, ActionItemStatusCompleted, ActionItemStatusCancelled:
		return true
	}
	return false
}
