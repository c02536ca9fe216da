package entities

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a discussed topic with its condensed discussion
type Topic struct {
	Name       string `json:"name"`
	Discussion string `json:"discussion"`
}

// Question is a question raised in the meeting with any answer given
type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

// Summary is the stored LLM analysis of a meeting transcript
type Summary struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID      uuid.UUID  `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	SummaryText    string     `json:"summary_text" gorm:"type:text"`
	KeyPoints      []string   `json:"key_points" gorm:"type:jsonb;serializer:json"`
	Topics         []Topic    `json:"topics" gorm:"type:jsonb;serializer:json"`
	Decisions      []string   `json:"decisions" gorm:"type:jsonb;serializer:json"`
	Questions      []Question `json:"questions" gorm:"type:jsonb;serializer:json"`
	ModelUsed      string     `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	ProcessingTime float64    `json:"processing_time,omitempty" gorm:"type:double precision"` // seconds
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Summary) TableName() string {
	return "summaries"
}

// NewSummary creates a summary for a meeting with empty sections
// initialized so JSONB columns never hold null
func NewSummary(meetingID uuid.UUID) *Summary {
	return &Summary{
		ID:        uuid.New(),
		MeetingID: meetingID,
		KeyPoints: []string{},
		Topics:    []Topic{},
		Decisions: []string{},
		Questions: []Question{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
