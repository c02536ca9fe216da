package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TranscriptSegment is a contiguous stretch of recognized speech
type TranscriptSegment struct {
	ID      int     `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Transcript is the stored speech-to-text output for a meeting
type Transcript struct {
	ID              uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID       uuid.UUID           `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	FullText        string              `json:"full_text" gorm:"type:text"`
	Segments        []TranscriptSegment `json:"segments,omitempty" gorm:"type:jsonb;serializer:json"`
	Language        string              `json:"language,omitempty" gorm:"type:varchar(20)"`
	DurationSeconds float64             `json:"duration_seconds,omitempty" gorm:"type:double precision"`
	WordCount       int                 `json:"word_count" gorm:"type:integer;default:0"`
	Provider        string              `json:"provider,omitempty" gorm:"type:varchar(50)"`
	ModelUsed       string              `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	ProcessingTime  float64             `json:"processing_time,omitempty" gorm:"type:double precision"` // seconds
	CreatedAt       time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a transcript for a meeting, deriving word count
// from the full text
func NewTranscript(meetingID uuid.UUID, fullText string) *Transcript {
	return &Transcript{
		ID:        uuid.New(),
		MeetingID: meetingID,
		FullText:  fullText,
		WordCount: len(strings.Fields(fullText)),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
