package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingStatus represents the processing lifecycle of a meeting
type MeetingStatus string

const (
	MeetingStatusCreated    MeetingStatus = "created"    // Metadata only, no recording yet
	MeetingStatusUploaded   MeetingStatus = "uploaded"   // Recording stored, not processed
	MeetingStatusProcessing MeetingStatus = "processing" // Transcription/summary in progress
	MeetingStatusReady      MeetingStatus = "ready"      // Transcript and summary available
	MeetingStatusFailed     MeetingStatus = "failed"     // Processing failed permanently
)

// DefaultMeetingTitle is used until a real title is set or generated
const DefaultMeetingTitle = "Meeting Transcript"

// Meeting is the root aggregate: one recorded meeting and its metadata
type Meeting struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string         `json:"title" gorm:"type:varchar(500);not null"`
	StartsAt        time.Time      `json:"starts_at" gorm:"type:timestamp;not null;index"`
	DurationSeconds float64        `json:"duration_seconds" gorm:"type:double precision;default:0"`
	Participants    datatypes.JSON `json:"participants,omitempty" gorm:"type:jsonb"`
	Tags            datatypes.JSON `json:"tags,omitempty" gorm:"type:jsonb"`
	AudioObjectKey  string         `json:"audio_object_key,omitempty" gorm:"type:varchar(1024)"`
	Notes           string         `json:"notes,omitempty" gorm:"type:text"`
	Status          MeetingStatus  `json:"status" gorm:"type:varchar(50);not null;index;default:'created'"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new meeting with defaults applied
func NewMeeting(title string, startsAt time.Time) *Meeting {
	if title == "" {
		title = DefaultMeetingTitle
	}
	if startsAt.IsZero() {
		startsAt = time.Now()
	}
	return &Meeting{
		ID:        uuid.New(),
		Title:     title,
		StartsAt:  startsAt,
		Status:    MeetingStatusCreated,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// HasRecording reports whether a recording has been uploaded
func (m *Meeting) HasRecording() bool {
	return m.AudioObjectKey != ""
}

// NeedsTitle reports whether the meeting still carries the default title
func (m *Meeting) NeedsTitle() bool {
	return m.Title == "" || m.Title == DefaultMeetingTitle
}

// MarkUploaded records the stored recording location
func (m *Meeting) MarkUploaded(objectKey string) {
	m.AudioObjectKey = objectKey
	m.Status = MeetingStatusUploaded
	m.UpdatedAt = time.Now()
}

// MarkProcessing flags the meeting as having work in flight
func (m *Meeting) MarkProcessing() {
	m.Status = MeetingStatusProcessing
	m.UpdatedAt = time.Now()
}

// MarkReady flags the meeting as fully processed
func (m *Meeting) MarkReady() {
	m.Status = MeetingStatusReady
	m.UpdatedAt = time.Now()
}

// MarkFailed flags the meeting as failed
func (m *Meeting) MarkFailed() {
	m.Status = MeetingStatusFailed
	m.UpdatedAt = time.Now()
}
