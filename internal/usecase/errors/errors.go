package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Meeting errors
var (
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrNoRecording        = errors.New("meeting has no uploaded recording")
	ErrAlreadyProcessing  = errors.New("meeting is already being processed")
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrSummaryNotFound    = errors.New("summary not found")
	ErrNotProcessed       = errors.New("meeting has not been processed yet")
)

// Action item errors
var (
	ErrActionItemNotFound = errors.New("action item not found")
	ErrInvalidStatus      = errors.New("invalid action item status")
)

// Job errors
var (
	ErrJobNotFound = errors.New("processing job not found")
)

// Upload errors
var (
	ErrMissingFile         = errors.New("no file provided")
	ErrUnsupportedAudio    = errors.New("unsupported audio format")
	ErrRecordingTooLarge   = errors.New("recording exceeds the size limit")
	ErrStorageUnavailable  = errors.New("object storage unavailable")
	ErrTranscriptionFailed = errors.New("transcription failed")
)
