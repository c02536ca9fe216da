package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeInternal,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     CodeInvalidArgument,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrAlreadyExists(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     CodeAlreadyExists,
		Message:  fmt.Sprintf("%s already exists", resource),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     CodeUnauthenticated,
		Message:  "Authentication required",
	}
}

func ErrForbidden(message string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     CodeForbidden,
		Message:  message,
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     CodeInvalidPayload,
		Message:  "Invalid payload",
	}
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     CodeAuthInvalidToken,
		Message:  "Invalid authentication token",
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     CodeAuthTokenExpired,
		Message:  "Authentication token has expired",
	}
}

func ErrInvalidAPIKey() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     CodeAuthInvalidAPIKey,
		Message:  "Invalid API key",
	}
}

func ErrInvalidRefreshToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     CodeAuthInvalidRefresh,
		Message:  "Invalid refresh token",
	}
}

// Meeting Errors
func ErrMeetingNotFound(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     CodeMeetingNotFound,
		Message:  "Meeting not found",
	}.WithDetail("meeting_id", meetingID)
}

func ErrMeetingNoRecording(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     CodeMeetingNoAudio,
		Message:  "Meeting has no uploaded recording",
	}.WithDetail("meeting_id", meetingID)
}

func ErrMeetingAlreadyProcessing(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     CodeMeetingProcessing,
		Message:  "Meeting is already being processed",
	}.WithDetail("meeting_id", meetingID)
}

func ErrMeetingNotProcessed(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     CodeMeetingNotProcessed,
		Message:  "Meeting has not been processed yet",
	}.WithDetail("meeting_id", meetingID)
}

// Action item Errors
func ErrActionItemNotFound(itemID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     CodeActionItemNotFound,
		Message:  "Action item not found",
	}.WithDetail("action_item_id", itemID)
}

// Recording / storage Errors
func ErrRecordingUploadFailed(meetingID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeRecordingUploadFailed,
		Message:  "Failed to upload recording",
	}.WithDetail("meeting_id", meetingID)
}

func ErrUnsupportedAudioType(contentType string) AppError {
	return AppError{
		HTTPCode: http.StatusUnsupportedMediaType,
		Code:     CodeUnsupportedAudioType,
		Message:  "Unsupported audio content type",
	}.WithDetail("content_type", contentType)
}

func ErrRecordingTooLarge(limit string) AppError {
	return AppError{
		HTTPCode: http.StatusRequestEntityTooLarge,
		Code:     CodeRecordingTooLarge,
		Message:  "Recording exceeds the size limit",
	}.WithDetail("limit", limit)
}

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeStorageFailed,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

// AI Processing Errors
func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeTranscriptionFailed,
		Message:  "Audio transcription failed",
	}
}

func ErrSummaryFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeSummaryFailed,
		Message:  "Failed to generate summary",
	}
}

func ErrAIServiceUnavailable(service string) AppError {
	return AppError{
		HTTPCode: http.StatusServiceUnavailable,
		Code:     CodeAIUnavailable,
		Message:  "AI service temporarily unavailable",
	}.WithDetail("service", service)
}

func ErrAIQuotaExceeded() AppError {
	return AppError{
		HTTPCode: http.StatusTooManyRequests,
		Code:     CodeAIQuotaExceeded,
		Message:  "AI service quota exceeded",
	}
}

func ErrProcessingFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeProcessingFailed,
		Message:  "Processing failed",
	}
}

func ErrJobNotFound(jobID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     CodeJobNotFound,
		Message:  "Processing job not found",
	}.WithDetail("job_id", jobID)
}

// Export Errors
func ErrExportFailed(format string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeExportFailed,
		Message:  "Failed to export meeting",
	}.WithDetail("format", format)
}

func ErrUnsupportedExportFormat(format string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     CodeUnsupportedFormat,
		Message:  "Unsupported export format",
	}.WithDetail("format", format)
}

// Integration Errors
func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeCacheFailed,
		Message:  fmt.Sprintf("Cache operation failed: %s", operation),
	}
}

func ErrDatabaseFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeDatabaseFailed,
		Message:  "Database operation failed",
	}
}

func ErrWebhookUnauthorized() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     CodeWebhookUnauthorized,
		Message:  "Webhook signature verification failed",
	}
}
