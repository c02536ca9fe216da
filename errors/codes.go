package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode string

const (
	// General
	CodeOK              ErrorCode = "OK"
	CodeInternal        ErrorCode = "INTERNAL"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"
	CodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeInvalidPayload  ErrorCode = "INVALID_PAYLOAD"

	// Auth
	CodeAuthInvalidToken   ErrorCode = "AUTH_INVALID_TOKEN"
	CodeAuthTokenExpired   ErrorCode = "AUTH_TOKEN_EXPIRED"
	CodeAuthInvalidAPIKey  ErrorCode = "AUTH_INVALID_API_KEY"
	CodeAuthInvalidRefresh ErrorCode = "AUTH_INVALID_REFRESH_TOKEN"

	// Meetings
	CodeMeetingNotFound     ErrorCode = "MEETING_NOT_FOUND"
	CodeMeetingNoAudio      ErrorCode = "MEETING_NO_RECORDING"
	CodeMeetingProcessing   ErrorCode = "MEETING_ALREADY_PROCESSING"
	CodeMeetingNotProcessed ErrorCode = "MEETING_NOT_PROCESSED"

	// Action items
	CodeActionItemNotFound ErrorCode = "ACTION_ITEM_NOT_FOUND"

	// Recordings / storage
	CodeRecordingUploadFailed ErrorCode = "RECORDING_UPLOAD_FAILED"
	CodeRecordingTooLarge     ErrorCode = "RECORDING_TOO_LARGE"
	CodeUnsupportedAudioType  ErrorCode = "UNSUPPORTED_AUDIO_TYPE"
	CodeStorageFailed         ErrorCode = "STORAGE_FAILED"

	// AI processing
	CodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	CodeSummaryFailed       ErrorCode = "SUMMARY_FAILED"
	CodeAIUnavailable       ErrorCode = "AI_SERVICE_UNAVAILABLE"
	CodeAIQuotaExceeded     ErrorCode = "AI_QUOTA_EXCEEDED"
	CodeProcessingFailed    ErrorCode = "PROCESSING_FAILED"
	CodeJobNotFound         ErrorCode = "JOB_NOT_FOUND"

	// Export
	CodeExportFailed      ErrorCode = "EXPORT_FAILED"
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_EXPORT_FORMAT"

	// Integrations
	CodeCacheFailed         ErrorCode = "CACHE_FAILED"
	CodeDatabaseFailed      ErrorCode = "DATABASE_FAILED"
	CodeWebhookUnauthorized ErrorCode = "WEBHOOK_UNAUTHORIZED"
)

// String returns the code as a plain string
func (c ErrorCode) String() string {
	return string(c)
}
