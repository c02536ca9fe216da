package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingdto "github.com/tuandm-dev/meeting-scribe/internal/adapter/dto/meeting"
	"github.com/tuandm-dev/meeting-scribe/internal/adapter/presenter"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
	meetingUsecase "github.com/tuandm-dev/meeting-scribe/internal/usecase/meeting"
)

// Meeting handles meeting-related HTTP requests
type Meeting struct {
	meetingService meetingUsecase.Service
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService meetingUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		logger:         logger,
	}
}

// CreateMeeting handles POST /meetings
// @Summary      Create a meeting
// @Description  Creates a meeting record from metadata. The recording is uploaded separately.
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meeting.CreateMeetingRequest  true  "Meeting metadata"
// @Success      201      {object}  meeting.MeetingResponse       "Meeting created"
// @Failure      400      {object}  common.ErrorResponse          "Invalid request"
// @Failure      401      {object}  common.ErrorResponse          "Not authenticated"
// @Router       /meetings [post]
func (h *Meeting) CreateMeeting(c echo.Context) error {
	var req meetingdto.CreateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := meetingUsecase.CreateMeetingInput{
		Title:           req.Title,
		DurationSeconds: req.DurationSeconds,
		Participants:    req.Participants,
		Tags:            req.Tags,
		Notes:           req.Notes,
	}
	if req.StartsAt != nil {
		input.StartsAt = *req.StartsAt
	}

	created, err := h.meetingService.CreateMeeting(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, translate(err, ""))
	}

	return HandleCreated(h.logger, c, presenter.ToMeetingResponse(created))
}

// ListMeetings handles GET /meetings
// @Summary      List meetings
// @Description  Gets a paginated meeting list with status, tag, text and date-range filters
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Filter by status"  Enums(created, uploaded, processing, ready, failed)
// @Param        search      query     string  false  "Search in title and notes"
// @Param        tags        query     []string  false  "Filter by tags"
// @Param        from        query     string  false  "Meetings starting at or after (RFC 3339)"
// @Param        to          query     string  false  "Meetings starting before (RFC 3339)"
// @Param        page        query     int     false  "Page number"  default(1)
// @Param        page_size   query     int     false  "Page size"    default(20)
// @Param        sort_by     query     string  false  "Sort column"  Enums(created_at, starts_at, title)
// @Param        sort_order  query     string  false  "Sort order"   Enums(asc, desc)
// @Success      200  {object}  meeting.MeetingListResponse  "Meeting page"
// @Failure      400  {object}  common.ErrorResponse         "Invalid filters"
// @Router       /meetings [get]
func (h *Meeting) ListMeetings(c echo.Context) error {
	var req meetingdto.ListMeetingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	filters, page, pageSize := buildMeetingFilters(&req)
	meetings, total, err := h.meetingService.ListMeetings(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, translate(err, ""))
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingListResponse(meetings, total, page, pageSize))
}

// GetMeeting handles GET /meetings/:id
// @Summary      Get meeting detail
// @Description  Gets a meeting with its transcript, summary and action items
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingDetailResponse  "Meeting detail"
// @Failure      400  {object}  common.ErrorResponse           "Invalid meeting ID"
// @Failure      404  {object}  common.ErrorResponse           "Meeting not found"
// @Router       /meetings/{id} [get]
func (h *Meeting) GetMeeting(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	detail, err := h.meetingService.GetMeetingDetail(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, translate(err, meetingID.String()))
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingDetailResponse(detail))
}

// UpdateMeeting handles PATCH /meetings/:id
// @Summary      Update a meeting
// @Description  Applies a partial metadata update. Absent fields stay untouched.
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Meeting ID (UUID)"
// @Param        request  body      meeting.UpdateMeetingRequest  true  "Fields to update"
// @Success      200      {object}  meeting.MeetingResponse       "Updated meeting"
// @Failure      400      {object}  common.ErrorResponse          "Invalid request"
// @Failure      404      {object}  common.ErrorResponse          "Meeting not found"
// @Router       /meetings/{id} [patch]
func (h *Meeting) UpdateMeeting(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.UpdateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	updated, err := h.meetingService.UpdateMeeting(c.Request().Context(), meetingID, meetingUsecase.UpdateMeetingInput{
		Title:           req.Title,
		StartsAt:        req.StartsAt,
		DurationSeconds: req.DurationSeconds,
		Participants:    req.Participants,
		Tags:            req.Tags,
		Notes:           req.Notes,
	})
	if err != nil {
		return HandleError(h.logger, c, translate(err, meetingID.String()))
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(updated))
}

// DeleteMeeting handles DELETE /meetings/:id
// @Summary      Delete a meeting
// @Description  Removes a meeting, its database records and its stored files
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  common.MessageResponse  "Meeting deleted"
// @Failure      404  {object}  common.ErrorResponse    "Meeting not found"
// @Router       /meetings/{id} [delete]
func (h *Meeting) DeleteMeeting(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.meetingService.DeleteMeeting(c.Request().Context(), meetingID); err != nil {
		return HandleError(h.logger, c, translate(err, meetingID.String()))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{"message": "meeting deleted"})
}

// UploadRecording handles POST /meetings/:id/recording
// @Summary      Upload a recording
// @Description  Stores the audio recording for a meeting and starts processing when auto-processing is enabled
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Meeting ID (UUID)"
// @Param        file  formData  file    true  "Audio file (.mp3 .wav .m4a .ogg .flac .webm)"
// @Success      200   {object}  meeting.UploadRecordingResponse  "Recording stored"
// @Failure      400   {object}  common.ErrorResponse             "No file provided"
// @Failure      404   {object}  common.ErrorResponse             "Meeting not found"
// @Failure      413   {object}  common.ErrorResponse             "Recording too large"
// @Failure      415   {object}  common.ErrorResponse             "Unsupported audio format"
// @Router       /meetings/{id}/recording [post]
func (h *Meeting) UploadRecording(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, translate(usecaseErrors.ErrMissingFile, meetingID.String()))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, translate(usecaseErrors.ErrMissingFile, meetingID.String()))
	}
	defer src.Close()

	result, err := h.meetingService.UploadRecording(c.Request().Context(), meetingID, meetingUsecase.UploadRecordingInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      src,
	})
	if err != nil {
		return HandleError(h.logger, c, translate(err, meetingID.String()))
	}

	return HandleSuccess(h.logger, c, &meetingdto.UploadRecordingResponse{
		Meeting: presenter.ToMeetingResponse(result.Meeting),
		Job:     presenter.ToJobResponse(result.Job),
	})
}

// Process handles POST /meetings/:id/process
// @Summary      Start processing
// @Description  Starts (or returns the in-flight) transcription and summarization pipeline for a meeting
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      202  {object}  meeting.ProcessResponse  "Processing started"
// @Failure      400  {object}  common.ErrorResponse     "Meeting has no recording"
// @Failure      404  {object}  common.ErrorResponse     "Meeting not found"
// @Router       /meetings/{id}/process [post]
func (h *Meeting) Process(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	job, err := h.meetingService.Process(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, translate(err, meetingID.String()))
	}

	return respondSuccess(h.logger, c, http.StatusAccepted, &meetingdto.ProcessResponse{
		Job: presenter.ToJobResponse(job),
	})
}

// Status handles GET /meetings/:id/status
// @Summary      Get processing status
// @Description  Reports the meeting status together with its processing job history
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.StatusResponse  "Status and jobs"
// @Failure      404  {object}  common.ErrorResponse    "Meeting not found"
// @Router       /meetings/{id}/status [get]
func (h *Meeting) Status(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	status, err := h.meetingService.Status(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, translate(err, meetingID.String()))
	}

	return HandleSuccess(h.logger, c, presenter.ToStatusResponse(status))
}

// Export handles GET /meetings/:id/export
// @Summary      Export a meeting
// @Description  Renders the meeting as a downloadable file
// @Tags         Meetings
// @Produce      application/octet-stream
// @Security     BearerAuth
// @Param        id      path      string  true   "Meeting ID (UUID)"
// @Param        format  query     string  false  "Export format"  Enums(markdown, docx, json)  default(markdown)
// @Success      200     {file}    file                  "Rendered export"
// @Failure      400     {object}  common.ErrorResponse  "Unsupported format"
// @Failure      404     {object}  common.ErrorResponse  "Meeting not found"
// @Failure      409     {object}  common.ErrorResponse  "Meeting not processed yet"
// @Router       /meetings/{id}/export [get]
func (h *Meeting) Export(c echo.Context) error {
	meetingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	file, err := h.meetingService.Export(c.Request().Context(), meetingID, c.QueryParam("format"))
	if err != nil {
		return HandleError(h.logger, c, translate(err, meetingID.String()))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, file.Name))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
