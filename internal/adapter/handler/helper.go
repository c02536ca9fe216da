package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/errors"
	meetingdto "github.com/tuandm-dev/meeting-scribe/internal/adapter/dto/meeting"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
	meetingUsecase "github.com/tuandm-dev/meeting-scribe/internal/usecase/meeting"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// Response shapes
type success struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respondSuccess(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized creation response
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respondSuccess(logger, c, http.StatusCreated, data)
}

func respondSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    errors.CodeOK.String(),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.String("app_code", appErr.Code.String()),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		return c.JSON(appErr.HTTPCode, errs{
			Code:    appErr.Code.String(),
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		})
	}

	// Non-AppError => internal server error
	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.JSON(http.StatusInternalServerError, errs{
		Code:    errors.CodeInternal.String(),
		Message: "Internal server error",
		Info:    err.Error(),
	})
}

// translate maps use case sentinel errors to AppErrors with HTTP
// codes. Unknown errors map to internal.
func translate(err error, resourceID string) errors.AppError {
	switch {
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return errors.ErrMeetingNotFound(resourceID)
	case stdErrors.Is(err, usecaseErrors.ErrActionItemNotFound):
		return errors.ErrActionItemNotFound(resourceID)
	case stdErrors.Is(err, usecaseErrors.ErrJobNotFound):
		return errors.ErrJobNotFound(resourceID)
	case stdErrors.Is(err, usecaseErrors.ErrNoRecording):
		return errors.ErrMeetingNoRecording(resourceID)
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyProcessing):
		return errors.ErrMeetingAlreadyProcessing(resourceID)
	case stdErrors.Is(err, usecaseErrors.ErrNotProcessed):
		return errors.ErrMeetingNotProcessed(resourceID)
	case stdErrors.Is(err, usecaseErrors.ErrMissingFile):
		return errors.ErrInvalidArgument("No file provided")
	case stdErrors.Is(err, usecaseErrors.ErrUnsupportedAudio):
		return errors.ErrUnsupportedAudioType("")
	case stdErrors.Is(err, usecaseErrors.ErrRecordingTooLarge):
		return errors.ErrRecordingTooLarge(fmt.Sprintf("%d bytes", meetingUsecase.MaxRecordingBytes))
	case stdErrors.Is(err, usecaseErrors.ErrStorageUnavailable):
		return errors.ErrStorageFailed("upload", err)
	case stdErrors.Is(err, usecaseErrors.ErrInvalidStatus):
		return errors.ErrInvalidArgument("Invalid action item status")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument("Invalid input")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidCredentials):
		return errors.ErrInvalidAPIKey()
	case stdErrors.Is(err, usecaseErrors.ErrTokenInvalid):
		return errors.ErrInvalidRefreshToken()
	default:
		return errors.ErrInternal(err)
	}
}

// parseUUIDParam reads and parses a UUID path parameter
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument(fmt.Sprintf("%s must be a valid UUID", name))
	}
	return id, nil
}

// bindAndValidate binds the request into v and validates it
func bindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(v); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}

// pageWindow normalizes page/page_size and converts them to a
// limit/offset window
func pageWindow(page, pageSize int) (normPage, normSize, limit, offset int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return page, pageSize, pageSize, (page - 1) * pageSize
}

// buildMeetingFilters converts ListMeetingsRequest to repository filters
func buildMeetingFilters(req *meetingdto.ListMeetingsRequest) (repositories.MeetingFilters, int, int) {
	page, pageSize, limit, offset := pageWindow(req.Page, req.PageSize)

	filters := repositories.MeetingFilters{
		Search:    req.Search,
		Tags:      req.Tags,
		From:      req.From,
		To:        req.To,
		Limit:     limit,
		Offset:    offset,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != nil {
		status := entities.MeetingStatus(*req.Status)
		filters.Status = &status
	}
	return filters, page, pageSize
}

// buildActionItemFilters converts ListActionItemsRequest to repository
// filters
func buildActionItemFilters(req *meetingdto.ListActionItemsRequest) (repositories.ActionItemFilters, int, int, error) {
	page, pageSize, limit, offset := pageWindow(req.Page, req.PageSize)

	filters := repositories.ActionItemFilters{
		Assignee: req.Assignee,
		Limit:    limit,
		Offset:   offset,
	}
	if req.MeetingID != nil {
		meetingID, err := uuid.Parse(*req.MeetingID)
		if err != nil {
			return filters, page, pageSize, errors.ErrInvalidArgument("meeting_id must be a valid UUID")
		}
		filters.MeetingID = &meetingID
	}
	if req.Status != nil {
		status := entities.ActionItemStatus(*req.Status)
		filters.Status = &status
	}
	return filters, page, pageSize, nil
}
