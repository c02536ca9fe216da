package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/internal/adapter/dto"
	"github.com/tuandm-dev/meeting-scribe/internal/adapter/presenter"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/summarizer"
)

// Summarize handles stateless summarization HTTP requests
type Summarize struct {
	summarizerService *summarizer.Service
	logger            *zap.Logger
}

// NewSummarizeHandler creates a new summarize handler
func NewSummarizeHandler(summarizerService *summarizer.Service, logger *zap.Logger) *Summarize {
	return &Summarize{
		summarizerService: summarizerService,
		logger:            logger,
	}
}

// Summarize handles POST /summarize
// @Summary      Summarize a transcript
// @Description  Synchronously summarizes a raw transcript. Always returns 200: when the language model fails, the result degrades to empty sections with the error noted in the summary text.
// @Tags         Summarize
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.SummarizeRequest   true  "Transcript to summarize"
// @Success      200      {object}  dto.SummarizeResponse  "Summarization result"
// @Failure      400      {object}  common.ErrorResponse   "Missing transcript"
// @Router       /summarize [post]
func (h *Summarize) Summarize(c echo.Context) error {
	var req dto.SummarizeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result := h.summarizerService.GenerateSummary(c.Request().Context(), req.Transcript, req.Title, req.Context)
	return HandleSuccess(h.logger, c, presenter.ToSummarizeResponse(result))
}

// Title handles POST /summarize/title
// @Summary      Generate a meeting title
// @Description  Synchronously generates a short title for a transcript. Falls back to a default title when the language model fails.
// @Tags         Summarize
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.TitleRequest      true  "Transcript to title"
// @Success      200      {object}  dto.TitleResponse     "Generated title"
// @Failure      400      {object}  common.ErrorResponse  "Missing transcript"
// @Router       /summarize/title [post]
func (h *Summarize) Title(c echo.Context) error {
	var req dto.TitleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	title := h.summarizerService.GenerateTitle(c.Request().Context(), req.Transcript)
	return HandleSuccess(h.logger, c, &dto.TitleResponse{Title: title})
}
