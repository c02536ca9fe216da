package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingdto "github.com/tuandm-dev/meeting-scribe/internal/adapter/dto/meeting"
	"github.com/tuandm-dev/meeting-scribe/internal/adapter/presenter"
	actionitemUsecase "github.com/tuandm-dev/meeting-scribe/internal/usecase/actionitem"
)

// ActionItem handles action item HTTP requests
type ActionItem struct {
	itemService actionitemUsecase.Service
	logger      *zap.Logger
}

// NewActionItemHandler creates a new action item handler
func NewActionItemHandler(itemService actionitemUsecase.Service, logger *zap.Logger) *ActionItem {
	return &ActionItem{
		itemService: itemService,
		logger:      logger,
	}
}

// List handles GET /action-items
// @Summary      List action items
// @Description  Gets a paginated action item list across meetings with meeting, status and assignee filters
// @Tags         ActionItems
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  query     string  false  "Filter by meeting (UUID)"
// @Param        status      query     string  false  "Filter by status"  Enums(pending, completed, cancelled)
// @Param        assignee    query     string  false  "Filter by assignee"
// @Param        page        query     int     false  "Page number"  default(1)
// @Param        page_size   query     int     false  "Page size"    default(20)
// @Success      200  {object}  meeting.ActionItemListResponse  "Action item page"
// @Failure      400  {object}  common.ErrorResponse            "Invalid filters"
// @Router       /action-items [get]
func (h *ActionItem) List(c echo.Context) error {
	var req meetingdto.ListActionItemsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	filters, page, pageSize, err := buildActionItemFilters(&req)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items, total, err := h.itemService.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, translate(err, ""))
	}

	return HandleSuccess(h.logger, c, presenter.ToActionItemListResponse(items, total, page, pageSize))
}

// Get handles GET /action-items/:id
// @Summary      Get an action item
// @Tags         ActionItems
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Action item ID (UUID)"
// @Success      200  {object}  meeting.ActionItemResponse  "Action item"
// @Failure      404  {object}  common.ErrorResponse        "Action item not found"
// @Router       /action-items/{id} [get]
func (h *ActionItem) Get(c echo.Context) error {
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	item, err := h.itemService.Get(c.Request().Context(), itemID)
	if err != nil {
		return HandleError(h.logger, c, translate(err, itemID.String()))
	}

	return HandleSuccess(h.logger, c, presenter.ToActionItemResponse(item))
}

// Update handles PATCH /action-items/:id
// @Summary      Update an action item
// @Description  Applies a partial edit. Editing the due date text re-resolves the concrete due date.
// @Tags         ActionItems
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Action item ID (UUID)"
// @Param        request  body      meeting.UpdateActionItemRequest  true  "Fields to update"
// @Success      200      {object}  meeting.ActionItemResponse       "Updated action item"
// @Failure      400      {object}  common.ErrorResponse             "Invalid request"
// @Failure      404      {object}  common.ErrorResponse             "Action item not found"
// @Router       /action-items/{id} [patch]
func (h *ActionItem) Update(c echo.Context) error {
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.UpdateActionItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()

	// Status transitions go through their own path; field edits are
	// applied afterwards so one PATCH can do both.
	if req.Status != nil {
		if _, err := h.itemService.UpdateStatus(ctx, itemID, *req.Status); err != nil {
			return HandleError(h.logger, c, translate(err, itemID.String()))
		}
	}

	if req.Task == nil && req.Assignee == nil && req.DueDateText == nil {
		item, err := h.itemService.Get(ctx, itemID)
		if err != nil {
			return HandleError(h.logger, c, translate(err, itemID.String()))
		}
		return HandleSuccess(h.logger, c, presenter.ToActionItemResponse(item))
	}

	item, err := h.itemService.Update(ctx, itemID, actionitemUsecase.UpdateInput{
		Task:        req.Task,
		Assignee:    req.Assignee,
		DueDateText: req.DueDateText,
	})
	if err != nil {
		return HandleError(h.logger, c, translate(err, itemID.String()))
	}

	return HandleSuccess(h.logger, c, presenter.ToActionItemResponse(item))
}
