package actionitem

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
	"github.com/tuandm-dev/meeting-scribe/internal/usecase/summarizer"
)

// Service defines the interface for the action item use case
type Service interface {
	// List retrieves action items with filters
	List(ctx context.Context, filters repositories.ActionItemFilters) ([]*entities.ActionItem, int64, error)

	// Get retrieves an action item by ID
	Get(ctx context.Context, itemID uuid.UUID) (*entities.ActionItem, error)

	// UpdateStatus moves an action item through its lifecycle
	UpdateStatus(ctx context.Context, itemID uuid.UUID, status string) (*entities.ActionItem, error)

	// Update applies a partial edit
	Update(ctx context.Context, itemID uuid.UUID, input UpdateInput) (*entities.ActionItem, error)
}

// Ensure ActionItemService implements Service interface
var _ Service = (*ActionItemService)(nil)

// ActionItemService handles action item business logic
type ActionItemService struct {
	itemRepo repositories.ActionItemRepository
}

// NewActionItemService creates a new action item service
func NewActionItemService(itemRepo repositories.ActionItemRepository) *ActionItemService {
	return &ActionItemService{itemRepo: itemRepo}
}

// List retrieves action items with filters
func (s *ActionItemService) List(ctx context.Context, filters repositories.ActionItemFilters) ([]*entities.ActionItem, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}
	if filters.Limit > 200 {
		filters.Limit = 200
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	items, total, err := s.itemRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list action items: %w", err)
	}
	return items, total, nil
}

// Get retrieves an action item by ID
func (s *ActionItemService) Get(ctx context.Context, itemID uuid.UUID) (*entities.ActionItem, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get action item: %w", err)
	}
	if item == nil {
		return nil, usecaseErrors.ErrActionItemNotFound
	}
	return item, nil
}

// UpdateStatus moves an action item through its lifecycle
func (s *ActionItemService) UpdateStatus(ctx context.Context, itemID uuid.UUID, status string) (*entities.ActionItem, error) {
	if !entities.ValidStatus(status) {
		return nil, usecaseErrors.ErrInvalidStatus
	}

	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Status = entities.ActionItemStatus(status)
	item.UpdatedAt = time.Now()
	if err := s.itemRepo.UpdateStatus(ctx, itemID, item.Status); err != nil {
		return nil, fmt.Errorf("failed to update action item status: %w", err)
	}
	return item, nil
}

// UpdateInput represents a partial action item edit. Nil fields are
// left untouched. A DueDateText edit re-resolves the concrete DueDate.
type UpdateInput struct {
	Task        *string
	Assignee    *string
	DueDateText *string
}

// Update applies a partial edit
func (s *ActionItemService) Update(ctx context.Context, itemID uuid.UUID, input UpdateInput) (*entities.ActionItem, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if input.Task != nil {
		task := strings.TrimSpace(*input.Task)
		if task == "" {
			return nil, usecaseErrors.ErrInvalidInput
		}
		item.Task = task
	}
	if input.Assignee != nil {
		assignee := strings.TrimSpace(*input.Assignee)
		if assignee == "" {
			assignee = entities.UnassignedAssignee
		}
		item.Assignee = assignee
	}
	if input.DueDateText != nil {
		text := strings.TrimSpace(*input.DueDateText)
		if text == "" {
			text = entities.NoDueDateText
		}
		item.DueDateText = text
		item.DueDate = summarizer.ParseDueDate(text, time.Now())
	}
	item.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update action item: %w", err)
	}
	return item, nil
}
