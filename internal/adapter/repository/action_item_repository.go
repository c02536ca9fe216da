package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
)

// actionItemRepository implements the ActionItemRepository interface
type actionItemRepository struct {
	db *gorm.DB
}

// NewActionItemRepository creates a new action item repository
func NewActionItemRepository(db *gorm.DB) repositories.ActionItemRepository {
	return &actionItemRepository{db: db}
}

// ReplaceForMeeting deletes existing items for the meeting and inserts the new set
func (r *actionItemRepository) ReplaceForMeeting(ctx context.Context, meetingID uuid.UUID, items []*entities.ActionItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&entities.ActionItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(items).Error
	})
}

// FindByID retrieves an action item by its ID
func (r *actionItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	var item entities.ActionItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// List retrieves action items with filters and pagination
func (r *actionItemRepository) List(ctx context.Context, filters repositories.ActionItemFilters) ([]*entities.ActionItem, int64, error) {
	var items []*entities.ActionItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.ActionItem{})

	if filters.MeetingID != nil {
		query = query.Where("meeting_id = ?", *filters.MeetingID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Assignee != "" {
		query = query.Where("assignee = ?", filters.Assignee)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Soonest due first; undated items sink to the end
	query = query.Order("due_date ASC NULLS LAST").Order("created_at ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&items).Error
	return items, total, err
}

// ListByMeetingID retrieves all action items for a meeting
func (r *actionItemRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus updates the status of an action item
func (r *actionItemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ActionItemStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.ActionItem{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Update updates an existing action item
func (r *actionItemRepository) Update(ctx context.Context, item *entities.ActionItem) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}
	return r.db.WithContext(ctx).Save(item).Error
}
