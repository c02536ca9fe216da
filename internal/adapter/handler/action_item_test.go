package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/domain/repositories"
	actionitemUsecase "github.com/tuandm-dev/meeting-scribe/internal/usecase/actionitem"
	usecaseErrors "github.com/tuandm-dev/meeting-scribe/internal/usecase/errors"
)

type stubItemService struct {
	listFn         func(ctx context.Context, filters repositories.ActionItemFilters) ([]*entities.ActionItem, int64, error)
	getFn          func(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status string) (*entities.ActionItem, error)
	updateFn       func(ctx context.Context, id uuid.UUID, input actionitemUsecase.UpdateInput) (*entities.ActionItem, error)
}

func (s *stubItemService) List(ctx context.Context, filters repositories.ActionItemFilters) ([]*entities.ActionItem, int64, error) {
	return s.listFn(ctx, filters)
}

func (s *stubItemService) Get(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	return s.getFn(ctx, id)
}

func (s *stubItemService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entities.ActionItem, error) {
	return s.updateStatusFn(ctx, id, status)
}

func (s *stubItemService) Update(ctx context.Context, id uuid.UUID, input actionitemUsecase.UpdateInput) (*entities.ActionItem, error) {
	return s.updateFn(ctx, id, input)
}

func TestListActionItemsHandler(t *testing.T) {
	meetingID := uuid.New()
	var captured repositories.ActionItemFilters
	svc := &stubItemService{
		listFn: func(_ context.Context, filters repositories.ActionItemFilters) ([]*entities.ActionItem, int64, error) {
			captured = filters
			return []*entities.ActionItem{
				entities.NewActionItem(meetingID, "Send the recap", "An", "tomorrow"),
			}, 1, nil
		},
	}
	e := newTestEcho()
	h := NewActionItemHandler(svc, nil)
	e.GET("/v1/action-items", h.List)

	rec := doJSON(t, e, http.MethodGet,
		"/v1/action-items?meeting_id="+meetingID.String()+"&status=pending&assignee=An", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if captured.MeetingID == nil || *captured.MeetingID != meetingID {
		t.Errorf("filters.MeetingID = %v", captured.MeetingID)
	}
	if captured.Status == nil || *captured.Status != entities.ActionItemStatusPending {
		t.Errorf("filters.Status = %v", captured.Status)
	}
	if captured.Assignee != "An" {
		t.Errorf("filters.Assignee = %q", captured.Assignee)
	}

	env := decodeEnvelope(t, rec)
	var body struct {
		ActionItems []struct {
			Task string `json:"task"`
		} `json:"action_items"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(body.ActionItems) != 1 || body.ActionItems[0].Task != "Send the recap" {
		t.Errorf("action_items = %+v", body.ActionItems)
	}
}

func TestListActionItemsHandlerRejectsBadFilters(t *testing.T) {
	e := newTestEcho()
	h := NewActionItemHandler(&stubItemService{}, nil)
	e.GET("/v1/action-items", h.List)

	tests := []struct {
		name   string
		target string
	}{
		{"bad meeting id", "/v1/action-items?meeting_id=not-a-uuid"},
		{"unknown status", "/v1/action-items?status=archived"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestGetActionItemHandler(t *testing.T) {
	item := entities.NewActionItem(uuid.New(), "Book the room", "Unassigned", "Not specified")
	svc := &stubItemService{
		getFn: func(_ context.Context, id uuid.UUID) (*entities.ActionItem, error) {
			if id != item.ID {
				return nil, usecaseErrors.ErrActionItemNotFound
			}
			return item, nil
		},
	}
	e := newTestEcho()
	h := NewActionItemHandler(svc, nil)
	e.GET("/v1/action-items/:id", h.Get)

	rec := doJSON(t, e, http.MethodGet, "/v1/action-items/"+item.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/action-items/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "ACTION_ITEM_NOT_FOUND" {
		t.Errorf("envelope code = %q", env.Code)
	}
}

func TestUpdateActionItemHandlerStatusOnly(t *testing.T) {
	item := entities.NewActionItem(uuid.New(), "Draft the doc", "Minh", "friday")
	var statusSet string
	updateCalled := false
	svc := &stubItemService{
		updateStatusFn: func(_ context.Context, _ uuid.UUID, status string) (*entities.ActionItem, error) {
			statusSet = status
			item.Status = entities.ActionItemStatus(status)
			return item, nil
		},
		getFn: func(_ context.Context, _ uuid.UUID) (*entities.ActionItem, error) {
			return item, nil
		},
		updateFn: func(_ context.Context, _ uuid.UUID, _ actionitemUsecase.UpdateInput) (*entities.ActionItem, error) {
			updateCalled = true
			return item, nil
		},
	}
	e := newTestEcho()
	h := NewActionItemHandler(svc, nil)
	e.PATCH("/v1/action-items/:id", h.Update)

	rec := doJSON(t, e, http.MethodPatch, "/v1/action-items/"+item.ID.String(), `{"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if statusSet != "completed" {
		t.Errorf("status passed = %q", statusSet)
	}
	if updateCalled {
		t.Error("field update should not run for a status-only patch")
	}

	env := decodeEnvelope(t, rec)
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if body.Status != "completed" {
		t.Errorf("response status = %q", body.Status)
	}
}

func TestUpdateActionItemHandlerFields(t *testing.T) {
	item := entities.NewActionItem(uuid.New(), "Old task", "Minh", "friday")
	var captured actionitemUsecase.UpdateInput
	statusCalled := false
	svc := &stubItemService{
		updateStatusFn: func(_ context.Context, _ uuid.UUID, status string) (*entities.ActionItem, error) {
			statusCalled = true
			item.Status = entities.ActionItemStatus(status)
			return item, nil
		},
		updateFn: func(_ context.Context, _ uuid.UUID, input actionitemUsecase.UpdateInput) (*entities.ActionItem, error) {
			captured = input
			item.Task = *input.Task
			return item, nil
		},
	}
	e := newTestEcho()
	h := NewActionItemHandler(svc, nil)
	e.PATCH("/v1/action-items/:id", h.Update)

	t.Run("fields only", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPatch, "/v1/action-items/"+item.ID.String(),
			`{"task":"New task","assignee":"An"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if statusCalled {
			t.Error("status transition should not run without a status field")
		}
		if captured.Task == nil || *captured.Task != "New task" {
			t.Errorf("captured task = %v", captured.Task)
		}
		if captured.Assignee == nil || *captured.Assignee != "An" {
			t.Errorf("captured assignee = %v", captured.Assignee)
		}
		if captured.DueDateText != nil {
			t.Errorf("captured due date text = %v", captured.DueDateText)
		}
	})

	t.Run("status and fields together", func(t *testing.T) {
		statusCalled = false
		rec := doJSON(t, e, http.MethodPatch, "/v1/action-items/"+item.ID.String(),
			`{"status":"completed","task":"Another task"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !statusCalled {
			t.Error("status transition should run")
		}
		if captured.Task == nil || *captured.Task != "Another task" {
			t.Errorf("captured task = %v", captured.Task)
		}
	})
}

func TestUpdateActionItemHandlerErrors(t *testing.T) {
	svc := &stubItemService{
		updateStatusFn: func(_ context.Context, _ uuid.UUID, _ string) (*entities.ActionItem, error) {
			return nil, usecaseErrors.ErrActionItemNotFound
		},
	}
	e := newTestEcho()
	h := NewActionItemHandler(svc, nil)
	e.PATCH("/v1/action-items/:id", h.Update)

	t.Run("unknown status rejected by validation", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPatch, "/v1/action-items/"+uuid.NewString(), `{"status":"archived"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing item", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPatch, "/v1/action-items/"+uuid.NewString(), `{"status":"completed"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}
