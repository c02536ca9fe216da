package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/cache"
	"github.com/tuandm-dev/meeting-scribe/pkg/ai"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

func chatReply(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4-turbo",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]string{"role": "assistant", "content": content},
				},
			},
		})
	}
}

func newTestService(handler http.Handler, store cache.Store) (*Service, *httptest.Server) {
	ts := httptest.NewServer(handler)
	cfg := &config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      ts.URL + "/v1",
		SummaryModel: "gpt-4-turbo",
		Timeout:      5 * time.Second,
		CacheTTL:     time.Hour,
	}
	return NewService(ai.NewClient(cfg), cfg, store, zap.NewNop()), ts
}

func TestGenerateSummaryParsesStructuredReply(t *testing.T) {
	reply := `{
		"summary": "The team reviewed the release plan.",
		"action_items": [{"assignee": "An", "task": "Update the changelog", "due_date": "Friday"}],
		"key_points": ["Release slips one week"],
		"topics": [{"name": "Release", "discussion": "Schedule review"}],
		"decisions": ["Ship on the 15th"],
		"questions": [{"question": "Who owns QA?", "answer": "Binh"}]
	}`
	svc, ts := newTestService(chatReply(t, reply), nil)
	defer ts.Close()

	result := svc.GenerateSummary(context.Background(), "transcript text", "Weekly Sync", "")

	if result.Summary != "The team reviewed the release plan." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if len(result.ActionItems) != 1 || result.ActionItems[0].Assignee != "An" {
		t.Errorf("unexpected action items %+v", result.ActionItems)
	}
	if len(result.KeyPoints) != 1 || result.KeyPoints[0] != "Release slips one week" {
		t.Errorf("unexpected key points %+v", result.KeyPoints)
	}
	if len(result.Topics) != 1 || result.Topics[0].Name != "Release" {
		t.Errorf("unexpected topics %+v", result.Topics)
	}
	if len(result.Decisions) != 1 {
		t.Errorf("unexpected decisions %+v", result.Decisions)
	}
	if len(result.Questions) != 1 || result.Questions[0].Answer != "Binh" {
		t.Errorf("unexpected questions %+v", result.Questions)
	}
	if result.ModelUsed != "gpt-4-turbo" {
		t.Errorf("unexpected model %q", result.ModelUsed)
	}
	if result.ProcessingTime <= 0 {
		t.Errorf("expected positive processing time, got %f", result.ProcessingTime)
	}
}

func TestGenerateSummaryKeepsRawTextOnParseFailure(t *testing.T) {
	raw := "The meeting went well, everyone agreed."
	svc, ts := newTestService(chatReply(t, raw), nil)
	defer ts.Close()

	result := svc.GenerateSummary(context.Background(), "transcript", "", "")

	if result.Summary != raw {
		t.Errorf("expected raw reply as summary, got %q", result.Summary)
	}
	if result.ActionItems == nil || len(result.ActionItems) != 0 {
		t.Errorf("expected empty action items, got %+v", result.ActionItems)
	}
	if result.KeyPoints == nil || len(result.KeyPoints) != 0 {
		t.Errorf("expected empty key points, got %+v", result.KeyPoints)
	}
	if result.Topics == nil || result.Decisions == nil || result.Questions == nil {
		t.Error("expected normalized empty slices")
	}
	if result.ModelUsed != "gpt-4-turbo" {
		t.Errorf("unexpected model %q", result.ModelUsed)
	}
}

func TestGenerateSummaryDegradesOnCallFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "Incorrect API key provided",
				"type":    "invalid_request_error",
			},
		})
	}))
	defer ts.Close()

	cfg := &config.OpenAIConfig{
		APIKey:       "bad-key",
		BaseURL:      ts.URL + "/v1",
		SummaryModel: "gpt-4-turbo",
		Timeout:      5 * time.Second,
	}
	svc := NewService(ai.NewClient(cfg), cfg, nil, zap.NewNop())

	result := svc.GenerateSummary(context.Background(), "transcript", "", "")

	if !strings.HasPrefix(result.Summary, ErrorSummaryPrefix) {
		t.Errorf("expected error prefix, got %q", result.Summary)
	}
	if len(result.ActionItems) != 0 || len(result.KeyPoints) != 0 {
		t.Error("expected empty structured fields on failure")
	}
	if result.ModelUsed != "gpt-4-turbo" {
		t.Errorf("model must be recorded on failure, got %q", result.ModelUsed)
	}
}

func TestGenerateSummaryRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	reply := chatReply(t, `{"summary": "Recovered after retry."}`)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		reply(w, r)
	}))
	defer ts.Close()

	cfg := &config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      ts.URL + "/v1",
		SummaryModel: "gpt-4-turbo",
		Timeout:      5 * time.Second,
	}
	svc := NewService(ai.NewClient(cfg), cfg, nil, zap.NewNop())

	result := svc.GenerateSummary(context.Background(), "transcript", "", "")

	if result.Summary != "Recovered after retry." {
		t.Errorf("expected recovery after transient failure, got %q", result.Summary)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestGenerateSummaryServedFromCache(t *testing.T) {
	var calls atomic.Int32
	reply := chatReply(t, `{"summary": "Cached summary.", "key_points": ["point"]}`)
	svc, ts := newTestService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		reply(w, r)
	}), cache.NewMemoryStore())
	defer ts.Close()

	first := svc.GenerateSummary(context.Background(), "same transcript", "Title", "ctx")
	second := svc.GenerateSummary(context.Background(), "same transcript", "Title", "ctx")

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
	if second.Summary != first.Summary {
		t.Errorf("cache returned different summary %q", second.Summary)
	}
	if second.ProcessingTime != first.ProcessingTime {
		t.Errorf("cache must keep original processing time: %f vs %f", second.ProcessingTime, first.ProcessingTime)
	}
	if second.ModelUsed != first.ModelUsed {
		t.Errorf("cache must keep original model: %q vs %q", second.ModelUsed, first.ModelUsed)
	}

	// A different transcript misses the cache
	svc.GenerateSummary(context.Background(), "different transcript", "Title", "ctx")
	if got := calls.Load(); got != 2 {
		t.Errorf("expected cache miss for new transcript, got %d calls", got)
	}
}

func TestGenerateTitleStripsQuotes(t *testing.T) {
	for _, raw := range []string{`"Quarterly Planning Session"`, `'Quarterly Planning Session'`, "  Quarterly Planning Session\n"} {
		svc, ts := newTestService(chatReply(t, raw), nil)
		title := svc.GenerateTitle(context.Background(), "transcript")
		ts.Close()

		if title != "Quarterly Planning Session" {
			t.Errorf("raw %q: unexpected title %q", raw, title)
		}
	}
}

func TestGenerateTitleFallsBackOnFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer ts.Close()

	cfg := &config.OpenAIConfig{
		APIKey:       "bad-key",
		BaseURL:      ts.URL + "/v1",
		SummaryModel: "gpt-4-turbo",
		Timeout:      5 * time.Second,
	}
	svc := NewService(ai.NewClient(cfg), cfg, nil, zap.NewNop())

	if title := svc.GenerateTitle(context.Background(), "transcript"); title != "Meeting Transcript" {
		t.Errorf("expected fallback title, got %q", title)
	}
}

func TestGenerateTitleFallsBackOnEmptyReply(t *testing.T) {
	svc, ts := newTestService(chatReply(t, `""`), nil)
	defer ts.Close()

	if title := svc.GenerateTitle(context.Background(), "transcript"); title != "Meeting Transcript" {
		t.Errorf("expected fallback title for empty reply, got %q", title)
	}
}

func TestExtractActionItemsAppliesDefaults(t *testing.T) {
	reply := `{"action_items": [
		{"task": "Send the deck"},
		{"task": "Book the room", "assignee": "Chi", "due_date": "tomorrow"}
	]}`
	svc, ts := newTestService(chatReply(t, reply), nil)
	defer ts.Close()

	items := svc.ExtractActionItems(context.Background(), "transcript")

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Assignee != "Unassigned" {
		t.Errorf("expected Unassigned default, got %q", items[0].Assignee)
	}
	if items[0].DueDateText != "Not specified" {
		t.Errorf("expected Not specified default, got %q", items[0].DueDateText)
	}
	if items[0].DueDate != nil {
		t.Errorf("expected nil due date, got %v", items[0].DueDate)
	}
	if items[1].Assignee != "Chi" {
		t.Errorf("unexpected assignee %q", items[1].Assignee)
	}
	if items[1].DueDate == nil {
		t.Error("expected parsed due date for tomorrow")
	}
}

func TestExtractActionItemsDegradesToEmpty(t *testing.T) {
	svc, ts := newTestService(chatReply(t, "not json at all"), nil)
	defer ts.Close()

	items := svc.ExtractActionItems(context.Background(), "transcript")
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty slice, got %+v", items)
	}
}
