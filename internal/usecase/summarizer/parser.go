package summarizer

import (
	"encoding/json"
	"strings"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
)

// extractJSON strips markdown code fences some models wrap around a
// JSON reply
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}

// parseSummaryReply unmarshals a model reply into a Result with all
// list fields normalized to non-nil slices
func parseSummaryReply(content string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(extractJSON(content)), &result); err != nil {
		return nil, err
	}
	normalizeResult(&result)
	return &result, nil
}

// parseActionItemsReply unmarshals a dedicated extraction reply
func parseActionItemsReply(content string) ([]ActionItem, error) {
	var decoded struct {
		ActionItems []ActionItem `json:"action_items"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &decoded); err != nil {
		return nil, err
	}
	return decoded.ActionItems, nil
}

// rawTextResult wraps an unparseable reply: the raw text becomes the
// summary, everything else stays empty
func rawTextResult(content string) *Result {
	result := &Result{Summary: content}
	normalizeResult(result)
	return result
}

func normalizeResult(result *Result) {
	if result.ActionItems == nil {
		result.ActionItems = []ActionItem{}
	}
	if result.KeyPoints == nil {
		result.KeyPoints = []string{}
	}
	if result.Topics == nil {
		result.Topics = []entities.Topic{}
	}
	if result.Decisions == nil {
		result.Decisions = []string{}
	}
	if result.Questions == nil {
		result.Questions = []entities.Question{}
	}
}
