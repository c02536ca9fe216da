package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/cache"
	"github.com/tuandm-dev/meeting-scribe/internal/metrics"
	"github.com/tuandm-dev/meeting-scribe/pkg/ai"
	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

// ErrorSummaryPrefix marks a degraded summary produced after the model
// call itself failed
const ErrorSummaryPrefix = "Error generating summary: "

const titleTranscriptLimit = 5000

const titleInstruction = "Generate a brief, specific title for this meeting transcript. The title should capture the main purpose or focus of the meeting in 10 words or less."

// Result is the structured summarization outcome. Every call produces
// one, including failed calls: structured fields degrade to empty
// slices and Summary carries the raw reply or an error string.
type Result struct {
	Summary        string              `json:"summary"`
	ActionItems    []ActionItem        `json:"action_items"`
	KeyPoints      []string            `json:"key_points"`
	Topics         []entities.Topic    `json:"topics"`
	Decisions      []string            `json:"decisions"`
	Questions      []entities.Question `json:"questions"`
	ProcessingTime float64             `json:"processing_time"`
	ModelUsed      string              `json:"model_used"`
}

// ActionItem is one extracted commitment. DueDate stays the text the
// model produced ("next Friday", "2026-09-01", "Not specified").
type ActionItem struct {
	Assignee string `json:"assignee"`
	Task     string `json:"task"`
	DueDate  string `json:"due_date"`
}

// ActionItemDetail is an ActionItem with the due-date text resolved to
// a concrete timestamp when possible
type ActionItemDetail struct {
	Task        string
	Assignee    string
	DueDateText string
	DueDate     *time.Time
}

// Service turns transcripts into summaries, titles and action items.
// Stateless per call; safe for concurrent use.
type Service struct {
	client *ai.Client
	model  string
	cache  *resultCache
	logger *zap.Logger
}

// NewService creates a summarizer service. store may be nil to disable
// caching.
func NewService(client *ai.Client, cfg *config.OpenAIConfig, store cache.Store, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		model:  cfg.SummaryModel,
		cache:  newResultCache(store, cfg.CacheTTL),
		logger: logger,
	}
}

// GenerateSummary summarizes a transcript into the structured Result.
// Never returns an error: parse failures keep the raw reply as the
// summary, call failures produce an error-message summary.
func (s *Service) GenerateSummary(ctx context.Context, transcript, meetingTitle, meetingContext string) *Result {
	if s.logger != nil {
		s.logger.Info("🤖 Generating summary",
			zap.Int("transcript_length", len(transcript)),
			zap.String("model", s.model),
		)
	}

	if cached, ok := s.cache.lookup(ctx, s.model, meetingTitle, meetingContext, transcript); ok {
		metrics.RecordCacheLookup(true)
		if s.logger != nil {
			s.logger.Info("✅ Summary served from cache")
		}
		return cached
	}
	metrics.RecordCacheLookup(false)

	start := time.Now()
	content, err := s.complete(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSummaryPrompt(meetingTitle, meetingContext)},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		metrics.RecordLLMRequest("summarize", "error", time.Since(start).Seconds())
		if s.logger != nil {
			s.logger.Error("❌ Summary generation failed", zap.Error(err))
		}
		result := &Result{
			Summary:   ErrorSummaryPrefix + err.Error(),
			ModelUsed: s.model,
		}
		normalizeResult(result)
		return result
	}

	elapsed := time.Since(start).Seconds()

	result, parseErr := parseSummaryReply(content)
	if parseErr != nil {
		metrics.RecordLLMRequest("summarize", "parse_fallback", elapsed)
		if s.logger != nil {
			s.logger.Warn("⚠️ Summary reply was not valid JSON, keeping raw text", zap.Error(parseErr))
		}
		result = rawTextResult(content)
	} else {
		metrics.RecordLLMRequest("summarize", "success", elapsed)
	}
	result.ProcessingTime = elapsed
	result.ModelUsed = s.model

	if parseErr == nil {
		s.cache.save(ctx, s.model, meetingTitle, meetingContext, transcript, result)
	}

	if s.logger != nil {
		s.logger.Info("✅ Summary generated",
			zap.Float64("elapsed_seconds", elapsed),
			zap.Int("action_items", len(result.ActionItems)),
			zap.Int("key_points", len(result.KeyPoints)),
		)
	}
	return result
}

// GenerateTitle produces a short meeting title from the transcript.
// Falls back to the default title on any failure.
func (s *Service) GenerateTitle(ctx context.Context, transcript string) string {
	truncated := transcript
	if runes := []rune(transcript); len(runes) > titleTranscriptLimit {
		truncated = string(runes[:titleTranscriptLimit])
	}

	start := time.Now()
	content, err := s.complete(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: titleInstruction},
			{Role: openai.ChatMessageRoleUser, Content: truncated},
		},
		Temperature: 0.3,
		MaxTokens:   50,
	})
	if err != nil {
		metrics.RecordLLMRequest("title", "error", time.Since(start).Seconds())
		if s.logger != nil {
			s.logger.Error("❌ Title generation failed", zap.Error(err))
		}
		return entities.DefaultMeetingTitle
	}
	metrics.RecordLLMRequest("title", "success", time.Since(start).Seconds())

	title := strings.TrimSpace(content)
	title = strings.Trim(title, `"'`)
	if title == "" {
		return entities.DefaultMeetingTitle
	}
	return title
}

// ExtractActionItems runs a dedicated extraction pass over the
// transcript. Failures degrade to an empty slice, never an error.
func (s *Service) ExtractActionItems(ctx context.Context, transcript string) []ActionItemDetail {
	if s.logger != nil {
		s.logger.Info("🔍 Extracting action items",
			zap.Int("transcript_length", len(transcript)),
		)
	}

	start := time.Now()
	content, err := s.complete(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: actionItemsInstruction},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		metrics.RecordLLMRequest("action_items", "error", time.Since(start).Seconds())
		if s.logger != nil {
			s.logger.Error("❌ Action item extraction failed", zap.Error(err))
		}
		return []ActionItemDetail{}
	}
	elapsed := time.Since(start).Seconds()

	raw, parseErr := parseActionItemsReply(content)
	if parseErr != nil {
		metrics.RecordLLMRequest("action_items", "parse_fallback", elapsed)
		if s.logger != nil {
			s.logger.Error("❌ Failed to parse action items JSON", zap.Error(parseErr))
		}
		return []ActionItemDetail{}
	}
	metrics.RecordLLMRequest("action_items", "success", elapsed)

	now := time.Now()
	items := make([]ActionItemDetail, 0, len(raw))
	for _, item := range raw {
		detail := ActionItemDetail{
			Task:        item.Task,
			Assignee:    item.Assignee,
			DueDateText: item.DueDate,
		}
		if detail.Assignee == "" {
			detail.Assignee = entities.UnassignedAssignee
		}
		if detail.DueDateText == "" {
			detail.DueDateText = entities.NoDueDateText
		}
		detail.DueDate = ParseDueDate(detail.DueDateText, now)
		items = append(items, detail)
	}

	if s.logger != nil {
		s.logger.Info("✅ Action items extracted",
			zap.Int("count", len(items)),
			zap.Float64("elapsed_seconds", elapsed),
		)
	}
	return items
}

// complete issues one chat completion, retrying transient failures
// with bounded exponential backoff. Permanent failures (bad request,
// auth) return immediately.
func (s *Service) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	var content string
	call := func() error {
		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if !ai.IsTransient(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("model returned no choices"))
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(call, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return content, nil
}

func buildSummaryPrompt(meetingTitle, meetingContext string) string {
	titleInfo := ""
	if meetingTitle != "" {
		titleInfo = fmt.Sprintf("Title: %s\n", meetingTitle)
	}
	contextInfo := ""
	if meetingContext != "" {
		contextInfo = fmt.Sprintf("Context: %s\n", meetingContext)
	}

	return fmt.Sprintf(`You are an AI meeting assistant that creates clear, concise summaries of meeting transcripts.

%s%s

Analyze the meeting transcript and produce a JSON response with the following structure:
{
    "summary": "A concise 3-5 paragraph summary of the meeting highlighting the main topics and decisions",
    "action_items": [
        {
            "assignee": "Person name or 'Unassigned'",
            "task": "Description of the action item",
            "due_date": "Due date if mentioned or 'Not specified'"
        }
    ],
    "key_points": [
        "Key point 1",
        "Key point 2"
    ],
    "topics": [
        {
            "name": "Topic name",
            "discussion": "Brief summary of the discussion about this topic"
        }
    ],
    "decisions": [
        "Decision 1",
        "Decision 2"
    ],
    "questions": [
        {
            "question": "Question raised in the meeting",
            "answer": "Answer provided if any, or 'Unanswered'"
        }
    ]
}

Focus on extracting concrete information, decisions, and next steps. Be precise and factual.
Identify distinct topics discussed, even if they weren't explicitly labeled as topics.
Group related points under the same topic.
For action items, try to identify who is responsible and any mentioned deadlines.
`, titleInfo, contextInfo)
}

const actionItemsInstruction = `You are an AI assistant specializing in extracting action items from meeting transcripts.

Review the meeting transcript carefully and extract all action items, tasks, or commitments that people agreed to do.

For each action item, identify:
1. The task description
2. Who is assigned to do it
3. Any mentioned due date or deadline

Return your response as a JSON object with the following structure:
{
    "action_items": [
        {
            "task": "Description of the task",
            "assignee": "Person name or 'Unassigned'",
            "due_date": "Due date if mentioned or 'Not specified'"
        }
    ]
}

Be specific about what needs to be done and who needs to do it.
If no assignee is mentioned, use "Unassigned".
If no due date is mentioned, use "Not specified".
Only include clear commitments or tasks, not general discussions or ideas.
`
