package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/tuandm-dev/meeting-scribe/internal/domain/entities"
)

// Format identifies a supported export rendering
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatDOCX     Format = "docx"
	FormatJSON     Format = "json"
)

const (
	contentTypeMarkdown = "text/markdown; charset=utf-8"
	contentTypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypeJSON     = "application/json"
)

// ParseFormat resolves a query-string format value. Empty selects
// markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "docx", "word":
		return FormatDOCX, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Document bundles everything known about a meeting for rendering.
// Transcript, Summary and ActionItems may be nil/empty; sections are
// skipped accordingly.
type Document struct {
	Meeting     *entities.Meeting
	Transcript  *entities.Transcript
	Summary     *entities.Summary
	ActionItems []*entities.ActionItem
}

// File is a rendered export ready to be written or downloaded
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Exporter renders meeting documents into downloadable files
type Exporter struct {
	logger *zap.Logger
}

func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Export renders doc in the requested format and names the file from
// the slugified meeting title plus an export timestamp.
func (e *Exporter) Export(doc *Document, format Format) (*File, error) {
	if doc == nil || doc.Meeting == nil {
		return nil, errors.New("nothing to export")
	}

	var (
		data        []byte
		contentType string
		ext         string
		err         error
	)
	switch format {
	case FormatMarkdown:
		data = []byte(renderMarkdown(doc))
		contentType, ext = contentTypeMarkdown, ".md"
	case FormatDOCX:
		data, err = renderDOCX(doc)
		contentType, ext = contentTypeDOCX, ".docx"
	case FormatJSON:
		data, err = renderJSON(doc)
		contentType, ext = contentTypeJSON, ".json"
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_%s%s", slugify(doc.Meeting.Title), time.Now().UTC().Format("20060102_150405"), ext)
	if e.logger != nil {
		e.logger.Info("📄 Meeting exported",
			zap.String("meeting_id", doc.Meeting.ID.String()),
			zap.String("format", string(format)),
			zap.String("file", name),
			zap.Int("bytes", len(data)),
		)
	}
	return &File{Name: name, ContentType: contentType, Data: data}, nil
}

func renderMarkdown(doc *Document) string {
	m := doc.Meeting

	content := []string{
		"# " + m.Title,
		"",
		"**Date:** " + m.StartsAt.Format("2006-01-02 15:04"),
		"**Duration:** " + formatDuration(durationSeconds(doc)),
		"",
	}

	if participants := decodeStringList(m.Participants); len(participants) > 0 {
		content = append(content, "## Participants", "")
		for _, p := range participants {
			content = append(content, "- "+p)
		}
		content = append(content, "")
	}

	if tags := decodeStringList(m.Tags); len(tags) > 0 {
		quoted := make([]string, len(tags))
		for i, tag := range tags {
			quoted[i] = "`" + tag + "`"
		}
		content = append(content, "**Tags:** "+strings.Join(quoted, ", "), "")
	}

	if s := doc.Summary; s != nil {
		content = append(content, "## Summary", "", summaryText(s), "")

		if len(s.KeyPoints) > 0 {
			content = append(content, "### Key Points", "")
			for _, point := range s.KeyPoints {
				content = append(content, "- "+point)
			}
			content = append(content, "")
		}

		if len(s.Topics) > 0 {
			content = append(content, "### Topics Discussed", "")
			for _, topic := range s.Topics {
				content = append(content, "#### "+topic.Name, "", topic.Discussion, "")
			}
		}

		if len(s.Decisions) > 0 {
			content = append(content, "### Decisions Made", "")
			for _, decision := range s.Decisions {
				content = append(content, "- "+decision)
			}
			content = append(content, "")
		}

		if len(s.Questions) > 0 {
			content = append(content, "### Questions & Answers", "")
			for _, qa := range s.Questions {
				content = append(content, "**Q:** "+qa.Question, "**A:** "+qa.Answer, "")
			}
		}
	}

	if len(doc.ActionItems) > 0 {
		content = append(content, "## Action Items", "")
		for _, item := range doc.ActionItems {
			content = append(content, fmt.Sprintf("- %s **%s** - Assigned to: %s, Due: %s",
				statusIcon(item.Status), item.Task, item.Assignee, dueText(item)))
		}
		content = append(content, "")
	}

	if t := doc.Transcript; t != nil {
		content = append(content, "## Full Transcript", "", "```", transcriptText(t), "```")
	}

	return strings.Join(content, "\n")
}

// exportRecord is the canonical JSON export envelope
type exportRecord struct {
	Meeting     *entities.Meeting      `json:"meeting"`
	Transcript  *entities.Transcript   `json:"transcript,omitempty"`
	Summary     *entities.Summary      `json:"summary,omitempty"`
	ActionItems []*entities.ActionItem `json:"action_items"`
	ExportedAt  time.Time              `json:"exported_at"`
}

func renderJSON(doc *Document) ([]byte, error) {
	items := doc.ActionItems
	if items == nil {
		items = []*entities.ActionItem{}
	}
	return json.MarshalIndent(&exportRecord{
		Meeting:     doc.Meeting,
		Transcript:  doc.Transcript,
		Summary:     doc.Summary,
		ActionItems: items,
		ExportedAt:  time.Now().UTC(),
	}, "", "  ")
}

func durationSeconds(doc *Document) float64 {
	if doc.Meeting.DurationSeconds > 0 {
		return doc.Meeting.DurationSeconds
	}
	if doc.Transcript != nil {
		return doc.Transcript.DurationSeconds
	}
	return 0
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "Unknown"
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func summaryText(s *entities.Summary) string {
	if s.SummaryText == "" {
		return "No summary available."
	}
	return s.SummaryText
}

func transcriptText(t *entities.Transcript) string {
	if t.FullText == "" {
		return "No transcript available."
	}
	return t.FullText
}

func statusIcon(status entities.ActionItemStatus) string {
	switch status {
	case entities.ActionItemStatusCompleted:
		return "✅"
	case entities.ActionItemStatusPending:
		return "⏳"
	default:
		return "❌"
	}
}

func dueText(item *entities.ActionItem) string {
	if item.DueDate != nil {
		return item.DueDate.Format("2006-01-02")
	}
	if item.DueDateText != "" {
		return item.DueDateText
	}
	return entities.NoDueDateText
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

// slugify lowercases the title and keeps only letters, digits, hyphens
// and underscores, collapsing everything else into single underscores
func slugify(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '_' })
	if len(parts) == 0 {
		return "meeting"
	}
	return strings.Join(parts, "_")
}
