package export

import (
	"os"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	docxFont     = "Times New Roman"
	docxBodySize = 13
)

// renderDOCX renders the same structure as the markdown export with
// styled headings and bold runs. godocx only saves to a path, so the
// document round-trips through a temp file.
func renderDOCX(doc *Document) ([]byte, error) {
	d, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}

	m := doc.Meeting
	docxHeading(d.AddParagraph(""), m.Title, 16)
	docxRun(d.AddParagraph(""), "Date: "+m.StartsAt.Format("2006-01-02 15:04"), false)
	docxRun(d.AddParagraph(""), "Duration: "+formatDuration(durationSeconds(doc)), false)

	if participants := decodeStringList(m.Participants); len(participants) > 0 {
		docxHeading(d.AddParagraph(""), "Participants", 15)
		for _, p := range participants {
			docxRun(d.AddParagraph(""), "• "+p, false)
		}
	}

	if tags := decodeStringList(m.Tags); len(tags) > 0 {
		docxRun(d.AddParagraph(""), "Tags: "+strings.Join(tags, ", "), false)
	}

	if s := doc.Summary; s != nil {
		docxHeading(d.AddParagraph(""), "Summary", 15)
		docxRun(d.AddParagraph(""), summaryText(s), false)

		if len(s.KeyPoints) > 0 {
			docxHeading(d.AddParagraph(""), "Key Points", 14)
			for _, point := range s.KeyPoints {
				docxRun(d.AddParagraph(""), "• "+point, false)
			}
		}

		if len(s.Topics) > 0 {
			docxHeading(d.AddParagraph(""), "Topics Discussed", 14)
			for _, topic := range s.Topics {
				docxHeading(d.AddParagraph(""), topic.Name, docxBodySize)
				docxRun(d.AddParagraph(""), topic.Discussion, false)
			}
		}

		if len(s.Decisions) > 0 {
			docxHeading(d.AddParagraph(""), "Decisions Made", 14)
			for _, decision := range s.Decisions {
				docxRun(d.AddParagraph(""), "• "+decision, false)
			}
		}

		if len(s.Questions) > 0 {
			docxHeading(d.AddParagraph(""), "Questions & Answers", 14)
			for _, qa := range s.Questions {
				p := d.AddParagraph("")
				docxRun(p, "Q: ", true)
				docxRun(p, qa.Question, false)
				a := d.AddParagraph("")
				docxRun(a, "A: ", true)
				docxRun(a, qa.Answer, false)
			}
		}
	}

	if len(doc.ActionItems) > 0 {
		docxHeading(d.AddParagraph(""), "Action Items", 15)
		for _, item := range doc.ActionItems {
			p := d.AddParagraph("")
			docxRun(p, "• "+statusIcon(item.Status)+" "+item.Task, true)
			docxRun(p, " - Assigned to: "+item.Assignee+", Due: "+dueText(item), false)
		}
	}

	if t := doc.Transcript; t != nil {
		docxHeading(d.AddParagraph(""), "Full Transcript", 15)
		for _, line := range strings.Split(transcriptText(t), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			docxRun(d.AddParagraph(""), line, false)
		}
	}

	tmp, err := os.CreateTemp("", "meeting-export-*.docx")
	if err != nil {
		return nil, err
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := d.SaveTo(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func docxHeading(p *docx.Paragraph, text string, size uint64) {
	run := p.AddText(text).Font(docxFont).Size(size).Color("000000")
	run.Bold(true)
}

func docxRun(p *docx.Paragraph, text string, bold bool) {
	run := p.AddText(text).Font(docxFont).Size(docxBodySize).Color("000000")
	if bold {
		run.Bold(true)
	}
}
