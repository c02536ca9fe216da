package summarizer

import (
	"regexp"
	"strings"
	"time"
)

var (
	todayPattern     = regexp.MustCompile(`(?i)\btoday\b|\bend of day\b`)
	tomorrowPattern  = regexp.MustCompile(`(?i)\btomorrow\b`)
	nextWeekPattern  = regexp.MustCompile(`(?i)\bnext week\b`)
	nextMonthPattern = regexp.MustCompile(`(?i)\bnext month\b`)
	weekdayPattern   = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	// Yeared alternatives come first so "January 2, 2026" is not
	// truncated to its year-less prefix
	datePattern = regexp.MustCompile(`\d{1,4}[-/]\d{1,2}[-/]\d{1,4}|\d{1,2} [A-Za-z]{3,9} \d{2,4}|[A-Za-z]{3,9} \d{1,2},? \d{2,4}|[A-Za-z]{3,9} \d{1,2}|\d{1,2} [A-Za-z]{3,9}|\d{1,2}[-/]\d{1,2}`)
)

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var writtenLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
	"2 January",
	"2 Jan",
	"01/02",
	"1/2",
}

// ParseDueDate resolves a spoken or written due-date phrase into a
// concrete timestamp. Relative phrases resolve against now at
// 23:59:59; unrecognized text returns nil.
func ParseDueDate(text string, now time.Time) *time.Time {
	switch text {
	case "", "Not specified", "None", "Unspecified":
		return nil
	}
	text = strings.TrimSpace(text)

	// Exact ISO forms
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, text, now.Location()); err == nil {
			return &t
		}
	}

	if todayPattern.MatchString(text) {
		t := endOfDay(now)
		return &t
	}
	if tomorrowPattern.MatchString(text) {
		t := endOfDay(now.AddDate(0, 0, 1))
		return &t
	}
	if nextWeekPattern.MatchString(text) {
		t := endOfDay(now.AddDate(0, 0, 7))
		return &t
	}
	if nextMonthPattern.MatchString(text) {
		t := endOfDay(now.AddDate(0, 0, 30))
		return &t
	}

	// Weekday names, with or without "next"/"by"/"on" around them.
	// Naming the current weekday means next week's occurrence.
	if match := weekdayPattern.FindString(text); match != "" {
		target := weekdayNames[strings.ToLower(match)]
		daysAhead := (int(target) - int(now.Weekday()) + 7) % 7
		if daysAhead == 0 {
			daysAhead = 7
		}
		t := endOfDay(now.AddDate(0, 0, daysAhead))
		return &t
	}

	// Written calendar dates embedded in longer phrases
	candidate := datePattern.FindString(text)
	if candidate == "" {
		return nil
	}
	for _, layout := range writtenLayouts {
		if t, err := time.ParseInLocation(layout, candidate, now.Location()); err == nil {
			return &t
		}
	}
	// Year-less forms resolve to the next occurrence
	for _, layout := range yearlessLayouts {
		if t, err := time.ParseInLocation(layout, candidate, now.Location()); err == nil {
			resolved := time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
			if resolved.Before(now) {
				resolved = resolved.AddDate(1, 0, 0)
			}
			return &resolved
		}
	}

	return nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
