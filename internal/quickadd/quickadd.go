// Package quickadd parses one-line task entries such as
//
//	pay rent @bills !high due:2024-07-01 at:09:00 every:monthly
//
// into a manager.NewTask. Words that are not tokens form the title; a
// leading backslash keeps a word literal.
package quickadd

import (
	"fmt"
	"strings"
	"time"

	"github.com/dori/tickle/internal/manager"
	"github.com/dori/tickle/internal/model"
)

// Default due time when a date is given without at:
const (
	DefaultDueHour   = 23
	DefaultDueMinute = 59
)

// Parse parses a quick-add line relative to now
func Parse(input string, now time.Time) (manager.NewTask, error) {
	var (
		nt       manager.NewTask
		title    []string
		date     *time.Time
		hasTime  bool
		hour     int
		minute   int
		seenTags = map[string]bool{}
	)

	for _, word := range strings.Fields(input) {
		lower := strings.ToLower(word)

		switch {
		case strings.HasPrefix(word, `\`) && len(word) > 1:
			title = append(title, word[1:])

		case strings.HasPrefix(word, "@") && len(word) > 1:
			tag := word[1:]
			if !seenTags[tag] {
				seenTags[tag] = true
				nt.Tags = append(nt.Tags, tag)
			}

		case strings.HasPrefix(word, "!") && len(word) > 1:
			p, err := parsePriority(lower[1:])
			if err != nil {
				return manager.NewTask{}, err
			}
			nt.Priority = p

		case strings.HasPrefix(lower, "due:"):
			d, ok := ParseNaturalDate(word[len("due:"):], now)
			if !ok {
				return manager.NewTask{}, model.Invalid("due",
					fmt.Sprintf("cannot parse date %q (use YYYY-MM-DD, today, tomorrow or a weekday)", word[len("due:"):]))
			}
			date = &d

		case strings.HasPrefix(lower, "at:"):
			h, m, ok := model.ParseTimeInput(word[len("at:"):])
			if !ok {
				return manager.NewTask{}, model.Invalid("time",
					fmt.Sprintf("cannot parse time %q (use HH:MM)", word[len("at:"):]))
			}
			hasTime, hour, minute = true, h, m

		case strings.HasPrefix(lower, "every:"):
			r, err := model.ParseRecurrence(lower[len("every:"):])
			if err != nil {
				return manager.NewTask{}, err
			}
			nt.Recurrence = r

		default:
			title = append(title, word)
		}
	}

	t, err := model.NormalizeTitle(strings.Join(title, " "))
	if err != nil {
		return manager.NewTask{}, err
	}
	nt.Title = t

	if hasTime && date == nil {
		today := startOfDay(now)
		date = &today
	}
	if date != nil {
		if !hasTime {
			hour, minute = DefaultDueHour, DefaultDueMinute
		}
		due := model.CombineDateTime(*date, hour, minute)
		nt.Due = &due
	}

	return nt, nil
}

// ParseNaturalDate parses a calendar date or one of today, tomorrow, a
// weekday name or next-week. Weekdays resolve to the next such day after
// today. The result is local midnight.
func ParseNaturalDate(s string, now time.Time) (time.Time, bool) {
	today := startOfDay(now)

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today", "tod":
		return today, true
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), true
	case "next-week", "nextweek":
		return today.AddDate(0, 0, 7), true
	case "monday", "mon":
		return nextWeekday(today, time.Monday), true
	case "tuesday", "tue":
		return nextWeekday(today, time.Tuesday), true
	case "wednesday", "wed":
		return nextWeekday(today, time.Wednesday), true
	case "thursday", "thu":
		return nextWeekday(today, time.Thursday), true
	case "friday", "fri":
		return nextWeekday(today, time.Friday), true
	case "saturday", "sat":
		return nextWeekday(today, time.Saturday), true
	case "sunday", "sun":
		return nextWeekday(today, time.Sunday), true
	}

	return model.ParseDateInput(s)
}

func nextWeekday(today time.Time, day time.Weekday) time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parsePriority(s string) (model.Priority, error) {
	switch s {
	case "h", "hi":
		return model.PriorityHigh, nil
	case "m", "med":
		return model.PriorityMedium, nil
	case "l", "lo":
		return model.PriorityLow, nil
	}
	return model.ParsePriority(s)
}
