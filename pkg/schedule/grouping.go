package schedule

import (
	"sort"
	"time"

	"github.com/meowafisha/meowafisha/pkg/dates"
	"github.com/meowafisha/meowafisha/pkg/event"
)

// Section is one ordered display bucket of the upcoming view.
type Section struct {
	Title  string
	Events []event.Event
}

var weekdayNames = [7]string{
	"Воскресенье",
	"Понедельник",
	"Вторник",
	"Среда",
	"Четверг",
	"Пятница",
	"Суббота",
}

// GroupUpcoming buckets events into ordered display sections: today
// (still-upcoming events plus those within the grace window after
// their end), tomorrow, then one section per weekday in calendar order
// starting from the day after tomorrow. Days without events produce no
// section. Within a section events are ordered by date, then title.
func GroupUpcoming(events []event.Event, now time.Time) []Section {
	today := dates.Canonical(now)
	tomorrow := dates.Canonical(now.AddDate(0, 0, 1))

	var todayEvents, tomorrowEvents []event.Event
	weekdayBuckets := make(map[time.Weekday][]event.Event)

	for _, e := range events {
		eventDate := dates.Normalize(e.Date, now)
		switch {
		case eventDate == today:
			if Classify(e, now) == Upcoming || WithinGrace(e, now) {
				todayEvents = append(todayEvents, e)
			}
		case eventDate < today && dates.IsCanonical(eventDate):
			// Yesterday's midnight-crossing events belong to today while
			// still running or within the grace window after their end.
			if Classify(e, now) == Upcoming || WithinGrace(e, now) {
				todayEvents = append(todayEvents, e)
			}
		case eventDate == tomorrow:
			tomorrowEvents = append(tomorrowEvents, e)
		case eventDate > today:
			instant, ok := dates.Instant(e.Date, now)
			if !ok {
				continue
			}
			weekdayBuckets[instant.Weekday()] = append(weekdayBuckets[instant.Weekday()], e)
		}
	}

	var sections []Section
	appendSection := func(title string, bucket []event.Event) {
		if len(bucket) == 0 {
			return
		}
		sortByDate(bucket, now)
		for i := range bucket {
			bucket[i].DateLabel = DateLabel(bucket[i], now)
		}
		sections = append(sections, Section{Title: title, Events: bucket})
	}

	appendSection("Сегодня", todayEvents)
	appendSection("Завтра", tomorrowEvents)

	// Weekday sections start from the nearest day after tomorrow, so
	// the list reads as "the rest of the week, then onwards".
	firstWeekday := now.AddDate(0, 0, 2).Weekday()
	for offset := 0; offset < 7; offset++ {
		wd := time.Weekday((int(firstWeekday) + offset) % 7)
		appendSection(weekdayNames[wd], weekdayBuckets[wd])
	}

	return sections
}

// SortArchive orders archived events most recent first. Events whose
// date cannot be parsed sort last, keeping their relative order.
func SortArchive(events []event.Event, now time.Time) []event.Event {
	out := make([]event.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		ti, iok := dates.Instant(out[i].Date, now)
		tj, jok := dates.Instant(out[j].Date, now)
		if iok != jok {
			return iok
		}
		return ti.After(tj)
	})
	for i := range out {
		out[i].DateLabel = DateLabel(out[i], now)
	}
	return out
}

// DateLabel renders the human-facing relative date for an event:
// "Сегодня"/"Завтра" or a DD.MM.YY date, with the start time appended
// when one is known.
func DateLabel(e event.Event, now time.Time) string {
	eventDate := dates.Normalize(e.Date, now)
	var label string
	switch {
	case eventDate == dates.Canonical(now):
		label = "Сегодня"
	case eventDate == dates.Canonical(now.AddDate(0, 0, 1)):
		label = "Завтра"
	default:
		if instant, ok := dates.Instant(e.Date, now); ok {
			label = instant.Format("02.01.06")
		} else {
			label = e.Date
		}
	}
	if w := e.Window(); w != nil {
		label += ", " + w.Start
	}
	return label
}

func sortByDate(events []event.Event, now time.Time) {
	sort.SliceStable(events, func(i, j int) bool {
		ti, iok := dates.Instant(events[i].Date, now)
		tj, jok := dates.Instant(events[j].Date, now)
		if iok != jok {
			return iok
		}
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return events[i].Title < events[j].Title
	})
}
