package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/meowafisha/meowafisha/pkg/dates"
	"github.com/meowafisha/meowafisha/pkg/event"
)

// Relevance is the display partition an event belongs to.
type Relevance string

const (
	Upcoming Relevance = "upcoming"
	Archived Relevance = "archive"
)

// GraceWindow is how long after its effective end an event keeps its
// place in the "today" section instead of vanishing immediately.
const GraceWindow = 6 * time.Hour

// Classify decides whether an event is still upcoming or already
// archived, evaluated against a single now captured once per pass.
//
// Events dated today stay upcoming unless a complete time window (with
// an end time) proves the event is over. When the time cannot be
// determined the event stays visible; false archiving hides data,
// a stale entry does not.
func Classify(e event.Event, now time.Time) Relevance {
	today := dates.Canonical(now)
	eventDate := dates.Normalize(e.Date, now)

	if !dates.IsCanonical(eventDate) {
		// Unrecognized date format: try a loose parse, otherwise keep
		// the event visible rather than burying it in the archive.
		instant, ok := dates.Instant(e.Date, now)
		if !ok {
			return Upcoming
		}
		eventDate = dates.Canonical(instant)
	}

	switch {
	case eventDate > today:
		return Upcoming
	case eventDate < today:
		// A past-dated event can still be running: a window crossing
		// midnight rolls its effective end onto the next day.
		if end, ok := EffectiveEnd(e, now); ok && now.Before(end) {
			return Upcoming
		}
		return Archived
	}

	end, ok := EffectiveEnd(e, now)
	if !ok || now.Before(end) {
		return Upcoming
	}
	return Archived
}

// EffectiveEnd computes the instant at which a same-day event is over:
// the event date combined with the window's end time, rolled over to
// the next day when the end hour precedes the start hour (an event
// running past midnight). ok is false when the event has no complete
// time window.
func EffectiveEnd(e event.Event, now time.Time) (time.Time, bool) {
	w := e.Window()
	if w == nil || !w.HasEnd {
		return time.Time{}, false
	}
	startHour, _, ok := dates.HourMinute(w.Start)
	if !ok {
		return time.Time{}, false
	}
	endHour, endMinute, ok := dates.HourMinute(w.End)
	if !ok {
		return time.Time{}, false
	}
	day, ok := dates.Instant(e.Date, now)
	if !ok {
		return time.Time{}, false
	}
	if endHour < startHour {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), endHour, endMinute, 0, 0, day.Location()), true
}

// WithinGrace reports whether the event's effective end lies within the
// last GraceWindow hours before now.
func WithinGrace(e event.Event, now time.Time) bool {
	end, ok := EffectiveEnd(e, now)
	if !ok {
		return false
	}
	return !now.Before(end) && now.Sub(end) <= GraceWindow
}

// TimeAgoLabel renders the relative "ended N hours ago" label for an
// event dated today whose effective end has passed, in Russian with the
// hour word declined by count. Returns "" when the label does not
// apply.
func TimeAgoLabel(e event.Event, now time.Time) string {
	end, ok := EffectiveEnd(e, now)
	if !ok || now.Before(end) {
		return ""
	}
	hours := int(math.Ceil(now.Sub(end).Hours()))
	if hours < 1 {
		hours = 1
	}
	return fmt.Sprintf("Закончилось %d %s назад", hours, hourWord(hours))
}

func hourWord(hours int) string {
	switch {
	case hours == 1:
		return "час"
	case hours < 5:
		return "часа"
	default:
		return "часов"
	}
}
