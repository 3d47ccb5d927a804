package catalog

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/meowafisha/meowafisha/pkg/dates"
	"github.com/meowafisha/meowafisha/pkg/event"
)

// BuildCalendar renders events as an iCalendar feed. Events with an
// extracted time window become timed VEVENTs (a missing end time gets a
// default two hour duration, a midnight-crossing window rolls the end
// over to the next day); events without one become all-day entries.
func BuildCalendar(events []event.Event, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//meowafisha//afisha//RU")

	for _, e := range events {
		day, ok := dates.Instant(e.Date, now)
		if !ok {
			continue
		}
		ve := cal.AddEvent(e.ID)
		ve.SetSummary(e.Title)
		ve.SetLocation(e.Location)
		if e.ShortDescription != "" {
			ve.SetDescription(e.ShortDescription)
		}
		ve.SetDtStampTime(now)

		w := e.Window()
		if w == nil {
			ve.SetAllDayStartAt(day)
			ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}
		sh, sm, sok := dates.HourMinute(w.Start)
		if !sok {
			ve.SetAllDayStartAt(day)
			ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, day.Location())
		end := start.Add(2 * time.Hour)
		if w.HasEnd {
			if eh, em, eok := dates.HourMinute(w.End); eok {
				endDay := day
				if eh < sh {
					endDay = endDay.AddDate(0, 0, 1)
				}
				end = time.Date(endDay.Year(), endDay.Month(), endDay.Day(), eh, em, 0, 0, endDay.Location())
			}
		}
		ve.SetStartAt(start)
		ve.SetEndAt(end)
	}
	return cal
}
