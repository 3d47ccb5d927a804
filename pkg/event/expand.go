package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// A source row's date cell may encode several dates: a comma-separated
// list ("12.11, 13.11"), a day range sharing one month ("14-15.11"), a
// full range ("15.01-17.01"), or a mix of those.
var (
	segmentSplitRe = regexp.MustCompile(`[;,\n]+|\s+`)
	dayRangeRe     = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})\.(\d{1,2})$`)
	fullRangeRe    = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})-(\d{1,2})\.(\d{1,2})$`)
	singleDayRe    = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})$`)
	fullDateRe     = regexp.MustCompile(`^(?:\d{4}-\d{2}-\d{2}|\d{1,2}\.\d{1,2}\.(?:\d{2}|\d{4}))$`)
	embeddedDayRe  = regexp.MustCompile(`\d{1,2}\.\d{2}`)
)

// ExpandDates parses a raw date cell into the list of individual date
// strings it encodes, deduplicated in first-seen order. Malformed
// segments are dropped, never fatal; a fully malformed cell yields an
// empty list.
func ExpandDates(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(d string) {
		if _, dup := seen[d]; dup {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	for _, segment := range segmentSplitRe.Split(raw, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		if m := fullRangeRe.FindStringSubmatch(segment); m != nil {
			startDay, _ := strconv.Atoi(m[1])
			startMonth, _ := strconv.Atoi(m[2])
			endDay, _ := strconv.Atoi(m[3])
			endMonth, _ := strconv.Atoi(m[4])
			if startMonth != endMonth {
				log.Warnf("date range across months is not supported: %q", segment)
				continue
			}
			addDayRange(add, startDay, endDay, startMonth)
			continue
		}

		if m := dayRangeRe.FindStringSubmatch(segment); m != nil {
			startDay, _ := strconv.Atoi(m[1])
			endDay, _ := strconv.Atoi(m[2])
			month, _ := strconv.Atoi(m[3])
			addDayRange(add, startDay, endDay, month)
			continue
		}

		if m := singleDayRe.FindStringSubmatch(segment); m != nil {
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			add(fmt.Sprintf("%02d.%02d", day, month))
			continue
		}

		// A segment that already carries a year stands on its own.
		if fullDateRe.MatchString(segment) {
			add(segment)
			continue
		}

		// Last resort: pick dates embedded in a longer segment.
		if sub := embeddedDayRe.FindAllString(segment, -1); len(sub) > 0 {
			for _, d := range sub {
				if m := singleDayRe.FindStringSubmatch(d); m != nil {
					day, _ := strconv.Atoi(m[1])
					month, _ := strconv.Atoi(m[2])
					add(fmt.Sprintf("%02d.%02d", day, month))
				}
			}
			continue
		}

		log.Warnf("dropping unparseable date segment: %q", segment)
	}
	return out
}

// Expand turns a source record into one record per concrete date, with
// the id recomputed for each occurrence. A record whose date cell
// yields no valid dates expands to zero records.
func Expand(e Event) []Event {
	eventDates := ExpandDates(e.Date)
	if len(eventDates) == 0 {
		log.Warnf("event %q has no parseable dates: %q", e.Title, e.Date)
		return nil
	}
	out := make([]Event, 0, len(eventDates))
	for _, d := range eventDates {
		occurrence := e
		occurrence.Date = d
		occurrence.ID = MakeID(occurrence)
		out = append(out, occurrence)
	}
	return out
}

func addDayRange(add func(string), startDay, endDay, month int) {
	for day := startDay; day <= endDay; day++ {
		add(fmt.Sprintf("%02d.%02d", day, month))
	}
}
