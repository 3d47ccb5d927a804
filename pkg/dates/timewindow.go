package dates

import (
	"fmt"
	"regexp"
	"strconv"
)

// TimeWindow is a start/end time-of-day pair extracted from free-form
// event text. Start and End are zero-padded HH:MM strings; End is empty
// when only a single time was found.
type TimeWindow struct {
	Start  string
	End    string
	HasEnd bool
}

// Only colon-delimited clock times are accepted so that a DD.MM date is
// never misread as a time.
var (
	timeRangeRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-–—]\s*(\d{1,2}):(\d{2})`)
	timeSingleRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// ExtractTimeWindow scans text for an embedded time window: first an
// HH:MM - HH:MM range, then a lone HH:MM. Captures with an hour outside
// 0-23 or minutes outside 0-59 are rejected and scanning continues.
// Returns nil when no valid time is present.
func ExtractTimeWindow(text string) *TimeWindow {
	for _, m := range timeRangeRe.FindAllStringSubmatch(text, -1) {
		start, ok1 := clockTime(m[1], m[2])
		end, ok2 := clockTime(m[3], m[4])
		if ok1 && ok2 {
			return &TimeWindow{Start: start, End: end, HasEnd: true}
		}
	}
	for _, m := range timeSingleRe.FindAllStringSubmatch(text, -1) {
		if start, ok := clockTime(m[1], m[2]); ok {
			return &TimeWindow{Start: start}
		}
	}
	return nil
}

// HourMinute splits a zero-padded HH:MM string produced by this package.
func HourMinute(hhmm string) (hour, minute int, ok bool) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, 0, false
	}
	hour, err1 := strconv.Atoi(hhmm[:2])
	minute, err2 := strconv.Atoi(hhmm[3:])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return hour, minute, true
}

func clockTime(h, m string) (string, bool) {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	if hour > 23 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
