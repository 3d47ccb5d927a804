package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// CanonicalLayout is the normalized date form used for all equality and
// ordering checks across the application.
const CanonicalLayout = "2006-01-02"

var (
	canonicalRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dottedRe    = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})(?:\.(\d{2}|\d{4}))?$`)

	// Loose variants used for substring rescue when the whole string is
	// not a date on its own (e.g. "сб 15.11, вход свободный").
	canonicalLooseRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	dottedLooseRe    = regexp.MustCompile(`\d{1,2}\.\d{1,2}(?:\.\d{2}(?:\d{2})?)?`)
)

// Normalize converts a raw date string into the canonical YYYY-MM-DD form.
//
// Accepted inputs, in precedence order: YYYY-MM-DD (returned unchanged),
// DD.MM.YYYY, DD.MM.YY (YY means 2000+YY), and DD.MM without a year.
// A yearless date gets the year inferred across the season boundary:
// when today is in July-December and the date's month is January-June,
// the date is assumed to belong to the next year.
//
// Unrecognized input is returned unchanged so callers can still use it
// as a best-effort label. Normalize never panics.
func Normalize(raw string, today time.Time) string {
	if canonicalRe.MatchString(raw) {
		return raw
	}
	m := dottedRe.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return raw
	}
	year := today.Year()
	switch {
	case m[3] != "":
		year, _ = strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
	case int(today.Month()) >= 7 && month <= 6:
		// Season boundary: a yearless first-half date seen in the second
		// half of the year refers to the next year's occurrence.
		year++
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// IsCanonical reports whether raw is already in YYYY-MM-DD form.
func IsCanonical(raw string) bool {
	return canonicalRe.MatchString(raw)
}

// Instant converts a raw date string into a sortable midnight instant in
// now's location. When the whole string is not a recognized date, the
// string is scanned for an embedded date before giving up.
func Instant(raw string, now time.Time) (time.Time, bool) {
	if t, ok := parseCanonical(Normalize(raw, now), now.Location()); ok {
		return t, true
	}
	if sub := canonicalLooseRe.FindString(raw); sub != "" {
		if t, ok := parseCanonical(sub, now.Location()); ok {
			return t, true
		}
	}
	if sub := dottedLooseRe.FindString(raw); sub != "" {
		if t, ok := parseCanonical(Normalize(sub, now), now.Location()); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// SameDay reports whether two raw date strings denote the same calendar
// day, comparing canonical forms so time-of-day can never leak in.
func SameDay(a, b string, today time.Time) bool {
	return Normalize(a, today) == Normalize(b, today)
}

// Canonical renders t as a canonical date string in its own location.
func Canonical(t time.Time) string {
	return t.Format(CanonicalLayout)
}

func parseCanonical(s string, loc *time.Location) (time.Time, bool) {
	if !canonicalRe.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(CanonicalLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
