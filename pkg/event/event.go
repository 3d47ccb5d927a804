package event

import (
	"strconv"
	"strings"

	"github.com/meowafisha/meowafisha/pkg/dates"
)

// Event is a single occurrence of a listed event. After expansion the
// Date field always denotes exactly one calendar day.
//
// The JSON shape matches events.json produced by the fetcher.
type Event struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"`
	Title            string   `json:"title"`
	Location         string   `json:"location"`
	Time             string   `json:"time,omitempty"`
	Tags             string   `json:"tags,omitempty"`
	ShortDescription string   `json:"short_description,omitempty"`
	FullDescription  string   `json:"full_description,omitempty"`
	Contacts         string   `json:"contacts,omitempty"`
	Lat              *float64 `json:"lat,omitempty"`
	Lon              *float64 `json:"lon,omitempty"`

	// DateLabel is presentational, recomputed on every render.
	DateLabel string `json:"dateLabel,omitempty"`
}

// MakeID derives the stable event id from (date, title, lat, lon) with
// the djb2 string hash. Share links embed these ids, so the exact
// algorithm and rendering are a wire-format requirement: seed 5381,
// h = h*33 + codepoint in 32-bit arithmetic, masked to 31 bits and
// rendered as "e" + 8 lowercase hex digits.
func MakeID(e Event) string {
	source := e.Date + "|" + e.Title + "|" + coordString(e.Lat) + "|" + coordString(e.Lon)
	var h uint32 = 5381
	for _, r := range source {
		h = h<<5 + h + uint32(r)
	}
	return "e" + leftPad(strconv.FormatUint(uint64(h&0x7FFFFFFF), 16), 8)
}

// SearchText is the text the search matcher runs against.
func (e Event) SearchText() string {
	return e.Title + " " + e.Location
}

// Window extracts the event's time-of-day window. The dedicated time
// column is tried first, then the free-form descriptions.
func (e Event) Window() *dates.TimeWindow {
	for _, text := range []string{e.Time, e.ShortDescription, e.FullDescription} {
		if text == "" {
			continue
		}
		if w := dates.ExtractTimeWindow(text); w != nil {
			return w
		}
	}
	return nil
}

func coordString(c *float64) string {
	if c == nil {
		return ""
	}
	return strconv.FormatFloat(*c, 'f', -1, 64)
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
