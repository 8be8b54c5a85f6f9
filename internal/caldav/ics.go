package caldav

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mu88/SpielplanExtractor/internal/season"
)

const (
	// icsTimeLayout is the iCalendar basic UTC timestamp format.
	icsTimeLayout = "20060102T150405Z"

	// DefaultEventDuration is how long a published event lasts: the 90
	// regular minutes plus half-time break. Kept configurable because
	// it is an assumption, not data.
	DefaultEventDuration = 105 * time.Minute
)

var (
	locationPattern    = regexp.MustCompile(`(/\S+\.ics)`)
	descriptionPattern = regexp.MustCompile(`DESCRIPTION:(.*)`)
	uidPattern         = regexp.MustCompile(`UID:(.*)`)
)

// EncodeEvent renders a fixture as a minimal single-event iCalendar
// document. The kickoff is normalized to UTC; the fixture's identifier
// goes into DESCRIPTION so later runs can find the event again. A
// non-positive duration falls back to DefaultEventDuration.
func EncodeEvent(f season.Fixture, uid string, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultEventDuration
	}
	start := f.Kickoff.UTC()
	end := start.Add(duration)

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "DTSTART:%s\r\n", start.Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTEND:%s\r\n", end.Format(icsTimeLayout))
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", f.Opponent)
	fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", f.Identifier)
	fmt.Fprintf(&b, "LOCATION:%s\r\n", f.Venue)
	fmt.Fprintf(&b, "UID:%s\r\n", uid)
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// DecodeEvent extracts the fields the sync needs from a raw query
// response fragment: the resource location (a path ending in .ics), the
// DESCRIPTION value and the UID value. It reports ok == false when any
// of the three is absent; callers must drop such entries.
func DecodeEvent(raw string) (Event, bool) {
	loc := locationPattern.FindStringSubmatch(raw)
	desc := descriptionPattern.FindStringSubmatch(raw)
	uid := uidPattern.FindStringSubmatch(raw)
	if loc == nil || desc == nil || uid == nil {
		return Event{}, false
	}

	return Event{
		Location:    loc[1],
		Description: strings.TrimRight(desc[1], "\r"),
		UID:         strings.TrimRight(uid[1], "\r"),
	}, true
}
