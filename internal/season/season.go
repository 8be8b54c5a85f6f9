package season

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Season is one football season's fixture list, e.g. "2020/2021".
type Season struct {
	StartYear int       `json:"start_year"`
	EndYear   int       `json:"end_year"`
	Fixtures  []Fixture `json:"fixtures"`
}

// Fixture is a single game as scraped from a schedule page.
type Fixture struct {
	// Kickoff carries the local offset of the venue; it is normalized
	// to UTC only when written to the wire.
	Kickoff  time.Time `json:"kickoff"`
	Venue    string    `json:"venue"`
	Opponent string    `json:"opponent"`
	// Identifier correlates this fixture with a remote calendar event
	// across runs. See Identifier.
	Identifier string `json:"identifier"`
}

// New parses a season string like "2020/2021" into a Season.
func New(seasonString string) (*Season, error) {
	parts := strings.Split(seasonString, "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid season string %q", seasonString)
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid season start year %q: %w", parts[0], err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid season end year %q: %w", parts[1], err)
	}

	if start >= end {
		return nil, fmt.Errorf("season start year %d must precede end year %d", start, end)
	}

	return &Season{StartYear: start, EndYear: end}, nil
}

// Identifier derives the correlation key embedded in a remote event's
// description. Equal inputs always produce the same string.
//
// Two fixtures of one season sharing a competition label collide; cup
// games scraped from the same page carry round information in the label,
// which keeps this unique in practice.
func Identifier(startYear, endYear int, competition string) string {
	return fmt.Sprintf("%d/%d - %s", startYear, endYear, competition)
}

// Add appends a fixture built from the season's years and the given
// competition label.
func (s *Season) Add(kickoff time.Time, venue, opponent, competition string) {
	s.Fixtures = append(s.Fixtures, Fixture{
		Kickoff:    kickoff,
		Venue:      venue,
		Opponent:   opponent,
		Identifier: Identifier(s.StartYear, s.EndYear, competition),
	})
}

// Range returns the UTC interval covering the whole season, used to
// query existing calendar events: January 1st of the start year through
// the last second of December 31st of the end year.
func (s *Season) Range() (start, end time.Time) {
	start = time.Date(s.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(s.EndYear, time.December, 31, 23, 59, 59, 0, time.UTC)
	return start, end
}

// String returns the season in its canonical "2020/2021" form.
func (s *Season) String() string {
	return fmt.Sprintf("%d/%d", s.StartYear, s.EndYear)
}
