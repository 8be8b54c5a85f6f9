package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mu88/SpielplanExtractor/internal/season"
)

// DynamoScheduleURL is the club website's schedule page.
const DynamoScheduleURL = "https://www.dynamo-dresden.de/saison/spielplan.html"

// Dynamo scrapes the club website's schedule table. The season is taken
// from the table header, the fixtures from the tbody rows.
type Dynamo struct {
	url   string
	fetch *fetcher
	loc   *time.Location
}

// NewDynamo creates a club-website source. An empty url falls back to
// DynamoScheduleURL.
func NewDynamo(url string) (*Dynamo, error) {
	if url == "" {
		url = DynamoScheduleURL
	}
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	return &Dynamo{url: url, fetch: newFetcher(), loc: loc}, nil
}

// ConstructSeason fetches and parses the schedule page.
func (d *Dynamo) ConstructSeason(ctx context.Context) (*season.Season, error) {
	doc, err := d.fetch.document(ctx, d.url)
	if err != nil {
		return nil, err
	}
	return d.parseSeason(doc)
}

func (d *Dynamo) parseSeason(doc *goquery.Document) (*season.Season, error) {
	// the table header ends in the season string, e.g. "... 2018/2019"
	header := strings.TrimSpace(doc.Find("header h2").First().Text())
	if len(header) < 9 {
		return nil, fmt.Errorf("season header %q too short", header)
	}
	s, err := season.New(header[len(header)-9:])
	if err != nil {
		return nil, fmt.Errorf("parsing season from header %q: %w", header, err)
	}

	doc.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return // header and spacer rows
		}

		kickoff, ok := d.parseKickoff(cells.Eq(0).Text(), cells.Eq(1).Text())
		if !ok {
			return
		}

		competition, home, away, ok := parseTeamsCell(cells.Eq(2))
		if !ok {
			return
		}
		if isFriendly(competition) {
			return
		}

		if strings.Contains(home, "Dynamo Dresden") {
			s.Add(kickoff, "Dresden", away, competition)
		} else {
			s.Add(kickoff, home, home, competition)
		}
	})

	return s, nil
}

func (d *Dynamo) parseKickoff(dateText, timeText string) (time.Time, bool) {
	day, month, year, err := parseGermanDate(dateText)
	if err != nil {
		return time.Time{}, false
	}
	hour, minute, ok := parseClock(timeText)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, d.loc), true
}

// parseTeamsCell digs the competition label and the two team names out
// of the third schedule cell. Sometimes the cell directly contains two
// spans, other times one anchor with the spans nested inside.
func parseTeamsCell(cell *goquery.Selection) (competition, home, away string, ok bool) {
	children := cell.ChildrenFiltered("span, a")

	var teams string
	switch {
	case children.Length() >= 2:
		competition = children.Eq(0).Text()
		teams = children.Eq(1).Text()
	case children.Length() == 1:
		spans := children.First().Find("span")
		if spans.Length() < 2 {
			return "", "", "", false
		}
		competition = spans.Eq(0).Text()
		teams = spans.Eq(1).Text()
	default:
		return "", "", "", false
	}

	// "Team A - Team B"
	parts := strings.SplitN(teams, " - ", 2)
	if len(parts) != 2 {
		return "", "", "", false
	}
	return strings.TrimSpace(competition), strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
