package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mu88/SpielplanExtractor/internal/season"
)

// KickerScheduleURL is the kicker.de team schedule page. The trailing
// path segment ("2020-21") determines the season.
const KickerScheduleURL = "https://www.kicker.de/dynamo-dresden-65/team-termine/3-liga/2020-21"

// Kickoff time used when a row does not announce one yet.
const defaultKickoff = "14:00"

// Kicker scrapes the kicker.de team schedule table.
type Kicker struct {
	url   string
	fetch *fetcher
	loc   *time.Location
}

// NewKicker creates a kicker.de source. An empty url falls back to
// KickerScheduleURL.
func NewKicker(url string) (*Kicker, error) {
	if url == "" {
		url = KickerScheduleURL
	}
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	return &Kicker{url: url, fetch: newFetcher(), loc: loc}, nil
}

// ConstructSeason fetches and parses the schedule page.
func (k *Kicker) ConstructSeason(ctx context.Context) (*season.Season, error) {
	seasonString, err := k.seasonString()
	if err != nil {
		return nil, err
	}
	s, err := season.New(seasonString)
	if err != nil {
		return nil, err
	}

	doc, err := k.fetch.document(ctx, k.url)
	if err != nil {
		return nil, err
	}
	return k.parseSeason(doc, s)
}

// seasonString derives "2020/2021" from the URL's trailing "2020-21".
func (k *Kicker) seasonString() (string, error) {
	segment := k.url[strings.LastIndex(k.url, "/")+1:]
	years := strings.Split(segment, "-")
	if len(years) != 2 {
		return "", fmt.Errorf("no season in schedule URL %q", k.url)
	}
	return fmt.Sprintf("%s/20%s", years[0], years[1]), nil
}

func (k *Kicker) parseSeason(doc *goquery.Document, s *season.Season) (*season.Season, error) {
	table := doc.Find("table.kick__table--gamelist").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("schedule table not found")
	}

	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		day, month, year, err := parseGermanDate(cells.Eq(0).Text())
		if err != nil {
			return // rows without a fixed date yet
		}

		// the competition cell starts with the label as a bare text node
		competition := strings.TrimSpace(cells.Eq(2).Contents().First().Text())
		if competition == "" || isFriendly(competition) {
			return
		}

		gameCell := cells.Eq(3)
		teams := gameCell.Find(".kick__v100-gameCell__team__name")
		if teams.Length() < 2 {
			return
		}
		team1 := strings.TrimSpace(teams.Eq(0).Text())
		team2 := strings.TrimSpace(teams.Eq(1).Text())

		timeText := strings.TrimSpace(gameCell.Find(".kick__v100-scoreBoard__dateHolder").First().Text())
		hour, minute, ok := parseClock(timeText)
		if !ok {
			hour, minute, _ = parseClock(defaultKickoff)
		}

		kickoff := time.Date(year, time.Month(month), day, hour, minute, 0, 0, k.loc)
		if team1 == "Dynamo Dresden" {
			s.Add(kickoff, "Dresden", team2, competition)
		} else {
			s.Add(kickoff, team1, team1, competition)
		}
	})

	return s, nil
}
