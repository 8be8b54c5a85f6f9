package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/mu88/SpielplanExtractor/internal/season"
)

const (
	UserAgent  = "spielplan-extractor/1.0 (github.com/mu88/SpielplanExtractor)"
	Timeout    = 30 * time.Second
	maxRetries = 3
)

// Source produces a Season from some schedule page. The CalDAV sync only
// depends on this shape, not on where the fixtures come from.
type Source interface {
	ConstructSeason(ctx context.Context) (*season.Season, error)
}

// fetcher downloads schedule pages with bounded retries.
type fetcher struct {
	client *http.Client
}

func newFetcher() *fetcher {
	return &fetcher{
		client: &http.Client{Timeout: Timeout},
	}
}

// document fetches the URL and parses it into a goquery document.
// Server-side errors are retried with exponential backoff; client-side
// errors fail immediately.
func (f *fetcher) document(ctx context.Context, url string) (*goquery.Document, error) {
	var doc *goquery.Document

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("parsing HTML: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return doc, nil
}

var (
	germanDatePattern = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{2,4})`)
	clockPattern      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// parseGermanDate extracts day, month and year from text containing a
// date like "05.03.2021" or "Fr., 05.03.21". Two-digit years are taken
// as 20xx.
func parseGermanDate(s string) (day, month, year int, err error) {
	m := germanDatePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("no date in %q", s)
	}
	day, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	year, _ = strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	return day, month, year, nil
}

// parseClock extracts hour and minute from text containing a time like
// "15:30" or "15:30 Uhr".
func parseClock(s string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, true
}

// isFriendly reports whether a competition label marks a friendly game
// ("Testspiele" and the like), which are not synced.
func isFriendly(competition string) bool {
	head := strings.TrimSpace(strings.SplitN(competition, "-", 2)[0])
	return strings.HasPrefix(head, "Test")
}
