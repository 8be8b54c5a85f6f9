package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mu88/SpielplanExtractor/internal/season"
)

func TestKickerSeasonString(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://www.kicker.de/dynamo-dresden-65/team-termine/3-liga/2020-21", "2020/2021", false},
		{"https://www.kicker.de/dynamo-dresden-65/team-termine/2-bundesliga/2021-22", "2021/2022", false},
		{"https://www.kicker.de/termine", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			k, err := NewKicker(tt.url)
			if err != nil {
				t.Fatalf("NewKicker failed: %v", err)
			}

			got, err := k.seasonString()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("seasonString() expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("seasonString() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("seasonString() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestKickerParseSeason(t *testing.T) {
	k, err := NewKicker("")
	if err != nil {
		t.Fatalf("NewKicker failed: %v", err)
	}
	s, err := season.New("2020/2021")
	if err != nil {
		t.Fatal(err)
	}

	s, err = k.parseSeason(loadFixture(t, "kicker_termine.html"), s)
	if err != nil {
		t.Fatalf("parseSeason failed: %v", err)
	}

	// the undated cup row is dropped
	if len(s.Fixtures) != 2 {
		t.Fatalf("expected 2 fixtures, got %d: %+v", len(s.Fixtures), s.Fixtures)
	}

	home := s.Fixtures[0]
	if home.Venue != "Dresden" || home.Opponent != "Team X" {
		t.Errorf("home fixture = %+v", home)
	}
	if home.Identifier != "2020/2021 - 3. Liga" {
		t.Errorf("identifier = %q", home.Identifier)
	}
	wantKickoff := time.Date(2021, time.March, 5, 15, 30, 0, 0, k.loc)
	if !home.Kickoff.Equal(wantKickoff) {
		t.Errorf("kickoff = %v, expected %v", home.Kickoff, wantKickoff)
	}

	// a row without an announced time falls back to the default kickoff
	away := s.Fixtures[1]
	if away.Venue != "Hansa Rostock" || away.Opponent != "Hansa Rostock" {
		t.Errorf("away fixture = %+v", away)
	}
	if away.Kickoff.Hour() != 14 || away.Kickoff.Minute() != 0 {
		t.Errorf("away kickoff = %v, expected 14:00 default", away.Kickoff)
	}
}

func TestKickerParseSeason_MissingTable(t *testing.T) {
	k, err := NewKicker("")
	if err != nil {
		t.Fatalf("NewKicker failed: %v", err)
	}
	s, err := season.New("2020/2021")
	if err != nil {
		t.Fatal(err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := k.parseSeason(doc, s); err == nil {
		t.Fatal("expected error for page without schedule table")
	}
}

func TestKickerConstructSeason(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/kicker_termine.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != UserAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write(data)
	}))
	defer server.Close()

	k, err := NewKicker(server.URL + "/team-termine/3-liga/2020-21")
	if err != nil {
		t.Fatalf("NewKicker failed: %v", err)
	}

	s, err := k.ConstructSeason(context.Background())
	if err != nil {
		t.Fatalf("ConstructSeason failed: %v", err)
	}
	if s.StartYear != 2020 || s.EndYear != 2021 {
		t.Errorf("season = %s, expected 2020/2021", s)
	}
	if len(s.Fixtures) != 2 {
		t.Errorf("expected 2 fixtures, got %d", len(s.Fixtures))
	}
}

func TestFetchDocument_ClientErrorIsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := newFetcher()
	if _, err := f.document(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 request for a client error, got %d", calls)
	}
}
