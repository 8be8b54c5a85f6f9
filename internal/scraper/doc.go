// Package scraper provides HTTP fetching and HTML parsing for fixture
// schedules. Two sources are supported: the club website's schedule table
// and the kicker.de team schedule. Both produce a season.Season; the
// parsing is page-specific markup extraction and breaks when the pages
// change.
package scraper
