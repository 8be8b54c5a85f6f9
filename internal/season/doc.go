// Package season holds the domain model shared by the scrapers and the
// calendar sync: a Season of Fixtures and the identifier scheme that ties
// a fixture to its remote calendar event across runs.
package season
