package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mu88/SpielplanExtractor/internal/caldav"
	"github.com/mu88/SpielplanExtractor/internal/logger"
	"github.com/mu88/SpielplanExtractor/internal/season"
)

// Calendar is the slice of the CalDAV client the engine writes through.
type Calendar interface {
	CreateEvent(ctx context.Context, col caldav.Collection, uid, body string) error
	UpdateEvent(ctx context.Context, evt caldav.Event, body string) error
}

// Action is the terminal state a fixture reached during a run.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionSkipped Action = "skipped" // kickoff date already in the past
)

// FixtureResult records what happened to one fixture.
type FixtureResult struct {
	Identifier string    `json:"identifier"`
	Opponent   string    `json:"opponent"`
	Kickoff    time.Time `json:"kickoff"`
	Action     Action    `json:"action"`
	UID        string    `json:"uid,omitempty"`
}

// Result summarizes one synchronization run. Nothing of it survives the
// process; the remote calendar is the only state.
type Result struct {
	Created  int             `json:"created"`
	Updated  int             `json:"updated"`
	Skipped  int             `json:"skipped"`
	Fixtures []FixtureResult `json:"fixtures"`
}

// Engine drives the per-fixture match/create/update sequence. Build it
// with New and override fields before the first Synchronize call only.
type Engine struct {
	Calendar Calendar
	// Duration is the published event length; caldav.DefaultEventDuration
	// when zero.
	Duration time.Duration
	// DryRun logs intended writes without performing them.
	DryRun bool
	// Now and NewUID exist so tests can pin time and ids.
	Now    func() time.Time
	NewUID func() string
}

// New creates an engine writing through cal with default settings.
func New(cal Calendar) *Engine {
	return &Engine{
		Calendar: cal,
		Duration: caldav.DefaultEventDuration,
		Now:      time.Now,
		NewUID:   caldav.NewUID,
	}
}

// Synchronize upserts every fixture of the season into the collection,
// in sequence order. existing must be the query result for the season's
// date range; it is only read. A failed write aborts the run; writes
// already applied stay applied.
func (e *Engine) Synchronize(ctx context.Context, s *season.Season, col caldav.Collection, existing []caldav.Event) (*Result, error) {
	result := &Result{}
	now := e.Now()

	for _, fixture := range s.Fixtures {
		// games that have already been played are never touched
		if pastFixture(fixture.Kickoff, now) {
			logger.Debug("Skipping past fixture", logger.Fields{
				"identifier": fixture.Identifier,
				"kickoff":    fixture.Kickoff,
			})
			result.Skipped++
			result.Fixtures = append(result.Fixtures, FixtureResult{
				Identifier: fixture.Identifier,
				Opponent:   fixture.Opponent,
				Kickoff:    fixture.Kickoff,
				Action:     ActionSkipped,
			})
			continue
		}

		match, err := findMatch(existing, fixture.Identifier)
		if err != nil {
			return result, err
		}

		if match == nil {
			uid, err := e.create(ctx, col, fixture)
			if err != nil {
				return result, err
			}
			result.Created++
			result.Fixtures = append(result.Fixtures, FixtureResult{
				Identifier: fixture.Identifier,
				Opponent:   fixture.Opponent,
				Kickoff:    fixture.Kickoff,
				Action:     ActionCreated,
				UID:        uid,
			})
			continue
		}

		if err := e.update(ctx, *match, fixture); err != nil {
			return result, err
		}
		result.Updated++
		result.Fixtures = append(result.Fixtures, FixtureResult{
			Identifier: fixture.Identifier,
			Opponent:   fixture.Opponent,
			Kickoff:    fixture.Kickoff,
			Action:     ActionUpdated,
			UID:        match.UID,
		})
	}

	logger.Info("Synchronization finished", logger.Fields{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	})
	return result, nil
}

// create stores the fixture as a new event resource under a fresh UID.
func (e *Engine) create(ctx context.Context, col caldav.Collection, fixture season.Fixture) (string, error) {
	uid := e.NewUID()
	body := caldav.EncodeEvent(fixture, uid, e.Duration)

	logger.Info("Creating event", logger.Fields{
		"identifier": fixture.Identifier,
		"uid":        uid,
		"dry_run":    e.DryRun,
	})
	if e.DryRun {
		return uid, nil
	}
	if err := e.Calendar.CreateEvent(ctx, col, uid, body); err != nil {
		return "", fmt.Errorf("creating event for %q: %w", fixture.Identifier, err)
	}
	return uid, nil
}

// update overwrites the matched event in place, keeping its UID.
func (e *Engine) update(ctx context.Context, match caldav.Event, fixture season.Fixture) error {
	body := caldav.EncodeEvent(fixture, match.UID, e.Duration)

	logger.Info("Updating event", logger.Fields{
		"identifier": fixture.Identifier,
		"uid":        match.UID,
		"location":   match.Location,
		"dry_run":    e.DryRun,
	})
	if e.DryRun {
		return nil
	}
	if err := e.Calendar.UpdateEvent(ctx, match, body); err != nil {
		return fmt.Errorf("updating event for %q: %w", fixture.Identifier, err)
	}
	return nil
}

// findMatch returns the single existing event whose description equals
// the identifier, compared case-insensitively. More than one match means
// the remote state is ambiguous and the run must stop.
func findMatch(existing []caldav.Event, identifier string) (*caldav.Event, error) {
	var found *caldav.Event
	for i := range existing {
		if !strings.EqualFold(existing[i].Description, identifier) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("identifier %q matches more than one existing event", identifier)
		}
		found = &existing[i]
	}
	return found, nil
}

// pastFixture reports whether the kickoff's calendar date is strictly
// before now's. Both dates are read in the kickoff's location, so the
// runner's own zone never shifts a same-day fixture into yesterday.
func pastFixture(kickoff, now time.Time) bool {
	return dateOnly(kickoff).Before(dateOnly(now.In(kickoff.Location())))
}

// dateOnly truncates a timestamp to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
