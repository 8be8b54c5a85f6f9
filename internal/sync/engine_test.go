package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mu88/SpielplanExtractor/internal/caldav"
	"github.com/mu88/SpielplanExtractor/internal/season"
)

var berlin = time.FixedZone("CET", 60*60)

type createCall struct {
	Collection caldav.Collection
	UID        string
	Body       string
}

type updateCall struct {
	Event caldav.Event
	Body  string
}

// fakeCalendar records writes and can be told to fail.
type fakeCalendar struct {
	creates []createCall
	updates []updateCall
	err     error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, col caldav.Collection, uid, body string) error {
	if f.err != nil {
		return f.err
	}
	f.creates = append(f.creates, createCall{Collection: col, UID: uid, Body: body})
	return nil
}

func (f *fakeCalendar) UpdateEvent(_ context.Context, evt caldav.Event, body string) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, updateCall{Event: evt, Body: body})
	return nil
}

// newTestEngine pins the clock and the id sequence.
func newTestEngine(cal Calendar, now time.Time) *Engine {
	e := New(cal)
	e.Now = func() time.Time { return now }
	uids := 0
	e.NewUID = func() string {
		uids++
		return fmt.Sprintf("uid-%d", uids)
	}
	return e
}

func testSeason(t *testing.T) *season.Season {
	t.Helper()
	s, err := season.New("2020/2021")
	require.NoError(t, err)
	s.Add(time.Date(2021, time.March, 5, 15, 30, 0, 0, berlin), "Dresden", "Team X", "3. Liga")
	return s
}

func TestSynchronize_CreatesNewFixture(t *testing.T) {
	cal := &fakeCalendar{}
	e := newTestEngine(cal, time.Date(2021, time.January, 1, 12, 0, 0, 0, berlin))
	col := caldav.Collection{URL: "https://example.org/calendars/test/dynamo/"}

	result, err := e.Synchronize(context.Background(), testSeason(t), col, nil)
	require.NoError(t, err)

	require.Len(t, cal.creates, 1)
	assert.Empty(t, cal.updates)
	assert.Equal(t, "uid-1", cal.creates[0].UID)
	assert.Equal(t, col, cal.creates[0].Collection)

	// kickoff normalized to UTC, end 105 minutes later
	assert.Contains(t, cal.creates[0].Body, "DTSTART:20210305T143000Z\r\n")
	assert.Contains(t, cal.creates[0].Body, "DTEND:20210305T161500Z\r\n")
	assert.Contains(t, cal.creates[0].Body, "DESCRIPTION:2020/2021 - 3. Liga\r\n")

	want := &Result{
		Created: 1,
		Fixtures: []FixtureResult{{
			Identifier: "2020/2021 - 3. Liga",
			Opponent:   "Team X",
			Kickoff:    time.Date(2021, time.March, 5, 15, 30, 0, 0, berlin),
			Action:     ActionCreated,
			UID:        "uid-1",
		}},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestSynchronize_UpdatesExistingFixture(t *testing.T) {
	cal := &fakeCalendar{}
	e := newTestEngine(cal, time.Date(2021, time.January, 1, 12, 0, 0, 0, berlin))
	col := caldav.Collection{URL: "https://example.org/calendars/test/dynamo/"}

	existing := []caldav.Event{{
		Location:    "/calendars/test/dynamo/abc123.ics",
		Description: "2020/2021 - 3. Liga",
		UID:         "abc123",
	}}

	result, err := e.Synchronize(context.Background(), testSeason(t), col, existing)
	require.NoError(t, err)

	assert.Empty(t, cal.creates)
	require.Len(t, cal.updates, 1)
	assert.Equal(t, existing[0], cal.updates[0].Event)
	assert.Contains(t, cal.updates[0].Body, "UID:abc123\r\n")

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
}

func TestSynchronize_MatchIsCaseInsensitive(t *testing.T) {
	cal := &fakeCalendar{}
	e := newTestEngine(cal, time.Date(2021, time.January, 1, 12, 0, 0, 0, berlin))

	existing := []caldav.Event{{
		Location:    "/calendars/test/dynamo/abc123.ics",
		Description: "2020/2021 - 3. LIGA",
		UID:         "abc123",
	}}

	result, err := e.Synchronize(context.Background(), testSeason(t), caldav.Collection{}, existing)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, cal.creates)
}

func TestSynchronize_SkipsPastFixtures(t *testing.T) {
	cal := &fakeCalendar{}
	// the season's only fixture kicked off months ago
	e := newTestEngine(cal, time.Date(2021, time.June, 1, 12, 0, 0, 0, berlin))

	result, err := e.Synchronize(context.Background(), testSeason(t), caldav.Collection{}, nil)
	require.NoError(t, err)

	assert.Empty(t, cal.creates)
	assert.Empty(t, cal.updates)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, ActionSkipped, result.Fixtures[0].Action)
}

// The comparison is date-only: a fixture kicking off later today is not
// "in the past" even if its time of day already went by.
func TestSynchronize_SameDayFixtureIsNotPast(t *testing.T) {
	cal := &fakeCalendar{}
	e := newTestEngine(cal, time.Date(2021, time.March, 5, 23, 0, 0, 0, berlin))

	result, err := e.Synchronize(context.Background(), testSeason(t), caldav.Collection{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Zero(t, result.Skipped)
}

// The same-day rule must hold regardless of the runner's own zone: a UTC
// clock reads 2021-03-05T12:00Z while the Berlin fixture kicks off at
// 15:30+01:00 the same calendar day. Truncating each side in its own
// zone would call that fixture "yesterday" and skip it.
func TestSynchronize_SameDayFixtureIsNotPastAcrossZones(t *testing.T) {
	cal := &fakeCalendar{}
	e := newTestEngine(cal, time.Date(2021, time.March, 5, 12, 0, 0, 0, time.UTC))

	result, err := e.Synchronize(context.Background(), testSeason(t), caldav.Collection{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Zero(t, result.Skipped)
	require.Len(t, cal.creates, 1)
}

// The converse: once the fixture's calendar date is over in its own zone,
// a runner clock still on the previous UTC day must not resurrect it.
// 23:30Z on March 5 is already 00:30 on March 6 in Berlin.
func TestSynchronize_PastFixtureStaysPastAcrossZones(t *testing.T) {
	cal := &fakeCalendar{}
	e := newTestEngine(cal, time.Date(2021, time.March, 5, 23, 30, 0, 0, time.UTC))

	result, err := e.Synchronize(context.Background(), testSeason(t), caldav.Collection{}, nil)
	require.NoError(t, err)

	assert.Empty(t, cal.creates)
	assert.Equal(t, 1, result.Skipped)
}

// Running twice without external mutation must not create duplicates:
// the second run finds the first run's event and updates it in place.
func TestSynchronize_SecondRunIsIdempotent(t *testing.T) {
	cal := &fakeCalendar{}
	e := newTestEngine(cal, time.Date(2021, time.January, 1, 12, 0, 0, 0, berlin))
	col := caldav.Collection{URL: "https://example.org/calendars/test/dynamo/"}
	s := testSeason(t)

	_, err := e.Synchronize(context.Background(), s, col, nil)
	require.NoError(t, err)
	require.Len(t, cal.creates, 1)

	// rebuild the remote state the way a query would see it
	created := cal.creates[0]
	fragment := "/calendars/test/dynamo/" + created.UID + ".ics\n" + created.Body
	evt, ok := caldav.DecodeEvent(fragment)
	require.True(t, ok)

	result, err := e.Synchronize(context.Background(), s, col, []caldav.Event{evt})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, cal.updates, 1)
	assert.Equal(t, created.UID, cal.updates[0].Event.UID)
}

func TestSynchronize_AmbiguousMatchFails(t *testing.T) {
	cal := &fakeCalendar{}
	e := newTestEngine(cal, time.Date(2021, time.January, 1, 12, 0, 0, 0, berlin))

	existing := []caldav.Event{
		{Location: "/calendars/test/dynamo/a.ics", Description: "2020/2021 - 3. Liga", UID: "a"},
		{Location: "/calendars/test/dynamo/b.ics", Description: "2020/2021 - 3. Liga", UID: "b"},
	}

	_, err := e.Synchronize(context.Background(), testSeason(t), caldav.Collection{}, existing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one existing event")
	assert.Empty(t, cal.creates)
	assert.Empty(t, cal.updates)
}

func TestSynchronize_WriteFailureAbortsRun(t *testing.T) {
	cal := &fakeCalendar{err: errors.New("server unreachable")}
	e := newTestEngine(cal, time.Date(2021, time.January, 1, 12, 0, 0, 0, berlin))

	s := testSeason(t)
	s.Add(time.Date(2021, time.April, 10, 14, 0, 0, 0, berlin), "Dresden", "Team Y", "DFB-Pokal")

	result, err := e.Synchronize(context.Background(), s, caldav.Collection{}, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "3. Liga"))

	// the run stopped at the first fixture
	assert.Zero(t, result.Created)
	assert.Empty(t, result.Fixtures)
}

func TestSynchronize_DryRunWritesNothing(t *testing.T) {
	cal := &fakeCalendar{}
	e := newTestEngine(cal, time.Date(2021, time.January, 1, 12, 0, 0, 0, berlin))
	e.DryRun = true

	existing := []caldav.Event{{
		Location:    "/calendars/test/dynamo/abc123.ics",
		Description: "2020/2021 - 3. Liga",
		UID:         "abc123",
	}}

	s := testSeason(t)
	s.Add(time.Date(2021, time.April, 10, 14, 0, 0, 0, berlin), "Dresden", "Team Y", "DFB-Pokal")

	result, err := e.Synchronize(context.Background(), s, caldav.Collection{}, existing)
	require.NoError(t, err)

	assert.Empty(t, cal.creates)
	assert.Empty(t, cal.updates)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Created)
}
