// Package caldav implements the minimal CalDAV client used to publish
// fixtures into a remote calendar collection. It covers exactly what the
// sync needs: PROPFIND-based discovery of a named calendar (principal,
// calendar home set, collection listing), a time-ranged REPORT query for
// existing events, a minimal iCalendar codec, and PUT-based
// create-or-overwrite of event resources.
//
// It is deliberately not a general CalDAV library: no recurrence, no
// attendees, no time zone handling beyond UTC normalization on the wire.
package caldav
