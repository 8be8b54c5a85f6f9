// Package sync upserts a season's fixtures into a resolved calendar
// collection: past fixtures are skipped, fixtures with a matching remote
// event are overwritten in place, the rest are created under freshly
// generated ids.
package sync
