// Package cli implements the command-line interface for the fixture sync.
//
// The cli package provides the Cobra-based CLI that wires everything
// together: it scrapes a season from the configured source, resolves the
// target CalDAV calendar, queries the season's existing events and runs
// the sync engine, then reports the outcome as text or JSON.
package cli
