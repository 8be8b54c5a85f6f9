package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mu88/SpielplanExtractor/internal/sync"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	Season   string       `json:"season"`
	Calendar string       `json:"calendar"`
	DryRun   bool         `json:"dry_run,omitempty"`
	Result   *sync.Result `json:"result"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	r := result.Result

	header := fmt.Sprintf("Season %s -> calendar %q", result.Season, result.Calendar)
	if result.DryRun {
		header += " (dry run)"
	}
	fmt.Fprintln(w, header)

	if len(r.Fixtures) == 0 {
		fmt.Fprintln(w, "No fixtures found.")
		return nil
	}

	for _, f := range r.Fixtures {
		switch f.Action {
		case sync.ActionSkipped:
			if verbose {
				fmt.Fprintf(w, "  SKIP:   %s vs %s (%s, already played)\n",
					f.Identifier, f.Opponent, f.Kickoff.Format("2006-01-02"))
			}
		case sync.ActionCreated:
			fmt.Fprintf(w, "  CREATE: %s vs %s on %s\n",
				f.Identifier, f.Opponent, f.Kickoff.Format("2006-01-02 15:04"))
			if verbose {
				fmt.Fprintf(w, "          UID: %s\n", f.UID)
			}
		case sync.ActionUpdated:
			fmt.Fprintf(w, "  UPDATE: %s vs %s on %s\n",
				f.Identifier, f.Opponent, f.Kickoff.Format("2006-01-02 15:04"))
			if verbose {
				fmt.Fprintf(w, "          UID: %s\n", f.UID)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d created, %d updated, %d skipped\n",
		r.Created, r.Updated, r.Skipped)
	return nil
}
