package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mu88/SpielplanExtractor/internal/caldav"
	"github.com/mu88/SpielplanExtractor/internal/config"
	"github.com/mu88/SpielplanExtractor/internal/logger"
	"github.com/mu88/SpielplanExtractor/internal/scraper"
	"github.com/mu88/SpielplanExtractor/internal/sync"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig    string
	flagSource    string
	flagSourceURL string
	flagServer    string
	flagCalendar  string
	flagUsername  string
	flagPassword  string
	flagFormat    string
	flagDryRun    bool
	flagVerbose   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spielplan-extractor",
		Short: "Sync a club's fixture schedule into a CalDAV calendar",
		Long: `Scrapes the fixture schedule of Dynamo Dresden from a public website
and mirrors it into a named calendar on a CalDAV server. Fixtures are
matched against existing events by an identifier embedded in the event
description, so re-runs update events in place instead of duplicating them.`,
		SilenceUsage: true,
		RunE:         runSync,
	}

	def := config.Default()
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file (optional)")
	cmd.Flags().StringVar(&flagSource, "source", "", fmt.Sprintf("Fixture source: dynamo or kicker (default %q)", def.Source))
	cmd.Flags().StringVar(&flagSourceURL, "source-url", "", "Override the source's schedule page URL")
	cmd.Flags().StringVar(&flagServer, "server", "", fmt.Sprintf("CalDAV server endpoint (default %q)", def.Server))
	cmd.Flags().StringVar(&flagCalendar, "calendar", "", fmt.Sprintf("Display name of the target calendar (default %q)", def.Calendar))
	cmd.Flags().StringVar(&flagUsername, "username", os.Getenv("SPIELPLAN_USERNAME"), "CalDAV username (or env: SPIELPLAN_USERNAME)")
	cmd.Flags().StringVar(&flagPassword, "password", os.Getenv("SPIELPLAN_PASSWORD"), "CalDAV password (or env: SPIELPLAN_PASSWORD)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Show what would be done without writing to the calendar")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runSync is the main command logic
func runSync(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cfg)

	if flagUsername == "" || flagPassword == "" {
		return fmt.Errorf("credentials are required (use --username/--password or SPIELPLAN_USERNAME/SPIELPLAN_PASSWORD)")
	}

	ctx := cmd.Context()

	source, err := newSource(cfg)
	if err != nil {
		return err
	}

	logger.Debug("Scraping season", logger.Fields{"source": cfg.Source})
	season, err := source.ConstructSeason(ctx)
	if err != nil {
		return fmt.Errorf("scraping season: %w", err)
	}
	logger.Info("Season scraped", logger.Fields{
		"season":   season.String(),
		"fixtures": len(season.Fixtures),
	})

	client := caldav.NewClient(cfg.Server, flagUsername, flagPassword, cfg.RequestTimeout())

	collection, err := client.FindCalendar(ctx, cfg.Calendar)
	if err != nil {
		return fmt.Errorf("resolving calendar: %w", err)
	}
	logger.Info("Calendar resolved", logger.Fields{
		"calendar": cfg.Calendar,
		"url":      collection.URL,
	})

	start, end := season.Range()
	existing, err := client.QueryEvents(ctx, collection, start, end)
	if err != nil {
		return fmt.Errorf("querying existing events: %w", err)
	}
	logger.Debug("Existing events loaded", logger.Fields{"count": len(existing)})

	engine := sync.New(client)
	engine.Duration = cfg.EventDuration()
	engine.DryRun = flagDryRun

	result, err := engine.Synchronize(ctx, season, collection, existing)
	if err != nil {
		return fmt.Errorf("synchronizing fixtures: %w", err)
	}

	output := &OutputResult{
		Season:   season.String(),
		Calendar: cfg.Calendar,
		DryRun:   flagDryRun,
		Result:   result,
	}
	if err := WriteOutput(os.Stdout, output, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// applyFlags overlays explicitly set flags over the file config.
func applyFlags(cfg *config.Config) {
	if flagSource != "" {
		cfg.Source = flagSource
	}
	if flagSourceURL != "" {
		cfg.SourceURL = flagSourceURL
	}
	if flagServer != "" {
		cfg.Server = flagServer
	}
	if flagCalendar != "" {
		cfg.Calendar = flagCalendar
	}
}

// newSource builds the configured fixture source.
func newSource(cfg *config.Config) (scraper.Source, error) {
	switch strings.ToLower(cfg.Source) {
	case "dynamo":
		return scraper.NewDynamo(cfg.SourceURL)
	case "kicker":
		return scraper.NewKicker(cfg.SourceURL)
	default:
		return nil, fmt.Errorf("unknown source: %s (must be 'dynamo' or 'kicker')", cfg.Source)
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
