package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mu88/SpielplanExtractor/internal/caldav"
	"github.com/mu88/SpielplanExtractor/internal/season"
)

func main() {
	// Create a sample fixture
	s, err := season.New("2025/2026")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building season: %v\n", err)
		os.Exit(1)
	}

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timezone: %v\n", err)
		os.Exit(1)
	}
	kickoff := time.Date(2026, time.March, 14, 14, 0, 0, 0, berlin)
	s.Add(kickoff, "Dresden", "FC Erzgebirge Aue", "3. Liga")

	// Generate .ics content
	icsContent := caldav.EncodeEvent(s.Fixtures[0], caldav.NewUID(), caldav.DefaultEventDuration)

	// Write to file (owner read/write only for security)
	filename := "test-fixture-event.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
