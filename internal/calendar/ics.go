// Package calendar renders game schedules as iCalendar (.ics) documents.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/hockey-pbp/internal/providers/statsapi"
)

// GameLength is the calendar block reserved for each game.
const GameLength = 3 * time.Hour

// GenerateICS generates an iCalendar document with one event per game.
// stamp is written as every entry's DTSTAMP.
func GenerateICS(games []statsapi.Game, stamp time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//hockey-pbp//schedule//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	for _, g := range games {
		writeGame(&ics, g, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeGame(ics *strings.Builder, g statsapi.Game, stamp time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID - game id is unique across seasons
	ics.WriteString(fmt.Sprintf("UID:%s@hockey-pbp\r\n", g.ID))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(stamp)))
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(g.Date)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(g.Date.Add(GameLength))))

	summary := fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))

	description := fmt.Sprintf("Game %s\nSeason %s", g.ID, g.Season)
	if isFinal(g.State) {
		description = fmt.Sprintf("%s\n%s: %s %d, %s %d", description, g.State, g.AwayTeam, g.AwayScore, g.HomeTeam, g.HomeScore)
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	if g.Venue != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(g.Venue)))
	}

	ics.WriteString(fmt.Sprintf("STATUS:%s\r\n", status(g.State)))
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func isFinal(state string) bool {
	return strings.HasPrefix(strings.ToLower(state), "final")
}

// status maps a schedule state onto an iCalendar STATUS value.
func status(state string) string {
	switch strings.ToLower(state) {
	case "postponed", "cancelled", "canceled":
		return "CANCELLED"
	case "scheduled", "pre-game", "tbd":
		return "TENTATIVE"
	}
	return "CONFIRMED"
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
