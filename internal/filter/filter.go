// Package filter provides row filtering of assembled game tables.
//
// A Filter narrows a table down to the rows of interest:
//   - Event types (GOAL, SHOT, PENL, ...), matched case-insensitively
//   - Teams, matched against the row's event team code
//   - Periods, 1-3 for regulation, 4 for overtime and 5 for the shootout
//
// Criteria combine with AND; values within one criterion combine with OR.
//
// Example usage:
//
//	f, err := filter.Parse("GOAL,SHOT", "TOR", "1-3")
//	if err != nil {
//		return err
//	}
//	game = f.Apply(game)
package filter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pfrederiksen/hockey-pbp/internal/assemble"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
)

// Filter holds row filtering criteria.
type Filter struct {
	Types   []event.Type `json:"types,omitempty"`
	Teams   []string     `json:"teams,omitempty"`
	Periods []int        `json:"periods,omitempty"`
}

// NewFilter creates a filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{
		Types:   []event.Type{},
		Teams:   []string{},
		Periods: []int{},
	}
}

// IsEmpty reports whether the filter matches every row.
func (f *Filter) IsEmpty() bool {
	return f == nil || (len(f.Types) == 0 && len(f.Teams) == 0 && len(f.Periods) == 0)
}

// Matches reports whether r passes all active criteria.
func (f *Filter) Matches(r *assemble.Record) bool {
	if f.IsEmpty() {
		return true
	}

	if len(f.Types) > 0 {
		matched := false
		for _, t := range f.Types {
			if strings.EqualFold(string(r.Type), string(t)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Rows without an event team (stoppages, period ends) never match a team
	if len(f.Teams) > 0 {
		matched := false
		for _, team := range f.Teams {
			if r.EventTeam != "" && strings.EqualFold(r.EventTeam, team) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Periods) > 0 && !slices.Contains(f.Periods, r.Period) {
		return false
	}

	return true
}

// Apply returns a copy of game holding only the matching rows. Rows keep
// their event index so filtered tables can be joined back to the full one.
// An empty filter returns game unchanged.
func (f *Filter) Apply(game *assemble.Game) *assemble.Game {
	if f.IsEmpty() || game == nil {
		return game
	}

	out := *game
	out.Records = make([]assemble.Record, 0, len(game.Records))
	for i := range game.Records {
		if f.Matches(&game.Records[i]) {
			out.Records = append(out.Records, game.Records[i])
		}
	}
	return &out
}

// String returns a human-readable description of the active criteria.
// Format: "Events: GOAL, SHOT | Teams: TOR | Periods: 1, 2, 3"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, t := range f.Types {
			types[i] = string(t)
		}
		parts = append(parts, fmt.Sprintf("Events: %s", strings.Join(types, ", ")))
	}

	if len(f.Teams) > 0 {
		parts = append(parts, fmt.Sprintf("Teams: %s", strings.Join(f.Teams, ", ")))
	}

	if len(f.Periods) > 0 {
		periods := make([]string, len(f.Periods))
		for i, p := range f.Periods {
			periods[i] = strconv.Itoa(p)
		}
		parts = append(parts, fmt.Sprintf("Periods: %s", strings.Join(periods, ", ")))
	}

	return strings.Join(parts, " | ")
}

