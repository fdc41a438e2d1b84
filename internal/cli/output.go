package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/calendar"
	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/filter"
	"github.com/pfrederiksen/hockey-pbp/internal/merge"
	"github.com/pfrederiksen/hockey-pbp/internal/pipeline"
	"github.com/pfrederiksen/hockey-pbp/internal/providers/statsapi"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	// FormatICS is accepted by schedule only.
	FormatICS  OutputFormat = "ics"
)

// GameResult is one game's line in the run summary.
type GameResult struct {
	GameID   string          `json:"game_id"`
	Status   pipeline.Status `json:"status"`
	Kind     errs.Kind       `json:"kind,omitempty"`
	Reason   string          `json:"reason,omitempty"`
	Stream   string          `json:"coordinate_stream,omitempty"`
	Warning  string          `json:"warning,omitempty"`
	Rows     int             `json:"rows,omitempty"`
	Path     string          `json:"path,omitempty"`
	Attempts int             `json:"attempts"`
	Seconds  float64         `json:"duration_seconds"`
	Merge    merge.Stats     `json:"merge"`
}

// OutputResult contains data to be output
type OutputResult struct {
	RunID     string                  `json:"run_id"`
	Started   time.Time               `json:"started"`
	Finished  time.Time               `json:"finished"`
	Filter    string                  `json:"filter,omitempty"`
	Manifest  string                  `json:"manifest"`
	Games     []GameResult            `json:"games"`
	Counts    map[pipeline.Status]int `json:"counts"`
	Pending   []string                `json:"pending,omitempty"`
	Cancelled bool                    `json:"cancelled"`
}

func newOutputResult(rep *pipeline.Report, w *gameWriter, manifest string, f *filter.Filter) *OutputResult {
	result := &OutputResult{
		RunID:     rep.RunID,
		Started:   rep.Started,
		Finished:  rep.Finished,
		Manifest:  manifest,
		Games:     make([]GameResult, 0, len(rep.Outcomes)),
		Counts:    make(map[pipeline.Status]int),
		Pending:   rep.Pending,
		Cancelled: rep.Cancelled,
	}
	if !f.IsEmpty() {
		result.Filter = f.String()
	}

	for _, o := range rep.Outcomes {
		g := GameResult{
			GameID:   o.GameID,
			Status:   o.Status,
			Kind:     o.Kind,
			Reason:   o.Reason,
			Stream:   o.Stream,
			Attempts: o.Attempts,
			Seconds:  o.Duration.Seconds(),
			Merge:    o.Merge,
		}
		if o.Game != nil {
			g.Warning = o.Game.Warning
		}
		written, werr := w.lookup(o.GameID)
		switch {
		case werr != nil:
			g.Status = pipeline.StatusFailed
			g.Kind = errs.KindOf(werr)
			g.Reason = werr.Error()
		case written.path != "":
			g.Path = written.path
			g.Rows = written.rows
		}
		result.Counts[g.Status]++
		result.Games = append(result.Games, g)
	}
	return result
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return errors.Newf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := sonic.ConfigDefault.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if len(result.Games) == 0 && len(result.Pending) == 0 {
		fmt.Fprintln(w, "No games processed.")
		return nil
	}

	fmt.Fprintf(w, "Run %s (%s)\n", result.RunID, result.Finished.Sub(result.Started).Round(time.Millisecond))
	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", result.Filter)
	}
	fmt.Fprintln(w)

	for _, g := range result.Games {
		switch g.Status {
		case pipeline.StatusSuccess:
			fmt.Fprintf(w, "  %s  %-7s  %-14s  %5d rows  %s\n", g.GameID, g.Status, g.Stream, g.Rows, g.Path)
			if g.Warning != "" {
				fmt.Fprintf(w, "              warning: %s\n", g.Warning)
			}
			if verbose {
				fmt.Fprintf(w, "              merge: direct %d, pass 1 %d, pass 2 %d, unmatched %d\n",
					g.Merge.Direct, g.Merge.Pass1, g.Merge.Pass2, g.Merge.Unmatched)
			}
		default:
			fmt.Fprintf(w, "  %s  %-7s  %s\n", g.GameID, g.Status, g.Kind)
			if verbose && g.Reason != "" {
				fmt.Fprintf(w, "              %s\n", g.Reason)
			}
		}
		if verbose && g.Attempts > 1 {
			fmt.Fprintf(w, "              attempts: %d\n", g.Attempts)
		}
	}
	for _, id := range result.Pending {
		fmt.Fprintf(w, "  %s  pending\n", id)
	}

	fmt.Fprintf(w, "\nSucceeded: %d | Skipped: %d | Failed: %d | Pending: %d\n",
		result.Counts[pipeline.StatusSuccess], result.Counts[pipeline.StatusSkipped],
		result.Counts[pipeline.StatusFailed], len(result.Pending))
	if result.Cancelled {
		fmt.Fprintln(w, "Run cancelled before all games finished.")
	}
	fmt.Fprintf(w, "Manifest: %s\n", result.Manifest)
	return nil
}

// writeSchedule outputs a schedule listing
func writeSchedule(w io.Writer, games []statsapi.Game, format OutputFormat, idsOnly bool) error {
	if idsOnly {
		for _, g := range games {
			fmt.Fprintln(w, g.ID)
		}
		return nil
	}

	switch format {
	case FormatJSON:
		if games == nil {
			games = []statsapi.Game{}
		}
		return writeJSON(w, games)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(games, time.Now()))
		return err
	case FormatText:
	default:
		return errors.Newf("unknown format: %s", format)
	}

	if len(games) == 0 {
		fmt.Fprintln(w, "No games found.")
		return nil
	}
	for _, g := range games {
		fmt.Fprintf(w, "%s  %s  %s @ %s  %d-%d  %s\n",
			g.Date.In(statsapi.Eastern).Format("2006-01-02"), g.ID, g.AwayTeam, g.HomeTeam, g.AwayScore, g.HomeScore, g.State)
	}
	fmt.Fprintf(w, "\nTotal: %d games\n", len(games))
	return nil
}
