package shift

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/names"
)

const nbsp = "\u00a0"

// Record is one player's continuous interval on the ice.
type Record struct {
	Player       string     `json:"player"`
	Number       string     `json:"number"`
	Team         string     `json:"team"`
	Side         event.Side `json:"side"`
	ShiftNumber  int        `json:"shift_number"`
	Period       int        `json:"period"`
	Start        string     `json:"start"`
	End          string     `json:"end"`
	StartSeconds int        `json:"start_seconds"`
	EndSeconds   int        `json:"end_seconds"`
	Duration     int        `json:"duration"`
	EndImputed   bool       `json:"end_imputed,omitempty"`
	EndClamped   bool       `json:"end_clamped,omitempty"`
}

// Report is the parsed shift report of one team.
type Report struct {
	Team    string     `json:"team"`
	Side    event.Side `json:"side"`
	Records []Record   `json:"records"`
	// Skipped counts shift rows that could not be read.
	Skipped int `json:"skipped"`
}

// Parse reads a team's shift report. A report with no shift cells at all
// returns an error marked errs.ErrNoShiftData; a report whose players have no
// shifts returns an empty Report.
func Parse(r io.Reader, side event.Side) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing HTML")
	}

	cells := doc.Find(`td[class="playerHeading + border"], td[class="lborder + bborder"]`)
	if cells.Length() == 0 {
		return nil, errs.NoShiftData("%s shift report has no shift cells", side)
	}

	team := names.Team(doc.Find(`td[align="center"][class="teamHeading + border"]`).First().Text())
	if team == "" {
		return nil, errs.Malformed("%s shift report has no team heading", side)
	}

	rep := &Report{Team: team, Side: side}

	var (
		name, number string
		pending      []string
	)
	flush := func() {
		for i := 0; i+4 < len(pending); i += 5 {
			rec, ok := parseRow(pending[i : i+5])
			if !ok {
				rep.Skipped++
				continue
			}
			rec.Player = name
			rec.Number = number
			rec.Team = team
			rec.Side = side
			rep.Records = append(rep.Records, rec)
		}
		if len(pending)%5 != 0 {
			rep.Skipped++
		}
		pending = pending[:0]
	}

	cells.Each(func(i int, s *goquery.Selection) {
		text := s.Text()
		if strings.Contains(text, ", ") {
			if name != "" {
				flush()
			}
			number, name = parseHeading(text, team)
			return
		}
		if name != "" {
			pending = append(pending, text)
		}
	})
	if name != "" {
		flush()
	}

	return rep, nil
}

// parseHeading splits a "34 MATTHEWS, AUSTON" player heading.
func parseHeading(text, team string) (number, name string) {
	before, first, _ := strings.Cut(text, ",")
	fields := strings.Fields(before)
	if len(fields) == 0 {
		return "", ""
	}
	number = fields[0]
	last := strings.Join(fields[1:], " ")
	return number, names.PlayerOnTeam(strings.TrimSpace(first)+" "+last, team, names.SourceReport)
}

// parseRow reads the five cells of a shift row: shift number, period,
// start, end and duration. Start and end cells read "elapsed / remaining".
func parseRow(cells []string) (Record, bool) {
	shiftNumber, err := strconv.Atoi(strings.TrimSpace(cells[0]))
	if err != nil {
		return Record{}, false
	}
	period, err := event.ParsePeriod(cells[1])
	if err != nil {
		return Record{}, false
	}
	start := elapsed(cells[2])
	startSecs, err := event.ParseClock(start)
	if err != nil {
		return Record{}, false
	}
	duration, err := event.ParseClock(strings.TrimSpace(cells[4]))
	if err != nil {
		return Record{}, false
	}

	rec := Record{
		ShiftNumber:  shiftNumber,
		Period:       period,
		Start:        event.FormatClock(startSecs),
		StartSeconds: startSecs,
		Duration:     duration,
	}

	end := cells[3]
	if strings.Contains(end, nbsp) || strings.TrimSpace(end) == "" {
		rec.EndSeconds, rec.EndClamped = imputeEnd(startSecs, duration)
		rec.End = event.FormatClock(rec.EndSeconds)
		rec.EndImputed = true
		return rec, true
	}

	endSecs, err := event.ParseClock(elapsed(end))
	if err != nil {
		return Record{}, false
	}
	rec.End = event.FormatClock(endSecs)
	rec.EndSeconds = endSecs
	return rec, true
}

func elapsed(cell string) string {
	before, _, _ := strings.Cut(cell, "/")
	return strings.TrimSpace(before)
}

// imputeEnd fills in a missing shift end as start plus duration. The result
// is rendered M:SS below ten minutes and MM:SS above it; a sum running past
// the end of a regulation period is clamped to it and reported.
func imputeEnd(start, duration int) (int, bool) {
	end := start + duration
	if end > event.PeriodLength {
		return event.PeriodLength, true
	}
	return end, false
}
