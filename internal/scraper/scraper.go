package scraper

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/fetch"
	"github.com/pfrederiksen/hockey-pbp/internal/pbp"
	"github.com/pfrederiksen/hockey-pbp/internal/roster"
	"github.com/pfrederiksen/hockey-pbp/internal/shift"
)

// DefaultBaseURL is where the league publishes its HTML game reports.
const DefaultBaseURL = "http://www.nhl.com/scores/htmlreports"

// Report prefixes.
const (
	RosterReport     = "RO"
	HomeShiftReport  = "TH"
	AwayShiftReport  = "TV"
	PlayByPlayReport = "PL"
)

// Scraper handles fetching and parsing the HTML game reports.
type Scraper struct {
	fetch   *fetch.Client
	baseURL string
}

// New creates a Scraper. An empty baseURL uses DefaultBaseURL.
func New(f *fetch.Client, baseURL string) *Scraper {
	if f == nil {
		f = fetch.New()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{fetch: f, baseURL: baseURL}
}

// URL returns the address of one report of a game.
func (s *Scraper) URL(g GameID, prefix string) string {
	return fmt.Sprintf("%s/%s/%s%s.HTM", s.baseURL, g.Season, prefix, g.Report)
}

// Roster fetches and parses the roster report.
func (s *Scraper) Roster(ctx context.Context, g GameID) (*roster.Roster, error) {
	body, err := s.fetch.GetLatin1(ctx, s.URL(g, RosterReport))
	if err != nil {
		return nil, errors.Wrapf(err, "fetching roster report for %s", g)
	}
	ros, err := roster.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing roster report for %s", g)
	}
	return ros, nil
}

// PlayByPlay fetches and parses the play-by-play report, resolving jersey
// numbers against ros.
func (s *Scraper) PlayByPlay(ctx context.Context, g GameID, ros *roster.Roster) (*pbp.Report, error) {
	body, err := s.fetch.GetLatin1(ctx, s.URL(g, PlayByPlayReport))
	if err != nil {
		return nil, errors.Wrapf(err, "fetching play-by-play report for %s", g)
	}
	rep, err := pbp.Parse(bytes.NewReader(body), ros)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing play-by-play report for %s", g)
	}
	return rep, nil
}

// Shifts fetches and parses one team's shift report. A missing report is
// reported as no shift data.
func (s *Scraper) Shifts(ctx context.Context, g GameID, side event.Side) (*shift.Report, error) {
	prefix := HomeShiftReport
	if side == event.Away {
		prefix = AwayShiftReport
	}
	body, err := s.fetch.GetLatin1(ctx, s.URL(g, prefix))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.NoShiftData("%s shift report for %s not published", side, g)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s shift report for %s", side, g)
	}
	rep, err := shift.Parse(bytes.NewReader(body), side)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s shift report for %s", side, g)
	}
	return rep, nil
}

// Changes fetches both shift reports and builds the changes table.
func (s *Scraper) Changes(ctx context.Context, g GameID) ([]shift.Change, error) {
	home, err := s.Shifts(ctx, g, event.Home)
	if err != nil {
		return nil, err
	}
	away, err := s.Shifts(ctx, g, event.Away)
	if err != nil {
		return nil, err
	}
	changes := shift.Changes(away, home)
	if len(changes) == 0 {
		return nil, errs.NoShiftData("shift reports for %s have no shifts", g)
	}
	return changes, nil
}
