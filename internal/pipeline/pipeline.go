package pipeline

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/assemble"
	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/logger"
	"github.com/pfrederiksen/hockey-pbp/internal/merge"
	"github.com/pfrederiksen/hockey-pbp/internal/pbp"
	"github.com/pfrederiksen/hockey-pbp/internal/providers/espn"
	"github.com/pfrederiksen/hockey-pbp/internal/providers/statsapi"
	"github.com/pfrederiksen/hockey-pbp/internal/roster"
	"github.com/pfrederiksen/hockey-pbp/internal/scraper"
	"github.com/pfrederiksen/hockey-pbp/internal/shift"
)

// Reports fetches the HTML game reports.
type Reports interface {
	Roster(ctx context.Context, g scraper.GameID) (*roster.Roster, error)
	PlayByPlay(ctx context.Context, g scraper.GameID, ros *roster.Roster) (*pbp.Report, error)
	Changes(ctx context.Context, g scraper.GameID) ([]shift.Change, error)
}

// APIFeed fetches the league API event feed.
type APIFeed interface {
	Events(ctx context.Context, gameID string) (*statsapi.Feed, error)
}

// SiteFeed looks up and fetches the secondary site's event feed.
type SiteFeed interface {
	FindGame(ctx context.Context, date time.Time, home, away string) (string, error)
	Events(ctx context.Context, id string) (*espn.Feed, error)
}

// Status is the outcome class of one game.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Coordinate streams the merge can draw from.
const (
	StreamAPI    = "api"
	StreamHybrid = "hybrid"
	StreamSite   = "secondary_site"
	StreamNone   = "none"
)

// Outcome is the result of one game's pipeline. Game is set only on success.
type Outcome struct {
	GameID   string         `json:"game_id"`
	Status   Status         `json:"status"`
	Game     *assemble.Game `json:"-"`
	Reason   string         `json:"reason,omitempty"`
	Kind     errs.Kind      `json:"kind,omitempty"`
	Err      error          `json:"-"`
	Stream   string         `json:"coordinate_stream,omitempty"`
	Merge    merge.Stats    `json:"merge"`
	Attempts int            `json:"attempts"`
	Duration time.Duration  `json:"duration"`
}

// Pipeline reconstructs one game from its sources.
type Pipeline struct {
	reports Reports
	api     APIFeed
	site    SiteFeed
	skipAPI bool
	log     *logger.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSkipAPI sends the pipeline straight to the secondary site for coordinates.
func WithSkipAPI(skip bool) Option {
	return func(p *Pipeline) { p.skipAPI = skip }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates a Pipeline. api and site may be nil to disable that feed.
func New(reports Reports, api APIFeed, site SiteFeed, opts ...Option) *Pipeline {
	p := &Pipeline{
		reports: reports,
		api:     api,
		site:    site,
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one game id. It never panics on source failures: every
// error is folded into the returned Outcome.
func (p *Pipeline) Run(ctx context.Context, gameID string) Outcome {
	start := time.Now()
	out := p.run(ctx, gameID)
	out.GameID = gameID
	out.Attempts = 1
	out.Duration = time.Since(start)
	return out
}

func (p *Pipeline) run(ctx context.Context, gameID string) Outcome {
	fields := logger.Fields{"game_id": gameID}

	g, err := scraper.ParseGameID(gameID)
	if err != nil {
		return failed(err)
	}

	ros, err := p.reports.Roster(ctx, g)
	if err != nil {
		return p.abort(ctx, "roster report", fields, err)
	}
	rep, err := p.reports.PlayByPlay(ctx, g, ros)
	if err != nil {
		return p.abort(ctx, "play-by-play report", fields, err)
	}
	if rep.Overflow > 0 {
		p.log.Warn("play-by-play disambiguation overflow", logger.Fields{"game_id": gameID, "groups": rep.Overflow})
	}
	p.log.Debug("parsed play-by-play", logger.Fields{"game_id": gameID, "events": len(rep.Events)})

	secondary, stream, err := p.coordinates(ctx, g, rep)
	if err != nil {
		return p.abort(ctx, "coordinates", fields, err)
	}
	merged, stats := merge.Merge(rep.Events, secondary)
	if stats.Unmatched > 0 {
		p.log.Debug("events left without coordinates", logger.Fields{"game_id": gameID, "unmatched": stats.Unmatched})
	}

	in := assemble.Input{
		GameID:   g.ID,
		Season:   g.Season,
		Date:     rep.Date,
		HomeTeam: rep.HomeTeam,
		AwayTeam: rep.AwayTeam,
		HomeCode: rep.HomeCode,
		AwayCode: rep.AwayCode,
		Events:   merged,
		Roster:   ros,
	}

	game, err := p.build(ctx, g, in)
	if err != nil {
		return p.abort(ctx, "assembling", fields, err)
	}
	if game.OnIceOverflow > 0 {
		p.log.Warn("on-ice overflow", logger.Fields{"game_id": gameID, "rows": game.OnIceOverflow})
	}
	return Outcome{Status: StatusSuccess, Game: game, Stream: stream, Merge: stats}
}

// build assembles the full table, or the events-only table when the shift
// reports cannot be used.
func (p *Pipeline) build(ctx context.Context, g scraper.GameID, in assemble.Input) (*assemble.Game, error) {
	changes, err := p.reports.Changes(ctx, g)
	if err == nil {
		in.Changes = changes
		game, aerr := assemble.Assemble(in)
		if aerr == nil {
			return game, nil
		}
		err = aerr
	}
	if cancelled(ctx, err) {
		return nil, err
	}
	p.log.Warn("no shift data, writing events only", logger.Fields{"game_id": g.ID, "reason": err.Error()})
	return assemble.EventsOnly(in), nil
}

// coordinates walks the fallback chain API, then hybrid or site, then none.
// A feed error moves to the next feed only when errs.Fallback accepts its
// kind; any other error fails the game.
func (p *Pipeline) coordinates(ctx context.Context, g scraper.GameID, rep *pbp.Report) ([]event.Event, string, error) {
	var apiFeed *statsapi.Feed
	if p.api != nil && !p.skipAPI {
		feed, err := p.api.Events(ctx, g.ID)
		switch {
		case aborts(ctx, err):
			return nil, "", err
		case err != nil:
			p.log.Warn("API feed unavailable, trying secondary site", logger.Fields{
				"game_id": g.ID, "kind": string(errs.KindOf(err)), "reason": err.Error(),
			})
		case feed.MissingCoords == 0:
			return feed.Events, StreamAPI, nil
		default:
			apiFeed = feed
		}
	}

	site, err := p.siteEvents(ctx, g, rep)
	if aborts(ctx, err) {
		return nil, "", err
	}
	switch {
	case apiFeed != nil && err == nil:
		hybrid := merge.Hybrid(apiFeed.Events, site)
		p.log.Debug("built hybrid coordinate stream", logger.Fields{
			"game_id": g.ID, "from_site": hybrid.FromSite, "flipped_x": hybrid.FlippedX, "flipped_y": hybrid.FlippedY,
		})
		return hybrid.Events, StreamHybrid, nil
	case apiFeed != nil:
		p.log.Warn("API feed is missing coordinates and the site is unavailable", logger.Fields{
			"game_id": g.ID, "missing": apiFeed.MissingCoords,
		})
		return apiFeed.Events, StreamAPI, nil
	case err == nil:
		return site, StreamSite, nil
	}
	p.log.Warn("no coordinate source available", logger.Fields{"game_id": g.ID, "reason": err.Error()})
	return nil, StreamNone, nil
}

func (p *Pipeline) siteEvents(ctx context.Context, g scraper.GameID, rep *pbp.Report) ([]event.Event, error) {
	if p.site == nil {
		return nil, errs.NotFound("secondary site disabled")
	}
	if rep.Date.IsZero() {
		return nil, errs.Malformed("game %s has no date to look up on the site scoreboard", g)
	}
	id, err := p.site.FindGame(ctx, rep.Date, rep.HomeTeam, rep.AwayTeam)
	if err != nil {
		return nil, err
	}
	feed, err := p.site.Events(ctx, id)
	if err != nil {
		return nil, err
	}
	if feed.Overflow > 0 {
		p.log.Warn("site feed disambiguation overflow", logger.Fields{"game_id": g.ID, "groups": feed.Overflow})
	}
	return feed.Events, nil
}

// abort turns a stage error into an Outcome: missing data skips the game,
// anything else fails it.
func (p *Pipeline) abort(ctx context.Context, stage string, fields logger.Fields, err error) Outcome {
	err = errors.Wrap(err, stage)
	if ctx.Err() != nil && !errors.Is(err, errs.ErrCancelled) {
		err = errors.Mark(err, errs.ErrCancelled)
	}
	out := failed(err)
	if out.Kind == errs.KindNotFound {
		out.Status = StatusSkipped
		p.log.Warn("game skipped", withKind(fields, out.Kind, err))
		return out
	}
	p.log.Error("game failed", withKind(fields, out.Kind, nil), err)
	return out
}

func withKind(fields logger.Fields, kind errs.Kind, err error) logger.Fields {
	out := logger.Fields{"kind": string(kind)}
	for k, v := range fields {
		out[k] = v
	}
	if err != nil {
		out["reason"] = err.Error()
	}
	return out
}

func failed(err error) Outcome {
	return Outcome{
		Status: StatusFailed,
		Reason: err.Error(),
		Kind:   errs.KindOf(err),
		Err:    err,
	}
}

func cancelled(ctx context.Context, err error) bool {
	return err != nil && (ctx.Err() != nil || errs.KindOf(err) == errs.KindCancelled)
}

// aborts reports whether a coordinate feed error ends the chain.
func aborts(ctx context.Context, err error) bool {
	return cancelled(ctx, err) || (err != nil && !errs.Fallback(err))
}
