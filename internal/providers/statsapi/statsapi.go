package statsapi

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/fetch"
	"github.com/pfrederiksen/hockey-pbp/internal/names"
)

// DefaultBaseURL is the root of the league statistics API.
const DefaultBaseURL = "https://statsapi.web.nhl.com/api/v1"

// minEvents is the smallest feed treated as usable.
const minEvents = 3

// Client reads game feeds and schedules from the statistics API.
type Client struct {
	fetch   *fetch.Client
	baseURL string
}

// New creates a client. An empty baseURL selects DefaultBaseURL.
func New(f *fetch.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{fetch: f, baseURL: strings.TrimRight(baseURL, "/")}
}

// Feed is the decoded event stream of one game.
type Feed struct {
	GameType string        `json:"game_type"`
	HomeTeam string        `json:"home_team"`
	AwayTeam string        `json:"away_team"`
	HomeCode string        `json:"home_code"`
	AwayCode string        `json:"away_code"`
	Events   []event.Event `json:"events"`
	// MissingCoords counts events of interest the feed has no location for.
	MissingCoords int `json:"missing_coords"`
	// Overflow counts disambiguation groups larger than four.
	Overflow int `json:"overflow,omitempty"`
}

// Events fetches and decodes the live feed of gameID.
func (c *Client) Events(ctx context.Context, gameID string) (*Feed, error) {
	url := fmt.Sprintf("%s/game/%s/feed/live", c.baseURL, gameID)
	body, err := c.fetch.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching API feed for %s", gameID)
	}
	return ParseFeed(body)
}

type feedTeam struct {
	Name    string `json:"name"`
	TriCode string `json:"triCode"`
}

type liveFeed struct {
	GameData struct {
		Game struct {
			Type string `json:"type"`
		} `json:"game"`
		Teams struct {
			Home feedTeam `json:"home"`
			Away feedTeam `json:"away"`
		} `json:"teams"`
	} `json:"gameData"`
	LiveData struct {
		Plays struct {
			AllPlays []play `json:"allPlays"`
		} `json:"plays"`
	} `json:"liveData"`
}

type play struct {
	Result struct {
		Description   string `json:"description"`
		EventTypeID   string `json:"eventTypeId"`
		SecondaryType string `json:"secondaryType"`
	} `json:"result"`
	About struct {
		EventIdx   int    `json:"eventIdx"`
		Period     int    `json:"period"`
		PeriodTime string `json:"periodTime"`
	} `json:"about"`
	Coordinates struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	} `json:"coordinates"`
	Players []struct {
		Player struct {
			FullName string `json:"fullName"`
		} `json:"player"`
		PlayerType string `json:"playerType"`
	} `json:"players"`
	Team *feedTeam `json:"team"`
}

var typeByFeedID = map[string]event.Type{
	"BLOCKED_SHOT": event.TypeBlock,
	"BLOCKEDSHOT":  event.TypeBlock,
	"MISSED_SHOT":  event.TypeMiss,
	"MISSEDSHOT":   event.TypeMiss,
	"FACEOFF":      event.TypeFaceoff,
	"PENALTY":      event.TypePenalty,
	"GIVEAWAY":     event.TypeGive,
	"TAKEAWAY":     event.TypeTake,
	"HIT":          event.TypeHit,
	"SHOT":         event.TypeShot,
	"GOAL":         event.TypeGoal,
}

// ParseFeed decodes a live feed document. Only shots, hits, blocks, misses,
// giveaways, takeaways, goals, penalties and faceoffs are kept.
func ParseFeed(data []byte) (*Feed, error) {
	var lf liveFeed
	if err := sonic.Unmarshal(data, &lf); err != nil {
		return nil, errs.Malformed("decoding API feed: %v", err)
	}

	plays := lf.LiveData.Plays.AllPlays
	if len(plays) == 0 {
		return nil, errs.Insufficient("API feed has no plays")
	}

	home, away := lf.GameData.Teams.Home, lf.GameData.Teams.Away
	feed := &Feed{
		GameType: lf.GameData.Game.Type,
		HomeTeam: names.Team(home.Name),
		AwayTeam: names.Team(away.Name),
		HomeCode: home.TriCode,
		AwayCode: away.TriCode,
	}

	for _, p := range plays {
		typ, ok := typeByFeedID[p.Result.EventTypeID]
		if !ok {
			continue
		}
		e, err := feed.buildEvent(p, typ)
		if err != nil {
			return nil, errs.Malformed("API play %d: %v", p.About.EventIdx, err)
		}
		if typ.OfInterest() && e.Coords == nil {
			feed.MissingCoords++
		}
		feed.Events = append(feed.Events, e)
	}
	if len(feed.Events) < minEvents {
		return nil, errs.Insufficient("API feed has %d usable events", len(feed.Events))
	}

	feed.Overflow = event.AssignVersions(feed.Events, byTimeTeamPlayer)
	for i := range feed.Events {
		if isBenchPenalty(feed.Events[i].Description) {
			feed.Events[i].Player1 = event.Bench
		}
	}
	return feed, nil
}

func (f *Feed) buildEvent(p play, typ event.Type) (event.Event, error) {
	periodSeconds, err := event.ParseClock(p.About.PeriodTime)
	if err != nil {
		return event.Event{}, err
	}
	e := event.Event{
		Index:         p.About.EventIdx,
		Period:        p.About.Period,
		PeriodSeconds: periodSeconds,
		GameSeconds:   event.GameSeconds(p.About.Period, periodSeconds),
		Type:          typ,
		Description:   p.Result.Description,
		Detail:        p.Result.SecondaryType,
		CoordSource:   event.SourceAPI,
	}
	if p.Coordinates.X != nil && p.Coordinates.Y != nil {
		e.Coords = &event.Coords{X: *p.Coordinates.X, Y: *p.Coordinates.Y}
	}

	teamName := ""
	if p.Team != nil {
		e.Team = p.Team.TriCode
		teamName = p.Team.Name
	}
	players := make([]string, len(p.Players))
	for i, pl := range p.Players {
		players[i] = pl.Player.FullName
	}

	// Blocks are recorded from the blocker's side; the other streams credit
	// the shooter and the shooting team.
	if typ == event.TypeBlock && len(players) > 1 {
		players[0], players[1] = players[1], players[0]
		if e.Team == f.HomeCode {
			e.Team, teamName = f.AwayCode, f.AwayTeam
		} else if e.Team == f.AwayCode {
			e.Team, teamName = f.HomeCode, f.HomeTeam
		}
	}

	resolve := func(i int) string {
		if i >= len(players) {
			return ""
		}
		return names.PlayerOnTeam(players[i], teamName, names.SourceAPI)
	}
	e.Player1, e.Player2, e.Player3 = resolve(0), resolve(1), resolve(2)
	return e, nil
}

// byTimeTeamPlayer orders API streams for disambiguation.
func byTimeTeamPlayer(a, b *event.Event) bool {
	if a.GameSeconds != b.GameSeconds {
		return a.GameSeconds < b.GameSeconds
	}
	if a.Team != b.Team {
		return a.Team < b.Team
	}
	if a.Player1 != b.Player1 {
		return a.Player1 < b.Player1
	}
	return a.Type < b.Type
}

func isBenchPenalty(description string) bool {
	return strings.Contains(description, "Too many men") ||
		strings.Contains(description, "unsportsmanlike conduct-bench")
}

// Game is one schedule entry.
type Game struct {
	ID        string    `json:"id"`
	Season    string    `json:"season"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	State     string    `json:"state"`
	Venue     string    `json:"venue"`
}

// Eastern is the zone schedule dates are reported in.
var Eastern = time.FixedZone("EST", -5*60*60)

// Schedule lists the games played between from and to, inclusive.
func (c *Client) Schedule(ctx context.Context, from, to time.Time) ([]Game, error) {
	url := fmt.Sprintf("%s/schedule?startDate=%s&endDate=%s",
		c.baseURL, from.Format("2006-01-02"), to.Format("2006-01-02"))
	body, err := c.fetch.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "fetching schedule")
	}
	return ParseSchedule(body)
}

type scheduleTeam struct {
	Score int `json:"score"`
	Team  struct {
		Name string `json:"name"`
	} `json:"team"`
}

type scheduleDoc struct {
	Dates []struct {
		Games []struct {
			GamePk   int64  `json:"gamePk"`
			GameType string `json:"gameType"`
			Season   string `json:"season"`
			GameDate string `json:"gameDate"`
			Status   struct {
				DetailedState string `json:"detailedState"`
			} `json:"status"`
			Teams struct {
				Away scheduleTeam `json:"away"`
				Home scheduleTeam `json:"home"`
			} `json:"teams"`
			Venue struct {
				Name string `json:"name"`
			} `json:"venue"`
		} `json:"games"`
	} `json:"dates"`
}

// ParseSchedule decodes a schedule document, ordered by date then game id.
func ParseSchedule(data []byte) ([]Game, error) {
	var doc scheduleDoc
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, errs.Malformed("decoding schedule: %v", err)
	}

	var games []Game
	for _, d := range doc.Dates {
		for _, g := range d.Games {
			date, err := time.Parse(time.RFC3339, g.GameDate)
			if err != nil {
				return nil, errs.Malformed("schedule game %d date %q", g.GamePk, g.GameDate)
			}
			games = append(games, Game{
				ID:        fmt.Sprintf("%d", g.GamePk),
				Season:    g.Season,
				Type:      g.GameType,
				Date:      date.In(Eastern),
				HomeTeam:  names.Team(g.Teams.Home.Team.Name),
				AwayTeam:  names.Team(g.Teams.Away.Team.Name),
				HomeScore: g.Teams.Home.Score,
				AwayScore: g.Teams.Away.Score,
				State:     g.Status.DetailedState,
				Venue:     g.Venue.Name,
			})
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].Date.Equal(games[j].Date) {
			return games[i].Date.Before(games[j].Date)
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}
