package espn

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/fetch"
	"github.com/pfrederiksen/hockey-pbp/internal/names"
)

// DefaultBaseURL is the root of the secondary site.
const DefaultBaseURL = "https://www.espn.com"

// Client reads scoreboards and play feeds from the secondary site.
type Client struct {
	fetch   *fetch.Client
	baseURL string
	cache   *ScoreboardCache
}

// New creates a client. An empty baseURL selects DefaultBaseURL; scoreboards
// are cached for ttl.
func New(f *fetch.Client, baseURL string, ttl time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		fetch:   f,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   NewScoreboardCache(ttl),
	}
}

// Game is one scoreboard entry.
type Game struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
}

// Scoreboard returns the games listed for date.
func (c *Client) Scoreboard(ctx context.Context, date time.Time) ([]Game, error) {
	if games, ok := c.cache.Get(date); ok {
		return games, nil
	}

	url := fmt.Sprintf("%s/nhl/scoreboard?date=%s", c.baseURL, date.Format("20060102"))
	body, err := c.fetch.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching scoreboard for %s", date.Format("2006-01-02"))
	}
	games, err := ParseScoreboard(bytes.NewReader(body), date)
	if err != nil {
		return nil, err
	}
	c.cache.Set(date, games)
	return games, nil
}

// FindGame returns the site's id for the game between home and away on date.
func (c *Client) FindGame(ctx context.Context, date time.Time, home, away string) (string, error) {
	games, err := c.Scoreboard(ctx, date)
	if err != nil {
		return "", err
	}
	home, away = names.Team(home), names.Team(away)
	for _, g := range games {
		if g.HomeTeam == home && g.AwayTeam == away {
			return g.ID, nil
		}
	}
	return "", errs.NotFound("no site game for %s at %s on %s", away, home, date.Format("2006-01-02"))
}

// ParseScoreboard reads a scoreboard page. Every game link is paired with the
// two team links before it, away team first.
func ParseScoreboard(r io.Reader, date time.Time) ([]Game, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing HTML")
	}

	var games []Game
	var teams []string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		switch {
		case strings.Contains(href, "/nhl/team/_/name/"):
			team := teamFromHref(href)
			// Logo and name links repeat the same team.
			if len(teams) > 0 && teams[len(teams)-1] == team {
				return
			}
			teams = append(teams, team)
		case strings.Contains(href, "gameId/"):
			if len(teams) < 2 {
				return
			}
			_, id, _ := strings.Cut(href, "gameId/")
			id, _, _ = strings.Cut(id, "/")
			games = append(games, Game{
				ID:       id,
				Date:     date,
				AwayTeam: teams[len(teams)-2],
				HomeTeam: teams[len(teams)-1],
			})
			teams = teams[:0]
		}
	})
	return games, nil
}

// teamFromHref turns ".../name/tor/toronto-maple-leafs" into the canonical
// franchise name.
func teamFromHref(href string) string {
	href = strings.TrimRight(href, "/")
	slug := href[strings.LastIndex(href, "/")+1:]
	return names.Team(strings.ReplaceAll(slug, "-", " "))
}
