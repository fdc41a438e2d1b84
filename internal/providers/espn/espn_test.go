package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/fetch"
)

var gameDate = time.Date(2019, time.October, 2, 0, 0, 0, 0, time.UTC)

func loadFeed(t *testing.T) *Feed {
	t.Helper()
	data, err := os.ReadFile("testdata/masterFeed.xml")
	require.NoError(t, err, "failed to load test fixture")
	feed, err := ParseFeed(data)
	require.NoError(t, err)
	return feed
}

func TestParseFeed(t *testing.T) {
	feed := loadFeed(t)

	assert.Len(t, feed.Events, 11)
	assert.Equal(t, 1, feed.Skipped, "play without coordinates")
	assert.Zero(t, feed.Overflow)

	for i := 1; i < len(feed.Events); i++ {
		assert.False(t, byPeriodTimePlayer(&feed.Events[i], &feed.Events[i-1]), "events sorted at %d", i)
	}
}

func TestParseFeedPlayers(t *testing.T) {
	feed := loadFeed(t)

	find := func(typ event.Type, seconds int) []event.Event {
		var out []event.Event
		for _, e := range feed.Events {
			if e.Type == typ && e.GameSeconds == seconds {
				out = append(out, e)
			}
		}
		return out
	}

	tests := []struct {
		name    string
		typ     event.Type
		seconds int
		player  string
	}{
		{"faceoff winner", event.TypeFaceoff, 0, "AUSTON MATTHEWS"},
		{"hitter", event.TypeHit, 21, "MORGAN RIELLY"},
		{"shot on goal", event.TypeShot, 45, "NICK SUZUKI"},
		{"block credits the shooter", event.TypeBlock, 70, "SHEA WEBER"},
		{"latin-1 name through site alias", event.TypeMiss, 195, "ALEXIS LAFRENIÈRE"},
		{"penalty", event.TypePenalty, 120, "AUSTON MATTHEWS"},
		{"goal scorer", event.TypeGoal, 372, "NICK SUZUKI"},
		{"period start has no player", event.TypePeriodStart, 0, ""},
		{"period end has no player", event.TypePeriodEnd, 1200, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := find(tt.typ, tt.seconds)
			require.Len(t, got, 1)
			assert.Equal(t, tt.player, got[0].Player1)
			assert.Equal(t, 1, got[0].Period)
		})
	}
}

func TestParseFeedCoordinates(t *testing.T) {
	feed := loadFeed(t)

	for _, e := range feed.Events {
		require.NotNil(t, e.Coords, "%s", e.String())
		assert.LessOrEqual(t, e.Coords.X, float64(maxX))
		assert.GreaterOrEqual(t, e.Coords.Y, float64(minY))
		if e.Type == event.TypeMiss {
			assert.Equal(t, event.Coords{X: 99, Y: -42}, *e.Coords, "clamped")
		}
	}
}

func TestParseFeedVersions(t *testing.T) {
	feed := loadFeed(t)

	var versions []int
	for _, e := range feed.Events {
		if e.Type == event.TypeHit && e.GameSeconds == 600 {
			versions = append(versions, e.Version)
		}
	}
	assert.Equal(t, []int{0, 1}, versions)
}

func TestParseFeedInsufficient(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no plays element", `<NHLGamecast><Game id="1"/></NHLGamecast>`},
		{"two plays", `<NHLGamecast><Plays>
<Play id="1">0~0~501~0:00~1~0~0~Start of 1st Period~</Play>
<Play id="2">0~0~520~20:00~1~0~0~End of 1st Period~</Play>
</Plays></NHLGamecast>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFeed([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrInsufficientData), "got %v", err)
		})
	}
}

func TestPlayerName(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"Giveaway by Nick Suzuki in Defensive Zone", "Nick Suzuki"},
		{"Takeaway by Morgan Rielly in Neutral Zone", "Morgan Rielly"},
		{"Shot blocked by Shea Weber", "Shea Weber"},
		{"Shootout attempt by Nick Suzuki saved by Frederik Andersen", "Nick Suzuki"},
		{"Bench Penalty minutes for Too many men on the ice", event.Bench},
		{"Goal scored", ""},
		{"Stoppage Icing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, playerName(tt.description))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		description string
		want        event.Type
	}{
		{"Penalty to Auston Matthews 2 minutes for Hooking", event.TypePenalty},
		{"Shootout attempt by Nick Suzuki saved by Frederik Andersen", event.TypeShot},
		{"Shootout attempt by Nick Suzuki MISSES", event.TypeMiss},
		{"Shootout GOAL by Nick Suzuki", event.TypeGoal},
		{"End of Game", event.TypeGameEnd},
		{"End of 3rd Period", event.TypePeriodEnd},
		{"Video review", ""},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.description))
		})
	}
}

func TestParseScoreboard(t *testing.T) {
	data, err := os.ReadFile("testdata/scoreboard.html")
	require.NoError(t, err)

	games, err := ParseScoreboard(strings.NewReader(string(data)), gameDate)
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, Game{ID: "401044320", Date: gameDate, HomeTeam: "TORONTO MAPLE LEAFS", AwayTeam: "OTTAWA SENATORS"}, games[0])
	assert.Equal(t, "ST. LOUIS BLUES", games[1].HomeTeam)
	assert.Equal(t, "WASHINGTON CAPITALS", games[1].AwayTeam)
}

func TestFindGameUsesCache(t *testing.T) {
	data, err := os.ReadFile("testdata/scoreboard.html")
	require.NoError(t, err)

	var calls int32
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		gotQuery = r.URL.RawQuery
		w.Write(data) // nolint:errcheck
	}))
	defer server.Close()

	c := New(fetch.New(), server.URL, time.Hour)

	id, err := c.FindGame(context.Background(), gameDate, "Toronto Maple Leafs", "OTTAWA SENATORS")
	require.NoError(t, err)
	assert.Equal(t, "401044320", id)
	assert.Equal(t, "date=20191002", gotQuery)

	id, err = c.FindGame(context.Background(), gameDate, "ST LOUIS BLUES", "WASHINGTON CAPITALS")
	require.NoError(t, err)
	assert.Equal(t, "401044321", id)

	_, err = c.FindGame(context.Background(), gameDate, "BOSTON BRUINS", "OTTAWA SENATORS")
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "scoreboard fetched once")
}

func TestEvents(t *testing.T) {
	data, err := os.ReadFile("testdata/masterFeed.xml")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nhl/gamecast/data/masterFeed", r.URL.Path)
		assert.Equal(t, "401044320", r.URL.Query().Get("gameId"))
		w.Write(data) // nolint:errcheck
	}))
	defer server.Close()

	c := New(fetch.New(), server.URL, 0)
	feed, err := c.Events(context.Background(), "401044320")
	require.NoError(t, err)
	assert.Equal(t, "401044320", feed.GameID)
	assert.Len(t, feed.Events, 11)
}

func TestScoreboardCache(t *testing.T) {
	cache := NewScoreboardCache(time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }

	_, ok := cache.Get(gameDate)
	assert.False(t, ok, "empty cache")

	cache.Set(gameDate, []Game{{ID: "1"}})
	games, ok := cache.Get(gameDate)
	require.True(t, ok)
	assert.Equal(t, "1", games[0].ID)

	now = now.Add(2 * time.Minute)
	next := gameDate.AddDate(0, 0, 1)
	cache.Set(next, []Game{{ID: "2"}})
	assert.Len(t, cache.games, 1, "expired dates are evicted on Set")
	_, ok = cache.Get(gameDate)
	assert.False(t, ok)
	games, ok = cache.Get(next)
	require.True(t, ok)
	assert.Equal(t, "2", games[0].ID)
}

func TestVersionsInterleavedTypes(t *testing.T) {
	types := []event.Type{event.TypeGive, event.TypeHit, event.TypeGive, event.TypeHit, event.TypeGive}
	events := make([]event.Event, len(types))
	for i, typ := range types {
		events[i] = event.Event{Index: i, Period: 1, Type: typ, Player1: "JOHN TAVARES", GameSeconds: 200}
	}

	overflow := event.AssignVersions(events, byPeriodTimePlayer)
	assert.Zero(t, overflow)

	got := map[event.Type][]int{}
	for _, e := range events {
		got[e.Type] = append(got[e.Type], e.Version)
	}
	assert.ElementsMatch(t, []int{0, 1, 2}, got[event.TypeGive])
	assert.ElementsMatch(t, []int{0, 1}, got[event.TypeHit])
}
