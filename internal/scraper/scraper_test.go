package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/fetch"
)

func TestParseGameID(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantSeason string
		wantReport string
		wantKind   string
		wantError  bool
	}{
		{name: "regular season", id: "2019020001", wantSeason: "20192020", wantReport: "020001", wantKind: "02"},
		{name: "playoffs", id: "2018030417", wantSeason: "20182019", wantReport: "030417", wantKind: "03"},
		{name: "too short", id: "201902001", wantError: true},
		{name: "letters", id: "2019O20001", wantError: true},
		{name: "empty", id: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseGameID(tt.id)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidGameID))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, g.ID)
			assert.Equal(t, tt.wantSeason, g.Season)
			assert.Equal(t, tt.wantReport, g.Report)
			assert.Equal(t, tt.wantKind, g.Kind)
		})
	}
}

// reportServer serves report fixtures by file name and 404s everything else.
func reportServer(t *testing.T, files map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var hits []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "hockey-pbp") {
			t.Errorf("User-Agent = %q, should contain 'hockey-pbp'", ua)
		}
		hits = append(hits, r.URL.Path)
		path, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("reading fixture %s: %v", path, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func newScraper(url string) *Scraper {
	return New(fetch.New(fetch.WithRetry(time.Millisecond, 1)), url)
}

func TestURL(t *testing.T) {
	g, err := ParseGameID("2019020001")
	require.NoError(t, err)

	s := New(nil, "")
	assert.Equal(t, "http://www.nhl.com/scores/htmlreports/20192020/PL020001.HTM", s.URL(g, PlayByPlayReport))
	assert.Equal(t, "http://www.nhl.com/scores/htmlreports/20192020/TV020001.HTM", s.URL(g, AwayShiftReport))
}

func TestRosterAndPlayByPlay(t *testing.T) {
	server, _ := reportServer(t, map[string]string{
		"/20192020/RO020001.HTM": "../roster/testdata/roster.htm",
		"/20192020/PL020001.HTM": "../pbp/testdata/PL020001.HTM",
	})
	s := newScraper(server.URL)
	g, _ := ParseGameID("2019020001")
	ctx := context.Background()

	ros, err := s.Roster(ctx, g)
	require.NoError(t, err)
	assert.NotEmpty(t, ros.Home)
	assert.NotEmpty(t, ros.Away)

	rep, err := s.PlayByPlay(ctx, g, ros)
	require.NoError(t, err)
	assert.Equal(t, "TOR", rep.HomeCode)
	assert.Equal(t, "MTL", rep.AwayCode)
	assert.Len(t, rep.Events, 11)
}

func TestRosterNotFound(t *testing.T) {
	server, _ := reportServer(t, nil)
	s := newScraper(server.URL)
	g, _ := ParseGameID("2019020001")

	_, err := s.Roster(context.Background(), g)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestChanges(t *testing.T) {
	server, hits := reportServer(t, map[string]string{
		"/20192020/TH020001.HTM": "../shift/testdata/TH020001.HTM",
		"/20192020/TV020001.HTM": "../shift/testdata/TH020001.HTM",
	})
	s := newScraper(server.URL)
	g, _ := ParseGameID("2019020001")

	changes, err := s.Changes(context.Background(), g)
	require.NoError(t, err)
	require.NotEmpty(t, changes)
	assert.Equal(t, []string{"/20192020/TH020001.HTM", "/20192020/TV020001.HTM"}, *hits)

	sides := make(map[event.Side]bool)
	for _, c := range changes {
		sides[c.Side] = true
	}
	assert.True(t, sides[event.Home])
	assert.True(t, sides[event.Away])
}

func TestChangesMissingShiftReport(t *testing.T) {
	server, _ := reportServer(t, map[string]string{
		"/20192020/TH020001.HTM": "../shift/testdata/TH020001.HTM",
	})
	s := newScraper(server.URL)
	g, _ := ParseGameID("2019020001")

	_, err := s.Changes(context.Background(), g)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNoShiftData))
	assert.False(t, errors.Is(err, errs.ErrNotFound))
}
