package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/hockey-pbp/internal/assemble"
	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/pipeline"
)

func testGame(hasOnIce bool) *assemble.Game {
	x, y := 70.0, -3.0
	g := &assemble.Game{
		GameID:   "2019020001",
		Season:   "20192020",
		HomeCode: "TOR",
		AwayCode: "OTT",
		HasOnIce: hasOnIce,
		Records: []assemble.Record{
			{
				Season: "20192020", GameID: "2019020001", GameDate: "2019-10-02",
				EventIndex: 1, Period: 1, Time: "0:00", Type: event.TypeFaceoff,
				Description: "TOR won Neu. Zone - TOR #91 TAVARES vs OTT #19 DUCHENE",
				EventTeam:   "TOR", Player1: "JOHN.TAVARES", Player2: "MATT.DUCHENE",
				HomeTeam: "TOR", AwayTeam: "OTT", ScoreState: "0v0",
				CoordSource: event.SourceAPI, X: &x, Y: &y,
			},
			{
				Season: "20192020", GameID: "2019020001", GameDate: "2019-10-02",
				EventIndex: 2, Period: 1, Time: "0:45", GameSeconds: 45, Type: event.TypeShot,
				Description: "OTT ONGOAL - #9 TKACHUK, Wrist, Off. Zone, 12 ft.",
				EventTeam:   "OTT", Player1: "BRADY.TKACHUK",
				HomeTeam: "TOR", AwayTeam: "OTT", ScoreState: "0v0",
				CoordSource: event.SourceNone,
			},
		},
	}
	if !hasOnIce {
		g.Warning = assemble.WarningNoShiftData
		for i := range g.Records {
			g.Records[i].Warning = assemble.WarningNoShiftData
		}
	}
	return g
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "games")
	s, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteGame(t *testing.T) {
	tests := []struct {
		name      string
		hasOnIce  bool
		wantCols  int
		wantOnIce bool
	}{
		{name: "full table", hasOnIce: true, wantCols: len(assemble.Columns(true)), wantOnIce: true},
		{name: "events only", hasOnIce: false, wantCols: len(assemble.Columns(false)), wantOnIce: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(t.TempDir())
			require.NoError(t, err)

			path, err := s.WriteGame(testGame(tt.hasOnIce), FormatCSV)
			require.NoError(t, err)
			assert.Equal(t, "2019020001.csv", filepath.Base(path))

			rows := readCSV(t, path)
			require.Len(t, rows, 3)
			assert.Len(t, rows[0], tt.wantCols)
			assert.Equal(t, "season", rows[0][0])
			assert.Equal(t, tt.wantOnIce, contains(rows[0], "home_on_1"))
			assert.Equal(t, "70", rows[1][16])
			assert.Equal(t, "-3", rows[1][17])
			assert.Equal(t, "", rows[2][16])

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestWriteGameJSON(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := s.WriteGame(testGame(false), "JSON")
	require.NoError(t, err)
	assert.Equal(t, s.GamePath("2019020001", FormatJSON), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got assemble.Game
	require.NoError(t, sonic.Unmarshal(data, &got))
	assert.Equal(t, "2019020001", got.GameID)
	assert.False(t, got.HasOnIce)
	assert.Equal(t, assemble.WarningNoShiftData, got.Warning)
	require.Len(t, got.Records, 2)
	assert.Equal(t, event.TypeShot, got.Records[1].Type)
	assert.Nil(t, got.Records[1].X)
}

func TestWriteGameErrors(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.WriteGame(testGame(true), "parquet")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = s.WriteGame(nil, FormatCSV)
	assert.Error(t, err)
}

func TestManifest(t *testing.T) {
	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rep := &pipeline.Report{
		RunID:    "0b6f5c1e-6e0e-4a53-9a57-3e1f0c0a0d11",
		Started:  started,
		Finished: started.Add(time.Minute),
		Outcomes: []pipeline.Outcome{
			{GameID: "2019020001", Status: pipeline.StatusSuccess, Stream: pipeline.StreamAPI, Game: testGame(true), Attempts: 1},
			{GameID: "2019020002", Status: pipeline.StatusSkipped, Kind: errs.KindNotFound, Reason: "roster report: not found"},
			{GameID: "2019020003", Status: pipeline.StatusFailed, Kind: errs.KindMalformed, Reason: "no events", Attempts: 2},
			{GameID: "2019020004", Status: pipeline.StatusSuccess, Game: testGame(false), Attempts: 1},
		},
		Pending:   []string{"2019020005"},
		Cancelled: true,
	}

	m := NewManifest(rep)
	require.Len(t, m.Succeeded, 2)
	require.Len(t, m.Skipped, 1)
	require.Len(t, m.Failed, 1)
	assert.Equal(t, assemble.WarningNoShiftData, m.Succeeded[1].Warning)
	assert.Equal(t, errs.KindMalformed, m.Failed[0].Kind)
	assert.Equal(t, []string{"2019020003", "2019020005"}, m.RetryIDs())

	m.MarkFailed("2019020004", errors.New("disk full"))
	require.Len(t, m.Succeeded, 1)
	require.Len(t, m.Failed, 2)
	assert.Equal(t, "disk full", m.Failed[1].Reason)
	assert.Equal(t, []string{"2019020003", "2019020004", "2019020005"}, m.RetryIDs())

	s, err := New(t.TempDir())
	require.NoError(t, err)
	path, err := s.WriteManifest(m)
	require.NoError(t, err)
	assert.Equal(t, ManifestFile, filepath.Base(path))

	loaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, loaded.RunID)
	assert.True(t, loaded.Started.Equal(started))
	assert.True(t, loaded.Cancelled)
	assert.Equal(t, m.RetryIDs(), loaded.RetryIDs())
	assert.Equal(t, pipeline.StreamAPI, loaded.Succeeded[0].Stream)
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "missing.json"))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = LoadManifest(bad)
	assert.Equal(t, errs.KindMalformed, errs.KindOf(err))
}

func contains(cols []string, name string) bool {
	for _, c := range cols {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
