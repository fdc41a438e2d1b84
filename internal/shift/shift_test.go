package shift

import (
	"os"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
)

func loadReport(t *testing.T) *Report {
	t.Helper()
	data, err := os.ReadFile("testdata/TH020001.HTM")
	require.NoError(t, err, "failed to load test fixture")

	rep, err := Parse(strings.NewReader(string(data)), event.Home)
	require.NoError(t, err)
	return rep
}

func TestParse(t *testing.T) {
	rep := loadReport(t)

	assert.Equal(t, "TORONTO MAPLE LEAFS", rep.Team)
	assert.Equal(t, event.Home, rep.Side)
	assert.Equal(t, 0, rep.Skipped)
	require.Len(t, rep.Records, 5)

	assert.Equal(t, Record{
		Player:       "AUSTON MATTHEWS",
		Number:       "34",
		Team:         "TORONTO MAPLE LEAFS",
		Side:         event.Home,
		ShiftNumber:  2,
		Period:       1,
		Start:        "2:00",
		End:          "2:50",
		StartSeconds: 120,
		EndSeconds:   170,
		Duration:     50,
	}, rep.Records[1])

	rielly := rep.Records[3]
	assert.Equal(t, "MORGAN RIELLY", rielly.Player)
	assert.Equal(t, 2, rielly.Period)
	assert.True(t, rielly.EndImputed)
	assert.True(t, rielly.EndClamped)
	assert.Equal(t, "20:00", rielly.End)

	jvr := rep.Records[4]
	assert.Equal(t, "JAMES VAN RIEMSDYK", jvr.Player)
	assert.Equal(t, 4, jvr.Period)
	assert.Equal(t, "0:40", jvr.End)
	assert.True(t, jvr.EndImputed)
	assert.False(t, jvr.EndClamped)
}

func TestParseNoShiftData(t *testing.T) {
	_, err := Parse(strings.NewReader("<html><body><p>Report not available</p></body></html>"), event.Away)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNoShiftData))
}

func TestParseZeroShifts(t *testing.T) {
	html := `<table>
<tr><td align="center" class="teamHeading + border">OTTAWA SENATORS</td></tr>
<tr><td class="playerHeading + border">18 STUTZLE, TIM</td></tr>
</table>`
	rep, err := Parse(strings.NewReader(html), event.Away)
	require.NoError(t, err)
	assert.Equal(t, "OTTAWA SENATORS", rep.Team)
	assert.Empty(t, rep.Records)
}

func TestParseMissingTeam(t *testing.T) {
	html := `<table><tr><td class="playerHeading + border">18 STUTZLE, TIM</td></tr></table>`
	_, err := Parse(strings.NewReader(html), event.Away)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrMalformedSource))
}

func TestParseHeading(t *testing.T) {
	tests := []struct {
		text       string
		wantNumber string
		wantName   string
	}{
		{"34 MATTHEWS, AUSTON", "34", "AUSTON MATTHEWS"},
		{"19 VAN RIEMSDYK, JAMES", "19", "JAMES VAN RIEMSDYK"},
		{"16 MARNER, MITCHELL", "16", "MITCH MARNER"},
		{"8 DE HAAN, CALVIN", "8", "CALVIN DE HAAN"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			number, name := parseHeading(tt.text, "TORONTO MAPLE LEAFS")
			assert.Equal(t, tt.wantNumber, number)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestImputeEnd(t *testing.T) {
	tests := []struct {
		name        string
		start       int
		duration    int
		want        int
		wantClamped bool
	}{
		{"short", 30, 45, 75, false},
		{"crosses ten minutes", 580, 40, 620, false},
		{"ends on the horn", 1150, 50, 1200, false},
		{"past the horn", 1190, 30, 1200, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := imputeEnd(tt.start, tt.duration)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantClamped, clamped)
			assert.NotEmpty(t, event.FormatClock(got))
		})
	}
}

func TestChanges(t *testing.T) {
	home := loadReport(t)
	away := &Report{
		Team: "MONTREAL CANADIENS",
		Side: event.Away,
		Records: []Record{
			{Player: "NICK SUZUKI", Number: "14", Team: "MONTREAL CANADIENS", Side: event.Away, Period: 1, StartSeconds: 0, EndSeconds: 45},
		},
	}

	changes := Changes(home, away)
	require.NotEmpty(t, changes)

	first, second := changes[0], changes[1]
	assert.Equal(t, event.Away, first.Side)
	assert.Equal(t, "0:00", first.Time)
	assert.Equal(t, []Entry{{Name: "NICK SUZUKI", Number: "14"}}, first.On)

	assert.Equal(t, event.Home, second.Side)
	assert.Equal(t, 0, second.GameSeconds)
	assert.Equal(t, []Entry{{Name: "AUSTON MATTHEWS", Number: "34"}, {Name: "MORGAN RIELLY", Number: "44"}}, second.On)
	assert.Empty(t, second.Off)

	var offOnly *Change
	for i := range changes {
		if changes[i].Side == event.Home && changes[i].Period == 1 && changes[i].Time == "0:45" {
			offOnly = &changes[i]
		}
	}
	require.NotNil(t, offOnly, "off-only moment is kept")
	assert.Empty(t, offOnly.On)
	assert.Equal(t, []Entry{{Name: "AUSTON MATTHEWS", Number: "34"}}, offOnly.Off)

	for i := 1; i < len(changes); i++ {
		prev, cur := changes[i-1], changes[i]
		assert.True(t, prev.Period < cur.Period || (prev.Period == cur.Period && prev.PeriodSeconds <= cur.PeriodSeconds))
	}

	last := changes[len(changes)-1]
	assert.Equal(t, 4, last.Period)
	assert.Equal(t, 3640, last.GameSeconds)
}

// onIceAt replays changes up to and including second t.
func onIceAt(changes []Change, t int) map[string]bool {
	count := make(map[string]int)
	for _, c := range changes {
		if c.GameSeconds > t {
			break
		}
		for _, e := range c.On {
			count[e.Number]++
		}
		for _, e := range c.Off {
			count[e.Number]--
		}
	}
	on := make(map[string]bool)
	for number, n := range count {
		if n == 1 {
			on[number] = true
		}
	}
	return on
}

func TestChangesRoundTrip(t *testing.T) {
	type interval struct{ start, end int }
	players := map[string][]interval{
		"11": {{0, 40}, {95, 150}, {300, 345}},
		"22": {{0, 55}, {150, 200}},
		"33": {{40, 95}, {200, 300}, {345, 400}},
		"44": {{55, 150}},
	}

	rep := &Report{Team: "TEAM", Side: event.Home}
	for number, shifts := range players {
		for _, iv := range shifts {
			rep.Records = append(rep.Records, Record{
				Player: "P" + number, Number: number, Team: "TEAM", Side: event.Home,
				Period: 1, StartSeconds: iv.start, EndSeconds: iv.end,
			})
		}
	}

	changes := Changes(rep)
	for ts := 0; ts <= 420; ts += 5 {
		want := make(map[string]bool)
		for number, shifts := range players {
			for _, iv := range shifts {
				if iv.start <= ts && ts < iv.end {
					want[number] = true
				}
			}
		}
		assert.Equal(t, want, onIceAt(changes, ts), "second %d", ts)
	}
}
