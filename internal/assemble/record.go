package assemble

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pfrederiksen/hockey-pbp/internal/event"
)

// Slots is the number of on-ice columns per team.
const Slots = 9

const (
	// WarningNoShiftData tags every row of a table built without shift data.
	WarningNoShiftData = "NO SHIFT DATA"
	// WarningOnIceOverflow tags rows where a team had more than Slots players on ice.
	WarningOnIceOverflow = "ON_ICE_OVERFLOW"
)

// Record is one row of the assembled game table.
type Record struct {
	Season      string            `json:"season"`
	GameID      string            `json:"game_id"`
	GameDate    string            `json:"game_date"`
	EventIndex  int               `json:"event_index"`
	Period      int               `json:"period"`
	Time        string            `json:"time"`
	GameSeconds int               `json:"game_seconds"`
	Type        event.Type        `json:"event_type"`
	Description string            `json:"description"`
	Detail      string            `json:"detail,omitempty"`
	Zone        string            `json:"zone,omitempty"`
	EventTeam   string            `json:"event_team,omitempty"`
	Player1     string            `json:"event_player_1,omitempty"`
	Player2     string            `json:"event_player_2,omitempty"`
	Player3     string            `json:"event_player_3,omitempty"`
	EventLength int               `json:"event_length"`
	X           *float64          `json:"coords_x,omitempty"`
	Y           *float64          `json:"coords_y,omitempty"`
	NumOn       int               `json:"num_on,omitempty"`
	NumOff      int               `json:"num_off,omitempty"`
	PlayersOn   string            `json:"players_on,omitempty"`
	PlayersOff  string            `json:"players_off,omitempty"`
	HomeOn      [Slots]string     `json:"home_on"`
	AwayOn      [Slots]string     `json:"away_on"`
	HomeGoalie  string            `json:"home_goalie,omitempty"`
	AwayGoalie  string            `json:"away_goalie,omitempty"`
	HomeTeam    string            `json:"home_team"`
	AwayTeam    string            `json:"away_team"`
	HomeSkaters int               `json:"home_skaters"`
	AwaySkaters int               `json:"away_skaters"`
	HomeScore   int               `json:"home_score"`
	AwayScore   int               `json:"away_score"`
	ScoreState  string            `json:"score_state"`
	Strength    string            `json:"game_strength_state,omitempty"`
	CoordSource event.CoordSource `json:"coordinate_source,omitempty"`
	Warning     string            `json:"warning,omitempty"`
}

// Game is the assembled table of one game.
type Game struct {
	GameID        string    `json:"game_id"`
	Season        string    `json:"season"`
	Date          time.Time `json:"date"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
	HomeCode      string    `json:"home_code"`
	AwayCode      string    `json:"away_code"`
	HasOnIce      bool      `json:"has_on_ice"`
	Warning       string    `json:"warning,omitempty"`
	OnIceOverflow int       `json:"on_ice_overflow,omitempty"`
	Records       []Record  `json:"records"`
}

// CoordSources counts the records of each coordinate source, change rows excluded.
func (g *Game) CoordSources() map[event.CoordSource]int {
	counts := make(map[event.CoordSource]int)
	for i := range g.Records {
		if g.Records[i].Type == event.TypeChange {
			continue
		}
		counts[g.Records[i].CoordSource]++
	}
	return counts
}

var (
	leadColumns = []string{
		"season", "game_id", "game_date", "event_index", "period", "time",
		"game_seconds", "event_type", "description", "detail", "zone",
		"event_team", "event_player_1", "event_player_2", "event_player_3",
		"event_length", "coords_x", "coords_y",
	}
	changeColumns = []string{"num_on", "num_off", "players_on", "players_off"}
	tailColumns   = []string{
		"home_team", "away_team", "home_score", "away_score", "score_state",
		"coordinate_source", "warning",
	}
)

// Columns returns the tabular header. Events-only tables have no on-ice columns.
func Columns(hasOnIce bool) []string {
	cols := append([]string{}, leadColumns...)
	if hasOnIce {
		cols = append(cols, changeColumns...)
		for i := 1; i <= Slots; i++ {
			cols = append(cols, fmt.Sprintf("home_on_%d", i))
		}
		for i := 1; i <= Slots; i++ {
			cols = append(cols, fmt.Sprintf("away_on_%d", i))
		}
		cols = append(cols, "home_goalie", "away_goalie", "home_skaters", "away_skaters", "game_strength_state")
	}
	return append(cols, tailColumns...)
}

// Values returns the record's cells in Columns order.
func (r *Record) Values(hasOnIce bool) []string {
	vals := []string{
		r.Season, r.GameID, r.GameDate, strconv.Itoa(r.EventIndex), strconv.Itoa(r.Period), r.Time,
		strconv.Itoa(r.GameSeconds), string(r.Type), r.Description, r.Detail, r.Zone,
		r.EventTeam, r.Player1, r.Player2, r.Player3,
		strconv.Itoa(r.EventLength), formatCoord(r.X), formatCoord(r.Y),
	}
	if hasOnIce {
		vals = append(vals, countCell(r.NumOn), countCell(r.NumOff), r.PlayersOn, r.PlayersOff)
		vals = append(vals, r.HomeOn[:]...)
		vals = append(vals, r.AwayOn[:]...)
		vals = append(vals, r.HomeGoalie, r.AwayGoalie,
			strconv.Itoa(r.HomeSkaters), strconv.Itoa(r.AwaySkaters), r.Strength)
	}
	return append(vals,
		r.HomeTeam, r.AwayTeam, strconv.Itoa(r.HomeScore), strconv.Itoa(r.AwayScore), r.ScoreState,
		string(r.CoordSource), r.Warning,
	)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func countCell(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
