package roster

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/names"
)

// Status is whether a player dressed for the game.
type Status string

const (
	StatusActive  Status = "active"
	StatusScratch Status = "scratch"
)

// PositionGoalie is the roster position code of a goaltender.
const PositionGoalie = "G"

// Player is one roster entry.
type Player struct {
	Name     string     `json:"name"`
	Number   string     `json:"number"`
	Position string     `json:"position"`
	Team     string     `json:"team"`
	Side     event.Side `json:"side"`
	Status   Status     `json:"status"`
}

// Roster holds both teams' players for one game.
type Roster struct {
	HomeTeam string   `json:"home_team"`
	AwayTeam string   `json:"away_team"`
	Home     []Player `json:"home"`
	Away     []Player `json:"away"`
}

// Side returns the players of one team, scratches included.
func (r *Roster) Side(side event.Side) []Player {
	if side == event.Home {
		return r.Home
	}
	return r.Away
}

// Active returns the dressed players of one team.
func (r *Roster) Active(side event.Side) []Player {
	var out []Player
	for _, p := range r.Side(side) {
		if p.Status == StatusActive {
			out = append(out, p)
		}
	}
	return out
}

// Key joins a team code and a jersey number ("TOR" + "34").
func Key(teamCode, number string) string {
	return teamCode + strings.TrimSpace(number)
}

// Lookup maps team code plus jersey number to canonical name for every
// active player.
func (r *Roster) Lookup(homeCode, awayCode string) map[string]string {
	lookup := make(map[string]string, len(r.Home)+len(r.Away))
	for _, p := range r.Active(event.Away) {
		lookup[Key(awayCode, p.Number)] = p.Name
	}
	for _, p := range r.Active(event.Home) {
		lookup[Key(homeCode, p.Number)] = p.Name
	}
	return lookup
}

// Parse extracts the roster from a roster report.
func Parse(r io.Reader) (*Roster, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing HTML")
	}

	teams := teamHeadings(doc)
	if len(teams) < 2 {
		return nil, errs.Malformed("roster report: found %d team headings", len(teams))
	}

	tables := playerTables(doc)
	if len(tables) < 2 {
		return nil, errs.Malformed("roster report: found %d player tables", len(tables))
	}

	ros := &Roster{
		AwayTeam: teams[0],
		HomeTeam: teams[1],
	}

	// away, home, away scratches, home scratches
	layout := []struct {
		side   event.Side
		status Status
	}{
		{event.Away, StatusActive},
		{event.Home, StatusActive},
		{event.Away, StatusScratch},
		{event.Home, StatusScratch},
	}
	for i, table := range tables {
		if i >= len(layout) {
			break
		}
		slot := layout[i]
		team := ros.AwayTeam
		if slot.side == event.Home {
			team = ros.HomeTeam
		}
		players := parseTable(table, team, slot.side, slot.status)
		if slot.side == event.Home {
			ros.Home = append(ros.Home, players...)
		} else {
			ros.Away = append(ros.Away, players...)
		}
	}

	return ros, nil
}

func teamHeadings(doc *goquery.Document) []string {
	sel := doc.Find(`td.teamHeading[width="50%"]`)
	if sel.Length() < 2 {
		sel = doc.Find("td.teamHeading")
	}
	var teams []string
	sel.Each(func(i int, s *goquery.Selection) {
		if name := names.Team(s.Text()); name != "" {
			teams = append(teams, name)
		}
	})
	return teams
}

// playerTables returns the tables whose first cell is the "#" column header.
func playerTables(doc *goquery.Document) []*goquery.Selection {
	var tables []*goquery.Selection
	doc.Find("table").Each(func(i int, s *goquery.Selection) {
		if strings.TrimSpace(s.Find("td").First().Text()) == "#" {
			tables = append(tables, s)
		}
	})
	return tables
}

func parseTable(table *goquery.Selection, team string, side event.Side, status Status) []Player {
	var cells []string
	table.Find("td").Each(func(i int, s *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(s.Text()))
	})

	var players []Player
	// first triple is the "#", "Pos", "Nom/Name" header
	for i := 3; i+2 < len(cells); i += 3 {
		number, position, name := cells[i], cells[i+1], cells[i+2]
		if number == "" && name == "" {
			continue
		}
		players = append(players, Player{
			Name:     CleanName(name, team),
			Number:   number,
			Position: strings.ToUpper(position),
			Team:     team,
			Side:     side,
			Status:   status,
		})
	}
	return players
}

// CleanName drops captaincy notes such as "(C)" and maps the name onto its
// canonical spelling.
func CleanName(raw, team string) string {
	name, _, _ := strings.Cut(raw, "(")
	return names.PlayerOnTeam(name, team, names.SourceReport)
}
