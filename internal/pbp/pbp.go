package pbp

import (
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/names"
	"github.com/pfrederiksen/hockey-pbp/internal/roster"
)

// Report is a parsed play-by-play report.
type Report struct {
	HomeTeam string        `json:"home_team"`
	AwayTeam string        `json:"away_team"`
	HomeCode string        `json:"home_code"`
	AwayCode string        `json:"away_code"`
	Date     time.Time     `json:"date"`
	Events   []event.Event `json:"events"`
	// Overflow counts (type, player, second) groups too large for the
	// disambiguation index to separate reliably.
	Overflow int `json:"overflow,omitempty"`
}

// row holds the eight cells of one report line.
type row struct {
	index       string
	period      string
	strength    string
	clock       string
	code        string
	description string
	away        []event.Skater
	home        []event.Skater
}

var (
	teamSplitPattern = regexp.MustCompile(`Match|Game`)
	numberPattern    = regexp.MustCompile(`#(\d{1,2})|- (\d{1,2})`)
	drawnByPattern   = regexp.MustCompile(`Drawn By:?\s*\S*\s*#(\d{1,2})`)
	servedByPattern  = regexp.MustCompile(`Served By:?\s*(\S+\s+)?#\d{1,2}`)
	teamWordPattern  = regexp.MustCompile(`\bTEAM\b`)
	zonePattern      = regexp.MustCompile(`(\S+?) Zone`)
	infraction       = regexp.MustCompile(`\(([^)]*)\)`)
)

// Parse reads a play-by-play report. Jersey references are resolved to names
// through ros; an unknown reference leaves the player empty.
func Parse(r io.Reader, ros *roster.Roster) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing HTML")
	}

	rep := &Report{}
	readHeader(doc, rep)
	if rep.HomeTeam == "" && ros != nil {
		rep.HomeTeam = ros.HomeTeam
	}
	if rep.AwayTeam == "" && ros != nil {
		rep.AwayTeam = ros.AwayTeam
	}

	rows, awayCode, homeCode := readRows(doc)
	if awayCode == "" || homeCode == "" {
		return nil, errs.Malformed("play-by-play report has no on-ice header row")
	}
	if len(rows) == 0 {
		return nil, errs.Malformed("play-by-play report has no event rows")
	}
	rep.AwayCode, rep.HomeCode = awayCode, homeCode

	var lookup map[string]string
	if ros != nil {
		lookup = ros.Lookup(homeCode, awayCode)
	}

	events := make([]event.Event, 0, len(rows))
	keys := make([][3]string, 0, len(rows))
	for _, rw := range rows {
		e, k, err := rep.buildEvent(rw)
		if err != nil {
			return nil, errs.Malformed("play-by-play row %s: %v", rw.index, err)
		}
		events = append(events, e)
		keys = append(keys, k)
	}

	// Versions are assigned on team+jersey keys before names are attached.
	for i := range events {
		events[i].Player1 = keys[i][0]
	}
	rep.Overflow = event.AssignVersions(events, event.ByTimePlayerType)
	for i := range events {
		events[i].Player1 = lookup[keys[i][0]]
		events[i].Player2 = lookup[keys[i][1]]
		events[i].Player3 = lookup[keys[i][2]]
	}

	rep.markBench(events)
	rep.Events = events
	return rep, nil
}

func readHeader(doc *goquery.Document, rep *Report) {
	var cells []string
	doc.Find(`td[align="center"][style*="font-size: 10px"]`).Each(func(i int, s *goquery.Selection) {
		cells = append(cells, s.Text())
	})

	for _, text := range cells {
		switch {
		case rep.AwayTeam == "" && (strings.Contains(text, "Away Game") || strings.Contains(text, "tr./Away")):
			rep.AwayTeam = names.Team(teamSplitPattern.Split(text, 2)[0])
		case rep.HomeTeam == "" && (strings.Contains(text, "Home Game") || strings.Contains(text, "Dom./Home")):
			rep.HomeTeam = names.Team(teamSplitPattern.Split(text, 2)[0])
		}
	}

	if len(cells) > 2 {
		rep.Date = event.ParseDate(cells[2])
	}
	for _, text := range cells {
		if !rep.Date.IsZero() {
			break
		}
		rep.Date = event.ParseDate(text)
	}
}

// readRows returns the event rows and the team codes from the first header row.
func readRows(doc *goquery.Document) (rows []row, awayCode, homeCode string) {
	doc.Find("tr").Each(func(i int, tr *goquery.Selection) {
		tds := tr.ChildrenFiltered(`td[class*="bborder"]`)
		if tds.Length() != 8 {
			return
		}
		text := func(n int) string { return strings.TrimSpace(tds.Eq(n).Text()) }

		if text(0) == "#" || text(1) == "Per" {
			if awayCode == "" {
				awayCode = firstWord(text(6))
				homeCode = firstWord(text(7))
			}
			return
		}
		if _, err := strconv.Atoi(text(0)); err != nil {
			return
		}

		rows = append(rows, row{
			index:       text(0),
			period:      text(1),
			strength:    text(2),
			clock:       elapsedClock(text(3)),
			code:        text(4),
			description: strings.Join(strings.Fields(tds.Eq(5).Text()), " "),
			away:        skaters(tds.Eq(6)),
			home:        skaters(tds.Eq(7)),
		})
	})
	return rows, awayCode, homeCode
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// elapsedClock keeps the elapsed half of a "3:0017:00" time cell.
func elapsedClock(s string) string {
	i := strings.Index(s, ":")
	if i < 0 || i+3 > len(s) {
		return s
	}
	return s[:i+3]
}

var positionByTitle = map[string]string{
	"center":     "C",
	"left wing":  "L",
	"right wing": "R",
	"defense":    "D",
	"defence":    "D",
	"goalie":     "G",
}

// skaters reads an on-ice cell: each player is a font element titled
// "Position - NAME" holding the jersey number, with the position code in the
// row below.
func skaters(cell *goquery.Selection) []event.Skater {
	var out []event.Skater
	cell.Find("font[title]").Each(func(i int, font *goquery.Selection) {
		title, _ := font.Attr("title")
		posTitle, name, _ := strings.Cut(title, " - ")
		position := strings.TrimSpace(font.Closest("tr").Next().Find("td").First().Text())
		if position == "" {
			position = positionByTitle[strings.ToLower(strings.TrimSpace(posTitle))]
		}
		out = append(out, event.Skater{
			Number:   strings.TrimSpace(font.Text()),
			Position: strings.ToUpper(position),
			Name:     names.Player(name, names.SourceReport),
		})
	})
	return out
}

// buildEvent converts a row and returns the roster keys of its three players.
func (rep *Report) buildEvent(rw row) (event.Event, [3]string, error) {
	var keys [3]string

	index, err := strconv.Atoi(rw.index)
	if err != nil {
		return event.Event{}, keys, err
	}
	period, err := event.ParsePeriod(rw.period)
	if err != nil {
		return event.Event{}, keys, err
	}
	clock := rw.clock
	if clock == "" {
		clock = "0:00"
	}
	periodSeconds, err := event.ParseClock(clock)
	if err != nil {
		return event.Event{}, keys, err
	}

	typ := event.Type(strings.ToUpper(rw.code))
	e := event.Event{
		Index:         index,
		Period:        period,
		PeriodSeconds: periodSeconds,
		GameSeconds:   event.GameSeconds(period, periodSeconds),
		Type:          typ,
		Description:   rw.description,
		Strength:      rw.strength,
		AwaySkaters:   rw.away,
		HomeSkaters:   rw.home,
	}

	team := firstWord(rw.description)
	if team != rep.HomeCode && team != rep.AwayCode {
		team = ""
	}
	e.Team = team
	other := ""
	switch team {
	case rep.HomeCode:
		other = rep.AwayCode
	case rep.AwayCode:
		other = rep.HomeCode
	}

	var numbers []string
	if typ == event.TypePenalty {
		// The serving player never becomes an event player.
		numbers = jerseyNumbers(servedByPattern.ReplaceAllString(rw.description, ""))
		if m := drawnByPattern.FindStringSubmatch(rw.description); m != nil {
			numbers = ensureLen(numbers, 2)
			numbers[1] = m[1]
		}
	} else {
		numbers = jerseyNumbers(rw.description)
	}

	teams := [3]string{team, team, team}
	switch typ {
	case event.TypeFaceoff:
		teams[0], teams[1] = rep.AwayCode, rep.HomeCode
	case event.TypeBlock, event.TypeHit, event.TypePenalty:
		teams[1] = other
	}
	for i := 0; i < 3 && i < len(numbers); i++ {
		if numbers[i] != "" {
			keys[i] = roster.Key(teams[i], numbers[i])
		}
	}
	if typ == event.TypeFaceoff && team == rep.HomeCode {
		keys[0], keys[1] = keys[1], keys[0]
	}

	e.Zone = zone(rw.description)
	e.Detail = detail(typ, rw.description)
	return e, keys, nil
}

func jerseyNumbers(description string) []string {
	var out []string
	for _, m := range numberPattern.FindAllStringSubmatch(description, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}

func ensureLen(s []string, n int) []string {
	for len(s) < n {
		s = append(s, "")
	}
	return s
}

// markBench names bench penalties and, when the description did not name
// the offending team, infers it from whose skater count drops on the next row.
func (rep *Report) markBench(events []event.Event) {
	for i := range events {
		e := &events[i]
		if e.Type != event.TypePenalty || e.Player1 != "" || !isBenchPenalty(e.Description) {
			continue
		}
		e.Player1 = event.Bench
		if e.Team != "" || i+1 >= len(events) {
			continue
		}
		next := events[i+1]
		if len(e.HomeSkaters) > len(next.HomeSkaters) {
			e.Team = rep.HomeCode
		}
		if len(e.AwaySkaters) > len(next.AwaySkaters) {
			e.Team = rep.AwayCode
		}
	}
}

func isBenchPenalty(description string) bool {
	lower := strings.ToLower(description)
	return strings.Contains(lower, "bench") ||
		strings.Contains(lower, "too many men") ||
		teamWordPattern.MatchString(strings.ToUpper(description))
}

// zone returns "Off", "Def" or "Neu" from a "... Off. Zone ..." description.
func zone(description string) string {
	m := zonePattern.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	return strings.TrimSuffix(m[1], ".")
}

// detail extracts the type-specific qualifier of a description: the shot type,
// the penalty infraction or the text after the colon of period markers.
func detail(typ event.Type, description string) string {
	switch typ {
	case event.TypeShot, event.TypeBlock, event.TypeMiss, event.TypeGoal:
		parts := strings.Split(description, ", ")
		if len(parts) > 1 {
			return strings.TrimSpace(parts[1])
		}
	case event.TypePeriodStart, event.TypePeriodEnd, event.TypeShootoutEnd, event.TypeGameEnd:
		if _, after, ok := strings.Cut(description, ": "); ok {
			return strings.TrimSpace(after)
		}
	case event.TypePenalty:
		if m := infraction.FindStringSubmatch(description); m != nil {
			before := description[:strings.Index(description, m[0])]
			fields := strings.Fields(before)
			if len(fields) > 0 {
				return strings.TrimSpace(fields[len(fields)-1] + "(" + m[1] + ")")
			}
			return m[1]
		}
	}
	return ""
}
