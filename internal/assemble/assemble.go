package assemble

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/roster"
	"github.com/pfrederiksen/hockey-pbp/internal/shift"
)

// Input is everything the assembler needs for one game.
type Input struct {
	GameID   string
	Season   string
	Date     time.Time
	HomeTeam string
	AwayTeam string
	HomeCode string
	AwayCode string
	Events   []event.Event
	Changes  []shift.Change
	Roster   *roster.Roster
}

func (in *Input) code(side event.Side) string {
	if side == event.Home {
		return in.HomeCode
	}
	return in.AwayCode
}

// side maps an event team code to its side.
func (in *Input) side(code string) (event.Side, bool) {
	switch {
	case code == "":
		return "", false
	case code == in.HomeCode:
		return event.Home, true
	case code == in.AwayCode:
		return event.Away, true
	}
	return "", false
}

// Assemble builds the full table with on-ice columns. It fails with
// ErrNoShiftData when there are no changes to derive lines from.
func Assemble(in Input) (*Game, error) {
	if in.Roster == nil {
		return nil, errs.Malformed("game %s: no roster", in.GameID)
	}
	if len(in.Changes) == 0 {
		return nil, errs.NoShiftData("game %s: empty changes table", in.GameID)
	}

	a := newAssembler(&in)
	rows := timeline(in.Events, in.Changes)
	game := newGame(&in, true)
	game.Records = make([]Record, 0, len(rows))
	score := newScoreboard(&in)

	for i, r := range rows {
		rec := a.base(r, i)
		if r.change != nil {
			a.applyChange(&rec, r.change)
		}
		if r.period >= event.ShootoutPeriod {
			a.shootout(&rec, r.ev)
		} else if a.lines(&rec) {
			rec.Warning = WarningOnIceOverflow
			game.OnIceOverflow++
			game.Warning = WarningOnIceOverflow
		}
		rec.Strength = strength(rec.HomeSkaters, rec.AwaySkaters, rec.HomeGoalie != "", rec.AwayGoalie != "")
		score.apply(&rec, r.ev)
		game.Records = append(game.Records, rec)
	}
	setLengths(game.Records)
	return game, nil
}

// EventsOnly builds the degraded table used when no shift data exists: the
// score is still tracked but every on-ice column is empty.
func EventsOnly(in Input) *Game {
	a := newAssembler(&in)
	rows := timeline(in.Events, nil)
	game := newGame(&in, false)
	game.Warning = WarningNoShiftData
	game.Records = make([]Record, 0, len(rows))
	score := newScoreboard(&in)

	for i, r := range rows {
		rec := a.base(r, i)
		rec.Warning = WarningNoShiftData
		score.apply(&rec, r.ev)
		game.Records = append(game.Records, rec)
	}
	setLengths(game.Records)
	return game
}

func newGame(in *Input, hasOnIce bool) *Game {
	return &Game{
		GameID:   in.GameID,
		Season:   in.Season,
		Date:     in.Date,
		HomeTeam: in.HomeTeam,
		AwayTeam: in.AwayTeam,
		HomeCode: in.HomeCode,
		AwayCode: in.AwayCode,
		HasOnIce: hasOnIce,
	}
}

// row is one timeline entry: either an event or a shift change.
type row struct {
	ev       *event.Event
	change   *shift.Change
	period   int
	seconds  int
	priority int
	side     int
	order    int
}

// timeline interleaves events and changes. Ties on (second, period,
// priority) keep event input order; changes put away before home.
func timeline(events []event.Event, changes []shift.Change) []row {
	rows := make([]row, 0, len(events)+len(changes))
	for i := range events {
		ev := &events[i]
		rows = append(rows, row{
			ev:       ev,
			period:   ev.Period,
			seconds:  ev.GameSeconds,
			priority: ev.Type.Priority(),
			order:    i,
		})
	}
	for i := range changes {
		c := &changes[i]
		side := 0
		if c.Side == event.Home {
			side = 1
		}
		rows = append(rows, row{
			change:   c,
			period:   c.Period,
			seconds:  c.GameSeconds,
			priority: event.TypeChange.Priority(),
			side:     side,
			order:    i,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.seconds != b.seconds {
			return a.seconds < b.seconds
		}
		if a.period != b.period {
			return a.period < b.period
		}
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.side != b.side {
			return a.side < b.side
		}
		return a.order < b.order
	})
	return rows
}

// lineup is the running on/off count of one team keyed by jersey number.
type lineup struct {
	count map[string]int
	names map[string]string
}

func newLineup() *lineup {
	return &lineup{count: make(map[string]int), names: make(map[string]string)}
}

func (l *lineup) apply(c *shift.Change) {
	for _, e := range c.On {
		l.count[e.Number]++
		l.names[e.Number] = e.Name
	}
	for _, e := range c.Off {
		l.count[e.Number]--
	}
}

// onIce returns the jersey numbers currently on ice in jersey order.
func (l *lineup) onIce() []string {
	var nums []string
	for n, c := range l.count {
		if c > 0 {
			nums = append(nums, n)
		}
	}
	sortJerseys(nums)
	return nums
}

func sortJerseys(nums []string) {
	sort.Slice(nums, func(i, j int) bool {
		a, errA := strconv.Atoi(nums[i])
		b, errB := strconv.Atoi(nums[j])
		if errA == nil && errB == nil && a != b {
			return a < b
		}
		if (errA == nil) != (errB == nil) {
			return errA == nil
		}
		return nums[i] < nums[j]
	})
}

type assembler struct {
	in         *Input
	active     map[event.Side]map[string]roster.Player
	teams      map[event.Side]*lineup
	lastGoalie map[event.Side]string
	date       string
}

func newAssembler(in *Input) *assembler {
	a := &assembler{
		in:         in,
		active:     make(map[event.Side]map[string]roster.Player),
		teams:      map[event.Side]*lineup{event.Home: newLineup(), event.Away: newLineup()},
		lastGoalie: make(map[event.Side]string),
	}
	if !in.Date.IsZero() {
		a.date = in.Date.Format("2006-01-02")
	}
	for _, side := range []event.Side{event.Home, event.Away} {
		byNumber := make(map[string]roster.Player)
		if in.Roster != nil {
			for _, p := range in.Roster.Active(side) {
				byNumber[strings.TrimSpace(p.Number)] = p
			}
		}
		a.active[side] = byNumber
	}
	return a
}

// base fills the columns shared by the full and the events-only table.
func (a *assembler) base(r row, i int) Record {
	rec := Record{
		Season:      a.in.Season,
		GameID:      a.in.GameID,
		GameDate:    a.date,
		EventIndex:  i + 1,
		Period:      r.period,
		GameSeconds: r.seconds,
		HomeTeam:    a.in.HomeCode,
		AwayTeam:    a.in.AwayCode,
	}
	if r.change != nil {
		rec.Type = event.TypeChange
		rec.Time = r.change.Time
		rec.EventTeam = a.in.code(r.change.Side)
		return rec
	}
	ev := r.ev
	rec.Time = event.FormatClock(ev.PeriodSeconds)
	rec.Type = ev.Type
	rec.Description = ev.Description
	rec.Detail = ev.Detail
	rec.Zone = ev.Zone
	rec.EventTeam = ev.Team
	rec.Player1 = ev.Player1
	rec.Player2 = ev.Player2
	rec.Player3 = ev.Player3
	rec.CoordSource = ev.CoordSource
	if ev.Coords != nil {
		x, y := ev.Coords.X, ev.Coords.Y
		rec.X, rec.Y = &x, &y
	}
	return rec
}

func (a *assembler) applyChange(rec *Record, c *shift.Change) {
	a.teams[c.Side].apply(c)
	rec.NumOn = len(c.On)
	rec.NumOff = len(c.Off)
	rec.PlayersOn = a.joinNames(c.Side, c.On)
	rec.PlayersOff = a.joinNames(c.Side, c.Off)
}

func (a *assembler) joinNames(side event.Side, entries []shift.Entry) string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if p, ok := a.active[side][e.Number]; ok {
			out = append(out, p.Name)
			continue
		}
		out = append(out, e.Name)
	}
	return strings.Join(out, ", ")
}

func (a *assembler) name(side event.Side, number string) string {
	if p, ok := a.active[side][number]; ok {
		return p.Name
	}
	return a.teams[side].names[number]
}

func (a *assembler) isGoalie(side event.Side, number string) bool {
	p, ok := a.active[side][number]
	return ok && p.Position == roster.PositionGoalie
}

// lines fills both teams' slots from the running counts and reports whether
// either side had more players than slots.
func (a *assembler) lines(rec *Record) bool {
	homeGoalie, homeSkaters, homeOver := a.fill(event.Home, &rec.HomeOn)
	awayGoalie, awaySkaters, awayOver := a.fill(event.Away, &rec.AwayOn)
	rec.HomeGoalie, rec.HomeSkaters = homeGoalie, homeSkaters
	rec.AwayGoalie, rec.AwaySkaters = awayGoalie, awaySkaters
	return homeOver || awayOver
}

func (a *assembler) fill(side event.Side, slots *[Slots]string) (goalie string, skaters int, overflow bool) {
	nums := a.teams[side].onIce()
	for _, n := range nums {
		if a.isGoalie(side, n) {
			goalie = a.name(side, n)
			break
		}
	}
	if len(nums) > Slots {
		nums = nums[:Slots]
		overflow = true
	}
	for i, n := range nums {
		slots[i] = a.name(side, n)
	}
	skaters = len(nums)
	if goalie != "" {
		skaters--
		a.lastGoalie[side] = goalie
	}
	return goalie, skaters, overflow
}

// shootout fills the single goalie and shooter slots of a shootout row.
func (a *assembler) shootout(rec *Record, ev *event.Event) {
	for _, side := range []event.Side{event.Home, event.Away} {
		goalie := ""
		for _, n := range a.teams[side].onIce() {
			if a.isGoalie(side, n) {
				goalie = a.name(side, n)
				break
			}
		}
		if goalie == "" {
			goalie = a.lastGoalie[side]
		}
		shooter := ""
		if ev != nil && ev.Type.OfInterest() && ev.Player1 != "" && ev.Team == a.in.code(side) {
			shooter = ev.Player1
		}
		skaters := 0
		if shooter != "" {
			skaters = 1
		}

		slots := &rec.HomeOn
		if side == event.Away {
			slots = &rec.AwayOn
		}
		*slots = [Slots]string{goalie, shooter}
		if side == event.Home {
			rec.HomeGoalie, rec.HomeSkaters = goalie, skaters
		} else {
			rec.AwayGoalie, rec.AwaySkaters = goalie, skaters
		}
	}
}

// strength composes "HvA", with E for a team without a goalie on ice.
func strength(homeSkaters, awaySkaters int, homeGoalie, awayGoalie bool) string {
	home, away := strconv.Itoa(max(homeSkaters, 0)), strconv.Itoa(max(awaySkaters, 0))
	if !homeGoalie {
		home = "E"
	}
	if !awayGoalie {
		away = "E"
	}
	return fmt.Sprintf("%sv%s", home, away)
}

// scoreboard tracks the running score. Regulation and overtime goals count
// from the next row; the shootout winner gets one goal from the shootout's
// period-end marker onward.
type scoreboard struct {
	in       *Input
	home     int
	away     int
	winner   event.Side
	credited bool
}

func newScoreboard(in *Input) *scoreboard {
	s := &scoreboard{in: in}
	goals := make(map[event.Side]int)
	for i := range in.Events {
		ev := &in.Events[i]
		if ev.Type != event.TypeGoal || ev.Period < event.ShootoutPeriod {
			continue
		}
		if side, ok := in.side(ev.Team); ok {
			goals[side]++
		}
	}
	switch {
	case goals[event.Home] > goals[event.Away]:
		s.winner = event.Home
	case goals[event.Away] > goals[event.Home]:
		s.winner = event.Away
	}
	return s
}

func (s *scoreboard) apply(rec *Record, ev *event.Event) {
	if ev != nil && ev.Period >= event.ShootoutPeriod && !s.credited &&
		(ev.Type == event.TypePeriodEnd || ev.Type == event.TypeGameEnd) {
		s.credited = true
		switch s.winner {
		case event.Home:
			s.home++
		case event.Away:
			s.away++
		}
	}

	rec.HomeScore, rec.AwayScore = s.home, s.away
	rec.ScoreState = fmt.Sprintf("%dv%d", s.home, s.away)

	if ev == nil || ev.Type != event.TypeGoal || ev.Period >= event.ShootoutPeriod {
		return
	}
	switch side, _ := s.in.side(ev.Team); side {
	case event.Home:
		s.home++
	case event.Away:
		s.away++
	}
}

// setLengths sets each row's length to the seconds until the next row.
func setLengths(records []Record) {
	for i := range records {
		if i == len(records)-1 {
			records[i].EventLength = 0
			continue
		}
		records[i].EventLength = max(records[i+1].GameSeconds-records[i].GameSeconds, 0)
	}
}
