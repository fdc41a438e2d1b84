package shift

import (
	"sort"

	"github.com/pfrederiksen/hockey-pbp/internal/event"
)

// Entry is a player named in a change.
type Entry struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Change is every player of one team coming on or going off at one clock time.
type Change struct {
	Team          string     `json:"team"`
	Side          event.Side `json:"side"`
	Period        int        `json:"period"`
	Time          string     `json:"time"`
	PeriodSeconds int        `json:"period_seconds"`
	GameSeconds   int        `json:"game_seconds"`
	On            []Entry    `json:"on,omitempty"`
	Off           []Entry    `json:"off,omitempty"`
}

type changeKey struct {
	side    event.Side
	period  int
	seconds int
}

// Changes groups shift starts into "on" sets and shift ends into "off" sets
// per (team, period, time) and joins the two, keeping moments that only have
// one of them. The result is ordered by period, clock and then away before home.
func Changes(reports ...*Report) []Change {
	byKey := make(map[changeKey]*Change)
	get := func(rec *Record, seconds int) *Change {
		k := changeKey{side: rec.Side, period: rec.Period, seconds: seconds}
		c, ok := byKey[k]
		if !ok {
			c = &Change{
				Team:          rec.Team,
				Side:          rec.Side,
				Period:        rec.Period,
				Time:          event.FormatClock(seconds),
				PeriodSeconds: seconds,
				GameSeconds:   event.GameSeconds(rec.Period, seconds),
			}
			byKey[k] = c
		}
		return c
	}

	for _, rep := range reports {
		if rep == nil {
			continue
		}
		for i := range rep.Records {
			rec := &rep.Records[i]
			entry := Entry{Name: rec.Player, Number: rec.Number}
			on := get(rec, rec.StartSeconds)
			on.On = append(on.On, entry)
			off := get(rec, rec.EndSeconds)
			off.Off = append(off.Off, entry)
		}
	}

	out := make([]Change, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.PeriodSeconds != b.PeriodSeconds {
			return a.PeriodSeconds < b.PeriodSeconds
		}
		return a.Side == event.Away && b.Side == event.Home
	})
	return out
}
