package merge

import (
	"github.com/pfrederiksen/hockey-pbp/internal/event"
)

// Stats counts how the rows of one merge were resolved.
type Stats struct {
	Direct int `json:"direct"`
	Pass1  int `json:"pass_1"`
	Pass2  int `json:"pass_2"`
	// Unmatched counts events of interest left without coordinates.
	Unmatched int `json:"unmatched"`
	// Untouched counts rows that already carried a coordinate source.
	Untouched int `json:"untouched"`
}

// Resolved returns the number of rows that received coordinates.
func (s Stats) Resolved() int {
	return s.Direct + s.Pass1 + s.Pass2
}

type timeKey struct {
	typ     event.Type
	period  int
	seconds int
}

type playerKey struct {
	typ    event.Type
	period int
	player string
}

// Merge returns a copy of primary with coordinates taken from secondary.
// Rows whose CoordSource is already set are left as they are; every other row
// ends with the source of the secondary row it was paired with, or
// event.SourceNone. Each secondary row is used at most once.
func Merge(primary, secondary []event.Event) ([]event.Event, Stats) {
	var stats Stats
	out := make([]event.Event, len(primary))
	copy(out, primary)

	m := &merger{
		out:       out,
		secondary: secondary,
		consumed:  make([]bool, len(secondary)),
	}

	direct := make(map[event.Key][]int)
	for j := range secondary {
		if secondary[j].Coords == nil {
			continue
		}
		k := secondary[j].Key()
		direct[k] = append(direct[k], j)
	}
	for i := range out {
		if out[i].CoordSource != "" {
			stats.Untouched++
			continue
		}
		for _, j := range direct[out[i].Key()] {
			if !m.consumed[j] {
				m.attach(i, j)
				stats.Direct++
				break
			}
		}
	}

	stats.Pass1 = uniquePass(m, func(e *event.Event) (timeKey, bool) {
		return timeKey{e.Type, e.Period, e.GameSeconds}, true
	})
	stats.Pass2 = uniquePass(m, func(e *event.Event) (playerKey, bool) {
		return playerKey{e.Type, e.Period, e.Player1}, e.Player1 != ""
	})

	for i := range out {
		if out[i].CoordSource != "" {
			continue
		}
		out[i].CoordSource = event.SourceNone
		if out[i].Type.OfInterest() {
			stats.Unmatched++
		}
	}
	return out, stats
}

type merger struct {
	out       []event.Event
	secondary []event.Event
	consumed  []bool
}

func (m *merger) attach(i, j int) {
	c := *m.secondary[j].Coords
	m.out[i].Coords = &c
	m.out[i].CoordSource = m.secondary[j].CoordSource
	if m.out[i].CoordSource == "" || m.out[i].CoordSource == event.SourceNone {
		m.out[i].CoordSource = event.SourceSite
	}
	m.consumed[j] = true
}

// uniquePass pairs unmatched events of interest with secondary rows when the
// key occurs exactly once among the unmatched primaries and exactly once in
// the whole secondary stream.
func uniquePass[K comparable](m *merger, key func(*event.Event) (K, bool)) int {
	primaryRows := make(map[K][]int)
	for i := range m.out {
		e := &m.out[i]
		if e.CoordSource != "" || !e.Type.OfInterest() {
			continue
		}
		if k, ok := key(e); ok {
			primaryRows[k] = append(primaryRows[k], i)
		}
	}

	secondaryRows := make(map[K][]int)
	for j := range m.secondary {
		s := &m.secondary[j]
		if s.Coords == nil {
			continue
		}
		if k, ok := key(s); ok {
			secondaryRows[k] = append(secondaryRows[k], j)
		}
	}

	fixed := 0
	for k, rows := range primaryRows {
		if len(rows) != 1 {
			continue
		}
		candidates := secondaryRows[k]
		if len(candidates) != 1 || m.consumed[candidates[0]] {
			continue
		}
		m.attach(rows[0], candidates[0])
		fixed++
	}
	return fixed
}
