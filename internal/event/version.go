package event

import (
	"sort"
	"strings"
)

// maxLag is how far back the disambiguation index looks for duplicates.
const maxLag = 3

// AssignVersions sets the Version of every event in place.
//
// The events are ordered by less (ties keep input order) and each event is
// compared with up to three predecessors on (type, player, game second). A
// match at lag n gives version n, with lag 2 ignored for penalty shots. The
// input order of the slice is not changed. Groups larger than four cannot be
// told apart by three lags; their extra members keep counting up from the
// previous member and the number of such groups is returned.
func AssignVersions(events []Event, less func(a, b *Event) bool) int {
	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return less(&events[order[i]], &events[order[j]])
	})

	same := func(i, lag int) bool {
		if i-lag < 0 {
			return false
		}
		a, b := &events[order[i]], &events[order[i-lag]]
		return a.Player1 != "" && a.Type == b.Type && a.Player1 == b.Player1 && a.GameSeconds == b.GameSeconds
	}

	overflow := 0
	for i, idx := range order {
		e := &events[idx]
		v := 0
		if same(i, 1) {
			v = 1
		}
		if same(i, 2) && !strings.Contains(e.Description, "Penalty Shot") {
			v = 2
		}
		if same(i, maxLag) {
			v = maxLag
			if same(i, maxLag+1) {
				v = events[order[i-1]].Version + 1
				if v == maxLag+1 {
					overflow++
				}
			}
		}
		e.Version = v
	}
	return overflow
}

// ByTimePlayerType orders events by (game second, period, player, type), the
// order used for play-by-play report streams.
func ByTimePlayerType(a, b *Event) bool {
	if a.GameSeconds != b.GameSeconds {
		return a.GameSeconds < b.GameSeconds
	}
	if a.Period != b.Period {
		return a.Period < b.Period
	}
	if a.Player1 != b.Player1 {
		return a.Player1 < b.Player1
	}
	return a.Type < b.Type
}
