package merge

import (
	"github.com/pfrederiksen/hockey-pbp/internal/event"
)

// hybridTypes are the event types a combined coordinate stream keeps.
var hybridTypes = map[event.Type]bool{
	event.TypeShot:    true,
	event.TypeHit:     true,
	event.TypeBlock:   true,
	event.TypeMiss:    true,
	event.TypeGive:    true,
	event.TypeTake:    true,
	event.TypeGoal:    true,
	event.TypePenalty: true,
	event.TypeFaceoff: true,
}

// HybridResult is a coordinate stream built from both secondary feeds.
type HybridResult struct {
	Events []event.Event
	// FlippedX and FlippedY report whether the site's axes were mirrored to
	// match the API's orientation.
	FlippedX bool
	FlippedY bool
	// FromSite counts rows whose coordinates came from the site feed.
	FromSite int
}

// Hybrid combines the API stream with the site stream for games where the API
// is missing some locations. Rows are paired on their join key; API
// coordinates win, the site fills the gaps, and site rows with no API
// counterpart are added. Each row keeps the source its coordinates came from.
func Hybrid(api, site []event.Event) HybridResult {
	siteRows := make(map[event.Key][]int)
	for j := range site {
		k := site[j].Key()
		siteRows[k] = append(siteRows[k], j)
	}

	pairs := make([]int, len(api))
	used := make([]bool, len(site))
	for i := range api {
		pairs[i] = -1
		for _, j := range siteRows[api[i].Key()] {
			if !used[j] {
				pairs[i] = j
				used[j] = true
				break
			}
		}
	}

	var res HybridResult
	res.FlippedX, res.FlippedY = mirrored(api, site, pairs)

	fromSite := func(e event.Event, c *event.Coords) event.Event {
		flipped := *c
		if res.FlippedX {
			flipped.X = -flipped.X
		}
		if res.FlippedY {
			flipped.Y = -flipped.Y
		}
		e.Coords = &flipped
		e.CoordSource = event.SourceSite
		res.FromSite++
		return e
	}

	for i, e := range api {
		if !hybridTypes[e.Type] {
			continue
		}
		switch j := pairs[i]; {
		case e.Coords != nil:
			e.CoordSource = event.SourceAPI
		case j >= 0 && site[j].Coords != nil:
			e = fromSite(e, site[j].Coords)
		}
		res.Events = append(res.Events, e)
	}
	for j, e := range site {
		if used[j] || !hybridTypes[e.Type] || e.Coords == nil {
			continue
		}
		res.Events = append(res.Events, fromSite(e, e.Coords))
	}
	return res
}

// mirrored reports, per axis, whether most paired rows located on both feeds
// disagree in sign.
func mirrored(api, site []event.Event, pairs []int) (x, y bool) {
	var sameX, oppX, sameY, oppY int
	for i, j := range pairs {
		if j < 0 || api[i].Coords == nil || site[j].Coords == nil {
			continue
		}
		a, s := api[i].Coords, site[j].Coords
		switch {
		case a.X*s.X > 0:
			sameX++
		case a.X*s.X < 0:
			oppX++
		}
		switch {
		case a.Y*s.Y > 0:
			sameY++
		case a.Y*s.Y < 0:
			oppY++
		}
	}
	return oppX > sameX, oppY > sameY
}
