package cli

import (
	"sort"

	"github.com/pfrederiksen/hockey-pbp/internal/pipeline"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByInput    SortOrder = "input"
	SortByID       SortOrder = "id"
	SortByStatus   SortOrder = "status"
	SortByDuration SortOrder = "duration"
)

func (o SortOrder) valid() bool {
	switch o {
	case SortByInput, SortByID, SortByStatus, SortByDuration:
		return true
	}
	return false
}

// statusRank orders failures first.
var statusRank = map[pipeline.Status]int{
	pipeline.StatusFailed:  0,
	pipeline.StatusSkipped: 1,
	pipeline.StatusSuccess: 2,
}

// sortGames sorts game results based on the specified sort order. Input
// order is the batch's own order and is left untouched.
func sortGames(games []GameResult, order SortOrder) {
	switch order {
	case SortByID:
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].GameID < games[j].GameID
		})
	case SortByStatus:
		sort.SliceStable(games, func(i, j int) bool {
			if games[i].Status != games[j].Status {
				return statusRank[games[i].Status] < statusRank[games[j].Status]
			}
			// If statuses are equal, sort by id
			return games[i].GameID < games[j].GameID
		})
	case SortByDuration:
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].Seconds > games[j].Seconds
		})
	}
}
