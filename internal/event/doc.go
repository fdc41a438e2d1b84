// Package event provides the shared event model for play-by-play reconstruction.
//
// Every source (the HTML play-by-play report, the league API feed and the
// secondary-site feed) is reduced to a slice of Event values so the merger and
// assembler can treat them uniformly. The package also owns the game-clock
// convention (1200 seconds per period, shootouts pinned to 3900), the event
// type priority table used to order a timeline, and the disambiguation index
// ("version") that separates repeated (type, player, second) tuples within a
// single stream.
package event
