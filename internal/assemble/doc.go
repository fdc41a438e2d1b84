// Package assemble turns a merged event stream, the shift changes table and
// the game roster into the final per-game table.
//
// Events and shift changes are interleaved into one timeline ordered by game
// second, period and event-type priority. A running on/off count per jersey
// gives the players on ice at every row, from which the goalie, skater counts
// and strength state are derived. The running score only counts goals
// strictly before each row; shootout goals are credited once, to the
// shootout winner, from the shootout's period-end marker onward.
package assemble
