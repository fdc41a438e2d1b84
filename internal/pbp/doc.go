// Package pbp parses the HTML play-by-play report, the primary event source
// of a game.
//
// Each report row becomes an event.Event: period, clock, event code,
// description, the players referenced by jersey number (resolved to names
// through the roster) and the skaters listed on ice for both teams. Jersey
// references are attributed to teams with a fixed table: a faceoff names the
// away player first and the home player second, while the second player of a
// hit, block or penalty belongs to the team opposite the event team.
// Repeated (type, player, second) tuples get a disambiguation index so the
// stream can be joined with the coordinate feeds.
package pbp
