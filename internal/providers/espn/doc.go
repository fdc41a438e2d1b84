// Package espn provides the secondary sports site as a fallback coordinate
// source.
//
// The site's scoreboard maps a date and pair of teams to the site's own game
// id, and its gamecast master feed lists every play as a "~"-separated record
// whose free text names the primary player. Scoreboards are cached per date
// since a batch usually looks up several games played on the same day.
package espn
