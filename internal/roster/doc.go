// Package roster parses the per-game roster report into canonical players.
//
// The report lists the away roster, the home roster and, when any players
// were scratched, the away and home scratches. Every name is run through the
// names alias tables so it can be joined with the play-by-play and shift
// reports, and the active players are indexed by team code plus jersey number
// ("TOR34") for the play-by-play parser and the assembler.
package roster
