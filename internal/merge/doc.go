// Package merge attaches rink coordinates from a secondary event stream to
// the primary play-by-play stream.
//
// Rows are first joined on (player, game second, version, period, type).
// Events of interest left without coordinates then get two fix-up passes
// that only pair rows when the pairing is unambiguous: pass 1 keys on
// (type, period, game second) and pass 2 on (type, period, player).
package merge
