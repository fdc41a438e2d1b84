// Package shift parses the home and away shift reports and turns the
// per-player shift intervals into a table of line changes.
//
// Each report lists, per player, every shift with its period, start and end
// clock and duration. Changes groups those intervals into the moments when
// players came on or went off, keyed by team, period and clock time, which is
// what the assembler replays to know who was on the ice for every event.
package shift
