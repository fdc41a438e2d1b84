// Package names canonicalises player and team names across sources.
//
// The play-by-play, roster and shift reports, the league API feed and the
// secondary-site feed all spell some names differently, and the spelling of a
// player can change from one season to the next. Every source is mapped onto
// the roster report's spelling through static alias tables: a base table shared
// by all sources plus a small overlay per source. The tables are read-only and
// safe to share between goroutines.
package names
