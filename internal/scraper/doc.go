// Package scraper fetches and parses the three HTML game reports: the roster
// report (RO), the home and away shift reports (TH, TV) and the play-by-play
// report (PL).
//
// Reports are addressed by season and a six digit report id derived from the
// ten digit game id, and are decoded as ISO-8859-1 before parsing.
package scraper
