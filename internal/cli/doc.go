// Package cli implements the command-line interface for hockey-pbp.
//
// The cli package provides the Cobra-based CLI: scrape reconstructs games into
// per-game tables and a batch manifest, schedule lists the games played in a
// date range and version prints the build version. It loads the layered
// configuration, wires the report scraper, the API and site feeds into the
// per-game pipeline and runs the batch on a worker pool.
package cli
