// Package storage provides the on-disk output of a scrape run.
//
// Each assembled game is written to its own file under the output directory,
// either as CSV (<game_id>.csv) or JSON (<game_id>.json). A batch manifest
// (manifest.json) records the run id and which games succeeded, were skipped
// or failed, so a later run can retry just the failures.
package storage
