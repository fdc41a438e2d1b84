// Package pipeline runs the per-game reconstruction and the multi-game batch.
//
// Pipeline.Run fetches the roster and play-by-play reports, picks a coordinate
// stream (the league API, a hybrid of the API and the secondary site, the site
// alone, or none), merges it into the play-by-play events and assembles the
// final table. Every failure is returned inside an Outcome tagged success,
// skipped or failed; degraded tables carry their own warning columns.
//
// Batch runs a Runner over many game ids on an ants worker pool, keeps the
// outcomes in input order, retries failures once after the full pass and
// returns what finished when the context is cancelled.
package pipeline
