// Package statsapi provides the league statistics API as a coordinate
// source: the live game feed decoded into events, and the schedule used to
// discover game ids.
package statsapi
