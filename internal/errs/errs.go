// Package errs defines the failure taxonomy shared by the scrapers, the
// per-game pipeline and the batch orchestrator.
//
// Errors are created with the constructors below so that they carry a mark
// recognised by errors.Is no matter how many times they are wrapped on the way
// up to the orchestrator.
package errs

import (
	"context"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound means the source has no data for this game.
	ErrNotFound = errors.New("not found")
	// ErrMalformedSource means an expected table or field is structurally absent.
	ErrMalformedSource = errors.New("malformed source")
	// ErrNoShiftData means the shift reports carry no usable rows.
	ErrNoShiftData = errors.New("no shift data")
	// ErrInsufficientData means a feed produced too few events to be trusted.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrTransient means a network failure that is worth retrying.
	ErrTransient = errors.New("transient network failure")
	// ErrCancelled means the user interrupted the run.
	ErrCancelled = errors.New("cancelled")
)

// Kind names the class of an error for logs, metrics and manifests.
type Kind string

const (
	KindNone         Kind = ""
	KindNotFound     Kind = "not_found"
	KindMalformed    Kind = "malformed_source"
	KindNoShiftData  Kind = "no_shift_data"
	KindInsufficient Kind = "insufficient_data"
	KindTransient    Kind = "transient"
	KindCancelled    Kind = "cancelled"
	KindUnknown      Kind = "unknown"
)

// NotFound returns a formatted error marked as ErrNotFound.
func NotFound(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

// Malformed returns a formatted error marked as ErrMalformedSource.
func Malformed(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrMalformedSource)
}

// NoShiftData returns a formatted error marked as ErrNoShiftData.
func NoShiftData(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNoShiftData)
}

// Insufficient returns a formatted error marked as ErrInsufficientData.
func Insufficient(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInsufficientData)
}

// Transient marks err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrTransient)
}

// KindOf classifies err. Context cancellation counts as KindCancelled.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrMalformedSource):
		return KindMalformed
	case errors.Is(err, ErrNoShiftData):
		return KindNoShiftData
	case errors.Is(err, ErrInsufficientData):
		return KindInsufficient
	case errors.Is(err, ErrTransient):
		return KindTransient
	}
	return KindUnknown
}

// Fallback reports whether a coordinate feed failed in a way that should send
// the pipeline to the next feed rather than fail the game.
func Fallback(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindMalformed, KindInsufficient, KindTransient, KindUnknown:
		return true
	}
	return false
}
