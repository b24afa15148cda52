// Package evaluation scores the clock reader against a labeled image corpus.
//
// The harness reads every corpus image, compares the detected time with the
// label in the file name and stores each outcome as the name of a result
// image. Reports are computed from those names, so a result directory can be
// re-reported without running detection again.
package evaluation

import "errors"

var (
	// ErrFormat is returned for a result name that does not follow the
	// {0|1}-{error}-{detected}-{expected} grammar.
	ErrFormat = errors.New("malformed result name")

	// ErrConfiguration is returned when an evaluation cannot produce a
	// meaningful report: an empty corpus or no valid samples.
	ErrConfiguration = errors.New("invalid evaluation setup")

	// ErrDuplicateResult is returned for an image whose outcome encodes to the
	// name of a result already written in the same run.
	ErrDuplicateResult = errors.New("duplicate result name")

	// ErrSampleCount is returned when the result directory does not hold
	// exactly one result per scored image.
	ErrSampleCount = errors.New("result count does not match scored images")
)
