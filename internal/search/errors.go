package search

import "errors"

// Error kinds surfaced by query translation and the backend adapters.
// Translation errors block the search before any backend is invoked;
// backend errors are per-backend and never abort the overall search.
// Cancellation is reported as context.Canceled and is not treated as a
// failure anywhere in this package.
var (
	ErrEmptyQuery         = errors.New("empty query")
	ErrInvalidPattern     = errors.New("invalid regex pattern")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrTimeout            = errors.New("backend timed out")
	ErrMalformedOutput    = errors.New("malformed backend output")
)
