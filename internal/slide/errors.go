package slide

import "errors"

// Error classes surfaced to callers. Concrete errors wrap exactly one of these
// so callers can classify failures with errors.Is.
var (
	// ErrCaller marks malformed arguments detected before any decoder call.
	ErrCaller = errors.New("invalid request")

	// ErrOpen marks a file that cannot be opened or is not a recognized format.
	ErrOpen = errors.New("cannot open slide")

	// ErrRead marks a decoder failure while servicing a well-formed request.
	ErrRead = errors.New("read failed")

	// ErrAlloc marks a request whose buffers could not be allocated.
	ErrAlloc = errors.New("allocation failed")

	// ErrBackendUnavailable is returned by backends that were not compiled in.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
