package apperr

import "errors"

// Sentinel errors for the query and file layers. Services wrap these
// with %w so controllers can map them onto HTTP statuses without
// leaking internal detail.
var (
	ErrInvalidFilter      = errors.New("invalid filter value")
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrNotFound           = errors.New("resource not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StatusCode maps a known error onto an HTTP status. Unknown errors
// are a generic 500; the caller is expected to log the original.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidFilter), errors.Is(err, ErrInvalidPageSize):
		return 400
	case errors.Is(err, ErrPermissionDenied):
		return 403
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrStorageUnavailable):
		return 503
	default:
		return 500
	}
}
