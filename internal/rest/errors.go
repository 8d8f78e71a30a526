package rest

import (
	"errors"
	"net/http"

	"myBookShelf/domain"
)

// httpStatusFor maps domain errors to HTTP statuses. Storage outages
// become 503 so callers know a retry may help; the service itself
// never retries.
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
