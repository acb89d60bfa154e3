package cartclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"food-order/models"
)

// ErrMergeIncomplete reports a login whose guest cart replay stopped early.
// The lines not yet replayed stay in the guest store.
var ErrMergeIncomplete = errors.New("guest cart merge incomplete")

// APIError is a non-2xx response from the cart API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cart api: status %d", e.Status)
	}
	return fmt.Sprintf("cart api: status %d: %s", e.Status, e.Message)
}

// IsTransient reports whether retrying the same request later could succeed.
func (e *APIError) IsTransient() bool {
	return e.Status >= http.StatusInternalServerError ||
		e.Status == http.StatusRequestTimeout ||
		e.Status == http.StatusTooManyRequests
}

// Is lets callers match API failures against the models error kinds.
func (e *APIError) Is(target error) bool {
	switch target {
	case models.ErrInvalidArgument:
		return e.Status == http.StatusBadRequest
	case models.ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case models.ErrForbidden:
		return e.Status == http.StatusForbidden
	case models.ErrNotFound:
		return e.Status == http.StatusNotFound
	case models.ErrStoreUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// IsTransient classifies err for the rollback path: server errors, timeouts
// and network failures are transient, client errors are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsTransient()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	for _, kind := range []error{models.ErrInvalidArgument, models.ErrUnauthenticated, models.ErrForbidden, models.ErrNotFound} {
		if errors.Is(err, kind) {
			return false
		}
	}
	return true
}
