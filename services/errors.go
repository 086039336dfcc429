package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/factory-app/repository"
)

var (
	// ErrServiceUnavailable wraps any failure of the backing store itself.
	ErrServiceUnavailable = errors.New("planning service unavailable")

	ErrOrderLineNotFound = errors.New("order line not found")
	ErrMachineNotFound   = errors.New("machine not found")
	ErrMachineNotActive  = errors.New("machine is not active")
	ErrOrderLineClosed   = errors.New("order is no longer open for planning")
	ErrStalePlan         = errors.New("plan was changed by another user, reload and try again")
	ErrInvalidWeek       = errors.New("invalid week start")
	ErrInvalidEfficiency = errors.New("estimated efficiency must be greater than 0 and at most 100")
	ErrDigestRunning     = errors.New("weekly digest already running")
)

// storeErr maps repository errors onto the service taxonomy. notFound is
// returned for a missing row; when nil a missing row counts as a stale plan.
func storeErr(err error, notFound error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if notFound != nil {
			return notFound
		}
		return ErrStalePlan
	case errors.Is(err, repository.ErrConflict):
		return ErrStalePlan
	default:
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
}
