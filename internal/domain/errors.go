package domain

import (
	"errors"
	"fmt"
)

// Error types for consistent error handling across the dashboard.

// ErrUnparseableAmount is returned by the strict amount parser.
var ErrUnparseableAmount = errors.New("unparseable amount")

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrSourceNotFound means no upstream CSV is configured for a (region, kind) pair.
type ErrSourceNotFound struct {
	Region string
	Kind   string
}

func (e *ErrSourceNotFound) Error() string {
	return fmt.Sprintf("CSV URL not found for %s/%s", e.Region, e.Kind)
}

// ErrFetchFailed means the upstream CSV could not be retrieved.
type ErrFetchFailed struct {
	Region string
	Kind   string
	Status int
	Err    error
}

func (e *ErrFetchFailed) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s/%s failed: upstream returned status %d", e.Region, e.Kind, e.Status)
	}
	return fmt.Sprintf("fetch %s/%s failed: %v", e.Region, e.Kind, e.Err)
}

func (e *ErrFetchFailed) Unwrap() error {
	return e.Err
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrNotLoaded is returned by view requests before the first successful reload.
type ErrNotLoaded struct{}

func (e *ErrNotLoaded) Error() string {
	return "dashboard data not loaded yet"
}

// ErrStaleReload means a newer reload was requested while this one was in flight;
// its results were discarded.
type ErrStaleReload struct {
	Generation uint64
	Latest     uint64
}

func (e *ErrStaleReload) Error() string {
	return fmt.Sprintf("reload %d superseded by reload %d", e.Generation, e.Latest)
}

// ErrUpstreamStatus is a non-2xx answer from an upstream HTTP service.
type ErrUpstreamStatus struct {
	Service string
	Status  int
}

func (e *ErrUpstreamStatus) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
}
