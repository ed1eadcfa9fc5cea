package domain

import "errors"

// Error kinds surfaced by a planning session.
// Callers match them with errors.Is on the returned *PlanError.
var (
	ErrInvalidRequest        = errors.New("invalid planning request")
	ErrServiceUnavailable    = errors.New("routing service unavailable")
	ErrBaseRouteFailure      = errors.New("base route failed")
	ErrInfeasibleDeadline    = errors.New("insufficient time")
	ErrReoptimizationFailure = errors.New("route re-optimization failed")
	ErrStopNotFound          = errors.New("stop not found")
)

// PlanError pairs an error kind with the underlying cause.
type PlanError struct {
	Kind error
	Err  error
}

func NewPlanError(kind, err error) *PlanError {
	return &PlanError{Kind: kind, Err: err}
}

func (e *PlanError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *PlanError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
