package services

import "fmt"

// The error taxonomy surfaced to the boundary. Shape problems are
// ValidationError, temporal/allowlist problems are PolicyError; both are
// recoverable rejections but semantically distinct. Nothing here is retried.

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return e.Reason }

type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string { return e.Reason }
