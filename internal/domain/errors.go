package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for transport failures
var (
	// ErrAuthFailed indicates the session token was rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrServerOffline indicates the price service is unreachable
	ErrServerOffline = errors.New("price service is unreachable")
)

// FetchError wraps a failed read (list/get). Prior state is left intact and
// retry is manual.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError reports a client-side precondition failure. No network
// call is made and the operation is never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// MutationError wraps a failed create/update/delete.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// PartialBatchError reports a multi-target fan-out where some targets
// succeeded and some failed. It is an aggregate, never a single pass/fail.
type PartialBatchError struct {
	Op        string
	Succeeded int
	Total     int
	Errs      []error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%s succeeded for %d of %d targets", e.Op, e.Succeeded, e.Total)
}

func (e *PartialBatchError) Unwrap() []error { return e.Errs }
