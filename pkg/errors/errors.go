package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when credentials are missing or invalid
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrInvalidStateTransition is returned when a status or step change is not allowed
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrSessionLocked is returned when a checkout session is already being submitted
type ErrSessionLocked struct {
	SessionID string
}

func (e *ErrSessionLocked) Error() string {
	return fmt.Sprintf("checkout session %s: submission in progress", e.SessionID)
}

// ValidationError carries field-level messages for a checkout step
type ValidationError struct {
	Step   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s validation failed: %s", e.Step, strings.Join(keys, ", "))
}

// PaymentError is returned when a payment authorization is declined or unavailable
type PaymentError struct {
	Method  string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed (%s): %s", e.Method, e.Message)
}

// PersistenceError is returned when the order could not be recorded.
// Payment may already be authorized when this is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
