package models

import "fmt"

// ValidationError covers malformed or policy-violating input. It is always
// surfaced to the caller and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError means an unexpired competing request already occupies the
// contested resource. Resource carries the claim key so the caller can
// adjust products or timing.
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	if e.Resource == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (resource %s)", e.Message, e.Resource)
}

// NotFoundError marks an unknown entity id or a request not in a
// qualifying state for the operation.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// StateTransitionError marks an illegal lifecycle move. EXPIRED may only
// go back to ACTIVE; everything else out of EXPIRED lands here.
type StateTransitionError struct {
	From BoostStatus
	To   BoostStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}
