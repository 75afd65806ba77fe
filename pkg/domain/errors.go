package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoPendingAction is returned when a follow-up intent arrives without a matching pending frame.
var ErrNoPendingAction = errors.New("no pending action")

// ErrRecordNotFound is returned by knowledge bases when an id is absent from an index.
var ErrRecordNotFound = errors.New("knowledge base record not found")

// ErrUnknownAction is returned when a frame carries a label outside the closed action set.
var ErrUnknownAction = errors.New("unknown action")

// ErrMissingEntity matches any *MissingEntityError via errors.Is.
var ErrMissingEntity = errors.New("missing required entity")

// MissingEntityError signals that the classifier routed a turn to an intent
// without an entity that intent always carries. It is an internal fault, never a reply.
type MissingEntityError struct {
	Type   EntityType
	Intent Intent
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("%s: %q entity is required by intent %q", ErrMissingEntity, e.Type, e.Intent)
}

// Is makes errors.Is(err, ErrMissingEntity) hold.
func (e *MissingEntityError) Is(target error) bool {
	return target == ErrMissingEntity
}
