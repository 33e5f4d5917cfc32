package services

import (
	"errors"
	"fmt"

	"github.com/cachapa/comanda-api/store"
)

// ValidationError rejects an operation before any store write. The state
// is guaranteed untouched.
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

// AuthorizationError rejects an operation whose session may not perform
// it. Checked at the engine boundary, before any write, so a forged or
// stale front-end cannot mutate state it does not own.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// NotFoundError reports that the referenced entity is not in the current
// snapshot (e.g. an order already cleared by another actor).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError reports that another actor changed the entity between the
// caller's read and its write. The caller should re-read and retry.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// MenuLoadError is a retryable failure fetching or parsing the menu feed.
type MenuLoadError struct {
	Cause error
}

func (e *MenuLoadError) Error() string {
	return fmt.Sprintf("failed to load menu: %v", e.Cause)
}

func (e *MenuLoadError) Unwrap() error { return e.Cause }

// IsConflict reports whether err is a transition conflict, from either the
// engine's own check or the store's precondition rejection.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce) || errors.Is(err, store.ErrConflict)
}

// IsUnavailable reports whether err means the store could not commit.
func IsUnavailable(err error) bool {
	return errors.Is(err, store.ErrUnavailable)
}
