// Package apperrors is the recoverable error taxonomy shared by the lobby
// and score modules. Each type wraps a sentinel so callers can match either
// the category (errors.As) or the exact reason (errors.Is).
package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError reports malformed input, such as duplicate ids in a pick.
type ValidationError struct {
	Err    error
	Detail string
}

// StateError reports an operation that is invalid for the current lobby or game state.
type StateError struct {
	Err    error
	Detail string
}

// CapacityError reports a full queue or team.
type CapacityError struct {
	Err      error
	Capacity int
}

// PermissionError reports a user who may not perform the operation, e.g. banned.
type PermissionError struct {
	Err    error
	Detail string
}

// NotFoundError reports a missing lobby, game, player or queue entry.
type NotFoundError struct {
	Err    error
	Detail string
}

// CooldownError reports an active requeue delay.
type CooldownError struct {
	Err       error
	Remaining time.Duration
}

func (e *ValidationError) Error() string { return withDetail(e.Err, e.Detail) }
func (e *ValidationError) Unwrap() error { return e.Err }

func (e *StateError) Error() string { return withDetail(e.Err, e.Detail) }
func (e *StateError) Unwrap() error { return e.Err }

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v (capacity %d)", e.Err, e.Capacity)
}
func (e *CapacityError) Unwrap() error { return e.Err }

func (e *PermissionError) Error() string { return withDetail(e.Err, e.Detail) }
func (e *PermissionError) Unwrap() error { return e.Err }

func (e *NotFoundError) Error() string { return withDetail(e.Err, e.Detail) }
func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%v (%s remaining)", e.Err, e.Remaining.Round(time.Second))
}
func (e *CooldownError) Unwrap() error { return e.Err }

func withDetail(err error, detail string) string {
	if detail == "" {
		return err.Error()
	}
	return err.Error() + ": " + detail
}

func Validation(err error, detail string) error { return &ValidationError{Err: err, Detail: detail} }
func State(err error, detail string) error { return &StateError{Err: err, Detail: detail} }
func Capacity(err error, capacity int) error { return &CapacityError{Err: err, Capacity: capacity} }
func Permission(err error, detail string) error { return &PermissionError{Err: err, Detail: detail} }
func NotFound(err error, detail string) error { return &NotFoundError{Err: err, Detail: detail} }
func Cooldown(err error, remaining time.Duration) error {
	return &CooldownError{Err: err, Remaining: remaining}
}

// Kind names the category of err, or "internal" for anything outside the taxonomy.
func Kind(err error) string {
	var (
		ve *ValidationError
		se *StateError
		ce *CapacityError
		pe *PermissionError
		ne *NotFoundError
		co *CooldownError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &se):
		return "state"
	case errors.As(err, &ce):
		return "capacity"
	case errors.As(err, &pe):
		return "permission"
	case errors.As(err, &ne):
		return "not_found"
	case errors.As(err, &co):
		return "cooldown"
	}
	return "internal"
}

// IsDomain reports whether err belongs to the taxonomy.
func IsDomain(err error) bool {
	k := Kind(err)
	return k != "" && k != "internal"
}
