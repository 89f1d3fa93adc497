// Package common defines shared constants and sentinel errors used across
// GophMarket layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrValidation reports missing or invalid fields on create/update.
	ErrValidation = errors.New("validation error")
	// ErrInvalidTransition is a validation failure of the sync-status state machine.
	ErrInvalidTransition = fmt.Errorf("%w: illegal status transition", ErrValidation)

	// ErrAuthorization means the caller is not the owner or lacks the capability.
	ErrAuthorization = errors.New("not authorized")
	// ErrUnauthenticated means no valid identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrTransient marks a network-bound failure that is safe to retry.
	ErrTransient = errors.New("transient failure, retry later")

	ErrorInternal = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrUserAlreadyExists = errors.New("user already exists")
)
