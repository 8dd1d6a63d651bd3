package models

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrAlreadyRegistered   = errors.New("already registered for this event")
	ErrEventFull           = errors.New("event is full")
	ErrBadgeAlreadyAwarded = errors.New("user already has this badge")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidStatus       = errors.New("invalid status")
)

// IsConflict reports whether err violates a uniqueness or capacity invariant.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrEventFull) ||
		errors.Is(err, ErrBadgeAlreadyAwarded)
}

// IsValidation reports whether err was caused by bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, bcrypt.ErrPasswordTooLong)
}
