package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is;
// any error that matches none of them is unexpected.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
)

// Error is a client-facing error. Message is safe to return to the caller and
// Unwrap yields the kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Validationf builds an ErrValidation error with a formatted message.
func Validationf(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

var (
	// auth
	ErrEmailInUse         = newError(ErrValidation, "Email already registered")
	ErrNameInUse          = newError(ErrValidation, "Username already taken")
	ErrInvalidEmail       = newError(ErrValidation, "Please provide a valid email")
	ErrInvalidCredentials = newError(ErrUnauthenticated, "Invalid email or password")
	ErrInvalidToken       = newError(ErrUnauthenticated, "Not authorized, token failed")
	ErrExpiredToken       = newError(ErrUnauthenticated, "Not authorized, token expired")
	ErrMissingToken       = newError(ErrUnauthenticated, "Not authorized, no token")

	// anime
	ErrAnimeNotFound   = newError(ErrNotFound, "Anime not found")
	ErrNotAnimeOwner   = newError(ErrForbidden, "Not authorized to modify this anime")
	ErrAlreadyReviewed = newError(ErrValidation, "You have already reviewed this anime")
	ErrOwnAnimeReview  = newError(ErrValidation, "You cannot review your own anime")
	ErrInvalidRating   = newError(ErrValidation, "Rating must be a whole number between 1 and 10")
	ErrEmptyReview     = newError(ErrValidation, "Review text is required")

	// users
	ErrUserNotFound = newError(ErrNotFound, "User not found")
	ErrSelfFollow   = newError(ErrValidation, "You cannot follow yourself")

	// notifications
	ErrNotificationNotFound = newError(ErrNotFound, "Notification not found")
	ErrNotRecipient         = newError(ErrForbidden, "Not authorized")
	ErrInvalidNotification  = newError(ErrValidation, "Invalid notification type")
)
