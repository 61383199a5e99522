package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every service error wraps exactly one of these so the HTTP
// layer can pick a status code with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("authentication failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
)

// Service errors
var (
	ErrUsernameRequired   = fmt.Errorf("%w: username is required", ErrValidation)
	ErrUsernameInvalid    = fmt.Errorf("%w: username may only contain letters, digits and @/./+/-/_ (max 150 characters) and must not be a reserved name", ErrValidation)
	ErrUsernameTaken      = fmt.Errorf("%w: a user with that username already exists", ErrValidation)
	ErrPasswordRequired   = fmt.Errorf("%w: password is required", ErrValidation)
	ErrPasswordMismatch   = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrTweetTextRequired  = fmt.Errorf("%w: text is required", ErrValidation)
	ErrTweetTextTooLong   = fmt.Errorf("%w: text must be at most 250 characters", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: no active account found with the given credentials", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: token is invalid or expired", ErrUnauthorized)
	ErrNotTweetAuthor     = fmt.Errorf("%w: only the author can modify this tweet", ErrPermissionDenied)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrTweetNotFound      = fmt.Errorf("%w: tweet not found", ErrNotFound)
)
