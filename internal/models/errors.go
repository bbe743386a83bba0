package models

import (
	"errors"
)

// Domain errors. Services wrap these with a human-readable message via
// fmt.Errorf("%w: ...", Err...) and handlers map them to HTTP status codes.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyClosed     = errors.New("question already closed")
	ErrNotClosed         = errors.New("question not closed")
	ErrAlreadyVoted      = errors.New("already voted")
	ErrNotVoted          = errors.New("not voted")
	ErrUsernameTaken     = errors.New("username already used")
	ErrInvalidPagination = errors.New("incorrect pagination arguments")
	ErrValidation        = errors.New("validation failed")
	ErrBadCredentials    = errors.New("bad credentials")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrNotAccessToken = errors.New("provided token is not an access token")
)
