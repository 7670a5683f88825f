package service

import "errors"

// Sentinel errors shared by the services. Handlers map these to HTTP statuses:
// ErrValidation-wrapped errors to 400, not-found to 404, conflicts to 409,
// ErrInvalidPassword to 403, ErrWrongToken to 400; everything else is a 500
// with a generic body.
var (
	ErrValidation = errors.New("invalid parameters")

	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")

	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrWrongToken            = errors.New("wrong token")

	ErrAlreadyLiked    = errors.New("message already liked")
	ErrAlreadyDisliked = errors.New("message already disliked")

	ErrInvalidListOptions = errors.New("invalid fields or order")
)
