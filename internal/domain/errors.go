package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidKid      = errors.New("invalid kid")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPosition = errors.New("invalid position")
)
