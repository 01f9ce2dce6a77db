package model

import "errors"

// Sentinel errors shared by the store and the handlers.
var (
	ErrInvalid  = errors.New("invalid input")
	ErrNotFound = errors.New("not found")
)
