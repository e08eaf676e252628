package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrAlreadySettled = errors.New("bet already settled")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrUserIDRequired = errors.New("user ID is required")
	ErrNoLegs         = errors.New("parlay requires at least one leg")
	ErrInvalidStake   = errors.New("stake must be positive")
)
