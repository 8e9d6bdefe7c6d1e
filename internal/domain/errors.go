package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidMediaRef    = errors.New("invalid media reference")
	ErrNoJobAvailable     = errors.New("no job available")
)
