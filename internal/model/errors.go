package model

import "errors"

var (
	// ErrInvalidToken covers every token rejection reason so the error
	// itself leaks nothing about why verification failed.
	ErrInvalidToken = errors.New("invalid token")

	ErrJobNotFound = errors.New("job not found")
)
