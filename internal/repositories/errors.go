package repositories

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a stock decrement would go below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStaleUpdate is returned when a conditional update matched no row because
	// the record changed since it was read.
	ErrStaleUpdate = errors.New("record was modified concurrently")
)
