package game

import "errors"

var (
	// ErrGameNotFound is returned when a game is not found
	ErrGameNotFound = errors.New("game not found")

	// ErrCodeTaken is returned when another room already uses the join code
	ErrCodeTaken = errors.New("room code already in use")

	// ErrConcurrentUpdate is returned when an update lost every optimistic retry
	ErrConcurrentUpdate = errors.New("game was modified concurrently")
)

const defaultListLimit = 20
