// Package errors defines the error kinds returned by the game catalog.
// Callers branch on kind with errors.Is; the wrapped message carries the detail.
package errors

import (
	"fmt"
)

var (
	// ErrInvalidGame is returned only by admission when a field fails validation.
	ErrInvalidGame = fmt.Errorf("invalid game")
	// ErrInvalidArgument is returned when a query or removal argument is unusable.
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	// ErrGameNotFound is returned when a lookup yields no game.
	ErrGameNotFound = fmt.Errorf("game not found")
)
