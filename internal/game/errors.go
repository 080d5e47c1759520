package game

import "errors"

// Errors returned by the state machine and by the stores that hold it.
var (
	ErrGameAlreadyExists  = errors.New("game already exists")
	ErrInvalidGuessLength = errors.New("guess must be exactly 5 letters")
	ErrInvalidCharacters  = errors.New("guess must contain only letters A-Z")
	ErrTriesExhausted     = errors.New("no tries left")
	ErrUnauthorized       = errors.New("requester does not own this game")
	ErrNotFound           = errors.New("game not found")

	ErrInvalidSolution = errors.New("solution must be 5 uppercase letters")
)
