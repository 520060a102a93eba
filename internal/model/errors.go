package model

import "errors"

// ErrValidation is matched by every domain rule violation.
// Use errors.Is(err, ErrValidation) to detect one.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a broken domain rule
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation, so that every
// ValidationError satisfies errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// Common errors used across the application
var (
	// Lookup errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")

	// Position errors
	ErrInvalidCoordinate = validation("coordinates must be integers between 0 and 100")

	// Player errors
	ErrEmptyPlayerID     = validation("player id cannot be empty")
	ErrEmptyPlayerName   = validation("player name cannot be empty")
	ErrPlayerNameTooLong = validation("player name cannot exceed 50 characters")
	ErrNegativePoints    = validation("points cannot be negative")
	ErrNegativeScore     = validation("player score cannot be negative")
	ErrPlayerNameTaken   = validation("player name already exists")

	// Game construction errors
	ErrEmptyGameID     = validation("game id cannot be empty")
	ErrEmptyCreatorID  = validation("creator id cannot be empty")
	ErrInvalidGridSize = validation("grid size must be between 3 and 10")
	ErrInvalidMaxTurns = validation("max turns must be between 1 and 200")
	ErrInvalidStatus   = validation("unknown game status")
	ErrCorruptSnapshot = validation("game snapshot is inconsistent")

	// Game lifecycle errors
	ErrGameNotWaiting      = validation("game is not accepting players")
	ErrGameNotActive       = validation("game is not active")
	ErrGameFinished        = validation("game is already finished")
	ErrGameFull            = validation("game is full")
	ErrAlreadyInGame       = validation("player is already in the game")
	ErrNotInGame           = validation("player is not in the game")
	ErrInsufficientPlayers = validation("cannot start game without players")

	// Placement errors
	ErrNotPlayerTurn    = validation("not this player's turn")
	ErrOutOfBounds      = validation("position is outside the grid")
	ErrPositionOccupied = validation("position is already occupied")
	ErrInvalidMove      = validation("invalid move")
	ErrEmptyItemID      = validation("item id cannot be empty")
)
