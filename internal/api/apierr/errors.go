package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/happygarden/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidation       = "VALIDATION_FAILED"
	CodeNotYourTurn      = "NOT_YOUR_TURN"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeNameTaken        = "NAME_TAKEN"
	CodeAlreadyInGame    = "ALREADY_IN_GAME"
	CodeGameFull         = "GAME_FULL"
	CodePositionOccupied = "POSITION_OCCUPIED"
	CodeInvalidState     = "INVALID_GAME_STATE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status an error is reported with
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError.
// Specific rule violations are matched before the catch-all validation case.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, err.Error()}}
	case errors.Is(err, model.ErrPlayerNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeNameTaken, err.Error()}}
	case errors.Is(err, model.ErrAlreadyInGame):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInGame, err.Error()}}
	case errors.Is(err, model.ErrGameFull):
		return &httpError{http.StatusConflict, APIError{CodeGameFull, err.Error()}}
	case errors.Is(err, model.ErrPositionOccupied):
		return &httpError{http.StatusConflict, APIError{CodePositionOccupied, err.Error()}}
	case errors.Is(err, model.ErrGameNotWaiting),
		errors.Is(err, model.ErrGameNotActive),
		errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, err.Error()}}
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{CodeValidation, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
