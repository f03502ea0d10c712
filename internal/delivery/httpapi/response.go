package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NasaVasa/carewatch/internal/usecase"
)

type Response struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnavailable      = "RECOMPUTE_UNAVAILABLE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

var ErrInternalServer = &Error{
	Code:    ErrCodeInternalError,
	Message: "Internal server error",
	Status:  http.StatusInternalServerError,
}

func NewBadRequest(message string) *Error {
	return &Error{Code: ErrCodeBadRequest, Message: message, Status: http.StatusBadRequest}
}

func NewValidationError(message string) *Error {
	return &Error{Code: ErrCodeValidationFailed, Message: message, Status: http.StatusBadRequest}
}

func NewNotFound(message string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: message, Status: http.StatusNotFound}
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

func JSONError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	_ = json.NewEncoder(w).Encode(Response{Error: err})
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// errorFor maps usecase sentinels to API errors. A nil result means the
// error is unexpected and should be logged.
func errorFor(err error) *Error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRecord):
		return NewValidationError("record needs a user, a time and at least one observation")
	case errors.Is(err, usecase.ErrInvalidDate):
		return NewBadRequest("invalid date, use YYYY-MM-DD")
	case errors.Is(err, usecase.ErrInvalidMonth):
		return NewBadRequest("invalid month, use YYYY-MM")
	case errors.Is(err, usecase.ErrInvalidFilter):
		return NewBadRequest("invalid alert filter")
	case errors.Is(err, usecase.ErrUserNotRegistered):
		return NewBadRequest("user id is required")
	case errors.Is(err, usecase.ErrRecordNotFound):
		return NewNotFound("record not found")
	case errors.Is(err, usecase.ErrReadFailed), errors.Is(err, usecase.ErrWriteFailed):
		return &Error{Code: ErrCodeUnavailable, Message: "alert recompute failed, retry later", Status: http.StatusServiceUnavailable}
	}
	return nil
}
