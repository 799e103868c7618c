// Package apperror defines the error taxonomy shared by every layer of the
// catalog service. Each failure mode maps to a fixed triple of HTTP status,
// stable numeric code, and human-readable message, so handlers translate
// errors mechanically and clients can branch on the code.
package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Machine-readable error codes. The leading digits mirror the HTTP status
// class; the suffix distinguishes conditions within a class. These values
// are part of the API contract and must never be renumbered.
const (
	CodeBadRequest             = 400000
	CodeValidationError        = 400001
	CodeEmailAlreadyExists     = 400002
	CodeItemAlreadyExists      = 400003
	CodeCategoryAlreadyExists  = 400004
	CodeInvalidEmailOrPassword = 4000055 // historical value, kept for client compatibility
	CodeInvalidAccessToken     = 400006
	CodeLackingAccessToken     = 401001
	CodeExpiredAccessToken     = 401002
	CodeForbiddenNotOwner      = 403001
	CodeCategoryNotFound       = 404001
	CodeItemNotFound           = 404002
	CodeInternalServerError    = 500000
)

// AppError is a tagged application error carrying everything the response
// mapper needs. Data is only populated for validation failures, where it
// holds a field→message map.
type AppError struct {
	Err     error // sentinel category, for errors.Is checks
	Status  int
	Code    int
	Message string
	Data    map[string]string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// BadRequest reports a request whose body could not be parsed at all.
// Distinct from ValidationFailed: there is no field map, just one message.
func BadRequest(message string) *AppError {
	if message == "" {
		message = "Bad request."
	}
	return &AppError{
		Err:     ErrBadRequest,
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
	}
}

// ValidationFailed reports one or more field rule violations. The data map
// aggregates every failing field with its message.
func ValidationFailed(data map[string]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Status:  http.StatusBadRequest,
		Code:    CodeValidationError,
		Message: "Validation error.",
		Data:    data,
	}
}

func EmailAlreadyExists() *AppError {
	return &AppError{
		Err:     ErrConflict,
		Status:  http.StatusBadRequest,
		Code:    CodeEmailAlreadyExists,
		Message: "Email already exists",
	}
}

func CategoryAlreadyExists() *AppError {
	return &AppError{
		Err:     ErrConflict,
		Status:  http.StatusBadRequest,
		Code:    CodeCategoryAlreadyExists,
		Message: "Category already exists",
	}
}

func ItemAlreadyExists() *AppError {
	return &AppError{
		Err:     ErrConflict,
		Status:  http.StatusBadRequest,
		Code:    CodeItemAlreadyExists,
		Message: "Item already exists",
	}
}

// InvalidEmailOrPassword is deliberately a 400, not a 401, so failed logins
// are indistinguishable by status from other bad sign-in input. This keeps
// account enumeration via status codes off the table.
func InvalidEmailOrPassword() *AppError {
	return &AppError{
		Err:     ErrBadRequest,
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidEmailOrPassword,
		Message: "Invalid email or password",
	}
}

// LackingAccessToken reports a missing or malformed Authorization header.
func LackingAccessToken() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Status:  http.StatusUnauthorized,
		Code:    CodeLackingAccessToken,
		Message: "Lacking access token in headers",
	}
}

func ExpiredAccessToken() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Status:  http.StatusUnauthorized,
		Code:    CodeExpiredAccessToken,
		Message: "JWT expired",
	}
}

// InvalidAccessToken reports a token that fails the signature check or is
// structurally broken. Status is 400 while missing/expired are 401; the
// asymmetry is inherited API behaviour and preserved for compatibility.
func InvalidAccessToken() *AppError {
	return &AppError{
		Err:     ErrBadRequest,
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidAccessToken,
		Message: "Invalid access token",
	}
}

func ForbiddenNotOwner() *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Status:  http.StatusForbidden,
		Code:    CodeForbiddenNotOwner,
		Message: "Only owner can modify a category or an item",
	}
}

func CategoryNotFound() *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Status:  http.StatusNotFound,
		Code:    CodeCategoryNotFound,
		Message: "Category not found",
	}
}

func ItemNotFound() *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Status:  http.StatusNotFound,
		Code:    CodeItemNotFound,
		Message: "Item not found",
	}
}
