package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflicting state")

// ErrForbidden indicates the caller lacks permission for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected failure that should not leak details outward.
var ErrInternal = errors.New("internal error")

// ErrInvalidRefreshToken indicates the presented refresh token does not match the stored one.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// AppError carries an HTTP-ish status code alongside a message for errors that
// originate in the storage layer and have no more specific sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given code, message and underlying
// cause. A nil err is allowed.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an error that matches ErrNotFound under errors.Is
// while carrying context about what was missing.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// NewConflictError creates an error that matches ErrConflict under errors.Is.
func NewConflictError(message string) error {
	return fmt.Errorf("%s: %w", message, ErrConflict)
}

// NewDuplicateError creates an error that matches ErrDuplicate under errors.Is.
func NewDuplicateError(message string) error {
	return fmt.Errorf("%s: %w", message, ErrDuplicate)
}

// NewValidationFailedError creates an error that matches ErrValidation under errors.Is.
func NewValidationFailedError(message string) error {
	return fmt.Errorf("%s: %w", message, ErrValidation)
}
