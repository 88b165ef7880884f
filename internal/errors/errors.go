package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation is returned when request input fails shape validation.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateAccount is returned when the email is already registered.
	ErrDuplicateAccount = errors.New("User already exist")
	// ErrInvalidCredentials covers both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("Incorrect Credentials")
	// ErrIncorrectPreviousPassword is returned by password reset on a wrong old
	// password. It matches ErrInvalidCredentials.
	ErrIncorrectPreviousPassword = fmt.Errorf("Incorrect previous password: %w", ErrInvalidCredentials)
	// ErrVerificationRequired is returned when an unverified account logs in.
	ErrVerificationRequired = errors.New("account verification required")
	// ErrMissingOTP is returned when verification is attempted without a code.
	ErrMissingOTP = errors.New("Provide your OTP")
	// ErrIncorrectOTP is returned when the code does not match the stored hash.
	ErrIncorrectOTP = errors.New("Incorrect OTP")
	// ErrTokenInvalid is returned for malformed, tampered or orphaned tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidSubject is returned when a token is requested for an empty subject.
	ErrInvalidSubject = errors.New("Invalidate id to generate JWT")
	// ErrHashing is returned when the hashing primitive fails.
	ErrHashing = errors.New("hashing failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// ValidationError wraps a human-readable validator message so that it still
// matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsUnauthenticated reports whether err is one of the token failures that
// collapse into a single unauthenticated outcome.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenExpired)
}

// MapErrorToHTTP maps domain errors to HTTP errors. When exposeInternal is set
// the message of unexpected errors is passed through to the client.
func MapErrorToHTTP(err error, exposeInternal bool) *HTTPError {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return NewHTTPError(http.StatusBadRequest, vErr.Message, "VALIDATION_FAILED")
	case errors.Is(err, ErrDuplicateAccount):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateAccount.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrIncorrectPreviousPassword):
		return NewHTTPError(http.StatusBadRequest, "Incorrect previous password", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrVerificationRequired):
		return NewHTTPError(http.StatusBadRequest, ErrVerificationRequired.Error(), "VERIFICATION_REQUIRED")
	case errors.Is(err, ErrMissingOTP):
		return NewHTTPError(http.StatusBadRequest, ErrMissingOTP.Error(), "MISSING_OTP")
	case errors.Is(err, ErrIncorrectOTP):
		return NewHTTPError(http.StatusBadRequest, ErrIncorrectOTP.Error(), "INCORRECT_OTP")
	case IsUnauthenticated(err):
		return NewHTTPError(http.StatusUnauthorized, "unauthenticated", "UNAUTHENTICATED")
	default:
		message := "internal server error"
		if exposeInternal && err != nil {
			message = err.Error()
		}
		return NewHTTPError(http.StatusInternalServerError, message, "INTERNAL_ERROR")
	}
}
