package httpx

import (
	"fmt"
	"net/http"
)

// Business error codes
const (
	// Success
	CodeSuccess = 0

	// Authentication/Authorization errors (1000-1099)
	CodeUnauthorized = 1001 // Not logged in / Token missing
	CodeInvalidToken = 1002 // Token invalid
	CodeTokenExpired = 1003 // Token expired
	CodeForbidden    = 1004 // No permission
	CodeLockedOut    = 1005 // Too many failed login attempts

	// Parameter errors (2000-2099)
	CodeParamMissing = 2001 // Parameter missing
	CodeParamInvalid = 2002 // Parameter format error
	CodeParamIllegal = 2003 // Parameter value illegal

	// Resource/Business errors (3000-3999)
	CodeNotFound      = 3001 // Resource not found
	CodeAlreadyExists = 3002 // Resource already exists
	CodeStateConflict = 3003 // Current state does not allow operation

	// Borrow lifecycle errors (3100-3199)
	CodeNoCopiesAvailable   = 3101 // No copies left to borrow
	CodeDuplicateBorrow     = 3102 // User already holds this book
	CodeBorrowLimitExceeded = 3103 // Active borrow cap reached
	CodeAlreadyReturned     = 3104 // Borrow was already returned

	// Profile update workflow errors (3200-3299)
	CodeReservedUsername = 3201 // Username is reserved
	CodeNoFieldsProvided = 3202 // Update request carried no fields
	CodeNoPendingRequest = 3203 // No pending update to resolve
	CodeInvalidAction    = 3204 // Action is not approve/reject

	// System errors (5000-5999)
	CodeInternalError = 5001 // Internal service error
	CodeDatabaseError = 5002 // Database error
)

// AppError represents an application error with HTTP status and business code
type AppError struct {
	HTTPStatus int         // HTTP status code
	Code       int         // Business error code
	Message    string      // User-facing error message
	Err        error       // Internal error (for logging only, not returned to client)
	Data       interface{} // Additional data (for detailed error information)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code=%d, message=%s, err=%v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code=%d, message=%s", e.Code, e.Message)
}

// WithData adds additional data to the error
func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

// NewAppError creates a new AppError
func NewAppError(httpStatus, code int, message string, err error) *AppError {
	return &AppError{
		HTTPStatus: httpStatus,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// Authentication/Authorization error constructors

// ErrUnauthorized creates a 401 unauthorized error
func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// ErrInvalidToken creates a 401 invalid token error
func ErrInvalidToken(message string) *AppError {
	if message == "" {
		message = "invalid token"
	}
	return NewAppError(http.StatusUnauthorized, CodeInvalidToken, message, nil)
}

// ErrTokenExpired creates a 401 token expired error
func ErrTokenExpired(message string) *AppError {
	if message == "" {
		message = "token expired"
	}
	return NewAppError(http.StatusUnauthorized, CodeTokenExpired, message, nil)
}

// ErrForbidden creates a 403 forbidden error
func ErrForbidden(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return NewAppError(http.StatusForbidden, CodeForbidden, message, nil)
}

// ErrLockedOut creates a 429 account locked error
func ErrLockedOut(message string) *AppError {
	if message == "" {
		message = "too many failed attempts"
	}
	return NewAppError(http.StatusTooManyRequests, CodeLockedOut, message, nil)
}

// Parameter error constructors

// ErrParamMissing creates a 400 parameter missing error
func ErrParamMissing(message string) *AppError {
	if message == "" {
		message = "parameter missing"
	}
	return NewAppError(http.StatusBadRequest, CodeParamMissing, message, nil)
}

// ErrParamInvalid creates a 400 parameter invalid error
func ErrParamInvalid(message string) *AppError {
	if message == "" {
		message = "parameter format error"
	}
	return NewAppError(http.StatusBadRequest, CodeParamInvalid, message, nil)
}

// ErrParamIllegal creates a 400 parameter illegal error
func ErrParamIllegal(message string) *AppError {
	if message == "" {
		message = "parameter value illegal"
	}
	return NewAppError(http.StatusBadRequest, CodeParamIllegal, message, nil)
}

// Resource/Business error constructors

// ErrNotFound creates a 404 not found error
func ErrNotFound(message string) *AppError {
	if message == "" {
		message = "resource not found"
	}
	return NewAppError(http.StatusNotFound, CodeNotFound, message, nil)
}

// ErrAlreadyExists creates a 409 already exists error
func ErrAlreadyExists(message string) *AppError {
	if message == "" {
		message = "resource already exists"
	}
	return NewAppError(http.StatusConflict, CodeAlreadyExists, message, nil)
}

// ErrStateConflict creates a 409 state conflict error
func ErrStateConflict(message string) *AppError {
	if message == "" {
		message = "current state does not allow operation"
	}
	return NewAppError(http.StatusConflict, CodeStateConflict, message, nil)
}

// Borrow lifecycle error constructors

// ErrNoCopiesAvailable creates a 409 no copies available error
func ErrNoCopiesAvailable(message string) *AppError {
	if message == "" {
		message = "no copies available"
	}
	return NewAppError(http.StatusConflict, CodeNoCopiesAvailable, message, nil)
}

// ErrDuplicateBorrow creates a 409 duplicate borrow error
func ErrDuplicateBorrow(message string) *AppError {
	if message == "" {
		message = "book already borrowed by this user"
	}
	return NewAppError(http.StatusConflict, CodeDuplicateBorrow, message, nil)
}

// ErrBorrowLimitExceeded creates a 409 borrow limit error
func ErrBorrowLimitExceeded(message string) *AppError {
	if message == "" {
		message = "maximum active borrows reached"
	}
	return NewAppError(http.StatusConflict, CodeBorrowLimitExceeded, message, nil)
}

// ErrAlreadyReturned creates a 409 already returned error
func ErrAlreadyReturned(message string) *AppError {
	if message == "" {
		message = "book already returned"
	}
	return NewAppError(http.StatusConflict, CodeAlreadyReturned, message, nil)
}

// Profile update workflow error constructors

// ErrReservedUsername creates a 403 reserved username error
func ErrReservedUsername(message string) *AppError {
	if message == "" {
		message = "username is reserved"
	}
	return NewAppError(http.StatusForbidden, CodeReservedUsername, message, nil)
}

// ErrNoFieldsProvided creates a 400 no fields provided error
func ErrNoFieldsProvided(message string) *AppError {
	if message == "" {
		message = "no fields provided for update"
	}
	return NewAppError(http.StatusBadRequest, CodeNoFieldsProvided, message, nil)
}

// ErrNoPendingRequest creates a 400 no pending request error
func ErrNoPendingRequest(message string) *AppError {
	if message == "" {
		message = "no pending update request found"
	}
	return NewAppError(http.StatusBadRequest, CodeNoPendingRequest, message, nil)
}

// ErrInvalidAction creates a 400 invalid action error
func ErrInvalidAction(message string) *AppError {
	if message == "" {
		message = "invalid action"
	}
	return NewAppError(http.StatusBadRequest, CodeInvalidAction, message, nil)
}

// System error constructors

// ErrInternalError creates a 500 internal error
func ErrInternalError(message string, err error) *AppError {
	if message == "" {
		message = "internal service error"
	}
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, err)
}

// ErrDatabaseError creates a 500 database error
func ErrDatabaseError(message string, err error) *AppError {
	if message == "" {
		message = "database error"
	}
	return NewAppError(http.StatusInternalServerError, CodeDatabaseError, message, err)
}
