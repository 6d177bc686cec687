// Package respond translates service-layer errors into the unified
// httpx response envelope.
package respond

import (
	"errors"

	"go_library/internal/httpx"
	"go_library/internal/service"

	"github.com/gin-gonic/gin"
)

// Err maps a service error to its httpx response and sends it
func Err(c *gin.Context, err error) {
	httpx.FailErr(c, toAppError(err))
}

func toAppError(err error) *httpx.AppError {
	msg := rootMessage(err)

	switch {
	case errors.Is(err, service.ErrNotFound):
		return httpx.ErrNotFound(msg)
	case errors.Is(err, service.ErrForbidden):
		return httpx.ErrForbidden(msg)
	case errors.Is(err, service.ErrNoCopiesAvailable):
		return httpx.ErrNoCopiesAvailable(msg)
	case errors.Is(err, service.ErrDuplicateBorrow):
		return httpx.ErrDuplicateBorrow(msg)
	case errors.Is(err, service.ErrBorrowLimitExceeded):
		return httpx.ErrBorrowLimitExceeded(msg)
	case errors.Is(err, service.ErrAlreadyReturned):
		return httpx.ErrAlreadyReturned(msg)
	case errors.Is(err, service.ErrInvalidState):
		return httpx.ErrStateConflict(msg)
	case errors.Is(err, service.ErrInvalidArgument):
		return httpx.ErrParamIllegal(msg)
	case errors.Is(err, service.ErrReservedUsername):
		return httpx.ErrReservedUsername(msg)
	case errors.Is(err, service.ErrNoFieldsProvided):
		return httpx.ErrNoFieldsProvided(msg)
	case errors.Is(err, service.ErrNoPendingRequest):
		return httpx.ErrNoPendingRequest(msg)
	case errors.Is(err, service.ErrInvalidAction):
		return httpx.ErrInvalidAction(msg)
	default:
		return httpx.ErrDatabaseError("", err)
	}
}

// rootMessage keeps the wrapped context ("book not found") without leaking
// storage internals for unexpected errors.
func rootMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
