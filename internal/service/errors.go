package service

import (
	"github.com/pkg/errors"
)

// Domain errors returned by the service layer. Handlers match these with
// errors.Is and translate them to httpx responses; services wrap storage
// failures with errors.Wrap so the sentinel stays matchable.
var (
	ErrNotFound            = errors.New("record not found")
	ErrForbidden           = errors.New("not authorized for this record")
	ErrNoCopiesAvailable   = errors.New("no copies available")
	ErrDuplicateBorrow     = errors.New("book already borrowed by this user")
	ErrBorrowLimitExceeded = errors.New("maximum active borrows reached")
	ErrAlreadyReturned     = errors.New("book already returned")
	ErrInvalidState        = errors.New("operation not valid for current state")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrReservedUsername    = errors.New("username is reserved")
	ErrNoFieldsProvided    = errors.New("no fields provided for update")
	ErrNoPendingRequest    = errors.New("no pending update request found")
	ErrInvalidAction       = errors.New("invalid action")
)
