package httpx

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	e := NewAppError(http.StatusNotFound, CodeNotFound, "book not found", nil)
	if got := e.Error(); got != "code=3001, message=book not found" {
		t.Errorf("Error() = %q", got)
	}

	e = NewAppError(http.StatusInternalServerError, CodeDatabaseError, "query failed", errors.New("boom"))
	if got := e.Error(); !strings.Contains(got, "err=boom") {
		t.Errorf("Error() = %q, want internal error included", got)
	}
}

func TestAppError_WithData(t *testing.T) {
	e := ErrParamInvalid("bad field").WithData(map[string]string{"field": "isbn"})
	data, ok := e.Data.(map[string]string)
	if !ok || data["field"] != "isbn" {
		t.Errorf("WithData() did not attach data, got %v", e.Data)
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		httpStatus int
		code       int
	}{
		{"unauthorized", ErrUnauthorized(""), http.StatusUnauthorized, CodeUnauthorized},
		{"invalid token", ErrInvalidToken(""), http.StatusUnauthorized, CodeInvalidToken},
		{"token expired", ErrTokenExpired(""), http.StatusUnauthorized, CodeTokenExpired},
		{"forbidden", ErrForbidden(""), http.StatusForbidden, CodeForbidden},
		{"locked out", ErrLockedOut(""), http.StatusTooManyRequests, CodeLockedOut},
		{"param missing", ErrParamMissing(""), http.StatusBadRequest, CodeParamMissing},
		{"not found", ErrNotFound(""), http.StatusNotFound, CodeNotFound},
		{"already exists", ErrAlreadyExists(""), http.StatusConflict, CodeAlreadyExists},
		{"no copies", ErrNoCopiesAvailable(""), http.StatusConflict, CodeNoCopiesAvailable},
		{"duplicate borrow", ErrDuplicateBorrow(""), http.StatusConflict, CodeDuplicateBorrow},
		{"borrow limit", ErrBorrowLimitExceeded(""), http.StatusConflict, CodeBorrowLimitExceeded},
		{"already returned", ErrAlreadyReturned(""), http.StatusConflict, CodeAlreadyReturned},
		{"reserved username", ErrReservedUsername(""), http.StatusForbidden, CodeReservedUsername},
		{"no fields", ErrNoFieldsProvided(""), http.StatusBadRequest, CodeNoFieldsProvided},
		{"no pending request", ErrNoPendingRequest(""), http.StatusBadRequest, CodeNoPendingRequest},
		{"invalid action", ErrInvalidAction(""), http.StatusBadRequest, CodeInvalidAction},
		{"internal", ErrInternalError("", nil), http.StatusInternalServerError, CodeInternalError},
		{"database", ErrDatabaseError("", nil), http.StatusInternalServerError, CodeDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.HTTPStatus != tt.httpStatus {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.httpStatus)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("empty message not replaced with default")
			}
		})
	}
}

func TestErrorConstructors_CustomMessage(t *testing.T) {
	e := ErrDuplicateBorrow("you already hold this title")
	if e.Message != "you already hold this title" {
		t.Errorf("Message = %q", e.Message)
	}
}
