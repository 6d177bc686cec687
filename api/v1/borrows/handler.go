package borrows

import (
	"strconv"
	"time"

	"go_library/api/v1/middleware"
	"go_library/api/v1/respond"
	"go_library/internal/httpx"
	"go_library/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles borrow lifecycle endpoints
type Handler struct {
	svc *service.BorrowService
}

// NewHandler creates a new borrows handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{svc: service.NewBorrowService(db)}
}

// CreateRequest represents the borrow request body
type CreateRequest struct {
	BookID int `json:"bookId" binding:"required"`
}

// ExtendRequest represents the extend request body
type ExtendRequest struct {
	Days *int `json:"days"`
}

// Create borrows a book for the caller
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("bookId is required"))
		return
	}

	borrow, err := h.svc.Borrow(middleware.CallerID(c), req.BookID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.Created(c, borrow)
}

// Return closes a borrow, owner or staff only
func (h *Handler) Return(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid borrow id"))
		return
	}

	borrow, err := h.svc.Return(id, middleware.CallerID(c), middleware.CallerRole(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, borrow)
}

// Extend pushes the due date forward, default 5 days (admin/librarian)
func (h *Handler) Extend(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid borrow id"))
		return
	}

	var req ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	days := service.DefaultExtensionDays
	if req.Days != nil {
		days = *req.Days
	}

	borrow, err := h.svc.ExtendDueDate(id, days)
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OKMsg(c, "due date extended", borrow)
}

// My returns the caller's borrow history
func (h *Handler) My(c *gin.Context) {
	borrows, err := h.svc.ListByUser(middleware.CallerID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, borrows)
}

// Overdue returns all overdue borrows with days overdue (admin/librarian)
func (h *Handler) Overdue(c *gin.Context) {
	overdue, err := h.svc.ListOverdue(time.Now())
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, overdue)
}

// List returns every borrow record (admin)
func (h *Handler) List(c *gin.Context) {
	borrows, err := h.svc.ListAll()
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, borrows)
}

// Get returns a single borrow, owner or staff only
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid borrow id"))
		return
	}

	borrow, err := h.svc.Get(id, middleware.CallerID(c), middleware.CallerRole(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, borrow)
}
