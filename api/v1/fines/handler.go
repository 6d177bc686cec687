package fines

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

// Handler handles fine endpoints
type Handler struct {
	svc *service.FineService
}

// NewHandler creates a new fines handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{svc: service.NewFineService(db)}
}

// PayRequest represents the payment request body
type PayRequest struct {
	Amount int `json:"amount" binding:"required"`
}

// Sweep raises fines for overdue borrows without one (admin/librarian).
// Safe to call repeatedly; existing fines are skipped.
func (h *Handler) Sweep(c *gin.Context) {
	created, err := h.svc.Sweep(time.Now())
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, gin.H{"created": created})
}

// My returns the caller's fines
func (h *Handler) My(c *gin.Context) {
	fines, err := h.svc.ListByUser(middleware.CallerID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, fines)
}

// Pay records a payment against a fine
func (h *Handler) Pay(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid fine id"))
		return
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("amount is required"))
		return
	}

	fine, err := h.svc.Pay(id, middleware.CallerID(c), middleware.CallerRole(c), req.Amount)
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, fine)
}

// Waive cancels the outstanding balance of a fine (admin)
func (h *Handler) Waive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid fine id"))
		return
	}

	fine, err := h.svc.Waive(id)
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, fine)
}
