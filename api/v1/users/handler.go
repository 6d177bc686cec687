package users

import (
	"strconv"

	"go_library/api/v1/middleware"
	"go_library/api/v1/respond"
	"go_library/internal/httpx"
	"go_library/internal/model"
	"go_library/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles user account and profile workflow endpoints
type Handler struct {
	users    *service.UserService
	profiles *service.ProfileService
}

// NewHandler creates a new users handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		users:    service.NewUserService(db),
		profiles: service.NewProfileService(db),
	}
}

// RequestUpdateRequest carries the profile fields a user wants changed
type RequestUpdateRequest struct {
	Name           *string `json:"name"`
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
}

// ApproveUpdateRequest carries the admin's decision
type ApproveUpdateRequest struct {
	Action string `json:"action" binding:"required"`
}

// UpdateUserRequest is the staff direct-edit request body
type UpdateUserRequest struct {
	Name           *string `json:"name"`
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	ProfilePicture *string `json:"profilePicture"`
	Bio            *string `json:"bio"`
	Role           *string `json:"role"`
	IsActive       *bool   `json:"isActive"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// List returns all users (admin)
func (h *Handler) List(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, users)
}

// Get returns a user, staff or self only
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
		return
	}

	user, err := h.users.Get(id, middleware.CallerID(c), middleware.CallerRole(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, user)
}

// RequestUpdate submits a profile change for the caller. Admin changes are
// applied immediately; everyone else's are staged for approval.
func (h *Handler) RequestUpdate(c *gin.Context) {
	var req RequestUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	updates := map[service.ProfileField]string{}
	collect := func(field service.ProfileField, value *string) {
		if value != nil {
			updates[field] = *value
		}
	}
	collect(service.FieldName, req.Name)
	collect(service.FieldUsername, req.Username)
	collect(service.FieldEmail, req.Email)
	collect(service.FieldPhone, req.Phone)
	collect(service.FieldBio, req.Bio)
	collect(service.FieldProfilePicture, req.ProfilePicture)

	result, err := h.profiles.SubmitProfileUpdate(middleware.CallerID(c), middleware.CallerRole(c), updates)
	if err != nil {
		respond.Err(c, err)
		return
	}

	if result.Applied {
		httpx.OKMsg(c, "profile updated successfully", result)
		return
	}
	httpx.OKMsg(c, "profile update request submitted, waiting for admin approval", result)
}

// ApproveUpdate resolves a pending profile update request (admin)
func (h *Handler) ApproveUpdate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
		return
	}

	var req ApproveUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("action is required"))
		return
	}

	user, err := h.profiles.ApproveOrReject(id, req.Action)
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OKMsg(c, "update request "+req.Action+"d successfully", gin.H{
		"status": user.UpdateStatus,
	})
}

// PendingUpdates lists users with staged profile changes (admin)
func (h *Handler) PendingUpdates(c *gin.Context) {
	pending, err := h.profiles.ListPending()
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, pending)
}

// Update applies a direct staff edit to a user account
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	params := service.UpdateUserParams{
		Name:           req.Name,
		Username:       req.Username,
		Email:          req.Email,
		Phone:          req.Phone,
		ProfilePicture: req.ProfilePicture,
		Bio:            req.Bio,
		IsActive:       req.IsActive,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		params.Role = &role
	}

	user, err := h.users.Update(id, middleware.CallerID(c), middleware.CallerRole(c), params)
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, user)
}

// Delete removes a user account (admin)
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
		return
	}

	if err := h.users.Delete(id, middleware.CallerID(c)); err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OKMsg(c, "user deleted successfully", nil)
}

// ChangePassword changes the caller's own password
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("current and new password are required"))
		return
	}

	if err := h.users.ChangePassword(middleware.CallerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OKMsg(c, "password changed successfully, please log in again", nil)
}
