package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"go_library/internal/auth"
	"go_library/internal/config"
	"go_library/internal/httpx"
	"go_library/internal/model"
	"go_library/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Usernames that can never be self-registered
var reservedUsernames = []string{"mitiku", "mitiku1", "admin", "superadmin"}

// Handler handles authentication endpoints
type Handler struct {
	db       *gorm.DB
	cfg      *config.Config
	sessions *session.Store
}

// NewHandler creates a new auth handler
func NewHandler(db *gorm.DB, cfg *config.Config, sessions *session.Store) *Handler {
	return &Handler{db: db, cfg: cfg, sessions: sessions}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Role     string `json:"role"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents issued tokens plus user info
type TokenResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpireAt     string   `json:"expireAt"`
	User         UserInfo `json:"user"`
}

// UserInfo represents user information in auth responses
type UserInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register handles user self-registration
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	if len(req.Password) < 6 {
		httpx.FailErr(c, httpx.ErrParamIllegal("password must be at least 6 characters"))
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	for _, reserved := range reservedUsernames {
		if username == reserved {
			httpx.FailErr(c, httpx.ErrReservedUsername("this username is reserved, contact the system administrator"))
			return
		}
	}

	// Self-registration never grants staff roles beyond librarian
	role := model.RoleMember
	switch req.Role {
	case "", string(model.RoleMember):
	case string(model.RoleLibrarian):
		role = model.RoleLibrarian
	default:
		httpx.FailErr(c, httpx.ErrForbidden("only member or librarian roles are allowed during registration"))
		return
	}

	var count int64
	if err := h.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	if count > 0 {
		httpx.FailErr(c, httpx.ErrAlreadyExists("username already taken"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" {
		if err := h.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("", err))
			return
		}
		if count > 0 {
			httpx.FailErr(c, httpx.ErrAlreadyExists("email already in use"))
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to hash password", err))
		return
	}

	user := model.User{
		Name:         strings.TrimSpace(req.Name),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Phone:        req.Phone,
		Bio:          req.Bio,
	}
	if err := h.db.Create(&user).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to create user", err))
		return
	}

	tokens, err := h.issueTokens(c, &user)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to issue tokens", err))
		return
	}

	httpx.Created(c, tokens)
}

// Login handles user login with lockout after repeated failures
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	var user model.User
	if err := h.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error for unknown user and wrong password
			httpx.FailErr(c, httpx.ErrInvalidToken("invalid username or password"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}

	if !user.IsActive {
		httpx.FailErr(c, httpx.ErrForbidden("user is inactive"))
		return
	}

	now := time.Now()
	if user.IsLocked(now) {
		httpx.FailErr(c, httpx.ErrLockedOut("too many failed attempts, try again in 15 minutes"))
		return
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		if err := h.db.Model(&user).Updates(map[string]interface{}{
			"failed_login_attempts": gorm.Expr("failed_login_attempts + 1"),
			"last_failed_login":     now,
		}).Error; err != nil {
			log.Printf("[Auth] failed to record login failure for %s: %v", username, err)
		}
		httpx.FailErr(c, httpx.ErrInvalidToken("invalid username or password"))
		return
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"last_login":            now,
	}).Error; err != nil {
		log.Printf("[Auth] failed to reset login counters for %s: %v", username, err)
	}

	tokens, err := h.issueTokens(c, &user)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to issue tokens", err))
		return
	}

	httpx.OK(c, tokens)
}

// Refresh exchanges a valid refresh token for a new access token
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	claims, err := auth.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		httpx.FailErr(c, httpx.ErrInvalidToken("invalid or expired refresh token"))
		return
	}

	ok, err := h.sessions.ValidateRefreshToken(c.Request.Context(), claims.UID, req.RefreshToken)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to validate session", err))
		return
	}
	if !ok {
		httpx.FailErr(c, httpx.ErrInvalidToken("invalid or expired refresh token"))
		return
	}

	expireAt := time.Now().Add(time.Duration(h.cfg.JWT.AccessExpireMinutes) * time.Minute)
	access, err := auth.GenerateToken(claims.UID, claims.Username, claims.Role, auth.TokenTypeAccess, expireAt, h.cfg.JWT.Issuer)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to generate token", err))
		return
	}

	httpx.OK(c, gin.H{
		"accessToken": access,
		"expireAt":    expireAt.Format(time.RFC3339),
	})
}

// Logout invalidates the caller's refresh token
func (h *Handler) Logout(c *gin.Context) {
	uid := c.GetInt("uid")
	if err := h.sessions.DeleteRefreshToken(c.Request.Context(), uid); err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to delete session", err))
		return
	}
	httpx.OKMsg(c, "logged out successfully", nil)
}

// Me returns the current user's profile
func (h *Handler) Me(c *gin.Context) {
	uid := c.GetInt("uid")

	var user model.User
	if err := h.db.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("user not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}

	httpx.OK(c, user)
}

func (h *Handler) issueTokens(c *gin.Context, user *model.User) (*TokenResponse, error) {
	accessExpire := time.Now().Add(time.Duration(h.cfg.JWT.AccessExpireMinutes) * time.Minute)
	access, err := auth.GenerateToken(user.ID, user.Username, string(user.Role), auth.TokenTypeAccess, accessExpire, h.cfg.JWT.Issuer)
	if err != nil {
		return nil, err
	}

	refreshTTL := time.Duration(h.cfg.JWT.RefreshExpireHours) * time.Hour
	refresh, err := auth.GenerateToken(user.ID, user.Username, string(user.Role), auth.TokenTypeRefresh, time.Now().Add(refreshTTL), h.cfg.JWT.Issuer)
	if err != nil {
		return nil, err
	}

	if err := h.sessions.SaveRefreshToken(c.Request.Context(), user.ID, refresh, refreshTTL); err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpireAt:     accessExpire.Format(time.RFC3339),
		User: UserInfo{
			ID:       user.ID,
			Name:     user.Name,
			Username: user.Username,
			Role:     string(user.Role),
		},
	}, nil
}
