package model

import (
	"time"

	"gorm.io/datatypes"
)

// Role represents a user role
type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// IsStaff reports whether the role grants librarian-level access
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

// UpdateStatus represents the state of a pending profile update request
type UpdateStatus string

const (
	UpdateStatusNone     UpdateStatus = "none"
	UpdateStatusPending  UpdateStatus = "pending"
	UpdateStatusApproved UpdateStatus = "approved"
	UpdateStatusRejected UpdateStatus = "rejected"
)

// Login lockout policy
const (
	MaxFailedLoginAttempts = 5
	LockoutDuration        = 15 * time.Minute
)

// User represents a library member, librarian or admin
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Username     string `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255);index" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(32);default:'member';index" json:"role"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login"`

	ProfilePicture string `gorm:"type:varchar(512)" json:"profile_picture"`
	Bio            string `gorm:"type:varchar(500)" json:"bio"`
	Phone          string `gorm:"type:varchar(20)" json:"phone"`

	// Staged profile changes awaiting admin approval. PendingUpdate and
	// PendingOldValues always carry the same key set while UpdateStatus
	// is pending; both are emptied when the request is resolved.
	PendingUpdate     datatypes.JSONMap `json:"pending_update"`
	PendingOldValues  datatypes.JSONMap `json:"pending_old_values"`
	UpdateRequestedAt *time.Time        `json:"update_requested_at"`
	UpdateStatus      UpdateStatus      `gorm:"type:varchar(16);default:'none';index" json:"update_status"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsLocked reports whether the account is locked out at the given time
func (u *User) IsLocked(now time.Time) bool {
	return u.FailedLoginAttempts >= MaxFailedLoginAttempts &&
		u.LastFailedLogin != nil &&
		now.Sub(*u.LastFailedLogin) < LockoutDuration
}
