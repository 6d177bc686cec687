package service

import (
	stderrors "errors"
	"strings"

	"go_library/internal/auth"
	"go_library/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Username of the built-in system administrator. It cannot be modified by
// anyone else or deleted at all.
const SystemAdminUsername = "mitiku1"

// UserService manages user accounts
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UpdateUserParams carries the fields staff may change directly on a user
type UpdateUserParams struct {
	Name           *string
	Username       *string
	Email          *string
	Phone          *string
	ProfilePicture *string
	Bio            *string
	Role           *model.Role
	IsActive       *bool
}

// List returns all users, newest first
func (s *UserService) List() ([]model.User, error) {
	var users []model.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}

// Get returns a user by id, visible to staff or the user themselves
func (s *UserService) Get(id, actorUserID int, actorRole model.Role) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "user not found")
		}
		return nil, errors.Wrap(err, "failed to load user")
	}
	if user.ID != actorUserID && !actorRole.IsStaff() {
		return nil, errors.Wrap(ErrForbidden, "not authorized to view this user")
	}
	return &user, nil
}

// Update applies a direct staff edit to a user account. Role changes are
// admin-only, and the system admin account is immutable to everyone else.
func (s *UserService) Update(id int, actorUserID int, actorRole model.Role, params UpdateUserParams) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "user not found")
		}
		return nil, errors.Wrap(err, "failed to load user")
	}

	if user.Username == SystemAdminUsername && actorUserID != user.ID {
		return nil, errors.Wrap(ErrForbidden, "cannot modify the system administrator account")
	}
	if params.Role != nil && actorRole != model.RoleAdmin {
		return nil, errors.Wrap(ErrForbidden, "only admin can change user roles")
	}

	if params.Name != nil {
		user.Name = strings.TrimSpace(*params.Name)
	}
	if params.Username != nil {
		user.Username = strings.ToLower(strings.TrimSpace(*params.Username))
	}
	if params.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*params.Email))
	}
	if params.Phone != nil {
		user.Phone = *params.Phone
	}
	if params.ProfilePicture != nil {
		user.ProfilePicture = *params.ProfilePicture
	}
	if params.Bio != nil {
		user.Bio = *params.Bio
	}
	if params.Role != nil {
		if !params.Role.Valid() {
			return nil, errors.Wrap(ErrInvalidArgument, "unknown role")
		}
		user.Role = *params.Role
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save user")
	}
	return &user, nil
}

// Delete removes a user account. The system admin account and the caller's
// own account are protected.
func (s *UserService) Delete(id, actorUserID int) error {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(ErrNotFound, "user not found")
		}
		return errors.Wrap(err, "failed to load user")
	}

	if user.Username == SystemAdminUsername {
		return errors.Wrap(ErrForbidden, "cannot delete the system administrator account")
	}
	if user.ID == actorUserID {
		return errors.Wrap(ErrForbidden, "cannot delete your own account")
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return errors.Wrap(err, "failed to delete user")
	}
	return nil
}

// ChangePassword verifies the current password and sets a new one
func (s *UserService) ChangePassword(userID int, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return errors.Wrap(ErrInvalidArgument, "current and new password are required")
	}
	if len(newPassword) < 6 {
		return errors.Wrap(ErrInvalidArgument, "new password must be at least 6 characters")
	}

	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(ErrNotFound, "user not found")
		}
		return errors.Wrap(err, "failed to load user")
	}

	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return errors.Wrap(ErrForbidden, "current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	user.PasswordHash = hash

	if err := s.db.Save(&user).Error; err != nil {
		return errors.Wrap(err, "failed to save user")
	}
	return nil
}
