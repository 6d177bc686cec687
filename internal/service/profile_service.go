package service

import (
	stderrors "errors"
	"strings"
	"time"

	"go_library/internal/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileField names a user profile field that may be changed through the
// update workflow. Anything outside this set cannot be staged or applied.
type ProfileField string

const (
	FieldName           ProfileField = "name"
	FieldUsername       ProfileField = "username"
	FieldEmail          ProfileField = "email"
	FieldPhone          ProfileField = "phone"
	FieldBio            ProfileField = "bio"
	FieldProfilePicture ProfileField = "profilePicture"
)

// AllProfileFields lists the updatable fields in a stable order
var AllProfileFields = []ProfileField{
	FieldName, FieldUsername, FieldEmail, FieldPhone, FieldBio, FieldProfilePicture,
}

// ParseProfileField validates a field name from a request payload
func ParseProfileField(name string) (ProfileField, bool) {
	f := ProfileField(name)
	for _, known := range AllProfileFields {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Usernames nobody may change to
var reservedUsernames = []string{"mitiku", "mitiku1", "admin"}

// Approval actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ProfileService manages the staged profile update workflow
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new profile service
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// UpdateResult reports what a submit did
type UpdateResult struct {
	Applied bool           `json:"applied"` // true when changes took effect immediately
	Fields  []ProfileField `json:"fields"`
}

// PendingRequest is one user's staged update, for admin review
type PendingRequest struct {
	UserID        int               `json:"user_id"`
	Name          string            `json:"name"`
	Username      string            `json:"username"`
	PendingFields []string          `json:"pending_fields"`
	NewValues     map[string]string `json:"new_values"`
	OldValues     map[string]string `json:"old_values"`
	RequestedAt   *time.Time        `json:"requested_at"`
}

// SubmitProfileUpdate dispatches a profile change request: admins get their
// changes applied immediately, everyone else gets a staged request awaiting
// admin approval.
func (s *ProfileService) SubmitProfileUpdate(userID int, role model.Role, updates map[ProfileField]string) (*UpdateResult, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	if err := s.checkReservedUsername(user, updates); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsProvided
	}

	if role == model.RoleAdmin {
		return s.ApplyProfileUpdate(user, updates)
	}
	return s.RequestProfileUpdate(user, updates)
}

// ApplyProfileUpdate writes the changes straight onto the user record and
// clears any leftover pending state.
func (s *ProfileService) ApplyProfileUpdate(user *model.User, updates map[ProfileField]string) (*UpdateResult, error) {
	fields := make([]ProfileField, 0, len(updates))
	for field, value := range updates {
		applyProfileField(user, field, value)
		fields = append(fields, field)
	}

	user.PendingUpdate = datatypes.JSONMap{}
	user.PendingOldValues = datatypes.JSONMap{}
	user.UpdateRequestedAt = nil
	user.UpdateStatus = model.UpdateStatusNone

	if err := s.db.Save(user).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save user")
	}
	return &UpdateResult{Applied: true, Fields: fields}, nil
}

// RequestProfileUpdate stages the changes for admin approval without
// touching the live profile fields. Old values are captured alongside the
// new ones so the reviewer sees both.
func (s *ProfileService) RequestProfileUpdate(user *model.User, updates map[ProfileField]string) (*UpdateResult, error) {
	pending := datatypes.JSONMap{}
	oldValues := datatypes.JSONMap{}
	fields := make([]ProfileField, 0, len(updates))

	for field, value := range updates {
		pending[string(field)] = value
		oldValues[string(field)] = currentProfileValue(user, field)
		fields = append(fields, field)
	}

	now := time.Now()
	user.PendingUpdate = pending
	user.PendingOldValues = oldValues
	user.UpdateRequestedAt = &now
	user.UpdateStatus = model.UpdateStatusPending

	if err := s.db.Save(user).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save user")
	}
	return &UpdateResult{Applied: false, Fields: fields}, nil
}

// ApproveOrReject resolves a pending update request. Approve copies every
// staged field onto the user; reject leaves the profile untouched. Both
// clear the staged maps and the request timestamp.
func (s *ProfileService) ApproveOrReject(targetUserID int, action string) (*model.User, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, errors.Wrapf(ErrInvalidAction, "use %q or %q", ActionApprove, ActionReject)
	}

	user, err := s.loadUser(targetUserID)
	if err != nil {
		return nil, err
	}

	if user.UpdateStatus != model.UpdateStatusPending {
		return nil, ErrNoPendingRequest
	}

	if action == ActionApprove {
		for key, value := range user.PendingUpdate {
			field, ok := ParseProfileField(key)
			if !ok {
				continue
			}
			str, ok := value.(string)
			if !ok {
				continue
			}
			applyProfileField(user, field, str)
		}
		user.UpdateStatus = model.UpdateStatusApproved
	} else {
		user.UpdateStatus = model.UpdateStatusRejected
	}

	user.PendingUpdate = datatypes.JSONMap{}
	user.PendingOldValues = datatypes.JSONMap{}
	user.UpdateRequestedAt = nil

	if err := s.db.Save(user).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save user")
	}
	return user, nil
}

// ListPending returns every user with a pending update request
func (s *ProfileService) ListPending() ([]PendingRequest, error) {
	var users []model.User
	if err := s.db.
		Where("update_status = ?", model.UpdateStatusPending).
		Order("update_requested_at ASC").
		Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list pending updates")
	}

	requests := make([]PendingRequest, 0, len(users))
	for i := range users {
		u := &users[i]
		req := PendingRequest{
			UserID:      u.ID,
			Name:        u.Name,
			Username:    u.Username,
			NewValues:   stringMap(u.PendingUpdate),
			OldValues:   stringMap(u.PendingOldValues),
			RequestedAt: u.UpdateRequestedAt,
		}
		for _, field := range AllProfileFields {
			if _, ok := req.NewValues[string(field)]; ok {
				req.PendingFields = append(req.PendingFields, string(field))
			}
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (s *ProfileService) loadUser(userID int) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "user not found")
		}
		return nil, errors.Wrap(err, "failed to load user")
	}
	return &user, nil
}

// checkReservedUsername rejects a username change to a reserved name.
// Keeping one's own current username is allowed.
func (s *ProfileService) checkReservedUsername(user *model.User, updates map[ProfileField]string) error {
	newUsername, ok := updates[FieldUsername]
	if !ok {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(newUsername))
	if normalized == strings.ToLower(user.Username) {
		return nil
	}
	for _, reserved := range reservedUsernames {
		if normalized == reserved {
			return errors.Wrap(ErrReservedUsername, "cannot use reserved username")
		}
	}
	return nil
}

func applyProfileField(user *model.User, field ProfileField, value string) {
	switch field {
	case FieldName:
		user.Name = value
	case FieldUsername:
		user.Username = strings.ToLower(strings.TrimSpace(value))
	case FieldEmail:
		user.Email = value
	case FieldPhone:
		user.Phone = value
	case FieldBio:
		user.Bio = value
	case FieldProfilePicture:
		user.ProfilePicture = value
	}
}

func currentProfileValue(user *model.User, field ProfileField) string {
	switch field {
	case FieldName:
		return user.Name
	case FieldUsername:
		return user.Username
	case FieldEmail:
		return user.Email
	case FieldPhone:
		return user.Phone
	case FieldBio:
		return user.Bio
	case FieldProfilePicture:
		return user.ProfilePicture
	}
	return ""
}

func stringMap(m datatypes.JSONMap) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
