package service

import (
	"testing"

	"go_library/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestProfileUpdate_StagesWithoutMutating(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedUser(t, db, "alice", model.RoleMember)
	user.Email = "old@example.com"
	require.NoError(t, db.Save(user).Error)

	result, err := svc.SubmitProfileUpdate(user.ID, model.RoleMember, map[ProfileField]string{
		FieldName:  "Alice Cooper",
		FieldEmail: "new@example.com",
	})
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Len(t, result.Fields, 2)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)

	// Live fields untouched
	assert.Equal(t, "Test alice", reloaded.Name)
	assert.Equal(t, "old@example.com", reloaded.Email)

	// Staged maps carry the same key set, new and old values
	assert.Equal(t, model.UpdateStatusPending, reloaded.UpdateStatus)
	require.NotNil(t, reloaded.UpdateRequestedAt)
	assert.Equal(t, "Alice Cooper", reloaded.PendingUpdate["name"])
	assert.Equal(t, "new@example.com", reloaded.PendingUpdate["email"])
	assert.Equal(t, "Test alice", reloaded.PendingOldValues["name"])
	assert.Equal(t, "old@example.com", reloaded.PendingOldValues["email"])
	assert.Len(t, reloaded.PendingOldValues, len(reloaded.PendingUpdate))
}

func TestApprove_CopiesExactlyStagedFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedUser(t, db, "alice", model.RoleMember)
	user.Bio = "original bio"
	require.NoError(t, db.Save(user).Error)

	_, err := svc.SubmitProfileUpdate(user.ID, model.RoleMember, map[ProfileField]string{
		FieldName: "Alice Cooper",
	})
	require.NoError(t, err)

	approved, err := svc.ApproveOrReject(user.ID, ActionApprove)
	require.NoError(t, err)

	assert.Equal(t, "Alice Cooper", approved.Name)
	assert.Equal(t, "original bio", approved.Bio) // untouched
	assert.Equal(t, model.UpdateStatusApproved, approved.UpdateStatus)
	assert.Empty(t, approved.PendingUpdate)
	assert.Empty(t, approved.PendingOldValues)
	assert.Nil(t, approved.UpdateRequestedAt)
}

func TestReject_LeavesRecordUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedUser(t, db, "alice", model.RoleMember)

	_, err := svc.SubmitProfileUpdate(user.ID, model.RoleMember, map[ProfileField]string{
		FieldName: "Alice Cooper",
	})
	require.NoError(t, err)

	rejected, err := svc.ApproveOrReject(user.ID, ActionReject)
	require.NoError(t, err)

	assert.Equal(t, "Test alice", rejected.Name)
	assert.Equal(t, model.UpdateStatusRejected, rejected.UpdateStatus)
	assert.Empty(t, rejected.PendingUpdate)
	assert.Empty(t, rejected.PendingOldValues)
	assert.Nil(t, rejected.UpdateRequestedAt)
}

func TestApproveOrReject_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedUser(t, db, "alice", model.RoleMember)

	_, err := svc.ApproveOrReject(user.ID, "frobnicate")
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.ApproveOrReject(9999, ActionApprove)
	assert.ErrorIs(t, err, ErrNotFound)

	// No staged request
	_, err = svc.ApproveOrReject(user.ID, ActionApprove)
	assert.ErrorIs(t, err, ErrNoPendingRequest)
}

func TestAdminUpdate_AppliesImmediately(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	admin := seedUser(t, db, "root", model.RoleAdmin)

	result, err := svc.SubmitProfileUpdate(admin.ID, model.RoleAdmin, map[ProfileField]string{
		FieldBio: "head librarian",
	})
	require.NoError(t, err)
	assert.True(t, result.Applied)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, admin.ID).Error)
	assert.Equal(t, "head librarian", reloaded.Bio)
	assert.Equal(t, model.UpdateStatusNone, reloaded.UpdateStatus)
	assert.Empty(t, reloaded.PendingUpdate)
	assert.Nil(t, reloaded.UpdateRequestedAt)
}

func TestRequestUpdate_ReservedUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedUser(t, db, "alice", model.RoleMember)

	_, err := svc.SubmitProfileUpdate(user.ID, model.RoleMember, map[ProfileField]string{
		FieldUsername: "  Admin ",
	})
	assert.ErrorIs(t, err, ErrReservedUsername)
}

func TestRequestUpdate_KeepingOwnUsernameAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedUser(t, db, "mitiku", model.RoleMember)

	// Re-submitting the current username is not a reserved-name violation
	_, err := svc.SubmitProfileUpdate(user.ID, model.RoleMember, map[ProfileField]string{
		FieldUsername: "mitiku",
		FieldBio:      "still me",
	})
	assert.NoError(t, err)
}

func TestRequestUpdate_NoFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedUser(t, db, "alice", model.RoleMember)

	_, err := svc.SubmitProfileUpdate(user.ID, model.RoleMember, map[ProfileField]string{})
	assert.ErrorIs(t, err, ErrNoFieldsProvided)
}

func TestListPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	alice := seedUser(t, db, "alice", model.RoleMember)
	seedUser(t, db, "bob", model.RoleMember)

	_, err := svc.SubmitProfileUpdate(alice.ID, model.RoleMember, map[ProfileField]string{
		FieldPhone: "+251900000000",
	})
	require.NoError(t, err)

	pending, err := svc.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	assert.Equal(t, alice.ID, pending[0].UserID)
	assert.Equal(t, []string{"phone"}, pending[0].PendingFields)
	assert.Equal(t, "+251900000000", pending[0].NewValues["phone"])
	assert.Equal(t, "", pending[0].OldValues["phone"])
}
