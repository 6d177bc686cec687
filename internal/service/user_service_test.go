package service

import (
	"testing"

	"go_library/internal/auth"
	"go_library/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser_Visibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	alice := seedUser(t, db, "alice", model.RoleMember)
	bob := seedUser(t, db, "bob", model.RoleMember)
	librarian := seedUser(t, db, "carol", model.RoleLibrarian)

	// Self
	got, err := svc.Get(alice.ID, alice.ID, model.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	// Staff
	_, err = svc.Get(alice.ID, librarian.ID, model.RoleLibrarian)
	assert.NoError(t, err)

	// Another member
	_, err = svc.Get(alice.ID, bob.ID, model.RoleMember)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(9999, librarian.ID, model.RoleLibrarian)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_RoleChangeAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	alice := seedUser(t, db, "alice", model.RoleMember)
	librarian := seedUser(t, db, "carol", model.RoleLibrarian)
	admin := seedUser(t, db, "root", model.RoleAdmin)

	newRole := model.RoleLibrarian
	_, err := svc.Update(alice.ID, librarian.ID, model.RoleLibrarian, UpdateUserParams{Role: &newRole})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(alice.ID, admin.ID, model.RoleAdmin, UpdateUserParams{Role: &newRole})
	require.NoError(t, err)
	assert.Equal(t, model.RoleLibrarian, updated.Role)

	badRole := model.Role("janitor")
	_, err = svc.Update(alice.ID, admin.ID, model.RoleAdmin, UpdateUserParams{Role: &badRole})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateUser_SystemAdminImmutable(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	sysadmin := seedUser(t, db, SystemAdminUsername, model.RoleAdmin)
	other := seedUser(t, db, "root", model.RoleAdmin)

	name := "New Name"
	_, err := svc.Update(sysadmin.ID, other.ID, model.RoleAdmin, UpdateUserParams{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	// The account holder may still edit their own profile
	updated, err := svc.Update(sysadmin.ID, sysadmin.ID, model.RoleAdmin, UpdateUserParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
}

func TestDeleteUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	sysadmin := seedUser(t, db, SystemAdminUsername, model.RoleAdmin)
	admin := seedUser(t, db, "root", model.RoleAdmin)
	alice := seedUser(t, db, "alice", model.RoleMember)

	assert.ErrorIs(t, svc.Delete(sysadmin.ID, admin.ID), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(admin.ID, admin.ID), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(9999, admin.ID), ErrNotFound)

	require.NoError(t, svc.Delete(alice.ID, admin.ID))
	_, err := svc.Get(alice.ID, admin.ID, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	alice := seedUser(t, db, "alice", model.RoleMember)

	hash, err := auth.HashPassword("oldpassword")
	require.NoError(t, err)
	alice.PasswordHash = hash
	require.NoError(t, db.Save(alice).Error)

	assert.ErrorIs(t, svc.ChangePassword(alice.ID, "", "newpassword"), ErrInvalidArgument)
	assert.ErrorIs(t, svc.ChangePassword(alice.ID, "oldpassword", "short"), ErrInvalidArgument)
	assert.ErrorIs(t, svc.ChangePassword(alice.ID, "wrongpassword", "newpassword"), ErrForbidden)

	require.NoError(t, svc.ChangePassword(alice.ID, "oldpassword", "newpassword"))

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, alice.ID).Error)
	assert.NoError(t, auth.ComparePassword(reloaded.PasswordHash, "newpassword"))
}
