package dbtest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	userModel "schoolhub_backend/internals/features/users/user/model"
)

func TestUser_InactiveIsStored(t *testing.T) {
	db := dbtest.New(t)
	off := dbtest.User(t, db, constants.RoleStudent, func(u *userModel.UserModel) { u.IsActive = false })
	on := dbtest.User(t, db, constants.RoleStudent)

	var stored userModel.UserModel
	require.NoError(t, db.First(&stored, "id = ?", off.ID).Error)
	assert.False(t, stored.IsActive)
	assert.False(t, off.IsActive)

	require.NoError(t, db.First(&stored, "id = ?", on.ID).Error)
	assert.True(t, stored.IsActive)

	var active int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Where("is_active = ?", true).Count(&active).Error)
	assert.EqualValues(t, 1, active)
}

func TestUser_CreateKeepsExplicitFalse(t *testing.T) {
	db := dbtest.New(t)
	u := userModel.UserModel{UserName: "plain", FullName: "Plain", Email: "plain@example.com", Role: constants.RoleParent}
	require.NoError(t, db.Create(&u).Error)

	var stored userModel.UserModel
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
	assert.False(t, stored.IsActive)
}
