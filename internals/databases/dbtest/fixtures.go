package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

const TestSecret = "test-secret"

// User inserts an active user with the given role; mutate adjusts the row before insert.
func User(t testing.TB, db *gorm.DB, role string, mutate ...func(u *userModel.UserModel)) *userModel.UserModel {
	t.Helper()
	n := seq.Add(1)
	u := &userModel.UserModel{
		ID:       uuid.New(),
		UserName: fmt.Sprintf("%s_%d", role, n),
		FullName: fmt.Sprintf("Test %s %d", role, n),
		Email:    fmt.Sprintf("%s%d@example.com", role, n),
		Role:     role,
		IsActive: true,
	}
	for _, m := range mutate {
		m(u)
	}
	active := u.IsActive
	require.NoError(t, db.Create(u).Error)
	if !active {
		require.NoError(t, db.Model(u).Update("is_active", false).Error)
		u.IsActive = false
	}
	return u
}

// Token signs an access token for u with the shared test secret.
func Token(t testing.TB, u *userModel.UserModel) string {
	t.Helper()
	configs.JWTSecret = TestSecret
	tok, _, err := helperAuth.IssueToken(TestSecret, u.ID, u.Role, u.UserName, time.Hour, time.Now().UTC())
	require.NoError(t, err)
	return tok
}
