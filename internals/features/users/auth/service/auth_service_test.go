package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	"schoolhub_backend/internals/features/users/auth/dto"
	"schoolhub_backend/internals/features/users/auth/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

type fakeGoogle struct {
	ident *service.GoogleIdentity
	err   error
}

func (f fakeGoogle) Verify(string) (*service.GoogleIdentity, error) { return f.ident, f.err }

func newService(t *testing.T) (*service.AuthService, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	svc := service.NewAuthService(db, service.NewDBBlacklist(db))
	svc.Secret = dbtest.TestSecret
	svc.TTL = time.Hour
	return svc, db
}

func registerReq() dto.RegisterRequest {
	return dto.RegisterRequest{
		UserName: "jane_parent",
		FullName: "Jane Parent",
		Email:    "Jane@Example.com",
		Password: "secret-pass",
	}
}

func TestRegister_CreatesParent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.Equal(t, constants.RoleParent, user.Role)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.True(t, user.IsActive)
}

func TestRegister_DuplicateIsConflict(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerReq())
	assert.True(t, errors.Is(err, helper.ErrConflict))
}

func TestRegister_ValidationNamesField(t *testing.T) {
	svc, _ := newService(t)
	req := registerReq()
	req.Email = "not-an-email"

	_, err := svc.Register(context.Background(), req)
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "email")
}

func TestLogin_ByEmailAndUserName(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	for _, ident := range []string{"jane@example.com", "jane_parent"} {
		resp, err := svc.Login(ctx, dto.LoginRequest{Identifier: ident, Password: "secret-pass"})
		require.NoError(t, err, ident)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, constants.RoleParent, resp.User.Role)
	}
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Identifier: "jane_parent", Password: "wrong-pass"})
	assert.True(t, errors.Is(err, helper.ErrUnauthorized))

	_, err = svc.Login(ctx, dto.LoginRequest{Identifier: "nobody", Password: "wrong-pass"})
	assert.True(t, errors.Is(err, helper.ErrUnauthorized))
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	resp, err := svc.Login(ctx, dto.LoginRequest{Identifier: "jane_parent", Password: "secret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken))
	require.NoError(t, svc.Logout(ctx, resp.AccessToken))

	revoked, err := svc.Blacklist.IsRevoked(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestBlacklistCleanup_RemovesExpired(t *testing.T) {
	_, db := newService(t)
	store := service.NewDBBlacklist(db)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "old", time.Now().Add(-time.Hour)))
	require.NoError(t, store.Revoke(ctx, "fresh", time.Now().Add(time.Hour)))

	n, err := store.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, err := store.IsRevoked(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLoginGoogle_LinksExistingUser(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	teacher := dbtest.User(t, db, constants.RoleTeacher)
	svc.Google = fakeGoogle{ident: &service.GoogleIdentity{Email: teacher.Email, Subject: "google-sub-1"}}

	resp, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, resp.User.ID)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, "id = ?", teacher.ID).Error)
	require.NotNil(t, reloaded.GoogleID)
	assert.Equal(t, "google-sub-1", *reloaded.GoogleID)
}

func TestLoginGoogle_UnknownEmail(t *testing.T) {
	svc, _ := newService(t)
	svc.Google = fakeGoogle{ident: &service.GoogleIdentity{Email: "ghost@example.com"}}

	_, err := svc.LoginGoogle(context.Background(), dto.GoogleLoginRequest{IDToken: "tok"})
	assert.True(t, errors.Is(err, helper.ErrUnauthorized))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{OldPassword: "bad", NewPassword: "another-pass"})
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{OldPassword: "secret-pass", NewPassword: "another-pass"}))
	_, err = svc.Login(ctx, dto.LoginRequest{Identifier: "jane_parent", Password: "another-pass"})
	assert.NoError(t, err)
}
