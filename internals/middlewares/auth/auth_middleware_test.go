package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	userModel "schoolhub_backend/internals/features/users/user/model"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
)

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, token string) (bool, error) {
	return r[token], nil
}

func newApp(t *testing.T, revoked revokedSet) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	app := fiber.New()
	app.Get("/admin",
		authMiddleware.AuthJWT(db, revoked),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("this page"), constants.AdminOnly...),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)
	app.Get("/page", authMiddleware.RequirePageSession(constants.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("page")
	})
	return app, db
}

func get(t *testing.T, app *fiber.App, path, bearer string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthJWT_MissingToken(t *testing.T) {
	app, _ := newApp(t, revokedSet{})
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/admin", ""))
}

func TestAuthJWT_InvalidToken(t *testing.T) {
	app, _ := newApp(t, revokedSet{})
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/admin", "not-a-jwt"))
}

func TestAuthJWT_RevokedToken(t *testing.T) {
	revoked := revokedSet{}
	app, db := newApp(t, revoked)
	admin := dbtest.User(t, db, constants.RoleAdmin)
	tok := dbtest.Token(t, admin)
	revoked[tok] = true

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/admin", tok))
}

func TestOnlyRoles_ForbidsOtherRoles(t *testing.T) {
	app, db := newApp(t, revokedSet{})
	teacher := dbtest.User(t, db, constants.RoleTeacher)

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", dbtest.Token(t, teacher)))
}

func TestOnlyRoles_AllowsAdmin(t *testing.T) {
	app, db := newApp(t, revokedSet{})
	admin := dbtest.User(t, db, constants.RoleAdmin)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/admin", dbtest.Token(t, admin)))
}

func TestAuthJWT_InactiveUser(t *testing.T) {
	app, db := newApp(t, revokedSet{})
	admin := dbtest.User(t, db, constants.RoleAdmin, func(u *userModel.UserModel) { u.IsActive = false })

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", dbtest.Token(t, admin)))
}

func TestRequirePageSession_RedirectsToLogin(t *testing.T) {
	app, _ := newApp(t, revokedSet{})
	req := httptest.NewRequest("GET", "/page", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fpage", resp.Header.Get("Location"))
}

func TestRequirePageSession_AcceptsCookie(t *testing.T) {
	app, db := newApp(t, revokedSet{})
	admin := dbtest.User(t, db, constants.RoleAdmin)
	req := httptest.NewRequest("GET", "/page", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: dbtest.Token(t, admin)})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
