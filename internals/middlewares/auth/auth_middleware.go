// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
	userModel "schoolhub_backend/internals/features/users/user/model"
)

// TokenChecker reports whether a raw token was revoked by logout.
type TokenChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Public webhook paths that skip auth
var skipPaths = map[string]struct{}{
	"/api/payments/notification": {},
}

// AuthJWT verifies the access token, rejects revoked tokens and inactive users,
// then stores user_id, userRole and user_name in locals.
func AuthJWT(db *gorm.DB, checker TokenChecker) fiber.Handler {
	log := configs.Logger("auth")
	return func(c *fiber.Ctx) error {
		if _, ok := skipPaths[c.Path()]; ok {
			return c.Next()
		}

		raw := helperAuth.ExtractToken(c)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - No token provided")
		}

		claims, err := helperAuth.ParseToken(configs.JWTSecret, raw)
		if err != nil {
			log.Debug().Err(err).Msg("[AUTH][PARSE] rejected token")
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Invalid or expired token")
		}

		if checker != nil {
			revoked, err := checker.IsRevoked(c.UserContext(), raw)
			if err != nil {
				log.Error().Err(err).Msg("[AUTH][BLACKLIST] lookup failed")
				return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
			}
			if revoked {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token is revoked")
			}
		}

		var user userModel.UserModel
		err = db.WithContext(c.UserContext()).
			Select("id", "role", "user_name", "is_active").
			First(&user, "id = ?", claims.ID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			log.Error().Err(err).Msg("[AUTH][USER] lookup failed")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
		}
		if !user.IsActive {
			return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
		}

		c.Locals(helperAuth.LocalUserID, user.ID.String())
		c.Locals(helperAuth.LocalRole, user.Role)
		c.Locals(helperAuth.LocalUserName, user.UserName)
		c.Locals(helperAuth.LocalToken, raw)
		return c.Next()
	}
}
