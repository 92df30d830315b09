package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "schoolhub_backend/internals/features/users/auth/route"
	authService "schoolhub_backend/internals/features/users/auth/service"
)

func AuthRoutes(app *fiber.App, db *gorm.DB, svc *authService.AuthService) {
	authRoute.AuthRoutes(app, db, svc)
}
