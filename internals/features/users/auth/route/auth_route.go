// internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/features/users/auth/controller"
	"schoolhub_backend/internals/features/users/auth/service"
	"schoolhub_backend/internals/middlewares"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB, svc *service.AuthService) {
	authController := controller.NewAuthController(svc)

	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/login", middlewares.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", middlewares.LoginRateLimiter(), authController.LoginGoogle)
	baseAuth.Post("/register", middlewares.RegisterRateLimiter(), authController.Register)

	requireAuth := authMiddleware.AuthJWT(db, svc.Blacklist)
	baseAuth.Post("/logout", requireAuth, authController.Logout)
	baseAuth.Get("/me", requireAuth, authController.Me)
	baseAuth.Post("/change-password", requireAuth, authController.ChangePassword)
}
