package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	authService "schoolhub_backend/internals/features/users/auth/service"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	routeDetails "schoolhub_backend/internals/route/details"
)

var startTime time.Time

// Services is every feature service the router mounts.
type Services struct {
	Auth    *authService.AuthService
	School  routeDetails.School
	Finance routeDetails.Finance
	Site    routeDetails.Site
}

func SetupRoutes(app *fiber.App, db *gorm.DB, svc *Services) {
	startTime = time.Now()
	log := configs.Logger("routes")

	BaseRoutes(app, db)

	// ===================== AUTH / PAGES =====================
	log.Info().Msg("[ROUTES] auth")
	routeDetails.AuthRoutes(app, db, svc.Auth)

	log.Info().Msg("[ROUTES] pages")
	routeDetails.SitePageRoutes(app, svc.Site)

	// ===================== GROUPS =====================
	requireAuth := authMiddleware.AuthJWT(db, svc.Auth.Blacklist)

	// PUBLIC
	public := app.Group("/api/public")

	// USER → any signed-in role
	user := app.Group("/api/u", requireAuth)

	// STAFF → admin, teacher
	staff := app.Group("/api/s", requireAuth,
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("this resource"), constants.StaffRoles...))

	// ADMIN
	admin := app.Group("/api/a", requireAuth,
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("this resource"), constants.AdminOnly...))

	// ===================== MOUNT ROUTES =====================
	log.Info().Msg("[ROUTES] site")
	routeDetails.SitePublicRoutes(public, svc.Site)
	routeDetails.SiteUserRoutes(user, svc.Site)
	routeDetails.SiteAdminRoutes(admin, svc.Site)

	log.Info().Msg("[ROUTES] school")
	routeDetails.SchoolUserRoutes(user, svc.School)
	routeDetails.SchoolStaffRoutes(staff, svc.School)
	routeDetails.SchoolAdminRoutes(admin, svc.School)

	log.Info().Msg("[ROUTES] finance")
	routeDetails.FinancePublicRoutes(app.Group("/api"), svc.Finance)
	routeDetails.FinanceUserRoutes(user, svc.Finance)
	routeDetails.FinanceAdminRoutes(admin, svc.Finance)
}
