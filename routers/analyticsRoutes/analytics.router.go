package analyticsRoutes

import (
	analyticsController "enrollment/controllers/analytics"

	"github.com/gofiber/fiber/v2"
)

func SetupAnalyticsRoutes(router fiber.Router, protected fiber.Handler, ctl *analyticsController.Controller) {
	router.Get("/analytics", protected, ctl.Get)
}
