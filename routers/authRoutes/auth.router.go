package authRoutes

import (
	authController "enrollment/controllers/auth"
	authValidator "enrollment/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(router fiber.Router, ctl *authController.Controller) {
	authGroup := router.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), ctl.Register)
	authGroup.Post("/login", authValidator.Login(), ctl.Login)
}
