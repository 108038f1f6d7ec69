// Package routers assembles the fiber application.
package routers

import (
	"enrollment/config"
	analyticsController "enrollment/controllers/analytics"
	authController "enrollment/controllers/auth"
	courseController "enrollment/controllers/course"
	studentController "enrollment/controllers/student"
	"enrollment/directory"
	"enrollment/middleware"
	"enrollment/routers/analyticsRoutes"
	"enrollment/routers/authRoutes"
	"enrollment/routers/courseRoutes"
	"enrollment/routers/studentRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// New builds the HTTP application over db. Directory options, such as a
// fixed clock in tests, are passed through to the core.
func New(cfg *config.Config, db *gorm.DB, opts ...directory.Option) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Student Enrollment API",
		ErrorHandler: middleware.ErrorHandler(cfg.Production()),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Student Enrollment API is running"})
	})

	dir := directory.New(db, opts...)
	protected := middleware.JWTProtected(cfg.JWTKey)

	api := app.Group("/api")
	authRoutes.SetupAuthRoutes(api, authController.New(db, cfg))
	studentRoutes.SetupStudentRoutes(api, protected, studentController.New(dir.Enrollments))
	courseRoutes.SetupCourseRoutes(api, protected, courseController.New(dir.Courses))
	analyticsRoutes.SetupAnalyticsRoutes(api, protected, analyticsController.New(dir.Analytics))

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found", nil)
	})

	return app
}
