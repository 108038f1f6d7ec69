package courseRoutes

import (
	courseController "enrollment/controllers/course"
	courseValidator "enrollment/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the course registry routes
func SetupCourseRoutes(router fiber.Router, protected fiber.Handler, ctl *courseController.Controller) {
	courseGroup := router.Group("/courses", protected)

	courseGroup.Get("/", ctl.List)
	courseGroup.Post("/", courseValidator.CourseBody(), ctl.Create)
	courseGroup.Put("/:id", courseValidator.CourseID(), courseValidator.CourseBody(), ctl.Update)
	courseGroup.Delete("/:id", courseValidator.CourseID(), ctl.Delete)
}
