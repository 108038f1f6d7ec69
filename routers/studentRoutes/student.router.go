package studentRoutes

import (
	studentController "enrollment/controllers/student"
	studentValidator "enrollment/validators/student"

	"github.com/gofiber/fiber/v2"
)

// SetupStudentRoutes sets up the enrollment directory routes. Fixed paths are
// registered before /:id so they are not captured as ids.
func SetupStudentRoutes(router fiber.Router, protected fiber.Handler, ctl *studentController.Controller) {
	studentGroup := router.Group("/students", protected)

	studentGroup.Get("/", studentValidator.ListStudents(), ctl.List)
	studentGroup.Post("/", studentValidator.CreateStudent(), ctl.Create)

	// Bulk operations
	studentGroup.Post("/bulk-delete", studentValidator.BulkDelete(), ctl.BulkDelete)
	studentGroup.Put("/bulk-status", studentValidator.BulkStatus(), ctl.BulkUpdateStatus)

	studentGroup.Get("/email/:email", studentValidator.StudentEmail(), ctl.GetByEmail)

	studentGroup.Get("/:id", studentValidator.StudentID(), ctl.Get)
	studentGroup.Put("/:id", studentValidator.UpdateStudent(), ctl.Update)
	studentGroup.Delete("/:id", studentValidator.StudentID(), ctl.Delete)
}
