package courseValidator

import (
	"strings"

	"enrollment/middleware"

	"github.com/gofiber/fiber/v2"
)

const (
	NameKey = "validatedCourseName"
	IDKey   = "courseID"
)

// CourseBody parses {"name": ...}. Blank names are rejected by the registry.
func CourseBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name string `json:"name"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals(NameKey, reqData.Name)
		return c.Next()
	}
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID := strings.TrimSpace(c.Params("id"))
		if courseID == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		c.Locals(IDKey, courseID)
		return c.Next()
	}
}
