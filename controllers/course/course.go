package courseController

import (
	"enrollment/directory"
	courseValidator "enrollment/validators/course"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Registry *directory.CourseRegistry
}

func New(registry *directory.CourseRegistry) *Controller {
	return &Controller{Registry: registry}
}

// List returns every course ordered by name.
func (ctl *Controller) List(c *fiber.Ctx) error {
	courses, err := ctl.Registry.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(courses)
}

func (ctl *Controller) Create(c *fiber.Ctx) error {
	name, _ := c.Locals(courseValidator.NameKey).(string)

	course, err := ctl.Registry.Create(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func (ctl *Controller) Update(c *fiber.Ctx) error {
	id := c.Locals(courseValidator.IDKey).(string)
	name, _ := c.Locals(courseValidator.NameKey).(string)

	course, err := ctl.Registry.Rename(c.UserContext(), id, name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(course)
}

// Delete removes the course only; enrollments keep the name they were stored with.
func (ctl *Controller) Delete(c *fiber.Ctx) error {
	id := c.Locals(courseValidator.IDKey).(string)

	if err := ctl.Registry.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Course deleted successfully"})
}
