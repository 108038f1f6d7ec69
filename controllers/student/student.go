package studentController

import (
	"enrollment/directory"
	"enrollment/middleware"
	studentValidator "enrollment/validators/student"

	"github.com/gofiber/fiber/v2"
)

// Controller serves the enrollment directory. Each row is one enrollment;
// the routes keep the "students" naming the UI uses.
type Controller struct {
	Store *directory.EnrollmentStore
}

func New(store *directory.EnrollmentStore) *Controller {
	return &Controller{Store: store}
}

// List returns one page of the directory.
func (ctl *Controller) List(c *fiber.Ctx) error {
	q, ok := c.Locals(studentValidator.QueryKey).(directory.Query)
	if !ok {
		q = directory.Query{}.Normalized()
	}

	page, err := ctl.Store.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (ctl *Controller) Get(c *fiber.Ctx) error {
	id := c.Locals(studentValidator.IDKey).(string)

	enrollment, err := ctl.Store.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(enrollment)
}

// GetByEmail returns every enrollment of one student.
func (ctl *Controller) GetByEmail(c *fiber.Ctx) error {
	email := c.Locals(studentValidator.EmailKey).(string)

	enrollments, err := ctl.Store.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(enrollments)
}

func (ctl *Controller) Create(c *fiber.Ctx) error {
	in, ok := c.Locals(studentValidator.InputKey).(directory.EnrollmentInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := ctl.Store.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

func (ctl *Controller) Update(c *fiber.Ctx) error {
	id := c.Locals(studentValidator.IDKey).(string)
	patch, ok := c.Locals(studentValidator.PatchKey).(directory.EnrollmentPatch)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := ctl.Store.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(enrollment)
}

func (ctl *Controller) Delete(c *fiber.Ctx) error {
	id := c.Locals(studentValidator.IDKey).(string)

	if err := ctl.Store.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Student deleted successfully"})
}

func (ctl *Controller) BulkDelete(c *fiber.Ctx) error {
	req, ok := c.Locals(studentValidator.BulkIDsKey).(studentValidator.BulkIDsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	deleted, err := ctl.Store.BulkDelete(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Students deleted successfully",
		"deleted": deleted,
	})
}

func (ctl *Controller) BulkUpdateStatus(c *fiber.Ctx) error {
	req, ok := c.Locals(studentValidator.BulkStatusKey).(studentValidator.BulkStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updated, err := ctl.Store.BulkSetStatus(c.UserContext(), req.IDs, req.Status)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Status updated successfully",
		"updated": updated,
	})
}
