package studentValidator

import (
	"net/url"
	"strings"

	"enrollment/directory"
	"enrollment/middleware"

	"github.com/gofiber/fiber/v2"
)

// Locals keys under which the validated input is stored.
const (
	QueryKey      = "validatedStudentQuery"
	InputKey      = "validatedStudent"
	PatchKey      = "validatedStudentPatch"
	IDKey         = "studentID"
	EmailKey      = "studentEmail"
	BulkIDsKey    = "validatedBulkIDs"
	BulkStatusKey = "validatedBulkStatus"
)

// BulkIDsRequest is the body of a bulk delete.
type BulkIDsRequest struct {
	IDs []string `json:"ids"`
}

// BulkStatusRequest is the body of a bulk status change.
type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}

// ListStudents validates the directory query string.
func ListStudents() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Search    string `query:"search"`
			Course    string `query:"course"`
			Page      *int   `query:"page"`
			Limit     *int   `query:"limit"`
			SortField string `query:"sortField"`
			SortOrder string `query:"sortOrder"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		// Validate SortOrder
		order := strings.ToLower(strings.TrimSpace(reqData.SortOrder))
		if order != "" && order != string(directory.SortAsc) && order != string(directory.SortDesc) {
			errors["sortOrder"] = "Sort order must be asc or desc!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		q := directory.Query{
			Search:    strings.TrimSpace(reqData.Search),
			Course:    strings.TrimSpace(reqData.Course),
			SortField: strings.TrimSpace(reqData.SortField),
			SortOrder: directory.SortOrder(order),
		}
		if reqData.Page != nil {
			q.Page = *reqData.Page
		}
		if reqData.Limit != nil {
			q.PageSize = *reqData.Limit
		}

		c.Locals(QueryKey, q.Normalized())
		return c.Next()
	}
}

// CreateStudent parses a new enrollment. Field rules are enforced by the store.
func CreateStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(directory.EnrollmentInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals(InputKey, *reqData)
		return c.Next()
	}
}

// UpdateStudent parses the id and a partial enrollment.
func UpdateStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Student ID is required!", nil)
		}

		reqData := new(directory.EnrollmentPatch)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals(IDKey, id)
		c.Locals(PatchKey, *reqData)
		return c.Next()
	}
}

func StudentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Student ID is required!", nil)
		}

		c.Locals(IDKey, id)
		return c.Next()
	}
}

func StudentEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, err := url.PathUnescape(c.Params("email"))
		if err != nil || strings.TrimSpace(email) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email is required!", nil)
		}

		c.Locals(EmailKey, email)
		return c.Next()
	}
}

func BulkDelete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(BulkIDsRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals(BulkIDsKey, *reqData)
		return c.Next()
	}
}

func BulkStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(BulkStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals(BulkStatusKey, *reqData)
		return c.Next()
	}
}
