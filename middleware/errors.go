package middleware

import (
	"errors"
	"log"

	"enrollment/directory"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps a directory error kind onto an HTTP status.
func StatusFor(kind directory.Kind) int {
	switch kind {
	case directory.KindValidation, directory.KindConflict:
		return fiber.StatusBadRequest
	case directory.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error returned by a handler. Directory errors
// keep their message; anything unexpected is logged, and its detail is only
// exposed outside production.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return JsonResponse(c, fe.Code, false, fe.Message, nil)
		}

		var de *directory.Error
		if errors.As(err, &de) && de.Kind != directory.KindUnexpected {
			return JsonResponse(c, StatusFor(de.Kind), false, de.Message, nil)
		}

		log.Printf("%s %s failed: %v", c.Method(), c.OriginalURL(), err)
		body := fiber.Map{
			"status":  false,
			"message": "Server error",
			"data":    nil,
		}
		if !production {
			body["error"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}
