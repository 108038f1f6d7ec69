package analyticsController

import (
	"enrollment/directory"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Aggregator *directory.Aggregator
}

func New(aggregator *directory.Aggregator) *Controller {
	return &Controller{Aggregator: aggregator}
}

// Get computes the dashboard figures over the whole directory.
func (ctl *Controller) Get(c *fiber.Ctx) error {
	analytics, err := ctl.Aggregator.Compute(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(analytics)
}
