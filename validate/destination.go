package validate

import (
	"tour_booking/model"
	"tour_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateDestination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateDestinationInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, 400, "Invalid request body", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, 400, err.Error(), err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func EditDestination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.EditDestinationInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, 400, "Invalid request body", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, 400, err.Error(), err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}
