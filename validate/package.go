package validate

import (
	"time"

	"tour_booking/model"
	"tour_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func CreatePackage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreatePackageInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, 400, "Invalid request body", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, 400, err.Error(), err)
		}
		for _, s := range input.Schedules {
			if err := checkScheduleDates(s); err != nil {
				return utils.ErrorResponse(c, 400, "Invalid schedule", err)
			}
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func EditPackage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.EditPackageInput
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

func checkScheduleDates(s model.ScheduleInput) error {
	start, err := time.Parse("2006-01-02", s.StartDate)
	if err != nil {
		return err
	}
	end, err := time.Parse("2006-01-02", s.EndDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fiber.NewError(400, "schedule end date before start date")
	}
	return nil
}
