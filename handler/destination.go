package handler

import (
	"tour_booking/constants"
	"tour_booking/database"
	"tour_booking/helper"
	"tour_booking/model"
	"tour_booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func GetDestinations(c *fiber.Ctx) error {
	db := database.DB

	var destinations []model.Destination
	if err := db.Order("name ASC").Find(&destinations).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, destinations)
}

func CreateDestination(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}
	input, ok := c.Locals("input").(model.CreateDestinationInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing destination input", nil)
	}

	db := database.DB
	var destination model.Destination
	if err := copier.Copy(&destination, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	destination.Slug = helper.GenerateUniqueDestinationSlug(db, input.Name)

	if err := db.Create(&destination).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create destination", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, destination)
}

func EditDestination(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}
	input, ok := c.Locals("input").(model.EditDestinationInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing destination input", nil)
	}

	db := database.DB
	var destination model.Destination
	if err := db.First(&destination, c.Params("destinationId")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Destination not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	renamed := destination.Name != input.Name
	if err := copier.CopyWithOption(&destination, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if renamed {
		destination.Slug = helper.GenerateUniqueDestinationSlug(db, input.Name)
	}

	if err := db.Save(&destination).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update destination", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, destination)
}

func DeleteDestination(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}

	db := database.DB
	var count int64
	if err := db.Model(&model.TourPackage{}).
		Where("destination_id = ?", c.Params("destinationId")).
		Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if count > 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Destination still has packages attached", nil)
	}

	if err := db.Delete(&model.Destination{}, c.Params("destinationId")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete destination", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
