package handler

import (
	"time"

	"tour_booking/constants"
	"tour_booking/database"
	"tour_booking/helper"
	"tour_booking/model"
	"tour_booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// GetPackages lists active tour packages for the storefront.
func GetPackages(c *fiber.Ctx) error {
	db := database.DB

	pagination := model.Pagination{}
	if limit := c.QueryInt("limit"); limit > 0 {
		pagination.Limit = utils.Ptr(limit)
	}
	if page := c.QueryInt("page"); page > 0 {
		pagination.Page = utils.Ptr(page)
	}

	query := db.Model(&model.TourPackage{}).Where("is_active = ?", true)
	if destinationSlug := c.Query("destination"); destinationSlug != "" {
		query = query.
			Joins("JOIN destinations ON destinations.id = tour_packages.destination_id").
			Where("destinations.slug = ?", destinationSlug)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var packages []model.TourPackage
	query = utils.ApplyPagination(query, pagination.Limit, pagination.Page)
	if err := query.Preload("Destination").Preload("Schedules").
		Order("tour_packages.created_at DESC").Find(&packages).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       packages,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

func GetPackageBySlug(c *fiber.Ctx) error {
	db := database.DB

	var pkg model.TourPackage
	err := db.Preload("Destination").Preload("Schedules").
		Where("slug = ?", c.Params("slug")).First(&pkg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Package not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, pkg)
}

func CreatePackage(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}
	input, ok := c.Locals("input").(model.CreatePackageInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing package input", nil)
	}

	var pkg model.TourPackage
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := copier.Copy(&pkg, &input); err != nil {
			return err
		}
		pkg.Slug = helper.GenerateUniquePackageSlug(tx, input.Name)
		pkg.IsActive = true
		pkg.Schedules = nil
		for _, s := range input.Schedules {
			start, _ := time.Parse("2006-01-02", s.StartDate)
			end, _ := time.Parse("2006-01-02", s.EndDate)
			pkg.Schedules = append(pkg.Schedules, model.PackageSchedule{StartDate: start, EndDate: end})
		}
		return tx.Create(&pkg).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create package", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, pkg)
}

func EditPackage(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}
	input, ok := c.Locals("input").(model.EditPackageInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing package input", nil)
	}

	db := database.DB
	var pkg model.TourPackage
	if err := db.First(&pkg, c.Params("packageId")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Package not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	renamed := pkg.Name != input.Name
	if err := copier.CopyWithOption(&pkg, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if input.IsActive != nil {
		pkg.IsActive = *input.IsActive
	}
	if renamed {
		pkg.Slug = helper.GenerateUniquePackageSlug(db, input.Name)
	}

	if err := db.Save(&pkg).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update package", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, pkg)
}

// AddSchedule appends a departure to an existing package.
func AddSchedule(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}

	var input model.ScheduleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	start, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid start date", err)
	}
	end, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid end date", err)
	}
	if end.Before(start) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Schedule end date before start date", nil)
	}

	db := database.DB
	var pkg model.TourPackage
	if err := db.First(&pkg, c.Params("packageId")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Package not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	schedule := model.PackageSchedule{PackageID: pkg.ID, StartDate: start, EndDate: end}
	if err := db.Create(&schedule).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add schedule", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, schedule)
}

// DeactivatePackage hides a package from the storefront without touching
// the bookings that snapshot it.
func DeactivatePackage(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}

	db := database.DB
	var pkg model.TourPackage
	if err := db.First(&pkg, c.Params("packageId")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Package not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	pkg.IsActive = false
	if err := db.Save(&pkg).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate package", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, pkg)
}
