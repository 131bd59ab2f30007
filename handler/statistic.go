package handler

import (
	"time"

	"tour_booking/constants"
	"tour_booking/database"
	"tour_booking/helper"
	"tour_booking/model"
	"tour_booking/utils"

	"github.com/gofiber/fiber/v2"
)

// GetAdminStats powers the admin dashboard landing page.
func GetAdminStats(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}

	db := database.DB

	var totalDestinations, totalPackages, totalBookings int64
	db.Model(&model.Destination{}).Count(&totalDestinations)
	db.Model(&model.TourPackage{}).Where("is_active = ?", true).Count(&totalPackages)
	db.Model(&model.Booking{}).Count(&totalBookings)

	var pendingVerification int64
	db.Model(&model.Booking{}).
		Where("status = ?", model.BookingPendingVerification).
		Count(&pendingVerification)

	today := time.Now().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	var todayRevenue, yesterdayRevenue float64
	db.Model(&model.Booking{}).
		Where("status IN ? AND updated_at >= ?", []string{model.BookingConfirmed, model.BookingCompleted}, today).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&todayRevenue)
	db.Model(&model.Booking{}).
		Where("status IN ? AND updated_at >= ? AND updated_at < ?", []string{model.BookingConfirmed, model.BookingCompleted}, yesterday, today).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&yesterdayRevenue)

	var todayBookings, yesterdayBookings int64
	db.Model(&model.Booking{}).Where("created_at >= ?", today).Count(&todayBookings)
	db.Model(&model.Booking{}).Where("created_at >= ? AND created_at < ?", yesterday, today).Count(&yesterdayBookings)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"totalDestinations":   totalDestinations,
		"totalPackages":       totalPackages,
		"totalBookings":       totalBookings,
		"pendingVerification": pendingVerification,
		"todayRevenue":        todayRevenue,
		"revenueGrowth":       utils.CalculateGrowth(todayRevenue, yesterdayRevenue),
		"todayBookings":       todayBookings,
		"bookingGrowth":       utils.CalculateGrowth(float64(todayBookings), float64(yesterdayBookings)),
	})
}

// GetBookings lists bookings for the admin, optionally filtered by status.
func GetBookings(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}

	db := database.DB
	query := db.Model(&model.Booking{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	pagination := model.Pagination{}
	if limit := c.QueryInt("limit"); limit > 0 {
		pagination.Limit = utils.Ptr(limit)
	}
	if page := c.QueryInt("page"); page > 0 {
		pagination.Page = utils.Ptr(page)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var bookings []model.Booking
	query = utils.ApplyPagination(query, pagination.Limit, pagination.Page)
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       bookings,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}
