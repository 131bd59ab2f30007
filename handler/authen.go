package handler

import (
	"time"

	"tour_booking/constants"
	"tour_booking/helper"
	"tour_booking/model"
	"tour_booking/utils"

	"github.com/gofiber/fiber/v2"
)

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil || input.Username == "" || input.Password == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, err)
	}

	account, err := helper.GetAccountByUsername(input.Username)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if account == nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_USERNAME, nil)
	}
	if !helper.CheckPasswordHash(input.Password, account.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_PASSWORD, nil)
	}
	if !account.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, nil)
	}

	claim := model.TokenClaim{AccountId: account.ID, Username: account.Username, Role: account.Role}
	accessToken, err := helper.GenerateAccessToken(claim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	refreshToken, err := helper.GenerateRefreshToken(claim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"account": account,
		"token":   model.TokenData{AccessToken: accessToken, RefreshToken: refreshToken},
	})
}

func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"loggedOut": true})
}
