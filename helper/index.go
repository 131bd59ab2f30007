package helper

import (
	"errors"
	"time"

	"tour_booking/config"
	"tour_booking/constants"
	"tour_booking/database"
	"tour_booking/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func jwtSecret() []byte {
	return []byte(config.Config("JWT_SECRET"))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetAccountByUsername(username string) (*model.Account, error) {
	db := database.DB
	var account model.Account
	if err := db.Where(&model.Account{Username: username}).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func GenerateAccessToken(claim model.TokenClaim) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"accountId": claim.AccountId,
		"username":  claim.Username,
		"role":      claim.Role,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret())
}

func GenerateRefreshToken(claim model.TokenClaim) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"accountId": claim.AccountId,
		"username":  claim.Username,
		"role":      claim.Role,
		"exp":       time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret())
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
}

// GetInfoAccountFromToken reads the claims the Protected middleware parsed.
// The second return value reports admin permission.
func GetInfoAccountFromToken(c *fiber.Ctx) (model.TokenClaim, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return model.TokenClaim{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.TokenClaim{}, false
	}

	claim := model.TokenClaim{}
	if id, ok := claims["accountId"].(float64); ok {
		claim.AccountId = uint(id)
	}
	if username, ok := claims["username"].(string); ok {
		claim.Username = username
	}
	if role, ok := claims["role"].(string); ok {
		claim.Role = role
	}
	return claim, claim.Role == constants.ROLE_ADMIN
}
