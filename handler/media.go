package handler

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tour_booking/constants"
	"tour_booking/helper"
	"tour_booking/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	cld     *cloudinary.Cloudinary
	cldOnce sync.Once
)

// GenerateUploadSignature signs direct-to-Cloudinary uploads so destination
// images never pass through this server.
func GenerateUploadSignature(c *fiber.Ctx) error {
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}

	cldOnce.Do(func() { cld = helper.InitCloudinary() })

	var body struct {
		Folder   string `json:"folder"`
		PublicID string `json:"publicId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	timestamp := time.Now().Unix()
	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", timestamp),
	}
	if body.Folder != "" {
		params["folder"] = body.Folder
	}
	if body.PublicID != "" {
		params["public_id"] = body.PublicID
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	toSign := strings.Join(pairs, "&") + cld.Config.Cloud.APISecret

	sum := sha1.Sum([]byte(toSign))

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"signature": hex.EncodeToString(sum[:]),
		"timestamp": timestamp,
		"apiKey":    cld.Config.Cloud.APIKey,
		"cloudName": cld.Config.Cloud.CloudName,
	})
}
