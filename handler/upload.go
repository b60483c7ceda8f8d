package handler

import (
	"cinema_booking/utils"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v2"

	"cinema_booking/helper"
)

// GenerateSignature ký tham số upload Cloudinary cho FE upload trực tiếp
// poster phim, backend không trung chuyển file
func GenerateSignature(c *fiber.Ctx) error {
	type SigParams struct {
		Folder   string `json:"folder"`
		PublicID string `json:"public_id"`
	}

	var params SigParams
	if err := c.BodyParser(&params); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Params không hợp lệ", err)
	}

	cld := helper.InitCloudinary()
	timestamp := time.Now().Unix()

	toSign := url.Values{}
	toSign.Set("timestamp", strconv.FormatInt(timestamp, 10))
	if params.Folder != "" {
		toSign.Set("folder", params.Folder)
	}
	if params.PublicID != "" {
		toSign.Set("public_id", params.PublicID)
	}

	signature, err := api.SignParameters(toSign, cld.Config.Cloud.APISecret)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Không thể tạo chữ ký", err)
	}

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"apiKey":    cld.Config.Cloud.APIKey,
		"cloudName": cld.Config.Cloud.CloudName,
	})
}
