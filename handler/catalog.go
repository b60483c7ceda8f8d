package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

// Catalog tối thiểu để FE dựng màn hình đặt vé

func GetMovies(c *fiber.Ctx) error {
	var movies []model.Movie
	if err := database.DB.Where("status = ?", "NOW_SHOWING").Find(&movies).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, movies)
}

func GetRooms(c *fiber.Ctx) error {
	var rooms []model.Room
	if err := database.DB.Preload("Seats").Where("is_active = ?", true).Find(&rooms).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rooms)
}

func GetCombos(c *fiber.Ctx) error {
	var combos []model.Combo
	if err := database.DB.Where("is_active = ?", true).Find(&combos).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, combos)
}
