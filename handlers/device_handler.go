package handlers

import (
	"errors"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}

// RegisterDevice upserts by token: re-registering an existing token moves it
// to the caller and reactivates it instead of duplicating.
func RegisterDevice(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}

	var device models.Device
	err = database.DB.Where("token = ?", req.Token).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		device = models.Device{
			ID:       uuid.New(),
			UserID:   user.ID,
			Token:    req.Token,
			Platform: req.Platform,
			IsActive: true,
		}
		if err := database.DB.Create(&device).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Failed to register device"})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Failed to register device"})
	} else {
		device.UserID = user.ID
		device.Platform = req.Platform
		device.IsActive = true
		if err := database.DB.Save(&device).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Failed to update device"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(device)
}

type UnregisterDeviceRequest struct {
	Token string `json:"token" validate:"required"`
}

func UnregisterDevice(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req UnregisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}

	if err := database.DB.Where("token = ? AND user_id = ?", req.Token, user.ID).
		Delete(&models.Device{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Failed to unregister device"})
	}
	return c.JSON(fiber.Map{"message": "Device unregistered"})
}
