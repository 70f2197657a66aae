package handlers

import (
	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AutoMatchRequest struct {
	EventID        string   `json:"event_id" validate:"required,uuid"`
	MaxInvites     *int     `json:"max_invites"`
	MinScore       *float64 `json:"min_score"`
	RadiusKM       *float64 `json:"radius_km"`
	PotentialsOnly bool     `json:"potentials_only"`
}

func AdvancedAutoMatch(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req AutoMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}
	eventID, _ := uuid.Parse(req.EventID)

	var event models.Event
	if err := database.DB.First(&event, "id = ?", eventID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound", "message": "Event not found"})
	}
	if event.HostID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "PermissionDenied", "message": "Only the host may run auto-match"})
	}

	params := services.DefaultMatchParams()
	if req.MaxInvites != nil {
		params.MaxInvites = *req.MaxInvites
	}
	if req.MinScore != nil {
		params.MinScore = *req.MinScore
	}
	if req.RadiusKM != nil {
		params.RadiusKM = *req.RadiusKM
	}
	params.PotentialsOnly = req.PotentialsOnly

	matches, err := services.RunAutoMatch(eventID, params)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"matches":         matches,
		"potentials_only": params.PotentialsOnly,
	})
}
