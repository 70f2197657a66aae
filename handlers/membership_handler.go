package handlers

import (
	"github.com/TomPython98/pinit-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RSVPRequest struct {
	EventID string `json:"event_id" validate:"required,uuid"`
}

func RSVPStudyEvent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req RSVPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}
	eventID, _ := uuid.Parse(req.EventID)

	result, err := services.RSVP(eventID, user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

type InviteRequest struct {
	EventID           string `json:"event_id" validate:"required,uuid"`
	Username          string `json:"username" validate:"required"`
	MarkAsAutoMatched bool   `json:"mark_as_auto_matched"`
}

func InviteToEvent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}
	eventID, _ := uuid.Parse(req.EventID)

	if err := services.InviteUser(eventID, user.ID, req.Username, req.MarkAsAutoMatched); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invitation sent"})
}

type DeclineInvitationRequest struct {
	EventID string `json:"event_id" validate:"required,uuid"`
}

func DeclineInvitation(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req DeclineInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}
	eventID, _ := uuid.Parse(req.EventID)

	if err := services.DeclineInvitation(eventID, user); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invitation declined"})
}

type JoinRequestDecision struct {
	RequestID string `json:"request_id" validate:"required,uuid"`
}

func ApproveJoinRequest(c *fiber.Ctx) error {
	return decideJoinRequest(c, services.ApproveJoinRequest, "Join request approved")
}

func RejectJoinRequest(c *fiber.Ctx) error {
	return decideJoinRequest(c, services.RejectJoinRequest, "Join request rejected")
}

func decideJoinRequest(c *fiber.Ctx, decide func(uuid.UUID, uuid.UUID) error, message string) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req JoinRequestDecision
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}
	requestID, _ := uuid.Parse(req.RequestID)

	if err := decide(requestID, user.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}
