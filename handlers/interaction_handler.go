package handlers

import (
	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CommentRequest struct {
	EventID  string  `json:"event_id" validate:"required,uuid"`
	Text     string  `json:"text" validate:"required"`
	ParentID *string `json:"parent_id,omitempty"`
}

func CommentOnEvent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}
	eventID, _ := uuid.Parse(req.EventID)

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		parsed, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Invalid parent id"})
		}
		parentID = &parsed
	}

	comment, err := services.CommentOnEvent(user, eventID, req.Text, parentID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

type LikeRequest struct {
	EventID   string  `json:"event_id" validate:"required,uuid"`
	CommentID *string `json:"comment_id,omitempty"`
}

func LikeEvent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}
	eventID, _ := uuid.Parse(req.EventID)

	var commentID *uuid.UUID
	if req.CommentID != nil && *req.CommentID != "" {
		parsed, err := uuid.Parse(*req.CommentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Invalid comment id"})
		}
		commentID = &parsed
	}

	liked, err := services.ToggleLike(user, eventID, commentID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

type ShareRequest struct {
	EventID  string `json:"event_id" validate:"required,uuid"`
	Platform string `json:"platform" validate:"required"`
}

func ShareEvent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}
	eventID, _ := uuid.Parse(req.EventID)

	share, err := services.ShareEvent(user, eventID, req.Platform)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(share)
}

// GetEventInteractions returns the comments, likes and shares of one event.
func GetEventInteractions(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Invalid event id"})
	}

	var comments []models.EventComment
	if err := database.DB.Where("event_id = ?", eventID).Order("created_at asc").Find(&comments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Failed to load comments"})
	}
	var likeCount, shareCount int64
	database.DB.Model(&models.EventLike{}).Where("event_id = ?", eventID).Count(&likeCount)
	database.DB.Model(&models.EventShare{}).Where("event_id = ?", eventID).Count(&shareCount)

	return c.JSON(fiber.Map{
		"comments": comments,
		"likes":    likeCount,
		"shares":   shareCount,
	})
}
