package handlers

import (
	"strconv"

	"github.com/TomPython98/pinit-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubmitRatingRequest struct {
	ToUsername string  `json:"to_username" validate:"required"`
	EventID    *string `json:"event_id,omitempty"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Reference  string  `json:"reference"`
}

func SubmitUserRating(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req SubmitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}

	var eventID *uuid.UUID
	if req.EventID != nil && *req.EventID != "" {
		parsed, err := uuid.Parse(*req.EventID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Invalid event id"})
		}
		eventID = &parsed
	}

	rating, err := services.SubmitRating(user, req.ToUsername, eventID, req.Rating, req.Reference)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

func GetUserReputation(c *fiber.Ctx) error {
	view, err := services.GetUserReputation(c.Params("username"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(view)
}

func GetUserRatings(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	ratings, err := services.GetUserRatings(c.Params("username"), page, pageSize)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ratings": ratings})
}

func GetRatingsGiven(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	ratings, err := services.GetRatingsGiven(c.Params("username"), page, pageSize)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ratings": ratings})
}
