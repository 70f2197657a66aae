package handlers

import (
	"github.com/TomPython98/pinit-backend/services"
	"github.com/gofiber/fiber/v2"
)

type FriendRequestPayload struct {
	ToUsername string `json:"to_user" validate:"required"`
}

func SendFriendRequest(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req FriendRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}

	request, err := services.SendFriendRequest(user, req.ToUsername)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

type AcceptFriendRequestPayload struct {
	FromUsername string `json:"from_user" validate:"required"`
}

func AcceptFriendRequest(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req AcceptFriendRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}

	if err := services.AcceptFriendRequest(user, req.FromUsername); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request accepted"})
}

func GetFriends(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	friends, err := services.ListFriends(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"friends": friends})
}

func GetPendingFriendRequests(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	requests, err := services.ListPendingFriendRequests(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"friend_requests": requests})
}
