package handlers

import (
	"errors"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var validate = validator.New()

// currentUser resolves the authenticated user from the JWT claims.
func currentUser(c *fiber.Ctx) (models.User, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return models.User{}, errors.New("missing token")
	}
	claims := token.Claims.(jwt.MapClaims)
	userID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// serviceError maps typed service errors to the HTTP error surface.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	case errors.Is(err, services.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "PermissionDenied", "message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound", "message": err.Error()})
	case errors.Is(err, services.ErrEventFull):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "EventFull", "message": err.Error()})
	case errors.Is(err, services.ErrAlreadyInvited):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "AlreadyInvited", "message": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Conflict", "message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Something went wrong"})
	}
}
