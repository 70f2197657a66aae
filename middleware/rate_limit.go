package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/golang-jwt/jwt/v4"
)

// limiterKey buckets by authenticated user when possible, by IP otherwise.
func limiterKey(c *fiber.Ctx) string {
	if token, ok := c.Locals("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if id, ok := claims["user_id"].(string); ok {
				return id
			}
		}
	}
	return c.IP()
}

func rateLimited(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":   "RateLimited",
		"message": "Too many requests, slow down",
	})
}

// GeneralRateLimit allows 100 requests per minute per user.
func GeneralRateLimit() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          100,
		Expiration:   time.Minute,
		KeyGenerator: limiterKey,
		LimitReached: rateLimited,
	})
}

// EventCreationRateLimit allows 10 event creations per hour per user.
func EventCreationRateLimit() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          10,
		Expiration:   time.Hour,
		KeyGenerator: limiterKey,
		LimitReached: rateLimited,
	})
}

// InvitationRateLimit allows 20 invitations per minute per user.
func InvitationRateLimit() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          20,
		Expiration:   time.Minute,
		KeyGenerator: limiterKey,
		LimitReached: rateLimited,
	})
}
