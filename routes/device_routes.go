package routes

import (
	"github.com/TomPython98/pinit-backend/handlers"
	"github.com/TomPython98/pinit-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func DeviceRoutes(app *fiber.App) {
	app.Post("/register_device", middleware.Protected(), handlers.RegisterDevice)
	app.Post("/unregister_device", middleware.Protected(), handlers.UnregisterDevice)
}
