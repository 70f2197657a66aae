package routes

import (
	"github.com/TomPython98/pinit-backend/handlers"
	"github.com/TomPython98/pinit-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	app.Post("/register", handlers.RegisterUser)
	app.Post("/login", handlers.LoginUser)
	app.Post("/token/refresh", handlers.RefreshToken)
	app.Post("/logout", middleware.Protected(), handlers.LogoutUser)
}
