package routes

import (
	"github.com/TomPython98/pinit-backend/handlers"
	"github.com/TomPython98/pinit-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	app.Get("/get_user_profile/:username", middleware.Protected(), handlers.GetProfile)
	app.Post("/update_user_profile", middleware.Protected(), handlers.UpdateProfile)
	app.Get("/search_users/:query", middleware.Protected(), handlers.SearchUsers)

	app.Post("/request_certification", middleware.Protected(), handlers.RequestCertification)
	app.Post("/admin/certify/:username", middleware.Protected(), middleware.AdminRequired(), handlers.CertifyUser)
}
