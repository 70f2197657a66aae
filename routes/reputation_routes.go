package routes

import (
	"github.com/TomPython98/pinit-backend/handlers"
	"github.com/TomPython98/pinit-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReputationRoutes(app *fiber.App) {
	app.Post("/submit_user_rating", middleware.Protected(), handlers.SubmitUserRating)
	app.Get("/get_user_reputation/:username", middleware.Protected(), handlers.GetUserReputation)
	app.Get("/get_user_ratings/:username", middleware.Protected(), handlers.GetUserRatings)
	app.Get("/get_ratings_given/:username", middleware.Protected(), handlers.GetRatingsGiven)
}
