package routes

import (
	"github.com/TomPython98/pinit-backend/handlers"
	"github.com/TomPython98/pinit-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func SocialRoutes(app *fiber.App) {
	app.Post("/send_friend_request", middleware.Protected(), handlers.SendFriendRequest)
	app.Post("/accept_friend_request", middleware.Protected(), handlers.AcceptFriendRequest)
	app.Get("/get_friends", middleware.Protected(), handlers.GetFriends)
	app.Get("/get_friend_requests", middleware.Protected(), handlers.GetPendingFriendRequests)

	events := app.Group("/events", middleware.Protected())
	events.Post("/comment", handlers.CommentOnEvent)
	events.Post("/like", handlers.LikeEvent)
	events.Post("/share", handlers.ShareEvent)
	events.Get("/:eventId/interactions", handlers.GetEventInteractions)
}
