package routes

import (
	"github.com/TomPython98/pinit-backend/handlers"
	"github.com/TomPython98/pinit-backend/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func ChatRoutes(app *fiber.App) {
	app.Get("/get_chat_history/:user1/:user2", middleware.Protected(), handlers.GetChatHistory)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	app.Get("/ws/chat/:sender/:receiver", websocket.New(handlers.ServeChatWs))
	app.Get("/ws/group_chat/:eventId", websocket.New(handlers.ServeGroupChatWs))
	app.Get("/ws/events/:username", websocket.New(handlers.ServeEventsWs))
}
