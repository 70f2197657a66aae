package main

import (
	"log"
	"time"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/jobs"
	"github.com/TomPython98/pinit-backend/middleware"
	"github.com/TomPython98/pinit-backend/notifications"
	"github.com/TomPython98/pinit-backend/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedTrustLevels()
	notifications.InitPushService()

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.SendReviewReminders)
	go c.Start()
	log.Println("✅ Cron job for review reminders scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "PinIt API",
		CaseSensitive: true,
		StrictRouting: false,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"error":   "Internal",
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(middleware.GeneralRateLimit())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.EventRoutes(app)
	routes.SocialRoutes(app)
	routes.ReputationRoutes(app)
	routes.ChatRoutes(app)
	routes.DeviceRoutes(app)

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
