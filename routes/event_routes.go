package routes

import (
	"github.com/TomPython98/pinit-backend/handlers"
	"github.com/TomPython98/pinit-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func EventRoutes(app *fiber.App) {
	app.Post("/create_study_event", middleware.Protected(), middleware.EventCreationRateLimit(), handlers.CreateStudyEvent)
	app.Get("/get_study_events/:username", middleware.Protected(), handlers.GetStudyEvents)
	app.Delete("/delete_study_event/:eventId", middleware.Protected(), handlers.DeleteStudyEvent)

	app.Post("/rsvp_study_event", middleware.Protected(), handlers.RSVPStudyEvent)
	app.Post("/invite_to_event", middleware.Protected(), middleware.InvitationRateLimit(), handlers.InviteToEvent)
	app.Post("/decline_invitation", middleware.Protected(), handlers.DeclineInvitation)
	app.Get("/get_invitations/:username", middleware.Protected(), handlers.GetInvitations)

	app.Post("/approve_join_request", middleware.Protected(), handlers.ApproveJoinRequest)
	app.Post("/reject_join_request", middleware.Protected(), handlers.RejectJoinRequest)
	app.Get("/get_event_join_requests/:eventId", middleware.Protected(), handlers.GetEventJoinRequests)

	app.Post("/advanced_auto_match", middleware.Protected(), handlers.AdvancedAutoMatch)
}
