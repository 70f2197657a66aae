package handlers

import (
	"strings"
	"time"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title               string   `json:"title" validate:"required"`
	Description         string   `json:"description"`
	Latitude            float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude           float64  `json:"longitude" validate:"min=-180,max=180"`
	Time                string   `json:"time" validate:"required"`
	EndTime             string   `json:"end_time" validate:"required"`
	IsPublic            bool     `json:"is_public"`
	EventType           string   `json:"event_type" validate:"required"`
	InterestTags        []string `json:"interest_tags"`
	MaxParticipants     int      `json:"max_participants" validate:"required"`
	AutoMatchingEnabled bool     `json:"auto_matching_enabled"`
	InvitedFriends      []string `json:"invited_friends"`
}

func CreateStudyEvent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": err.Error()})
	}

	startTime, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "time must be RFC3339"})
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "end_time must be RFC3339"})
	}

	event, err := services.CreateEvent(user, services.CreateEventInput{
		Title:               req.Title,
		Description:         req.Description,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		StartTime:           startTime,
		EndTime:             endTime,
		IsPublic:            req.IsPublic,
		EventType:           req.EventType,
		MaxParticipants:     req.MaxParticipants,
		AutoMatchingEnabled: req.AutoMatchingEnabled,
		InterestTags:        req.InterestTags,
		InvitedFriends:      req.InvitedFriends,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// GetStudyEvents returns the named user's feed; query parameters narrow it to
// a search (center/radius, type, tags, time window).
func GetStudyEvents(c *fiber.Ctx) error {
	viewer, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	target := viewer
	if username := c.Params("username"); username != viewer.Username {
		if err := database.DB.Where("username = ?", username).First(&target).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound", "message": "User not found"})
		}
	}

	filter := services.SearchFilter{
		EventType: c.Query("event_type"),
		RadiusKM:  c.QueryFloat("radius_km"),
	}
	if c.Query("lat") != "" && c.Query("lon") != "" {
		lat := c.QueryFloat("lat")
		lon := c.QueryFloat("lon")
		filter.CenterLat = &lat
		filter.CenterLon = &lon
	}
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = splitCSV(tags)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}

	hasSearch := filter.CenterLat != nil || filter.EventType != "" ||
		len(filter.Tags) > 0 || filter.From != nil || filter.To != nil

	var events []models.Event
	if hasSearch {
		events, err = services.SearchEvents(viewer, filter)
	} else {
		events, err = services.GetUserEvents(target)
	}
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

func DeleteStudyEvent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Invalid event id"})
	}

	if err := services.DeleteEvent(eventID, user.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}

// GetInvitations serves /get_invitations/:username. Invitations are visible
// only to their owner.
func GetInvitations(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}
	if c.Params("username") != user.Username {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "PermissionDenied", "message": "Invitations are only visible to their owner"})
	}

	views, err := services.GetInvitations(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"invitations": views})
}

func GetEventJoinRequests(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Invalid event id"})
	}

	requests, err := services.GetEventJoinRequests(eventID, user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"join_requests": requests})
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
