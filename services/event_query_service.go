package services

import (
	"fmt"
	"time"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/utils"
	"github.com/TomPython98/pinit-backend/websocket"
	"github.com/google/uuid"
)

func publishEventFrame(username string, frame eventFrame) {
	websocket.Publish(websocket.EventsTopic(username), frame)
}

type SearchFilter struct {
	CenterLat *float64
	CenterLon *float64
	RadiusKM  float64
	EventType string
	Tags      []string
	From      *time.Time
	To        *time.Time
}

// SearchEvents returns events visible to the viewer: hosting, attending,
// invited, or public and not declined. Geographic filtering is a bounding-box
// prefilter followed by an exact Haversine test.
func SearchEvents(viewer models.User, filter SearchFilter) ([]models.Event, error) {
	q := database.DB.Model(&models.Event{}).Where(
		`events.host_id = ?
			OR events.id IN (SELECT event_id FROM event_attendees WHERE user_id = ?)
			OR events.id IN (SELECT event_id FROM event_invitations WHERE user_id = ?)
			OR (events.is_public = ? AND events.id NOT IN (SELECT event_id FROM declined_invitations WHERE user_id = ?))`,
		viewer.ID, viewer.ID, viewer.ID, true, viewer.ID)

	if filter.EventType != "" {
		q = q.Where("events.event_type = ?", filter.EventType)
	}
	if filter.From != nil {
		q = q.Where("events.start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("events.start_time <= ?", *filter.To)
	}

	useRadius := filter.CenterLat != nil && filter.CenterLon != nil && filter.RadiusKM > 0
	if useRadius {
		minLat, maxLat, minLon, maxLon := utils.BoundingBox(*filter.CenterLat, *filter.CenterLon, filter.RadiusKM)
		q = q.Where("events.latitude BETWEEN ? AND ? AND events.longitude BETWEEN ? AND ?",
			minLat, maxLat, minLon, maxLon)
	}

	var events []models.Event
	if err := q.Order("events.start_time asc, events.created_at asc").Find(&events).Error; err != nil {
		return nil, err
	}

	if useRadius {
		filtered := events[:0]
		for _, e := range events {
			if utils.HaversineKM(*filter.CenterLat, *filter.CenterLon, e.Latitude, e.Longitude) <= filter.RadiusKM {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	if len(filter.Tags) > 0 {
		wanted := make(map[string]bool)
		for _, t := range utils.NormalizeTags(filter.Tags) {
			wanted[t] = true
		}
		filtered := events[:0]
		for _, e := range events {
			for _, tag := range e.InterestTags {
				if wanted[tag] {
					filtered = append(filtered, e)
					break
				}
			}
		}
		events = filtered
	}
	return events, nil
}

// GetUserEvents is the user's feed: hosting, attending or invited, ordered by
// start time then creation time.
func GetUserEvents(user models.User) ([]models.Event, error) {
	var events []models.Event
	err := database.DB.Model(&models.Event{}).Where(
		`events.host_id = ?
			OR events.id IN (SELECT event_id FROM event_attendees WHERE user_id = ?)
			OR events.id IN (SELECT event_id FROM event_invitations WHERE user_id = ?)`,
		user.ID, user.ID, user.ID).
		Order("events.start_time asc, events.created_at asc").
		Find(&events).Error
	return events, err
}

type InvitationView struct {
	Event         models.Event `json:"event"`
	IsAutoMatched bool         `json:"is_auto_matched"`
	InvitedAt     time.Time    `json:"invited_at"`
}

// GetInvitations lists the user's outstanding invitations. Declined events
// never reappear here.
func GetInvitations(user models.User) ([]InvitationView, error) {
	var invitations []models.EventInvitation
	if err := database.DB.Preload("Event").
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}

	views := make([]InvitationView, 0, len(invitations))
	for _, inv := range invitations {
		views = append(views, InvitationView{
			Event:         inv.Event,
			IsAutoMatched: inv.IsAutoMatched,
			InvitedAt:     inv.CreatedAt,
		})
	}
	return views, nil
}

// GetEventJoinRequests is the host's view of requests for one event.
func GetEventJoinRequests(eventID uuid.UUID, byUserID uuid.UUID) ([]models.EventJoinRequest, error) {
	var event models.Event
	if err := database.DB.First(&event, "id = ?", eventID).Error; err != nil {
		return nil, fmt.Errorf("%w: event", ErrNotFound)
	}
	if event.HostID != byUserID {
		return nil, fmt.Errorf("%w: only the host may view join requests", ErrPermissionDenied)
	}

	var requests []models.EventJoinRequest
	err := database.DB.Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Find(&requests).Error
	return requests, err
}
