package services

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/notifications"
	"github.com/TomPython98/pinit-backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RSVP outcomes.
const (
	RSVPJoined      = "joined"
	RSVPRequestSent = "request_sent"
)

type CreateEventInput struct {
	Title               string
	Description         string
	Latitude            float64
	Longitude           float64
	StartTime           time.Time
	EndTime             time.Time
	IsPublic            bool
	EventType           string
	MaxParticipants     int
	AutoMatchingEnabled bool
	InterestTags        []string
	InvitedFriends      []string
}

type RSVPResult struct {
	Status    string     `json:"status"`
	RequestID *uuid.UUID `json:"request_id,omitempty"`
}

// eventFrame is the shape published on a user's events:{username} channel.
type eventFrame struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
	Title   string `json:"title"`
}

// pendingPush is notification work deferred until after commit. Publishing
// before the commit risks phantom events on rollback.
type pendingPush struct {
	userID uuid.UUID
	ntype  string
	data   map[string]interface{}
}

type pendingFrame struct {
	username string
	frame    eventFrame
}

// sendPush is a seam so tests can observe dispatched notifications.
var sendPush = notifications.SendNotification

func dispatch(frames []pendingFrame, pushes []pendingPush) {
	go func() {
		for _, f := range frames {
			publishEventFrame(f.username, f.frame)
		}
		for _, p := range pushes {
			sendPush(p.userID, p.ntype, p.data)
		}
	}()
}

func CreateEvent(host models.User, in CreateEventInput) (*models.Event, error) {
	title := utils.StripHTML(in.Title)
	if n := utf8.RuneCountInString(title); n < 3 || n > 200 {
		return nil, fmt.Errorf("%w: title must be 3-200 characters", ErrValidation)
	}
	description := utils.StripHTML(in.Description)
	if utf8.RuneCountInString(description) > 5000 {
		return nil, fmt.Errorf("%w: description must be at most 5000 characters", ErrValidation)
	}
	if in.MaxParticipants < 2 || in.MaxParticipants > 100 {
		return nil, fmt.Errorf("%w: max_participants must be between 2 and 100", ErrValidation)
	}
	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}
	if !models.IsValidEventType(in.EventType) {
		return nil, fmt.Errorf("%w: unknown event_type %q", ErrValidation, in.EventType)
	}

	var profile models.UserProfile
	if err := database.DB.Where("user_id = ?", host.ID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("%w: host has no profile", ErrNotFound)
	}
	if in.IsPublic && !profile.IsCertified {
		return nil, fmt.Errorf("%w: only certified users may host public events", ErrPermissionDenied)
	}

	event := models.Event{
		ID:                  uuid.New(),
		Title:               title,
		Description:         description,
		HostID:              host.ID,
		Latitude:            in.Latitude,
		Longitude:           in.Longitude,
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		IsPublic:            in.IsPublic,
		EventType:           in.EventType,
		MaxParticipants:     in.MaxParticipants,
		AutoMatchingEnabled: in.AutoMatchingEnabled,
		InterestTags:        utils.NormalizeTags(in.InterestTags),
	}

	var frames []pendingFrame
	var pushes []pendingPush

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		// The host attends their own event from the moment it exists.
		if err := tx.Model(&event).Association("Attendees").Append(&host); err != nil {
			return err
		}
		frames = append(frames, pendingFrame{host.Username, eventFrame{"event.create", event.ID.String(), event.Title}})

		for _, username := range in.InvitedFriends {
			var invitee models.User
			if err := tx.Where("username = ?", username).First(&invitee).Error; err != nil {
				return fmt.Errorf("%w: invited user %q", ErrNotFound, username)
			}
			if invitee.ID == host.ID {
				continue
			}
			invitation := models.EventInvitation{
				ID:      uuid.New(),
				EventID: event.ID,
				UserID:  invitee.ID,
			}
			if err := tx.Create(&invitation).Error; err != nil {
				return err
			}
			frames = append(frames, pendingFrame{invitee.Username, eventFrame{"event.create", event.ID.String(), event.Title}})
			pushes = append(pushes, pendingPush{invitee.ID, notifications.TypeEventInvitation, map[string]interface{}{
				"event_id": event.ID.String(),
				"title":    event.Title,
				"host":     host.Username,
			}})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(frames, pushes)

	if event.AutoMatchingEnabled {
		go func() {
			if _, err := RunAutoMatch(event.ID, DefaultMatchParams()); err != nil {
				fmt.Printf("Auto-match for event %s failed: %v\n", event.ID, err)
			}
		}()
	}
	return &event, nil
}

// InviteUser creates a standing invitation. Repeated calls for the same
// (event, user) pair are no-ops.
func InviteUser(eventID uuid.UUID, byUserID uuid.UUID, username string, asAutoMatched bool) error {
	var frames []pendingFrame
	var pushes []pendingPush

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := lockForUpdate(tx).First(&event, "id = ?", eventID).Error; err != nil {
			return fmt.Errorf("%w: event", ErrNotFound)
		}
		if event.HostID != byUserID {
			return fmt.Errorf("%w: only the host may invite users", ErrPermissionDenied)
		}

		var invitee models.User
		if err := tx.Where("username = ?", username).First(&invitee).Error; err != nil {
			return fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		if invitee.ID == event.HostID {
			return fmt.Errorf("%w: host cannot be invited", ErrValidation)
		}

		var existing int64
		tx.Model(&models.EventInvitation{}).
			Where("event_id = ? AND user_id = ?", event.ID, invitee.ID).
			Count(&existing)
		if existing > 0 {
			return ErrAlreadyInvited
		}

		// A user holds an invitation xor a decline for the same event. An
		// explicit re-invite by the host supersedes an earlier decline.
		if err := tx.Where("event_id = ? AND user_id = ?", event.ID, invitee.ID).
			Delete(&models.DeclinedInvitation{}).Error; err != nil {
			return err
		}

		invitation := models.EventInvitation{
			ID:            uuid.New(),
			EventID:       event.ID,
			UserID:        invitee.ID,
			IsAutoMatched: asAutoMatched,
		}
		if err := tx.Create(&invitation).Error; err != nil {
			return err
		}

		frames = append(frames, pendingFrame{invitee.Username, eventFrame{"event.update", event.ID.String(), event.Title}})
		pushes = append(pushes, pendingPush{invitee.ID, notifications.TypeEventInvitation, map[string]interface{}{
			"event_id": event.ID.String(),
			"title":    event.Title,
		}})
		return nil
	})
	if err != nil {
		return err
	}

	dispatch(frames, pushes)
	return nil
}

// RSVP admits the user directly when permitted, or records a pending join
// request for the host to decide. Capacity is checked under the event lock.
func RSVP(eventID uuid.UUID, user models.User) (*RSVPResult, error) {
	var result RSVPResult
	var frames []pendingFrame
	var pushes []pendingPush

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := lockForUpdate(tx).First(&event, "id = ?", eventID).Error; err != nil {
			return fmt.Errorf("%w: event", ErrNotFound)
		}

		var attending int64
		tx.Table("event_attendees").
			Where("event_id = ? AND user_id = ?", event.ID, user.ID).
			Count(&attending)
		if event.HostID == user.ID || attending > 0 {
			result.Status = RSVPJoined
			return nil
		}

		var invitation models.EventInvitation
		invited := tx.Where("event_id = ? AND user_id = ?", event.ID, user.ID).
			First(&invitation).Error == nil

		// Direct admits: a public event, or a manual invitation to a
		// private one. Auto-matched invitees still go through the host.
		directAdmit := event.IsPublic || (invited && !invitation.IsAutoMatched)

		if directAdmit {
			var count int64
			if err := tx.Table("event_attendees").Where("event_id = ?", event.ID).Count(&count).Error; err != nil {
				return err
			}
			if int(count) >= event.MaxParticipants {
				return ErrEventFull
			}
			if err := tx.Model(&event).Association("Attendees").Append(&user); err != nil {
				return err
			}
			result.Status = RSVPJoined
			frames = append(frames, pendingFrame{user.Username, eventFrame{"event.update", event.ID.String(), event.Title}})
			pushes = append(pushes, pendingPush{event.HostID, notifications.TypeEventUpdate, map[string]interface{}{
				"event_id": event.ID.String(),
				"title":    event.Title,
				"username": user.Username,
				"change":   "joined",
			}})
			return nil
		}

		// Already pending? Return the same request id.
		var pending models.EventJoinRequest
		if err := tx.Where("event_id = ? AND user_id = ? AND status = ?",
			event.ID, user.ID, models.JoinRequestPending).First(&pending).Error; err == nil {
			result.Status = RSVPRequestSent
			result.RequestID = &pending.ID
			return nil
		}

		request := models.EventJoinRequest{
			ID:      uuid.New(),
			EventID: event.ID,
			UserID:  user.ID,
			Status:  models.JoinRequestPending,
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		result.Status = RSVPRequestSent
		result.RequestID = &request.ID
		pushes = append(pushes, pendingPush{event.HostID, notifications.TypeJoinRequest, map[string]interface{}{
			"event_id": event.ID.String(),
			"username": user.Username,
		}})
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(frames, pushes)
	return &result, nil
}

// ApproveJoinRequest transitions PENDING to APPROVED and admits the requester
// under the capacity check. Approving an already-approved request is a no-op.
func ApproveJoinRequest(requestID uuid.UUID, byUserID uuid.UUID) error {
	var frames []pendingFrame
	var pushes []pendingPush

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var request models.EventJoinRequest
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			return fmt.Errorf("%w: join request", ErrNotFound)
		}

		var event models.Event
		if err := lockForUpdate(tx).First(&event, "id = ?", request.EventID).Error; err != nil {
			return fmt.Errorf("%w: event", ErrNotFound)
		}
		if event.HostID != byUserID {
			return fmt.Errorf("%w: only the host may approve join requests", ErrPermissionDenied)
		}
		if request.Status == models.JoinRequestApproved {
			return nil
		}
		if request.Status != models.JoinRequestPending {
			return fmt.Errorf("%w: request already %s", ErrConflict, request.Status)
		}

		var count int64
		if err := tx.Table("event_attendees").Where("event_id = ?", event.ID).Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= event.MaxParticipants {
			return ErrEventFull
		}

		var requester models.User
		if err := tx.First(&requester, "id = ?", request.UserID).Error; err != nil {
			return fmt.Errorf("%w: requesting user", ErrNotFound)
		}
		if err := tx.Model(&event).Association("Attendees").Append(&requester); err != nil {
			return err
		}

		now := time.Now()
		request.Status = models.JoinRequestApproved
		request.ProcessedAt = &now
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		frames = append(frames, pendingFrame{requester.Username, eventFrame{"event.update", event.ID.String(), event.Title}})
		pushes = append(pushes, pendingPush{requester.ID, notifications.TypeRequestApproved, map[string]interface{}{
			"event_id": event.ID.String(),
			"title":    event.Title,
		}})
		return nil
	})
	if err != nil {
		return err
	}

	dispatch(frames, pushes)
	return nil
}

func RejectJoinRequest(requestID uuid.UUID, byUserID uuid.UUID) error {
	var pushes []pendingPush

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var request models.EventJoinRequest
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			return fmt.Errorf("%w: join request", ErrNotFound)
		}

		var event models.Event
		if err := tx.First(&event, "id = ?", request.EventID).Error; err != nil {
			return fmt.Errorf("%w: event", ErrNotFound)
		}
		if event.HostID != byUserID {
			return fmt.Errorf("%w: only the host may reject join requests", ErrPermissionDenied)
		}
		if request.Status == models.JoinRequestRejected {
			return nil
		}
		if request.Status != models.JoinRequestPending {
			return fmt.Errorf("%w: request already %s", ErrConflict, request.Status)
		}

		now := time.Now()
		request.Status = models.JoinRequestRejected
		request.ProcessedAt = &now
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		pushes = append(pushes, pendingPush{request.UserID, notifications.TypeRequestRejected, map[string]interface{}{
			"event_id": event.ID.String(),
			"title":    event.Title,
		}})
		return nil
	})
	if err != nil {
		return err
	}

	dispatch(nil, pushes)
	return nil
}

// DeclineInvitation removes the invitation row, if any, and records the
// decline so auto-match never offers the same event to this user again.
func DeclineInvitation(eventID uuid.UUID, user models.User) error {
	var frames []pendingFrame
	var pushes []pendingPush

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			return fmt.Errorf("%w: event", ErrNotFound)
		}

		if err := tx.Where("event_id = ? AND user_id = ?", event.ID, user.ID).
			Delete(&models.EventInvitation{}).Error; err != nil {
			return err
		}

		var declined int64
		tx.Model(&models.DeclinedInvitation{}).
			Where("event_id = ? AND user_id = ?", event.ID, user.ID).
			Count(&declined)
		if declined == 0 {
			decline := models.DeclinedInvitation{ID: uuid.New(), EventID: event.ID, UserID: user.ID}
			if err := tx.Create(&decline).Error; err != nil {
				return err
			}
		}

		frames = append(frames, pendingFrame{user.Username, eventFrame{"event.update", event.ID.String(), event.Title}})
		if event.HostID != user.ID {
			pushes = append(pushes, pendingPush{event.HostID, notifications.TypeEventUpdate, map[string]interface{}{
				"event_id": event.ID.String(),
				"title":    event.Title,
				"username": user.Username,
				"change":   "declined",
			}})
		}
		return nil
	})
	if err != nil {
		return err
	}

	dispatch(frames, pushes)
	return nil
}

// DeleteEvent removes the event and everything hanging off it, then emits
// event.delete to every user the event ever touched.
func DeleteEvent(eventID uuid.UUID, byUserID uuid.UUID) error {
	var frames []pendingFrame
	var pushes []pendingPush

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := lockForUpdate(tx).First(&event, "id = ?", eventID).Error; err != nil {
			return fmt.Errorf("%w: event", ErrNotFound)
		}
		if event.HostID != byUserID {
			return fmt.Errorf("%w: only the host may delete the event", ErrPermissionDenied)
		}

		affected, err := affectedUserIDs(tx, event)
		if err != nil {
			return err
		}

		var affectedUsers []models.User
		if err := tx.Where("id IN ?", affected).Find(&affectedUsers).Error; err != nil {
			return err
		}

		for _, table := range []interface{}{
			&models.EventInvitation{},
			&models.DeclinedInvitation{},
			&models.EventJoinRequest{},
			&models.EventComment{},
			&models.EventLike{},
			&models.EventShare{},
			&models.EventReviewReminder{},
		} {
			if err := tx.Where("event_id = ?", event.ID).Delete(table).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&event).Association("Attendees").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&event).Error; err != nil {
			return err
		}

		for _, u := range affectedUsers {
			frames = append(frames, pendingFrame{u.Username, eventFrame{"event.delete", event.ID.String(), event.Title}})
			if u.ID != byUserID {
				pushes = append(pushes, pendingPush{u.ID, notifications.TypeEventDeleted, map[string]interface{}{
					"event_id": event.ID.String(),
					"title":    event.Title,
				}})
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	dispatch(frames, pushes)
	return nil
}

// affectedUserIDs is host ∪ attendees ∪ invitees ∪ requesters.
func affectedUserIDs(tx *gorm.DB, event models.Event) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{event.HostID: true}
	ids := []uuid.UUID{event.HostID}

	collect := func(query *gorm.DB, column string) error {
		var found []uuid.UUID
		if err := query.Pluck(column, &found).Error; err != nil {
			return err
		}
		for _, id := range found {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		return nil
	}

	if err := collect(tx.Table("event_attendees").Where("event_id = ?", event.ID), "user_id"); err != nil {
		return nil, err
	}
	if err := collect(tx.Model(&models.EventInvitation{}).Where("event_id = ?", event.ID), "user_id"); err != nil {
		return nil, err
	}
	if err := collect(tx.Model(&models.EventJoinRequest{}).Where("event_id = ?", event.ID), "user_id"); err != nil {
		return nil, err
	}
	return ids, nil
}
