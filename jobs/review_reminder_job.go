package jobs

import (
	"log"
	"time"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/notifications"
	"github.com/google/uuid"
)

// SendReviewReminders scans recently ended events and prompts each attendee,
// once, to rate the people they met. The EventReviewReminder row is the
// idempotency marker, so an interrupted sweep resumes safely.
func SendReviewReminders() {
	log.Println("Running job: SendReviewReminders...")

	now := time.Now()
	lowerBound := now.Add(-2 * time.Hour)
	upperBound := now.Add(-5 * time.Minute)

	var endedEvents []models.Event
	err := database.DB.Preload("Attendees").
		Where("end_time > ? AND end_time <= ?", lowerBound, upperBound).
		Find(&endedEvents).Error
	if err != nil {
		log.Printf("Error scanning for ended events: %v", err)
		return
	}

	for _, event := range endedEvents {
		for _, attendee := range event.Attendees {
			if attendee.ID == event.HostID {
				continue
			}

			var existing int64
			database.DB.Model(&models.EventReviewReminder{}).
				Where("event_id = ? AND user_id = ?", event.ID, attendee.ID).
				Count(&existing)
			if existing > 0 {
				continue
			}

			reminder := models.EventReviewReminder{
				ID:      uuid.New(),
				EventID: event.ID,
				UserID:  attendee.ID,
			}
			if err := database.DB.Create(&reminder).Error; err != nil {
				log.Printf("Failed to record review reminder for event %s user %s: %v", event.ID, attendee.ID, err)
				continue
			}

			reviewable := reviewableCoAttendees(event, attendee.ID)
			go notifications.SendNotification(attendee.ID, notifications.TypeReviewReminder, map[string]interface{}{
				"event_id":   event.ID.String(),
				"title":      event.Title,
				"reviewable": reviewable,
			})
		}
	}
}

// reviewableCoAttendees counts co-attendees the user has not yet rated for
// this event.
func reviewableCoAttendees(event models.Event, userID uuid.UUID) int {
	var ratedIDs []uuid.UUID
	database.DB.Model(&models.UserRating{}).
		Where("from_user_id = ? AND event_id = ?", userID, event.ID).
		Pluck("to_user_id", &ratedIDs)

	rated := make(map[uuid.UUID]bool)
	for _, id := range ratedIDs {
		rated[id] = true
	}

	count := 0
	for _, other := range event.Attendees {
		if other.ID == userID || rated[other.ID] {
			continue
		}
		count++
	}
	return count
}
