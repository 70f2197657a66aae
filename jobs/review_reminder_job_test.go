package jobs

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJobDB(t *testing.T) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.UserRating{},
		&models.EventReviewReminder{},
	))
	database.DB = db
}

func jobUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{ID: uuid.New(), Username: username, Password: "x"}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func endedEvent(t *testing.T, host models.User, endedAgo time.Duration, attendees ...models.User) models.Event {
	t.Helper()
	end := time.Now().Add(-endedAgo)
	event := models.Event{
		ID:              uuid.New(),
		Title:           "Wrapped-up session",
		HostID:          host.ID,
		StartTime:       end.Add(-2 * time.Hour),
		EndTime:         end,
		EventType:       "study",
		MaxParticipants: 10,
	}
	require.NoError(t, database.DB.Create(&event).Error)

	all := append([]models.User{host}, attendees...)
	for i := range all {
		require.NoError(t, database.DB.Model(&event).Association("Attendees").Append(&all[i]))
	}
	return event
}

func reminderCount(t *testing.T, eventID uuid.UUID) int {
	t.Helper()
	var count int64
	require.NoError(t, database.DB.Model(&models.EventReviewReminder{}).
		Where("event_id = ?", eventID).Count(&count).Error)
	return int(count)
}

func TestSendReviewRemindersTargetsRecentlyEndedEvents(t *testing.T) {
	setupJobDB(t)
	host := jobUser(t, "reminder_host")
	alice := jobUser(t, "reminder_alice")
	bob := jobUser(t, "reminder_bob")

	recent := endedEvent(t, host, 30*time.Minute, alice, bob)
	tooOld := endedEvent(t, host, 3*time.Hour, alice)
	stillRunning := endedEvent(t, host, -time.Hour, alice)

	SendReviewReminders()

	// The host never gets a reminder about their own event.
	assert.Equal(t, 2, reminderCount(t, recent.ID))
	assert.Zero(t, reminderCount(t, tooOld.ID))
	assert.Zero(t, reminderCount(t, stillRunning.ID))

	var hostReminders int64
	database.DB.Model(&models.EventReviewReminder{}).
		Where("event_id = ? AND user_id = ?", recent.ID, host.ID).Count(&hostReminders)
	assert.Zero(t, hostReminders)
}

func TestSendReviewRemindersRunsAtMostOncePerAttendee(t *testing.T) {
	setupJobDB(t)
	host := jobUser(t, "once_host")
	alice := jobUser(t, "once_alice")

	event := endedEvent(t, host, 30*time.Minute, alice)

	SendReviewReminders()
	require.Equal(t, 1, reminderCount(t, event.ID))

	// Repeated sweeps inside the window stay quiet.
	SendReviewReminders()
	SendReviewReminders()
	assert.Equal(t, 1, reminderCount(t, event.ID))
}

func TestReviewableCoAttendees(t *testing.T) {
	setupJobDB(t)
	host := jobUser(t, "count_host")
	alice := jobUser(t, "count_alice")
	bob := jobUser(t, "count_bob")

	event := endedEvent(t, host, 30*time.Minute, alice, bob)
	require.NoError(t, database.DB.Preload("Attendees").First(&event, "id = ?", event.ID).Error)

	// Alice can still review the host and bob.
	assert.Equal(t, 2, reviewableCoAttendees(event, alice.ID))

	rating := models.UserRating{
		ID:         uuid.New(),
		FromUserID: alice.ID,
		ToUserID:   bob.ID,
		EventID:    &event.ID,
		Score:      5,
	}
	require.NoError(t, database.DB.Create(&rating).Error)
	assert.Equal(t, 1, reviewableCoAttendees(event, alice.ID))
}
