package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points the package-level connection at a fresh in-memory
// database named after the test, so tests never see each other's rows.
func setupTestDB(t *testing.T) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Event{},
		&models.EventInvitation{},
		&models.DeclinedInvitation{},
		&models.EventJoinRequest{},
		&models.ChatMessage{},
		&models.EventComment{},
		&models.EventLike{},
		&models.EventShare{},
		&models.UserRating{},
		&models.UserTrustLevel{},
		&models.UserReputationStats{},
		&models.EventReviewReminder{},
		&models.Device{},
		&models.RefreshToken{},
	))

	database.DB = db
	database.SeedTrustLevels()
}

func createUser(t *testing.T, username string) models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Password: "not-a-real-hash",
		Role:     "user",
		IsActive: true,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	profile := models.UserProfile{
		ID:                uuid.New(),
		UserID:            user.ID,
		AutoInviteEnabled: true,
		PreferredRadiusKM: 10,
	}
	require.NoError(t, database.DB.Create(&profile).Error)
	return user
}

func createCertifiedUser(t *testing.T, username string) models.User {
	t.Helper()
	user := createUser(t, username)
	updateProfile(t, user, func(p *models.UserProfile) { p.IsCertified = true })
	return user
}

func updateProfile(t *testing.T, user models.User, mutate func(*models.UserProfile)) {
	t.Helper()
	var profile models.UserProfile
	require.NoError(t, database.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	mutate(&profile)
	require.NoError(t, database.DB.Save(&profile).Error)
}

func validEventInput() CreateEventInput {
	start := time.Now().Add(24 * time.Hour)
	return CreateEventInput{
		Title:           "Evening study session",
		Description:     "Going over the exam material together.",
		Latitude:        48.2082,
		Longitude:       16.3738,
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		IsPublic:        false,
		EventType:       "study",
		MaxParticipants: 10,
	}
}

func createPublicEvent(t *testing.T, host models.User, maxParticipants int) *models.Event {
	t.Helper()
	in := validEventInput()
	in.IsPublic = true
	in.MaxParticipants = maxParticipants
	event, err := CreateEvent(host, in)
	require.NoError(t, err)
	return event
}

func createPrivateEvent(t *testing.T, host models.User) *models.Event {
	t.Helper()
	event, err := CreateEvent(host, validEventInput())
	require.NoError(t, err)
	return event
}

func attendeeCount(t *testing.T, eventID uuid.UUID) int {
	t.Helper()
	var count int64
	require.NoError(t, database.DB.Table("event_attendees").
		Where("event_id = ?", eventID).Count(&count).Error)
	return int(count)
}

func isAttendee(t *testing.T, eventID, userID uuid.UUID) bool {
	t.Helper()
	var count int64
	require.NoError(t, database.DB.Table("event_attendees").
		Where("event_id = ? AND user_id = ?", eventID, userID).Count(&count).Error)
	return count > 0
}
