package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerDB(t *testing.T) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventInvitation{},
	))
	database.DB = db
}

func handlerUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{ID: uuid.New(), Username: username, Password: "x"}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

// appAs builds an app whose requests carry the user's identity, the way the
// JWT middleware would attach it.
func appAs(user models.User) *fiber.App {
	app := fiber.New()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", token)
		return c.Next()
	})
	app.Get("/get_invitations/:username", GetInvitations)
	return app
}

func TestGetInvitationsOwnerOnly(t *testing.T) {
	setupHandlerDB(t)
	host := handlerUser(t, "inv_host")
	guest := handlerUser(t, "inv_guest")

	start := time.Now().Add(24 * time.Hour)
	event := models.Event{
		ID:              uuid.New(),
		Title:           "Reading circle",
		HostID:          host.ID,
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		EventType:       "study",
		MaxParticipants: 5,
	}
	require.NoError(t, database.DB.Create(&event).Error)
	require.NoError(t, database.DB.Create(&models.EventInvitation{
		ID:      uuid.New(),
		EventID: event.ID,
		UserID:  guest.ID,
	}).Error)

	app := appAs(guest)

	resp, err := app.Test(httptest.NewRequest("GET", "/get_invitations/inv_guest", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Invitations []struct {
			Event models.Event `json:"event"`
		} `json:"invitations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Invitations, 1)
	assert.Equal(t, event.ID, body.Invitations[0].Event.ID)

	// Another user's invitations are off limits.
	resp, err = app.Test(httptest.NewRequest("GET", "/get_invitations/inv_host", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
