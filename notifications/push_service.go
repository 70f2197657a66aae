package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	config "github.com/TomPython98/pinit-backend/configs"
	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/google/uuid"
)

// Notification types emitted by the core.
const (
	TypeEventInvitation   = "event_invitation"
	TypeJoinRequest       = "join_request"
	TypeRequestApproved   = "request_approved"
	TypeRequestRejected   = "request_rejected"
	TypeEventUpdate       = "event_update"
	TypeEventDeleted      = "event_deleted"
	TypeReviewReminder    = "review_reminder"
	TypeTrustLevelUpdated = "trust_level_updated"
	TypeNewChatMessage    = "new_chat_message"
)

type PushService struct {
	GatewayURL string
	APIKey     string
	client     *http.Client
}

var PushClient *PushService

type pushPayload struct {
	DeviceToken string                 `json:"device_token"`
	Platform    string                 `json:"platform"`
	Type        string                 `json:"type"`
	Data        map[string]interface{} `json:"data"`
}

func InitPushService() {
	gatewayURL := config.Config("PUSH_GATEWAY_URL")
	apiKey := config.Config("PUSH_API_KEY")

	if gatewayURL == "" || apiKey == "" {
		log.Println("⚠️ Push service not configured. Notifications will be skipped.")
		PushClient = nil
		return
	}

	PushClient = &PushService{
		GatewayURL: gatewayURL,
		APIKey:     apiKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	log.Println("✅ Push service initialized successfully.")
}

// SendNotification fans a typed push out to every active device of the user.
// Per-device failures are logged and never abort the batch; a device the
// gateway reports as gone is marked inactive.
func SendNotification(userID uuid.UUID, notificationType string, data map[string]interface{}) {
	if PushClient == nil {
		return
	}

	var devices []models.Device
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).Find(&devices).Error; err != nil {
		log.Printf("Failed to load devices for user %s: %v", userID, err)
		return
	}

	for _, device := range devices {
		if err := PushClient.send(device, notificationType, data); err != nil {
			log.Printf("Push to device %s failed: %v", device.Token, err)
		}
	}
}

func (s *PushService) send(device models.Device, notificationType string, data map[string]interface{}) error {
	payload := pushPayload{
		DeviceToken: device.Token,
		Platform:    device.Platform,
		Type:        notificationType,
		Data:        data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", s.GatewayURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 404/410 mean the token is dead; stop delivering to it.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		if err := database.DB.Model(&models.Device{}).Where("id = ?", device.ID).Update("is_active", false).Error; err != nil {
			log.Printf("Failed to deactivate device %s: %v", device.Token, err)
		}
		return fmt.Errorf("device token rejected with status %d", resp.StatusCode)
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}
