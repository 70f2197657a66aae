package handlers

import (
	"encoding/json"
	"log"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/notifications"
	"github.com/TomPython98/pinit-backend/utils"
	ws "github.com/TomPython98/pinit-backend/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Close codes for rejected connections.
	closeBadParams    = 4000
	closeUnknownUsers = 4001

	maxChatMessageLen = 1000
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	writeWait         = 10 * time.Second
)

type inboundChatFrame struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type outboundChatFrame struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func closeWith(c *websocket.Conn, code int, reason string) {
	_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	c.Close()
}

// writePump drains the client's queue to the socket and keeps the connection
// alive with pings. It is the only writer of data frames, so frames for one
// connection stay ordered.
func writePump(c *websocket.Conn, client *ws.Client, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Send:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func sendErrorFrame(client *ws.Client, message string) {
	payload, _ := json.Marshal(errorFrame{Type: "error", Message: message})
	select {
	case client.Send <- payload:
	default:
	}
}

func lookupUser(username string) (models.User, bool) {
	var user models.User
	err := database.DB.Where("username = ?", username).First(&user).Error
	return user, err == nil
}

// ServeChatWs handles /ws/chat/:sender/:receiver. Both URL directions land in
// the same topic, so the pair shares one message stream.
func ServeChatWs(c *websocket.Conn) {
	senderName := c.Params("sender")
	receiverName := c.Params("receiver")

	if !utils.UsernamePattern.MatchString(senderName) || !utils.UsernamePattern.MatchString(receiverName) {
		closeWith(c, closeBadParams, "invalid path parameters")
		return
	}

	sender, ok := lookupUser(senderName)
	if !ok {
		closeWith(c, closeUnknownUsers, "unknown sender")
		return
	}
	receiver, ok := lookupUser(receiverName)
	if !ok {
		closeWith(c, closeUnknownUsers, "unknown receiver")
		return
	}

	topic := ws.ChatTopic(senderName, receiverName)
	client := ws.NewClient(topic, senderName)
	ws.Register <- client
	done := make(chan struct{})
	go writePump(c, client, done)
	defer func() {
		ws.Unregister <- client
		close(done)
	}()

	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame inboundChatFrame
		if err := c.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Chat socket closed for %s: %v", senderName, err)
			}
			break
		}
		c.SetReadDeadline(time.Now().Add(pongWait))

		if frame.Sender != "" && frame.Sender != senderName {
			sendErrorFrame(client, "sender does not match connection identity")
			continue
		}
		if utils.IsBlank(frame.Message) || utf8.RuneCountInString(frame.Message) > maxChatMessageLen {
			sendErrorFrame(client, "message must be 1-1000 non-whitespace characters")
			continue
		}

		// Persist before broadcast; a rollback after publish would leave
		// phantom frames.
		message := models.ChatMessage{
			ID:         uuid.New(),
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			Text:       frame.Message,
		}
		if err := database.DB.Create(&message).Error; err != nil {
			log.Printf("Failed to save chat message from %s: %v", senderName, err)
			sendErrorFrame(client, "failed to save message")
			continue
		}

		ws.Publish(topic, outboundChatFrame{Sender: senderName, Message: frame.Message})

		if !ws.HasSubscriber(topic, receiverName) {
			go notifications.SendNotification(receiver.ID, notifications.TypeNewChatMessage, map[string]interface{}{
				"from":    senderName,
				"preview": frame.Message,
			})
		}
	}
}

// ServeGroupChatWs handles /ws/group_chat/:eventId. Group messages are
// ephemeral: delivered to current subscribers, never persisted.
func ServeGroupChatWs(c *websocket.Conn) {
	eventIDParam := c.Params("eventId")
	username := c.Query("username")

	eventID, err := uuid.Parse(eventIDParam)
	if err != nil || !utils.UsernamePattern.MatchString(username) {
		closeWith(c, closeBadParams, "invalid path parameters")
		return
	}

	user, ok := lookupUser(username)
	if !ok {
		closeWith(c, closeUnknownUsers, "unknown user")
		return
	}

	var event models.Event
	if err := database.DB.First(&event, "id = ?", eventID).Error; err != nil {
		closeWith(c, closeUnknownUsers, "unknown event")
		return
	}

	if !mayJoinGroupChat(event, user) {
		closeWith(c, closeUnknownUsers, "not a participant of this event")
		return
	}

	topic := ws.GroupTopic(eventID.String())
	client := ws.NewClient(topic, username)
	ws.Register <- client
	done := make(chan struct{})
	go writePump(c, client, done)
	defer func() {
		ws.Unregister <- client
		close(done)
	}()

	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame inboundChatFrame
		if err := c.ReadJSON(&frame); err != nil {
			break
		}
		c.SetReadDeadline(time.Now().Add(pongWait))

		if frame.Sender != "" && frame.Sender != username {
			sendErrorFrame(client, "sender does not match connection identity")
			continue
		}
		if utils.IsBlank(frame.Message) || utf8.RuneCountInString(frame.Message) > maxChatMessageLen {
			sendErrorFrame(client, "message must be 1-1000 non-whitespace characters")
			continue
		}

		ws.Publish(topic, outboundChatFrame{Sender: username, Message: frame.Message})
	}
}

// mayJoinGroupChat admits the host, attendees and invitees.
func mayJoinGroupChat(event models.Event, user models.User) bool {
	if event.HostID == user.ID {
		return true
	}
	var count int64
	database.DB.Table("event_attendees").
		Where("event_id = ? AND user_id = ?", event.ID, user.ID).
		Count(&count)
	if count > 0 {
		return true
	}
	database.DB.Model(&models.EventInvitation{}).
		Where("event_id = ? AND user_id = ?", event.ID, user.ID).
		Count(&count)
	return count > 0
}

// ServeEventsWs handles /ws/events/:username, the per-user event channel fed
// by membership changes.
func ServeEventsWs(c *websocket.Conn) {
	username := c.Params("username")
	if !utils.UsernamePattern.MatchString(username) {
		closeWith(c, closeBadParams, "invalid path parameters")
		return
	}
	if _, ok := lookupUser(username); !ok {
		closeWith(c, closeUnknownUsers, "unknown user")
		return
	}

	topic := ws.EventsTopic(username)
	client := ws.NewClient(topic, username)
	ws.Register <- client
	done := make(chan struct{})
	go writePump(c, client, done)
	defer func() {
		ws.Unregister <- client
		close(done)
	}()

	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The event channel is outbound-only; inbound frames are drained and
	// dropped.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
		c.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// GetChatHistory returns the persisted 1:1 history between two users,
// oldest first.
func GetChatHistory(c *fiber.Ctx) error {
	userA, ok := lookupUser(c.Params("user1"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound", "message": "User not found"})
	}
	userB, ok := lookupUser(c.Params("user2"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound", "message": "User not found"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	var messages []models.ChatMessage
	err := database.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA.ID, userB.ID, userB.ID, userA.ID).
		Order("created_at asc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&messages).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Failed to load messages"})
	}
	return c.JSON(fiber.Map{"messages": messages})
}
