package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncHub blocks until the hub loop has finished processing whatever was sent
// before it. Channel sends are received in order, so once this broadcast is
// accepted the earlier register/unregister has been applied.
func syncHub() {
	Broadcast <- &Publication{Topic: "test:hub:noop", Payload: []byte("{}")}
}

func recvFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.Send:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestChatTopicSymmetric(t *testing.T) {
	assert.Equal(t, ChatTopic("alice", "bob"), ChatTopic("bob", "alice"))
	assert.Equal(t, "chat:alice:bob", ChatTopic("bob", "alice"))
	assert.Equal(t, "group:ev-1", GroupTopic("ev-1"))
	assert.Equal(t, "events:alice", EventsTopic("alice"))
}

func TestBroadcastFansOutToAllSubscribers(t *testing.T) {
	topic := ChatTopic("fan_a", "fan_b")
	a := NewClient(topic, "fan_a")
	b := NewClient(topic, "fan_b")
	Register <- a
	Register <- b
	defer func() {
		Unregister <- a
		Unregister <- b
	}()

	Publish(topic, map[string]string{"sender": "fan_a", "message": "hi"})

	for _, c := range []*Client{a, b} {
		var frame map[string]string
		require.NoError(t, json.Unmarshal(recvFrame(t, c), &frame))
		assert.Equal(t, "fan_a", frame["sender"])
		assert.Equal(t, "hi", frame["message"])
	}
}

func TestBroadcastPreservesOrderPerSubscriber(t *testing.T) {
	topic := GroupTopic("order-event")
	c := NewClient(topic, "order_user")
	Register <- c
	defer func() { Unregister <- c }()

	for i := 0; i < 5; i++ {
		Publish(topic, map[string]int{"seq": i})
	}
	for i := 0; i < 5; i++ {
		var frame map[string]int
		require.NoError(t, json.Unmarshal(recvFrame(t, c), &frame))
		assert.Equal(t, i, frame["seq"])
	}
}

func TestBroadcastDoesNotLeakAcrossTopics(t *testing.T) {
	a := NewClient(ChatTopic("iso_a", "iso_b"), "iso_a")
	other := NewClient(ChatTopic("iso_c", "iso_d"), "iso_c")
	Register <- a
	Register <- other
	defer func() {
		Unregister <- a
		Unregister <- other
	}()

	Publish(a.Topic, map[string]string{"message": "private"})
	recvFrame(t, a)

	syncHub()
	select {
	case payload := <-other.Send:
		t.Fatalf("unexpected frame on unrelated topic: %s", payload)
	default:
	}
}

func TestHasSubscriber(t *testing.T) {
	topic := EventsTopic("presence_user")
	c := NewClient(topic, "presence_user")
	Register <- c
	syncHub()

	assert.True(t, HasSubscriber(topic, "presence_user"))
	assert.False(t, HasSubscriber(topic, "someone_else"))
	assert.False(t, HasSubscriber(EventsTopic("nobody"), "presence_user"))

	Unregister <- c
	syncHub()
	assert.False(t, HasSubscriber(topic, "presence_user"))
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	c := NewClient(GroupTopic("close-event"), "close_user")
	Register <- c
	Unregister <- c
	syncHub()

	_, open := <-c.Send
	assert.False(t, open)
}
