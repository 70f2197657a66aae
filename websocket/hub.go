package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Client is one socket's subscription to a single topic. Frames are queued on
// Send and drained by the connection's writer, so frames within one
// connection stay ordered.
type Client struct {
	Topic    string
	Username string
	Send     chan []byte
}

func NewClient(topic, username string) *Client {
	return &Client{
		Topic:    topic,
		Username: username,
		Send:     make(chan []byte, 256),
	}
}

type Publication struct {
	Topic   string
	Payload []byte
}

var topics = make(map[string]map[*Client]bool)
var topicsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *Publication)

func init() {
	go RunHub()
}

// RunHub is the single fan-out loop: publications arriving on Broadcast are
// delivered to every current subscriber of the topic in arrival order.
func RunHub() {
	for {
		select {
		case client := <-Register:
			topicsMu.Lock()
			if topics[client.Topic] == nil {
				topics[client.Topic] = make(map[*Client]bool)
			}
			topics[client.Topic][client] = true
			topicsMu.Unlock()
		case client := <-Unregister:
			topicsMu.Lock()
			if subs, ok := topics[client.Topic]; ok && subs[client] {
				delete(subs, client)
				close(client.Send)
				if len(subs) == 0 {
					delete(topics, client.Topic)
				}
			}
			topicsMu.Unlock()
		case pub := <-Broadcast:
			topicsMu.RLock()
			for client := range topics[pub.Topic] {
				select {
				case client.Send <- pub.Payload:
				default:
					// Slow consumer: drop the frame. Clients refetch
					// state over HTTP after a gap.
					log.Printf("Dropping frame for slow subscriber %s on %s", client.Username, pub.Topic)
				}
			}
			topicsMu.RUnlock()
		}
	}
}

// Publish marshals v and broadcasts it to every subscriber of topic.
func Publish(topic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal frame for topic %s: %v", topic, err)
		return
	}
	Broadcast <- &Publication{Topic: topic, Payload: payload}
}

// HasSubscriber reports whether username currently holds a live subscription
// on topic. The Notification Dispatcher uses this to decide whether a chat
// message needs a push instead.
func HasSubscriber(topic, username string) bool {
	topicsMu.RLock()
	defer topicsMu.RUnlock()
	for client := range topics[topic] {
		if client.Username == username {
			return true
		}
	}
	return false
}
