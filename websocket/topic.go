package websocket

import "fmt"

// ChatTopic derives the 1:1 chat topic from the two participant usernames.
// The pair is sorted so both directions of the URL land in the same topic.
func ChatTopic(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("chat:%s:%s", a, b)
}

func GroupTopic(eventID string) string {
	return fmt.Sprintf("group:%s", eventID)
}

func EventsTopic(username string) string {
	return fmt.Sprintf("events:%s", username)
}
