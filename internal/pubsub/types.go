package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. Each event
// type maps onto a topic with a push subscription back into the service.
type EventType string

const (
	EventUpdateLeaderboard EventType = "update-leaderboard"
)
