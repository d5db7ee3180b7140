package scheduler

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/memorix-backend/internal/pubsub"
)

// pubsubScheduler publishes recompute jobs to a Pub/Sub topic whose push
// subscription posts back into /tasks/update-leaderboard. Pub/Sub retries
// undelivered or nacked messages, which gives the at-least-once guarantee.
type pubsubScheduler struct {
	client pubsub.PubSubClient
	topic  pubsub.EventType
}

// NewPubSub creates a Scheduler backed by Cloud Pub/Sub.
func NewPubSub(client pubsub.PubSubClient, topic pubsub.EventType) Scheduler {
	if topic == "" {
		topic = pubsub.EventUpdateLeaderboard
	}
	return &pubsubScheduler{client: client, topic: topic}
}

func (p *pubsubScheduler) Schedule(ctx context.Context, categoryID int64, delay time.Duration) error {
	job := RecomputeLeaderboard{
		CategoryID: categoryID,
		EnqueuedAt: time.Now().Unix(),
	}
	if delay <= 0 {
		return p.client.SendMessage(p.topic, job)
	}
	// Pub/Sub has no native deferred publish; the delay only coalesces
	// request bursts, so a timer on the publishing side is enough. A lost
	// timer is recovered by the next mutation in the same category.
	time.AfterFunc(delay, func() {
		if err := p.client.SendMessage(p.topic, job); err != nil {
			log.Error("Failed to publish deferred leaderboard job", "error", err, "categoryID", categoryID)
		}
	})
	return nil
}
