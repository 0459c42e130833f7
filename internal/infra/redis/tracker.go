package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/analytics"
)

// Tracker counts quiz lifecycle events in Redis:
// INCR quiz:events:{slug}:{event}. Best effort only; errors are
// dropped so tracking can never fail a request.
type Tracker struct {
	client *redis.Client
}

func NewTracker(client *redis.Client) *Tracker {
	return &Tracker{client: client}
}

func (t *Tracker) Track(ctx context.Context, event analytics.Event, slug string, _ map[string]any) {
	_ = t.client.Incr(ctx, t.eventKey(event, slug)).Err()
}

func (t *Tracker) eventKey(event analytics.Event, slug string) string {
	return "quiz:events:" + slug + ":" + string(event)
}
