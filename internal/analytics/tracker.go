// Package analytics is the fire-and-forget lifecycle event surface.
// The core never consumes a return value from it and a tracker failure
// must never fail a request.
package analytics

import (
	"context"
	"log/slog"
)

// Event names mirror the dataLayer events pushed by the web player.
type Event string

const (
	EventView        Event = "quiz_view"
	EventStart       Event = "quiz_start"
	EventAnswer      Event = "quiz_answer"
	EventComplete    Event = "quiz_complete"
	EventScoreBucket Event = "quiz_score_bucket"
	EventShare       Event = "quiz_share"
)

// Tracker receives quiz lifecycle events.
type Tracker interface {
	Track(ctx context.Context, event Event, slug string, fields map[string]any)
}

// NopTracker discards every event.
type NopTracker struct{}

func (NopTracker) Track(context.Context, Event, string, map[string]any) {}

// LogTracker writes events to a structured logger.
type LogTracker struct {
	logger *slog.Logger
}

func NewLogTracker(logger *slog.Logger) *LogTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTracker{logger: logger}
}

func (t *LogTracker) Track(ctx context.Context, event Event, slug string, fields map[string]any) {
	args := []any{"event", string(event), "slug", slug}
	for k, v := range fields {
		args = append(args, k, v)
	}
	t.logger.InfoContext(ctx, "quiz event", args...)
}
