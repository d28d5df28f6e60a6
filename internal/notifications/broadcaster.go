package notifications

import (
	"context"
	"log/slog"

	"redline/internal/models"
	"redline/internal/observability"

	"github.com/google/uuid"
)

// Broadcaster is the publish side of live delivery. Mutation services hand it
// a persisted comment; it fans out on the local bus and, when a Notifier is
// configured, mirrors the event to Redis for other replicas. Remote events
// carrying this instance's origin tag are skipped on the way back in.
type Broadcaster struct {
	bus      *Bus
	notifier *Notifier
	origin   string
}

// NewBroadcaster creates a Broadcaster over the bus and an optional notifier.
func NewBroadcaster(bus *Bus, notifier *Notifier) *Broadcaster {
	return &Broadcaster{
		bus:      bus,
		notifier: notifier,
		origin:   uuid.NewString(),
	}
}

// CommentCreated publishes a newly persisted comment.
func (b *Broadcaster) CommentCreated(ctx context.Context, c models.Comment) {
	b.publish(ctx, TopicCommentCreated, c)
}

// CommentUpdated publishes a mutated comment (fresh projection included).
func (b *Broadcaster) CommentUpdated(ctx context.Context, c models.Comment) {
	b.publish(ctx, TopicCommentUpdated, c)
}

func (b *Broadcaster) publish(ctx context.Context, topic string, c models.Comment) {
	b.bus.Publish(topic, c)

	if b.notifier == nil {
		return
	}
	env := Envelope{
		EventID: uuid.NewString(),
		Origin:  b.origin,
		Topic:   topic,
		Comment: c,
	}
	if err := b.notifier.PublishComment(ctx, env); err != nil {
		observability.GlobalLogger.ErrorContext(ctx, "failed to mirror comment event to redis",
			slog.String("topic", topic),
			slog.Uint64("comment_id", uint64(c.ID)),
			slog.String("error", err.Error()),
		)
	}
}

// StartRemoteFeed wires events published by other replicas into the local
// bus. Events that originated here are dropped to avoid double delivery.
func (b *Broadcaster) StartRemoteFeed(ctx context.Context) error {
	if b.notifier == nil {
		return nil
	}
	return b.notifier.StartCommentSubscriber(ctx, func(env Envelope) {
		if env.Origin == b.origin {
			return
		}
		switch env.Topic {
		case TopicCommentCreated, TopicCommentUpdated:
			b.bus.Publish(env.Topic, env.Comment)
		}
	})
}
