package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"redline/internal/models"
	"redline/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Envelope is the wire format for comment events crossing instances.
type Envelope struct {
	EventID string         `json:"event_id"`
	Origin  string         `json:"origin"`
	Topic   string         `json:"topic"`
	Comment models.Comment `json:"comment"`
}

// Notifier provides helpers to publish comment events into Redis channels so
// replicas of the service fan out to their own local subscribers.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishComment sends an event envelope to the report's channel.
func (n *Notifier) PublishComment(ctx context.Context, env Envelope) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	channel := ReportChannel(env.Comment.ReportID)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		observability.RedisErrors.WithLabelValues("publish").Inc()
		return err
	}
	return nil
}

// StartCommentSubscriber subscribes to the pattern `comments:report:*` and
// calls onEvent for each incoming envelope. The goroutine exits when ctx is
// cancelled.
func (n *Notifier) StartCommentSubscriber(ctx context.Context, onEvent func(Envelope)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "comments:report:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in CommentSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					var env Envelope
					if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
						log.Printf("invalid comment event payload on %s: %v", msg.Channel, err)
						return
					}
					onEvent(env)
				}()
			}
		}
	}()

	return nil
}

// ReportChannel derives the Redis channel name for a report's comment events.
func ReportChannel(reportID uint) string {
	return fmt.Sprintf("comments:report:%d", reportID)
}
