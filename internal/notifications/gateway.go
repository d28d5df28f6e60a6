package notifications

import (
	"context"

	"redline/internal/models"
	"redline/internal/observability"
)

// Gateway exposes the two live comment streams with server-side filtering.
// Each stream wraps a bus subscription and applies Matches as a predicate;
// events that fail the match are silently dropped. The stream's lifetime is
// bound to ctx: cancellation releases the bus registration and closes the
// returned channel, which is the only pruning path for subscribers that
// disconnect without unsubscribing.
type Gateway struct {
	bus *Bus
}

// NewGateway creates a Gateway over the given bus.
func NewGateway(bus *Bus) *Gateway {
	return &Gateway{bus: bus}
}

// CommentAdded streams newly created comments matching key.
func (g *Gateway) CommentAdded(ctx context.Context, key FilterKey) <-chan models.Comment {
	return g.stream(ctx, TopicCommentCreated, key)
}

// CommentUpdated streams mutated comments (currently: parents whose answer
// count changed) matching key.
func (g *Gateway) CommentUpdated(ctx context.Context, key FilterKey) <-chan models.Comment {
	return g.stream(ctx, TopicCommentUpdated, key)
}

func (g *Gateway) stream(ctx context.Context, topic string, key FilterKey) <-chan models.Comment {
	sub := g.bus.Subscribe(topic)
	out := make(chan models.Comment, subscriptionBuffer)

	go func() {
		defer func() {
			sub.Cancel()
			close(out)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-sub.C:
				if !ok {
					return
				}
				if !Matches(KeyForComment(c), key) {
					continue
				}
				select {
				case out <- c:
					observability.EventsDelivered.WithLabelValues(topic).Inc()
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
