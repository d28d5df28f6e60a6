package notifications

import (
	"sync"

	"redline/internal/models"
	"redline/internal/observability"
)

// Topics the bus carries. Creation and update events are never merged.
const (
	TopicCommentCreated = "comment.created"
	TopicCommentUpdated = "comment.updated"
)

// Per-subscription channel buffer. A subscriber that falls this far behind
// starts losing events; the drop is counted, not blocked on.
const subscriptionBuffer = 64

// Subscription is a live registration on one bus topic. Events arrive on C
// from the moment of subscription; there is no backlog replay. Cancel releases
// the registration and closes C.
type Subscription struct {
	C <-chan models.Comment

	topic string
	ch    chan models.Comment
	bus   *Bus
	once  sync.Once
}

// Cancel removes the subscription from the bus and closes the channel.
// Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.bus.remove(s)
		close(s.ch)
	})
}

// Bus is a process-scoped publish/subscribe primitive with independent named
// topics. The listener set is mutated by subscribe/cancel from many
// connections and read by publish; both paths serialize on mu so
// registrations are never lost or duplicated.
type Bus struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	closed bool
}

// NewBus creates an empty bus. One instance is created at process start and
// passed to every component that publishes or subscribes.
func NewBus() *Bus {
	return &Bus{topics: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a listener on topic. Late subscribers miss past events.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan models.Comment, subscriptionBuffer),
		bus:   b,
	}
	sub.C = sub.ch

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		// A subscription on a closed bus delivers nothing; Cancel still works.
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	set, ok := b.topics[topic]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.topics[topic] = set
	}
	set[sub] = struct{}{}
	observability.BusSubscribers.WithLabelValues(topic).Inc()
	return sub
}

// Publish delivers the comment to every listener currently registered on
// topic. Delivery order across independent subscribers is not guaranteed.
// A subscriber whose buffer is full loses the event.
func (b *Bus) Publish(topic string, c models.Comment) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	observability.EventsPublished.WithLabelValues(topic).Inc()
	for sub := range b.topics[topic] {
		select {
		case sub.ch <- c:
		default:
			observability.SubscriberDrops.WithLabelValues(topic).Inc()
		}
	}
}

// Close cancels every subscription and rejects further publishes. Called at
// process shutdown. Channels are closed outside the lock so a concurrent
// Cancel waiting on mu cannot deadlock against the once.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var subs []*Subscription
	for topic, set := range b.topics {
		for sub := range set {
			subs = append(subs, sub)
		}
		observability.BusSubscribers.WithLabelValues(topic).Sub(float64(len(set)))
	}
	b.topics = make(map[string]map[*Subscription]struct{})
	b.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.ch) })
	}
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.topics[s.topic]; ok {
		if _, registered := set[s]; registered {
			delete(set, s)
			observability.BusSubscribers.WithLabelValues(s.topic).Dec()
		}
		if len(set) == 0 {
			delete(b.topics, s.topic)
		}
	}
}
