package notifications

import (
	"sync"
	"testing"
	"time"

	"redline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvComment(t *testing.T, ch <-chan models.Comment) models.Comment {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "channel closed before delivery")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return models.Comment{}
	}
}

func assertNoEvent(t *testing.T, ch <-chan models.Comment) {
	t.Helper()
	select {
	case c, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event: %+v", c)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	s1 := bus.Subscribe(TopicCommentCreated)
	s2 := bus.Subscribe(TopicCommentCreated)

	bus.Publish(TopicCommentCreated, models.Comment{ID: 1, ReportID: 3})

	assert.Equal(t, uint(1), recvComment(t, s1.C).ID)
	assert.Equal(t, uint(1), recvComment(t, s2.C).ID)
}

func TestBus_TopicsAreIndependent(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	created := bus.Subscribe(TopicCommentCreated)
	updated := bus.Subscribe(TopicCommentUpdated)

	bus.Publish(TopicCommentCreated, models.Comment{ID: 1})

	assert.Equal(t, uint(1), recvComment(t, created.C).ID)
	assertNoEvent(t, updated.C)
}

func TestBus_NoReplayForLateSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	bus.Publish(TopicCommentCreated, models.Comment{ID: 1})

	late := bus.Subscribe(TopicCommentCreated)
	assertNoEvent(t, late.C)

	bus.Publish(TopicCommentCreated, models.Comment{ID: 2})
	assert.Equal(t, uint(2), recvComment(t, late.C).ID)
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe(TopicCommentCreated)
	sub.Cancel()

	// Publish after cancel must not panic and must not deliver.
	bus.Publish(TopicCommentCreated, models.Comment{ID: 1})

	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed after cancel")
}

func TestBus_CancelIsIdempotent(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe(TopicCommentCreated)
	sub.Cancel()
	sub.Cancel()
}

func TestBus_SlowSubscriberLosesEventsOthersKeepReceiving(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	slow := bus.Subscribe(TopicCommentCreated)
	fast := bus.Subscribe(TopicCommentCreated)

	// Overflow the slow subscriber's buffer without draining it.
	for i := 0; i < subscriptionBuffer+10; i++ {
		bus.Publish(TopicCommentCreated, models.Comment{ID: uint(i + 1)})
		// Keep the fast subscriber drained so it never drops.
		recvComment(t, fast.C)
	}

	// The slow subscriber holds exactly a full buffer; the overflow is gone.
	count := 0
	for {
		select {
		case <-slow.C:
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriptionBuffer, count)
}

func TestBus_CloseClosesAllSubscriptions(t *testing.T) {
	bus := NewBus()

	s1 := bus.Subscribe(TopicCommentCreated)
	s2 := bus.Subscribe(TopicCommentUpdated)

	bus.Close()

	_, ok := <-s1.C
	assert.False(t, ok)
	_, ok = <-s2.C
	assert.False(t, ok)

	// Publishing and subscribing after close are inert.
	bus.Publish(TopicCommentCreated, models.Comment{ID: 1})
	s3 := bus.Subscribe(TopicCommentCreated)
	_, ok = <-s3.C
	assert.False(t, ok)
}

func TestBus_CancelAfterSubscribeOnClosedBus(t *testing.T) {
	bus := NewBus()
	bus.Close()

	// A connection arriving during shutdown still runs its deferred Cancel;
	// the already-closed channel must not be closed again.
	sub := bus.Subscribe(TopicCommentCreated)
	assert.NotPanics(t, func() { sub.Cancel() })
	assert.NotPanics(t, func() { sub.Cancel() })

	_, ok := <-sub.C
	assert.False(t, ok)
}

func TestBus_ConcurrentSubscribeCancelPublish(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(TopicCommentCreated)
			bus.Publish(TopicCommentCreated, models.Comment{ID: 1})
			sub.Cancel()
		}()
	}
	wg.Wait()
}
