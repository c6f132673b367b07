package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuze/cli/pkg/api"
)

func TestRelayDeliversToAllSubscribers(t *testing.T) {
	r := New()
	defer r.Close()

	a := r.Subscribe()
	b := r.Subscribe()
	defer r.Unsubscribe(a.ID)
	defer r.Unsubscribe(b.ID)

	r.Publish(Event{Kind: EventSaved, URL: "https://example.com", Duplicate: true})

	for _, sub := range []Subscription{a, b} {
		select {
		case ev := <-sub.C:
			assert.Equal(t, EventSaved, ev.Kind)
			assert.Equal(t, "https://example.com", ev.URL)
			assert.True(t, ev.Duplicate)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestRelayUnsubscribeClosesFeed(t *testing.T) {
	r := New()
	defer r.Close()

	sub := r.Subscribe()
	require.Equal(t, 1, r.Subscribers())

	r.Unsubscribe(sub.ID)
	assert.Equal(t, 0, r.Subscribers())

	_, open := <-sub.C
	assert.False(t, open)
}

func TestRelayProgressPayload(t *testing.T) {
	r := New()
	defer r.Close()

	sub := r.Subscribe()
	defer r.Unsubscribe(sub.ID)

	snap := api.Snapshot{Status: api.ImportStatusProcessing, Processed: 5, Total: 10}
	r.Publish(Event{Kind: EventProgress, Snapshot: snap})

	select {
	case ev := <-sub.C:
		assert.Equal(t, EventProgress, ev.Kind)
		assert.Equal(t, snap, ev.Snapshot)
	case <-time.After(time.Second):
		t.Fatal("no progress event")
	}
}

func TestRelayStalledSubscriberDoesNotBlockPublish(t *testing.T) {
	r := New()
	defer r.Close()

	sub := r.Subscribe()
	defer r.Unsubscribe(sub.ID)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			r.Publish(Event{Kind: EventProgress})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a stalled subscriber")
	}
}

func TestRelayCloseReleasesFeeds(t *testing.T) {
	r := New()
	sub := r.Subscribe()

	r.Close()
	r.Close()

	assert.Eventually(t, func() bool {
		select {
		case _, open := <-sub.C:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// Operations after Close are inert, not panics.
	r.Publish(Event{Kind: EventClosed})
	assert.Equal(t, 0, r.Subscribers())
	_, open := <-r.Subscribe().C
	assert.False(t, open)
}
