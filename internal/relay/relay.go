// Package relay is the typed event bridge between background workers (the
// import monitor, the mirror daemon) and the foreground rendering them. All
// subscription state lives in a single goroutine; subscribers never touch
// shared maps.
package relay

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fuze/cli/pkg/api"
)

// EventKind classifies relay traffic.
type EventKind string

const (
	// EventProgress carries an import progress snapshot.
	EventProgress EventKind = "progress"

	// EventSaved reports a bookmark mirrored to the service.
	EventSaved EventKind = "saved"

	// EventRemoved reports a bookmark removal mirrored to the service.
	EventRemoved EventKind = "removed"

	// EventError reports a failure in a background worker.
	EventError EventKind = "error"

	// EventClosed is the final event of a worker's lifetime.
	EventClosed EventKind = "closed"
)

// Event is one message on the bridge. Fields beyond Kind are populated per
// kind: Snapshot for progress, URL and Duplicate for saved/removed, Err for
// errors.
type Event struct {
	Kind      EventKind
	Snapshot  api.Snapshot
	URL       string
	Duplicate bool
	Err       error
}

// Subscription is a live feed of events. Release it with Relay.Unsubscribe
// when done; terminal events do not release it automatically.
type Subscription struct {
	ID uuid.UUID
	C  <-chan Event
}

type subscribeCmd struct{ reply chan Subscription }
type unsubscribeCmd struct{ id uuid.UUID }
type publishCmd struct{ ev Event }
type lenCmd struct{ reply chan int }

// Relay fans events out to subscribers. Create with New, stop with Close.
type Relay struct {
	cmds      chan any
	done      chan struct{}
	closeOnce sync.Once
}

// New starts the relay's dispatch loop.
func New() *Relay {
	r := &Relay{
		cmds: make(chan any),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Relay) run() {
	subs := make(map[uuid.UUID]chan Event)
	defer func() {
		for _, ch := range subs {
			close(ch)
		}
	}()

	for {
		select {
		case <-r.done:
			return
		case cmd := <-r.cmds:
			switch c := cmd.(type) {
			case subscribeCmd:
				ch := make(chan Event, 16)
				id := uuid.New()
				subs[id] = ch
				c.reply <- Subscription{ID: id, C: ch}
			case unsubscribeCmd:
				if ch, found := subs[c.id]; found {
					delete(subs, c.id)
					close(ch)
				}
			case publishCmd:
				for _, ch := range subs {
					// A stalled subscriber loses events; the loop never
					// blocks on delivery.
					select {
					case ch <- c.ev:
					default:
					}
				}
			case lenCmd:
				c.reply <- len(subs)
			}
		}
	}
}

// Subscribe opens a new feed.
func (r *Relay) Subscribe() Subscription {
	reply := make(chan Subscription, 1)
	select {
	case r.cmds <- subscribeCmd{reply: reply}:
		return <-reply
	case <-r.done:
		ch := make(chan Event)
		close(ch)
		return Subscription{C: ch}
	}
}

// Unsubscribe releases a feed and closes its channel.
func (r *Relay) Unsubscribe(id uuid.UUID) {
	select {
	case r.cmds <- unsubscribeCmd{id: id}:
	case <-r.done:
	}
}

// Publish delivers an event to every current subscriber without blocking.
func (r *Relay) Publish(ev Event) {
	select {
	case r.cmds <- publishCmd{ev: ev}:
	case <-r.done:
	}
}

// Subscribers reports the number of open feeds.
func (r *Relay) Subscribers() int {
	reply := make(chan int, 1)
	select {
	case r.cmds <- lenCmd{reply: reply}:
		return <-reply
	case <-r.done:
		return 0
	}
}

// Close stops the dispatch loop and closes every open feed. Idempotent.
func (r *Relay) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}
