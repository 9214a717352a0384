package light

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dalight/dalight/light/provider"
)

// Event is an asynchronous notification published by the connection event
// loop. Concrete types below.
type Event interface{}

// EventConnectionEstablished is published after a successful dial and
// handshake. Node carries the handshake-populated identity of the node
// the loop is now connected to.
type EventConnectionEstablished struct {
	Node provider.Node
}

// EventConnectionLost is published when the live connection fails
// unrecoverably, before failover begins.
type EventConnectionLost struct {
	Host string
	Err  error
}

// EventBus broadcasts events from the single connection event loop to any
// number of subscribers. Delivery is fire-and-forget: each subscriber has
// its own buffer, and a subscriber that falls behind loses its oldest
// unread events rather than blocking the publisher. Subscribers must
// tolerate gaps.
type EventBus struct {
	mtx  sync.RWMutex
	subs map[string]*Subscription
}

func newEventBus() *EventBus {
	return &EventBus{
		subs: make(map[string]*Subscription),
	}
}

// Subscribe registers a new independent listener. Events published before
// the subscription are not replayed.
func (b *EventBus) Subscribe() *Subscription {
	sub := &Subscription{
		id:  uuid.NewString(),
		out: make(chan Event, eventBufferSize),
	}

	b.mtx.Lock()
	b.subs[sub.id] = sub
	b.mtx.Unlock()

	return sub
}

// Unsubscribe removes the subscription and closes its channel. Calling it
// twice is a no-op.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if _, ok := b.subs[sub.id]; !ok {
		return
	}
	delete(b.subs, sub.id)
	close(sub.out)
}

// Publish delivers the event to every current subscriber and reports how
// many events were dropped from lagging subscribers' buffers to make
// room. Publish never blocks.
func (b *EventBus) Publish(event Event) int {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	dropped := 0
	for _, sub := range b.subs {
		dropped += sub.send(event)
	}
	return dropped
}

// Subscription is one listener's view of the event stream.
type Subscription struct {
	id      string
	out     chan Event
	dropped uint64 // atomic
}

// Out returns the channel events are delivered on. It is closed by
// Unsubscribe.
func (s *Subscription) Out() <-chan Event { return s.out }

// Dropped returns how many events this subscription has lost to buffer
// overflow so far.
func (s *Subscription) Dropped() uint64 { return atomic.LoadUint64(&s.dropped) }

// send enqueues the event, evicting the oldest buffered event when the
// buffer is full. Only the event loop calls send, so the evict-then-retry
// loop has a single writer.
func (s *Subscription) send(event Event) int {
	dropped := 0
	for {
		select {
		case s.out <- event:
			return dropped
		default:
		}

		select {
		case <-s.out:
			dropped++
			atomic.AddUint64(&s.dropped, 1)
		default:
			// subscriber drained the buffer between our attempts
		}
	}
}
