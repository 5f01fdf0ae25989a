package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// subBuffer is the per-subscription channel depth. A full buffer means a
// wakeup is already pending, so further signals can be dropped: the consumer
// re-fetches the whole view on any signal, not per event.
const subBuffer = 16

// Hub fans changes out from the listener to per-trip subscriptions.
// Safe for concurrent use.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*Subscription
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]*Subscription)}
}

// Subscribe registers interest in changes relevant to one trip. The
// subscription has two legs acquired together: travel_days changes filtered
// to the trip, and day_plans changes unfiltered (plans carry no trip
// reference, so every plan write everywhere is delivered). Close releases
// both legs together.
func (h *Hub) Subscribe(tripID uuid.UUID) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		hub:    h,
		id:     h.nextID,
		tripID: tripID,
		ch:     make(chan Change, subBuffer),
	}
	h.subs[sub.id] = sub
	return sub
}

// Broadcast delivers a change to every subscription whose legs match it.
// Delivery never blocks: a subscriber with a full buffer already has a
// pending wakeup and the extra signal carries no additional information.
func (h *Hub) Broadcast(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if !sub.matches(c) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
		}
	}
}

// unsubscribe removes the subscription and closes its channel.
// Holding the mutex here and in Broadcast guarantees no send lands on the
// closed channel.
func (h *Hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// Subscription is one trip's registered interest in changes. Obtain via
// Hub.Subscribe; release with Close.
type Subscription struct {
	hub    *Hub
	id     int
	tripID uuid.UUID
	ch     chan Change
	once   sync.Once
}

// C returns the channel on which matching changes arrive. The channel is
// closed by Close.
func (s *Subscription) C() <-chan Change {
	return s.ch
}

// Close releases both legs of the subscription. Idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s.id)
	})
}

// matches implements the two legs: days scoped to the trip, plans global.
func (s *Subscription) matches(c Change) bool {
	switch c.Table {
	case "travel_days":
		return c.TripID == s.tripID
	case "day_plans":
		return true
	}
	return false
}
