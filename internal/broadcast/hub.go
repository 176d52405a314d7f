package broadcast

import "sync"

// subscriberBuffer bounds how far a subscriber may fall behind before
// events are dropped instead of blocking the publisher.
const subscriberBuffer = 16

// Subscriber receives events from a Hub until unsubscribed.
type Subscriber struct {
	events chan Event
}

// Events returns the subscriber's delivery channel. It is closed on
// unsubscribe.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Hub is the fan-out bus. Publishing never blocks: a subscriber that stops
// draining loses events, which is acceptable because events are re-fetch
// hints and a reconnecting client reconciles with a full fetch anyway.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{events: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.events)
}

// Publish delivers an event to every current subscriber, at most once
// each, dropping it for subscribers whose buffers are full.
func (h *Hub) Publish(name EventName, scope Scope) {
	event := Event{Name: name, Scope: scope}
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		select {
		case sub.events <- event:
		default:
		}
	}
}

// SubscriberCount reports the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
