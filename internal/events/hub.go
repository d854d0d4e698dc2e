// Package events fans domain events out to a user's live connections.
// Delivery is best effort: a subscriber that falls behind loses events
// rather than blocking the publisher.
package events

import (
	"log"
	"sync"
	"time"
)

// Kind names an event.
type Kind string

const (
	KindFastingStarted   Kind = "fasting.started"
	KindFastingCompleted Kind = "fasting.completed"
	KindFastingStopped   Kind = "fasting.stopped"
	KindPointsEarned     Kind = "points.earned"
	KindBadgeUnlocked    Kind = "badge.unlocked"
	KindAlert            Kind = "alert"
	KindMedalClaimed     Kind = "challenge.claimed"
)

// Event is one notification for one user.
type Event struct {
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

// bufferSize is how many undelivered events a subscription holds.
const bufferSize = 32

// Subscription receives a user's events on C until it is unsubscribed.
type Subscription struct {
	uid string
	C   chan Event
}

// Hub routes events to the subscriptions of the user they belong to.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

func (h *Hub) Subscribe(uid string) *Subscription {
	s := &Subscription{uid: uid, C: make(chan Event, bufferSize)}
	h.mu.Lock()
	if h.subs[uid] == nil {
		h.subs[uid] = make(map[*Subscription]struct{})
	}
	h.subs[uid][s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe removes s and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[s.uid]
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.uid)
	}
	close(s.C)
}

// Publish delivers ev to every subscription of uid without blocking.
func (h *Hub) Publish(uid string, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[uid] {
		select {
		case s.C <- ev:
		default:
			log.Printf("[Hub.Publish] dropped %s for uid=%s: subscriber full", ev.Kind, uid)
		}
	}
}

// Subscribers is the number of live subscriptions for uid.
func (h *Hub) Subscribers(uid string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[uid])
}
