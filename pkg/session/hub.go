// Package session fans sign-in and sign-out notifications out to in-process listeners.
//
// A Hub is the single place that knows the last observed state of every session.
// Events produced elsewhere (another instance behind the same Redis) are fed in
// through Relay and reach local listeners exactly like local ones.
package session

import (
	"context"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"portfolio/internal/entity"
)

// Channel is the Redis pub/sub channel instances exchange events on.
const Channel = "portfolio:session-events"

type EventType string

const (
	SignedIn  EventType = "SIGNED_IN"
	SignedOut EventType = "SIGNED_OUT"
)

type Event struct {
	Type    EventType      `json:"type"`
	Session entity.Session `json:"session"`
	Origin  string         `json:"origin"`
	At      time.Time      `json:"at"`
}

type Listener func(Event)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}

func Decode(b []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(b, &e)
	return e, err
}

type Hub struct {
	origin string

	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]Listener
	current   map[string]Event
}

// NewHub returns a hub whose own events are stamped with origin.
func NewHub(origin string) *Hub {
	return &Hub{
		origin:    origin,
		listeners: make(map[uint64]Listener),
		current:   make(map[string]Event),
	}
}

func (h *Hub) Origin() string {
	return h.origin
}

// Subscribe registers l and returns the function that removes it. The returned
// function is safe to call more than once.
func (h *Hub) Subscribe(l Listener) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Notify records e as the latest state of its session and delivers it to every
// listener registered at the time of the call. Listeners run on the caller's goroutine.
func (h *Hub) Notify(e Event) {
	if e.Origin == "" {
		e.Origin = h.origin
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	h.mu.Lock()
	h.pruneLocked(time.Now())
	if e.Type == SignedOut {
		delete(h.current, e.Session.ID)
	} else {
		h.current[e.Session.ID] = e
	}
	listeners := make([]Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		listeners = append(listeners, l)
	}
	h.mu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}

// Current returns the last SIGNED_IN event seen for sessionID, unless that
// session has since expired.
func (h *Hub) Current(sessionID string) (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.current[sessionID]
	if ok && e.Session.Expired(time.Now()) {
		delete(h.current, sessionID)
		return Event{}, false
	}
	return e, ok
}

// Sessions that expire without a sign-out never get a SIGNED_OUT event.
func (h *Hub) pruneLocked(now time.Time) {
	for id, e := range h.current {
		if e.Session.Expired(now) {
			delete(h.current, id)
		}
	}
}

func (h *Hub) tracked() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.current)
}

func (h *Hub) Listeners() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.listeners)
}

// Relay forwards events from other instances until ctx is done or events is closed.
// Events carrying this hub's origin were already delivered locally and are skipped.
func (h *Hub) Relay(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Origin == h.origin {
				continue
			}
			h.Notify(e)
		}
	}
}
