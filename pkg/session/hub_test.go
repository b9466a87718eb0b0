package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/entity"
)

func TestHubSubscribeAndUnsubscribe(t *testing.T) {
	h := NewHub("node-a")

	var got []EventType
	unsubscribe := h.Subscribe(func(e Event) { got = append(got, e.Type) })
	require.Equal(t, 1, h.Listeners())

	h.Notify(Event{Type: SignedIn, Session: entity.Session{ID: "s1"}})
	unsubscribe()
	unsubscribe()
	h.Notify(Event{Type: SignedOut, Session: entity.Session{ID: "s1"}})

	assert.Equal(t, []EventType{SignedIn}, got)
	assert.Equal(t, 0, h.Listeners())
}

func TestHubCurrentTracksLastState(t *testing.T) {
	h := NewHub("node-a")

	_, ok := h.Current("s1")
	assert.False(t, ok)

	h.Notify(Event{Type: SignedIn, Session: entity.Session{ID: "s1", Email: "admin@example.com"}})
	e, ok := h.Current("s1")
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", e.Session.Email)
	assert.Equal(t, "node-a", e.Origin)
	assert.False(t, e.At.IsZero())

	h.Notify(Event{Type: SignedOut, Session: entity.Session{ID: "s1"}})
	_, ok = h.Current("s1")
	assert.False(t, ok)
}

func TestHubForgetsExpiredSessions(t *testing.T) {
	h := NewHub("node-a")
	now := time.Now().UTC()

	h.Notify(Event{Type: SignedIn, Session: entity.Session{ID: "old", ExpiresAt: now.Add(-time.Minute)}})
	_, ok := h.Current("old")
	assert.False(t, ok)
	assert.Equal(t, 0, h.tracked())

	h.Notify(Event{Type: SignedIn, Session: entity.Session{ID: "stale", ExpiresAt: now.Add(-time.Second)}})
	h.Notify(Event{Type: SignedIn, Session: entity.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}})
	assert.Equal(t, 1, h.tracked())

	_, ok = h.Current("live")
	assert.True(t, ok)
}

func TestHubRelaySkipsOwnOrigin(t *testing.T) {
	h := NewHub("node-a")

	var mu sync.Mutex
	var origins []string
	h.Subscribe(func(e Event) {
		mu.Lock()
		origins = append(origins, e.Origin)
		mu.Unlock()
	})

	events := make(chan Event, 3)
	events <- Event{Type: SignedIn, Session: entity.Session{ID: "s1"}, Origin: "node-a"}
	events <- Event{Type: SignedIn, Session: entity.Session{ID: "s2"}, Origin: "node-b"}
	events <- Event{Type: SignedOut, Session: entity.Session{ID: "s2"}, Origin: "node-b"}
	close(events)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	h.Relay(ctx, events)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"node-b", "node-b"}, origins)
}

func TestHubConcurrentNotify(t *testing.T) {
	h := NewHub("node-a")

	var mu sync.Mutex
	count := 0
	h.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsubscribe := h.Subscribe(func(Event) {})
			h.Notify(Event{Type: SignedIn, Session: entity.Session{ID: "s"}})
			unsubscribe()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, count)
	assert.Equal(t, 1, h.Listeners())
}

func TestEncodeDecode(t *testing.T) {
	in := Event{Type: SignedOut, Session: entity.Session{ID: "s1", AdminID: "a1"}, Origin: "node-b"}
	b, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"SIGNED_OUT"`)

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in.Session.ID, out.Session.ID)
	assert.Equal(t, in.Origin, out.Origin)
}
