package testsupport

import (
	"context"
	"sync"
	"time"

	"portfolio/internal/entity"
	"portfolio/pkg/redis"
)

// Redis is an in-memory redis.IRedis with synchronous pub/sub.
type Redis struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
	subs     map[string][]chan []byte

	GetErr error
}

var _ redis.IRedis = (*Redis)(nil)

func NewRedis() *Redis {
	return &Redis{
		sessions: make(map[string]entity.Session),
		subs:     make(map[string][]chan []byte),
	}
}

func (r *Redis) SetSession(_ context.Context, s entity.Session, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *Redis) GetSession(_ context.Context, id string) (entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.GetErr != nil {
		return entity.Session{}, r.GetErr
	}
	s, ok := r.sessions[id]
	if !ok {
		return entity.Session{}, redis.ErrSessionNotFound
	}
	return s, nil
}

func (r *Redis) DeleteSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *Redis) HasSession(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

func (r *Redis) Publish(_ context.Context, channel string, payload []byte) error {
	r.mu.Lock()
	subs := append([]chan []byte(nil), r.subs[channel]...)
	r.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (r *Redis) Subscribe(_ context.Context, channel string) (<-chan []byte, func() error) {
	ch := make(chan []byte, 16)

	r.mu.Lock()
	r.subs[channel] = append(r.subs[channel], ch)
	r.mu.Unlock()

	var once sync.Once
	return ch, func() error {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			subs := r.subs[channel]
			for i, c := range subs {
				if c == ch {
					r.subs[channel] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			close(ch)
		})
		return nil
	}
}

func (r *Redis) Close() error {
	return nil
}
