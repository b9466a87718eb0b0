package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"portfolio/internal/entity"
)

const sessionKeyPrefix = "session:"

var ErrSessionNotFound = errors.New("session not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type IRedis interface {
	SetSession(ctx context.Context, session entity.Session, expiration time.Duration) error
	GetSession(ctx context.Context, id string) (entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error)
	Close() error
}

type redisClient struct {
	client *redis.Client
	log    *logrus.Logger
}

func New(log *logrus.Logger) IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	log.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		log.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client, log: log}
}

func (r *redisClient) SetSession(ctx context.Context, session entity.Session, expiration time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+session.ID, payload, expiration).Err(); err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Error storing session")
		return err
	}

	return nil
}

func (r *redisClient) GetSession(ctx context.Context, id string) (entity.Session, error) {
	val, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.Session{}, ErrSessionNotFound
	} else if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": id,
			"error":      err.Error(),
		}).Error("Error reading session")
		return entity.Session{}, err
	}

	var session entity.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return entity.Session{}, fmt.Errorf("decode session: %w", err)
	}

	return session, nil
}

func (r *redisClient) DeleteSession(ctx context.Context, id string) error {
	result, err := r.client.Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": id,
			"error":      err.Error(),
		}).Error("Error deleting session")
		return err
	}

	if result == 0 {
		r.log.WithField("session_id", id).Debug("Session already gone")
	}

	return nil
}

func (r *redisClient) Publish(ctx context.Context, channel string, payload []byte) error {
	return r.client.Publish(ctx, channel, payload).Err()
}

// Subscribe delivers channel payloads until ctx is done or the returned close func is called.
func (r *redisClient) Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error) {
	pubsub := r.client.Subscribe(ctx, channel)
	out := make(chan []byte)

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, pubsub.Close
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
