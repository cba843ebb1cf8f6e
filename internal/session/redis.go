package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
)

const keyPrefix = "oceanwatch:session:"

// RedisStore keeps contexts in Redis with a sliding TTL: every save
// extends the session's lifetime.
type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	codec   Codec
	metrics *observability.Metrics
}

// OpenRedis parses a redis:// URL and returns a client. It does not dial.
func OpenRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRedisStore creates a store on client. A non-positive ttl keeps
// sessions until deleted.
func NewRedisStore(client *redis.Client, ttl time.Duration, codec Codec, metrics *observability.Metrics) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl, codec: codec, metrics: metrics}
}

func (s *RedisStore) Load(ctx context.Context, id string) (*domain.DialogueContext, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.metrics.SessionStore.WithLabelValues("load", "miss").Inc()
		return domain.NewDialogueContext(), nil
	}
	if err != nil {
		s.metrics.SessionStore.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	dc, err := s.codec.Decode(data)
	if err != nil {
		s.metrics.SessionStore.WithLabelValues("load", "error").Inc()
		return dc, err
	}
	s.metrics.SessionStore.WithLabelValues("load", "hit").Inc()
	return dc, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, dc *domain.DialogueContext) error {
	data, err := s.codec.Encode(dc)
	if err != nil {
		s.metrics.SessionStore.WithLabelValues("save", "error").Inc()
		return err
	}
	if err := s.client.Set(ctx, key(id), data, s.ttl).Err(); err != nil {
		s.metrics.SessionStore.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("save session %s: %w", id, err)
	}
	s.metrics.SessionStore.WithLabelValues("save", "ok").Inc()
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		s.metrics.SessionStore.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	s.metrics.SessionStore.WithLabelValues("delete", "ok").Inc()
	return nil
}

// CheckReadiness pings Redis.
func (s *RedisStore) CheckReadiness(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis not reachable: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func key(id string) string {
	return keyPrefix + id
}
