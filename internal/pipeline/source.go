package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/feed"
)

// ChannelSource is a BatchExtractor over posts handed over in process, used
// when the feed runs without Kafka.
type ChannelSource struct {
	posts         chan feed.Post
	flushInterval time.Duration
}

// NewChannelSource creates a source buffering up to size posts.
func NewChannelSource(size int, flushInterval time.Duration) *ChannelSource {
	return &ChannelSource{posts: make(chan feed.Post, size), flushInterval: flushInterval}
}

// Publish queues a post, blocking while the buffer is full. Its signature
// matches the emit callback of feed.Generator.Run.
func (s *ChannelSource) Publish(ctx context.Context, post feed.Post) error {
	select {
	case s.posts <- post:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExtractBatch returns up to batchSize queued posts, or fewer once the flush
// interval elapses.
func (s *ChannelSource) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error) {
	timer := time.NewTimer(s.flushInterval)
	defer timer.Stop()

	batch := make([]domain.RawMessage, 0, batchSize)
	for len(batch) < batchSize {
		select {
		case <-ctx.Done():
			return batch, ctx.Err()
		case <-timer.C:
			return batch, nil
		case post := <-s.posts:
			data, err := json.Marshal(post)
			if err != nil {
				return batch, fmt.Errorf("encode post: %w", err)
			}
			batch = append(batch, domain.RawMessage{
				Key:       []byte(post.ID),
				Value:     data,
				Timestamp: post.Timestamp,
			})
		}
	}
	return batch, nil
}
