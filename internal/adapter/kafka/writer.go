package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/oceanwatch-assistant/internal/config"
	"github.com/couchcryptid/oceanwatch-assistant/internal/feed"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return newWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
}

// NewPostWriter creates a Kafka producer for raw posts on the source topic.
func NewPostWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return newWriter(cfg.KafkaBrokers, cfg.KafkaSourceTopic, logger)
}

func newWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		// Posts arrive one at a time from the generator.
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes labelled posts in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, posts []feed.LabelledPost) error {
	if len(posts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(posts))
	for i := range posts {
		msg, err := serializeLabelled(posts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

// PublishPost publishes one raw post. Its signature matches the emit
// callback of feed.Generator.Run.
func (w *Writer) PublishPost(ctx context.Context, post feed.Post) error {
	msg, err := serializePost(post)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	w.logger.Debug("post published", "post_id", post.ID, "platform", post.Platform)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializePost(post feed.Post) (kafkago.Message, error) {
	data, err := json.Marshal(post)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize post: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(post.ID),
		Value: data,
		Time:  post.Timestamp,
		Headers: []kafkago.Header{
			{Key: "platform", Value: []byte(post.Platform)},
		},
	}, nil
}

func serializeLabelled(post feed.LabelledPost) (kafkago.Message, error) {
	data, err := json.Marshal(post)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize labelled post: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(post.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hazard_type", Value: []byte(post.Analysis.HazardType)},
			{Key: "processed_at", Value: []byte(post.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
