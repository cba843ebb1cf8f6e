package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.InDelta(t, 0.3, cfg.AcceptanceThreshold, 1e-9)
	assert.Equal(t, 20, cfg.HistoryLimit)

	assert.Equal(t, "simulated", cfg.GatewayMode)
	assert.Empty(t, cfg.GatewayBaseURL)
	assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
	assert.True(t, cfg.GatewayEnrich)

	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 10000, cfg.SessionCacheSize)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)

	assert.Equal(t, FeedOff, cfg.FeedMode)
	assert.Equal(t, 10*time.Second, cfg.FeedInterval)
	assert.Equal(t, 1000, cfg.AnalyticsWindow)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-social-posts", cfg.KafkaSourceTopic)
	assert.Equal(t, "labelled-social-posts", cfg.KafkaSinkTopic)
	assert.Equal(t, "oceanwatch-feed", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("ACCEPTANCE_THRESHOLD", "0.25")
	t.Setenv("HISTORY_LIMIT", "5")
	t.Setenv("GATEWAY_MODE", "http")
	t.Setenv("GATEWAY_BASE_URL", "http://hazards.internal")
	t.Setenv("GATEWAY_TIMEOUT", "500ms")
	t.Setenv("GATEWAY_ENRICH", "false")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_CACHE_SIZE", "64")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("FEED_MODE", "kafka")
	t.Setenv("FEED_INTERVAL", "2s")
	t.Setenv("ANALYTICS_WINDOW", "50")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.InDelta(t, 0.25, cfg.AcceptanceThreshold, 1e-9)
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, "http", cfg.GatewayMode)
	assert.Equal(t, "http://hazards.internal", cfg.GatewayBaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.GatewayTimeout)
	assert.False(t, cfg.GatewayEnrich)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, 64, cfg.SessionCacheSize)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, FeedKafka, cfg.FeedMode)
	assert.Equal(t, 2*time.Second, cfg.FeedInterval)
	assert.Equal(t, 50, cfg.AnalyticsWindow)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.BatchFlushInterval)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ACCEPTANCE_THRESHOLD", "0"},
		{"ACCEPTANCE_THRESHOLD", "1"},
		{"ACCEPTANCE_THRESHOLD", "high"},
		{"HISTORY_LIMIT", "-3"},
		{"HISTORY_LIMIT", "many"},
		{"SESSION_CACHE_SIZE", "0"},
		{"ANALYTICS_WINDOW", "0"},
		{"GATEWAY_TIMEOUT", "soon"},
		{"GATEWAY_TIMEOUT", "-1s"},
		{"SESSION_TTL", "0s"},
		{"FEED_INTERVAL", "bad"},
		{"GATEWAY_ENRICH", "maybe"},
		{"GATEWAY_MODE", "carrier-pigeon"},
		{"SESSION_STORE", "postgres"},
		{"FEED_MODE", "always"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_HTTPGatewayNeedsBaseURL(t *testing.T) {
	t.Setenv("GATEWAY_MODE", "http")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GATEWAY_BASE_URL")
}
