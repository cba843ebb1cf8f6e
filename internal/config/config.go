package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Feed modes. Local runs the generator and labeller in process; kafka
// publishes generated posts to the source topic and labels them from there.
const (
	FeedOff   = "off"
	FeedLocal = "local"
	FeedKafka = "kafka"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	AcceptanceThreshold float64
	HistoryLimit        int

	GatewayMode    string
	GatewayBaseURL string
	GatewayTimeout time.Duration
	GatewayEnrich  bool

	SessionStore     string
	SessionCacheSize int
	RedisURL         string
	SessionTTL       time.Duration

	FeedMode        string
	FeedInterval    time.Duration
	AnalyticsWindow int

	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string

	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	threshold, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("ACCEPTANCE_THRESHOLD", "0.3"), 64)
	if err != nil || threshold <= 0 || threshold >= 1 {
		return nil, errors.New("invalid ACCEPTANCE_THRESHOLD: must be between 0 and 1 exclusive")
	}

	historyLimit, err := parsePositiveInt("HISTORY_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("SESSION_CACHE_SIZE", 10000)
	if err != nil {
		return nil, err
	}
	window, err := parsePositiveInt("ANALYTICS_WINDOW", 1000)
	if err != nil {
		return nil, err
	}

	gatewayTimeout, err := parsePositiveDuration("GATEWAY_TIMEOUT", "3s")
	if err != nil {
		return nil, err
	}
	sessionTTL, err := parsePositiveDuration("SESSION_TTL", "24h")
	if err != nil {
		return nil, err
	}
	feedInterval, err := parsePositiveDuration("FEED_INTERVAL", "10s")
	if err != nil {
		return nil, err
	}

	enrich, err := strconv.ParseBool(sharedcfg.EnvOrDefault("GATEWAY_ENRICH", "true"))
	if err != nil {
		return nil, errors.New("invalid GATEWAY_ENRICH")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		AcceptanceThreshold: threshold,
		HistoryLimit:        historyLimit,

		GatewayMode:    sharedcfg.EnvOrDefault("GATEWAY_MODE", "simulated"),
		GatewayBaseURL: os.Getenv("GATEWAY_BASE_URL"),
		GatewayTimeout: gatewayTimeout,
		GatewayEnrich:  enrich,

		SessionStore:     sharedcfg.EnvOrDefault("SESSION_STORE", SessionStoreMemory),
		SessionCacheSize: cacheSize,
		RedisURL:         sharedcfg.EnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:       sessionTTL,

		FeedMode:        sharedcfg.EnvOrDefault("FEED_MODE", FeedOff),
		FeedInterval:    feedInterval,
		AnalyticsWindow: window,

		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-social-posts"),
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "labelled-social-posts"),
		KafkaGroupID:     sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "oceanwatch-feed"),

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	switch cfg.GatewayMode {
	case "simulated", "off":
	case "http":
		if cfg.GatewayBaseURL == "" {
			return nil, errors.New("GATEWAY_MODE is http but GATEWAY_BASE_URL is not set")
		}
	default:
		return nil, fmt.Errorf("invalid GATEWAY_MODE %q", cfg.GatewayMode)
	}

	switch cfg.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE %q", cfg.SessionStore)
	}

	switch cfg.FeedMode {
	case FeedOff, FeedLocal:
	case FeedKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	default:
		return nil, fmt.Errorf("invalid FEED_MODE %q", cfg.FeedMode)
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
