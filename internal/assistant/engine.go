// Package assistant turns one user utterance plus the session's dialogue
// context into a reply. It owns the router chain, the response selector and
// the bounded wait on the external data gateway.
package assistant

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
)

// DefaultGatewayTimeout bounds a single external data fetch.
const DefaultGatewayTimeout = 3 * time.Second

// Config tunes an Engine. Zero values fall back to defaults.
type Config struct {
	AcceptanceThreshold float64
	HistoryLimit        int
	GatewayTimeout      time.Duration
	Enrich              bool

	Clock  clockwork.Clock // nil uses the domain package clock
	Picker Picker          // nil uses the global math/rand source
}

// Engine answers utterances. It holds no per-session state and is safe for
// concurrent use; callers serialize calls that share a DialogueContext.
type Engine struct {
	registry *registry.Registry
	gateway  domain.Gateway
	cfg      Config
	clock    clockwork.Clock
	picker   Picker
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates an Engine over reg. Pass a nil gateway to disable live data.
func New(reg *registry.Registry, gateway domain.Gateway, cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if cfg.AcceptanceThreshold <= 0 {
		cfg.AcceptanceThreshold = registry.DefaultAcceptanceThreshold
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = domain.DefaultHistoryLimit
	}
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = DefaultGatewayTimeout
	}
	e := &Engine{
		registry: reg,
		gateway:  gateway,
		cfg:      cfg,
		clock:    cfg.Clock,
		picker:   cfg.Picker,
		logger:   logger,
		metrics:  metrics,
	}
	if e.clock == nil {
		e.clock = domain.Clock()
	}
	if e.picker == nil {
		e.picker = globalPicker{}
	}
	return e
}

// ProcessInput appends text to dc's history, routes it and returns the
// reply. dc is updated in place. It always produces a reply; blank input
// gets a rephrase prompt and leaves dc untouched.
func (e *Engine) ProcessInput(ctx context.Context, dc *domain.DialogueContext, text string) domain.Reply {
	u := domain.NewUtterance(text)
	var reply domain.Reply
	if u.Empty() {
		reply = domain.Reply{Text: rephrasePrompt, Route: domain.RouteEmpty}
	} else {
		dc.Record(u.Normalized, e.clock.Now().UTC(), e.cfg.HistoryLimit)
		reply = e.route(ctx, dc, u)
	}

	e.metrics.UtterancesRouted.WithLabelValues(string(reply.Route)).Inc()
	if reply.Domain != domain.NoTopic {
		e.metrics.DomainSelections.WithLabelValues(string(reply.Domain)).Inc()
	}
	e.logger.Debug("utterance routed",
		"route", reply.Route,
		"intent", reply.Intent,
		"domain", reply.Domain,
		"sub_intent", reply.SubIntent,
		"topic", dc.CurrentTopic,
	)
	return reply
}

// Classification labels a text without answering it.
type Classification struct {
	Scores    map[domain.DomainID]float64 `json:"scores"`
	TopDomain domain.DomainID             `json:"top_domain,omitempty"`
	TopName   string                      `json:"top_name,omitempty"`
	TopScore  float64                     `json:"top_score"`
	OffTopic  bool                        `json:"off_topic"`
}

// Classify scores text against every domain. It reads no context and never
// calls the gateway.
func (e *Engine) Classify(text string) Classification {
	u := domain.NewUtterance(text)
	scores := registry.Score(u, e.registry)
	c := Classification{Scores: scores.Map(), OffTopic: !u.Empty() && isOffTopic(u)}
	if top, ok := scores.Top(e.cfg.AcceptanceThreshold); ok {
		c.TopDomain = top.Domain
		c.TopScore = top.Score
		if d, ok := e.registry.Domain(top.Domain); ok {
			c.TopName = d.Name()
		}
	}
	return c
}

// Registry returns the topic catalog the engine routes against.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// HistoryLimit returns the effective history cap.
func (e *Engine) HistoryLimit() int {
	return e.cfg.HistoryLimit
}
