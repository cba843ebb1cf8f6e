// Package gateway provides live hazard-status lookups for the assistant.
//
// A gateway is assembled from a source (Simulated or Client) wrapped by the
// Coalesce and Instrument decorators. Every record is a fresh snapshot whose
// LastUpdated is the time of the call, not of the underlying observation.
package gateway

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
)

// Source modes accepted by Build.
const (
	ModeSimulated = "simulated"
	ModeHTTP      = "http"
	ModeOff       = "off"
)

// Build assembles the gateway for mode. ModeOff returns a nil gateway,
// which the engine treats as permanently unavailable.
func Build(mode, baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) (domain.Gateway, error) {
	var source domain.Gateway
	switch mode {
	case ModeOff:
		metrics.GatewayEnabled.Set(0)
		return nil, nil
	case ModeSimulated:
		source = NewSimulated(domain.Clock(), DefaultMinLatency, DefaultMaxLatency, uint64(time.Now().UnixNano()))
	case ModeHTTP:
		if baseURL == "" {
			return nil, fmt.Errorf("gateway mode %q needs a base URL", mode)
		}
		source = NewClient(baseURL, timeout, logger)
	default:
		return nil, fmt.Errorf("unknown gateway mode %q", mode)
	}
	metrics.GatewayEnabled.Set(1)
	return Instrument(Coalesce(source, metrics), metrics), nil
}
