package gateway

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
)

// Coalesced collapses concurrent fetches of the same data type into one call
// to the inner gateway. Callers that joined the flight share its snapshot.
type Coalesced struct {
	inner   domain.Gateway
	group   singleflight.Group
	metrics *observability.Metrics
}

// Coalesce wraps inner with request coalescing.
func Coalesce(inner domain.Gateway, metrics *observability.Metrics) *Coalesced {
	return &Coalesced{inner: inner, metrics: metrics}
}

// Fetch joins or starts the flight for dataType. The shared call is detached
// from any single caller's cancellation; each caller still stops waiting when
// its own ctx is done.
func (c *Coalesced) Fetch(ctx context.Context, dataType domain.DataType) (*domain.ExternalDataRecord, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(string(dataType), func() (any, error) {
		return c.inner.Fetch(shared, dataType)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.GatewayCoalesced.Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		rec, _ := res.Val.(*domain.ExternalDataRecord)
		return rec, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Instrumented records outcome counters and latency for each fetch.
type Instrumented struct {
	inner   domain.Gateway
	metrics *observability.Metrics
}

// Instrument wraps inner with Prometheus instrumentation.
func Instrument(inner domain.Gateway, metrics *observability.Metrics) *Instrumented {
	return &Instrumented{inner: inner, metrics: metrics}
}

func (g *Instrumented) Fetch(ctx context.Context, dataType domain.DataType) (*domain.ExternalDataRecord, error) {
	label := string(dataType)
	if !dataType.Supported() {
		label = "unsupported"
	}

	start := time.Now()
	rec, err := g.inner.Fetch(ctx, dataType)
	g.metrics.GatewayDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		g.metrics.GatewayRequests.WithLabelValues(label, "timeout").Inc()
	case err != nil:
		g.metrics.GatewayRequests.WithLabelValues(label, "error").Inc()
	case rec == nil:
		g.metrics.GatewayRequests.WithLabelValues(label, "unknown").Inc()
	default:
		g.metrics.GatewayRequests.WithLabelValues(label, "success").Inc()
	}
	return rec, err
}
