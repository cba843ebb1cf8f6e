package gateway

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
)

// Default latency range of the simulated source.
const (
	DefaultMinLatency = 300 * time.Millisecond
	DefaultMaxLatency = 1200 * time.Millisecond
)

type bulletin struct {
	status  string
	message string
}

var bulletins = map[domain.DataType][]bulletin{
	domain.DataTsunami: {
		{"No Threat", "No tsunami threat to the Indian Ocean coastline at this time."},
		{"Advisory", "Minor sea level fluctuations possible after a distant earthquake. Stay away from the water's edge."},
		{"Watch", "A tsunami watch is in effect following a strong offshore earthquake. Be ready to move to higher ground."},
	},
	domain.DataWaves: {
		{"Moderate", "Significant wave height of 1.5 to 2.0 m along the east coast."},
		{"High", "High wave alert: swells of 2.5 to 3.5 m expected. Fishermen are advised not to venture out."},
		{"Calm", "Wave heights below 1 m along most beaches."},
	},
	domain.DataCurrents: {
		{"Normal", "Near-shore currents within seasonal norms."},
		{"Strong", "Strong rip currents reported near river mouths and groynes. Swim only between the flags."},
	},
	domain.DataSeaSurfaceTemperature: {
		{"Normal", "Sea surface temperature around 28.5°C, close to the seasonal average."},
		{"Elevated", "Sea surface temperature 1.5°C above normal; conditions favour cyclone formation."},
	},
}

// Simulated produces plausible bulletins after a random latency. The delay
// is waited on the injected clock and ends early when ctx is done.
type Simulated struct {
	clock      clockwork.Clock
	minLatency time.Duration
	maxLatency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a simulated source with latency in [minLatency, maxLatency].
func NewSimulated(clock clockwork.Clock, minLatency, maxLatency time.Duration, seed uint64) *Simulated {
	if maxLatency < minLatency {
		maxLatency = minLatency
	}
	return &Simulated{
		clock:      clock,
		minLatency: minLatency,
		maxLatency: maxLatency,
		rng:        rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

func (s *Simulated) Fetch(ctx context.Context, dataType domain.DataType) (*domain.ExternalDataRecord, error) {
	options, ok := bulletins[dataType]
	if !ok {
		return nil, nil
	}
	delay, idx := s.draw(len(options))

	select {
	case <-s.clock.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	b := options[idx]
	return &domain.ExternalDataRecord{
		DataType:    dataType,
		Status:      b.status,
		Message:     b.message,
		LastUpdated: s.clock.Now().UTC(),
	}, nil
}

func (s *Simulated) draw(n int) (time.Duration, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delay := s.minLatency
	if spread := s.maxLatency - s.minLatency; spread > 0 {
		delay += time.Duration(s.rng.Int64N(int64(spread) + 1))
	}
	return delay, s.rng.IntN(n)
}
