package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
)

var (
	dataCue      = registry.Stems("status", "data", "live", "latest", "update", "reading", "level", "forecast", "conditions", "right now")
	dataProvider = registry.Words("incois", "noaa", "ptwc", "gdacs", "imd")
)

// dataKinds maps request keywords to feeds, checked in order. The last
// entries name feeds no gateway carries; they still reach the gateway so the
// caller gets the list of what is available.
var dataKinds = []struct {
	dataType domain.DataType
	matcher  registry.Matcher
}{
	{domain.DataTsunami, registry.Stems("tsunami")},
	{domain.DataSeaSurfaceTemperature, registry.Regex(`\bsea[\s-]+surface[\s-]+temp|\bsst\b|\bwater\s+temp`)},
	{domain.DataWaves, registry.Regex(`\bwaves?\b|\bswells?\b|\bsurf\b`)},
	{domain.DataCurrents, registry.Regex(`\bcurrents\b|\brip\s+current|\bundertow`)},
	{"salinity", registry.Stems("salinity")},
	{"chlorophyll", registry.Stems("chlorophyll")},
}

// detectDataRequest reports whether u asks for live data and, if it names
// one, which feed. A provider without a feed yields an empty DataType.
// A data cue word is required, so hazard or provider names alone are scored
// as ordinary questions.
func detectDataRequest(u domain.Utterance) (domain.DataType, bool) {
	if !dataCue.Match(u.Normalized) {
		return "", false
	}
	for _, k := range dataKinds {
		if k.matcher.Match(u.Normalized) {
			return k.dataType, true
		}
	}
	if dataProvider.Match(u.Normalized) {
		return "", true
	}
	return "", false
}

// enrichment links hazard sub-intents to the feed that complements them.
var enrichment = map[string]domain.DataType{
	"tsunami":    domain.DataTsunami,
	"earthquake": domain.DataTsunami,
	"wave":       domain.DataWaves,
	"current":    domain.DataCurrents,
}

type fetchResult struct {
	record *domain.ExternalDataRecord
	err    error
}

// fetch runs the gateway call in its own goroutine and waits at most the
// configured timeout. The result channel is buffered so a gateway that
// ignores cancellation can still finish and exit after we stop listening.
func (e *Engine) fetch(ctx context.Context, dataType domain.DataType) (*domain.ExternalDataRecord, error) {
	if e.gateway == nil {
		return nil, fmt.Errorf("fetch %s: gateway disabled", dataType)
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.GatewayTimeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		rec, err := e.gateway.Fetch(ctx, dataType)
		done <- fetchResult{record: rec, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("fetch %s: %w", dataType, domain.ErrGatewayTimeout)
			}
			return nil, fmt.Errorf("fetch %s: %w", dataType, r.err)
		}
		return r.record, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch %s: %w", dataType, domain.ErrGatewayTimeout)
	}
}

func (e *Engine) answerDataRequest(ctx context.Context, dataType domain.DataType) domain.Reply {
	reply := domain.Reply{Route: domain.RouteGeneral, Intent: domain.IntentExternalData, Domain: domain.OceanHazards}
	if dataType == "" {
		reply.Text = availableDataText()
		return reply
	}

	rec, err := e.fetch(ctx, dataType)
	switch {
	case err != nil:
		e.logger.Warn("external data unavailable", "data_type", dataType, "error", err)
		reply.Route = domain.RouteUnavailable
		reply.Text = unavailableText(dataType)
	case rec == nil:
		reply.Text = availableDataText()
	default:
		reply.Text = formatRecord(rec)
	}
	return reply
}

// enrich appends a live snippet to hazard replies when the sub-intent has a
// matching feed. Failures are dropped; the base reply already answers.
func (e *Engine) enrich(ctx context.Context, reply domain.Reply) domain.Reply {
	if !e.cfg.Enrich || reply.Domain != domain.OceanHazards {
		return reply
	}
	dataType, ok := enrichment[reply.SubIntent]
	if !ok {
		return reply
	}
	rec, err := e.fetch(ctx, dataType)
	if err != nil {
		e.logger.Debug("enrichment skipped", "data_type", dataType, "error", err)
		return reply
	}
	if rec != nil {
		reply.Text += "\n\n" + formatRecord(rec)
	}
	return reply
}

func availableDataText() string {
	names := make([]string, 0, len(domain.DataTypes()))
	for _, t := range domain.DataTypes() {
		names = append(names, string(t))
	}
	return "I can provide data about " + strings.Join(names, ", ") + ". Which one would you like?"
}

func unavailableText(dataType domain.DataType) string {
	return fmt.Sprintf("Live %s data is temporarily unavailable. Please check official INCOIS bulletins or your local authority, and try again shortly.", dataType)
}

var dataTitles = map[domain.DataType]string{
	domain.DataTsunami:               "Tsunami Status",
	domain.DataWaves:                 "Wave Conditions",
	domain.DataCurrents:              "Current Conditions",
	domain.DataSeaSurfaceTemperature: "Sea Surface Temperature",
}

func formatRecord(rec *domain.ExternalDataRecord) string {
	title, ok := dataTitles[rec.DataType]
	if !ok {
		title = string(rec.DataType)
	}
	return fmt.Sprintf("📊 **Live %s**: %s. %s (updated %s UTC)",
		title, rec.Status, rec.Message, rec.LastUpdated.UTC().Format("2006-01-02 15:04"))
}
