package assistant

import (
	"context"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
)

var (
	questionWord = registry.Words("how", "what", "where", "when", "why")

	hazardKeyword = registry.Stems("tsunami", "tidal wave", "flood", "wave", "swell", "rip current", "current",
		"undertow", "storm", "cyclone", "hurricane", "surge", "erosion", "pollution", "oil spill", "earthquake", "hazard")
	beachKeyword = registry.Stems("beach", "shore", "seaside", "lifeguard", "swim", "sunbath", "snorkel")
)

// questionShape routes wh-questions that mention a hazard or a beach without
// running the full scorer. Hazards win when both are present.
func questionShape(u domain.Utterance) (domain.DomainID, bool) {
	if !questionWord.Match(u.Normalized) {
		return domain.NoTopic, false
	}
	switch {
	case hazardKeyword.Match(u.Normalized):
		return domain.OceanHazards, true
	case beachKeyword.Match(u.Normalized):
		return domain.BeachTourism, true
	}
	return domain.NoTopic, false
}

// route runs the router chain for a non-empty utterance. The first stage
// that recognizes the utterance answers; later stages are not consulted.
func (e *Engine) route(ctx context.Context, dc *domain.DialogueContext, u domain.Utterance) domain.Reply {
	if isOffTopic(u) {
		return domain.Reply{Text: pick(e.picker, deflections), Route: domain.RouteOffTopic}
	}

	if reply, ok := e.generalIntent(ctx, dc, u); ok {
		return reply
	}

	if id, ok := questionShape(u); ok {
		dc.SetTopic(id)
		return e.enrich(ctx, e.domainReply(id, u, domain.RouteQuestion, nil))
	}

	scores := registry.Score(u, e.registry)
	if top, ok := scores.Top(e.cfg.AcceptanceThreshold); ok {
		dc.SetTopic(top.Domain)
		return e.enrich(ctx, e.domainReply(top.Domain, u, domain.RouteScored, scores))
	}

	if !dc.Fresh() {
		if d, ok := e.registry.Domain(dc.CurrentTopic); ok {
			return domain.Reply{Text: d.FollowUp(), Route: domain.RouteFollowUp, Domain: d.ID(), Scores: scores.Map()}
		}
	}

	for _, d := range e.registry.Domains() {
		if d.MatchesFallback(u.Normalized) {
			dc.SetTopic(d.ID())
			return domain.Reply{Text: d.FallbackFact(), Route: domain.RouteFallback, Domain: d.ID(), Scores: scores.Map()}
		}
	}

	return domain.Reply{Text: pick(e.picker, defaults), Route: domain.RouteDefault, Scores: scores.Map()}
}

func (e *Engine) generalIntent(ctx context.Context, dc *domain.DialogueContext, u domain.Utterance) (domain.Reply, bool) {
	for _, g := range generalIntents {
		if !g.match(u) {
			continue
		}
		reply := domain.Reply{Route: domain.RouteGeneral, Intent: g.intent}
		switch g.intent {
		case domain.IntentGreeting:
			reply.Text = pick(e.picker, greetings)
		case domain.IntentFarewell:
			reply.Text = pick(e.picker, farewells)
		case domain.IntentThanks:
			reply.Text = pick(e.picker, thanks)
		case domain.IntentHelp:
			reply.Text = helpText
		case domain.IntentPlacesToAvoid:
			dc.SetTopic(domain.BeachTourism)
			reply.Domain = domain.BeachTourism
			reply.Text = formatHotspots(e.registry.Hotspots())
		case domain.IntentPlacesToVisit:
			dc.SetTopic(domain.BeachTourism)
			reply.Domain = domain.BeachTourism
			reply.Text = formatSafeLocations(e.registry.SafeLocations())
		}
		return reply, true
	}

	if dataType, ok := detectDataRequest(u); ok {
		dc.SetTopic(domain.OceanHazards)
		return e.answerDataRequest(ctx, dataType), true
	}
	return domain.Reply{}, false
}

func (e *Engine) domainReply(id domain.DomainID, u domain.Utterance, route domain.Route, scores registry.Scores) domain.Reply {
	reply := domain.Reply{Route: route, Domain: id}
	if scores != nil {
		reply.Scores = scores.Map()
	}
	d, ok := e.registry.Domain(id)
	if !ok {
		reply.Text = pick(e.picker, defaults)
		return reply
	}
	reply.SubIntent, reply.Text = Select(d, u)
	return reply
}

var defaults = []string{
	"I specialize in ocean hazards and coastal safety. Try asking about tsunamis, rip currents, safe beaches, or disaster preparedness.",
	"I'm not sure I understood that. I can help with ocean hazards, beach safety, coastal communities, marine technology, sea routes and disaster management.",
	"Could you rephrase that? Ask me about waves, currents, storms, or which beaches are safe to visit.",
}

const rephrasePrompt = "I didn't catch that. Could you type your question about ocean safety or coastal hazards?"
