package assistant

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
)

// generalIntent is a domain-independent intent. Intents are tried in
// declaration order and the first match answers.
type generalIntent struct {
	intent   domain.Intent
	matchers []registry.Matcher
}

func (g generalIntent) match(u domain.Utterance) bool {
	for _, m := range g.matchers {
		if m.Match(u.Normalized) {
			return true
		}
	}
	return false
}

var placeNouns = `(?:places?|beach(?:es)?|spots?|areas?|locations?|destinations?)`

var generalIntents = []generalIntent{
	{domain.IntentGreeting, []registry.Matcher{
		registry.Words("hello", "hi", "hey", "hiya", "greetings", "howdy", "namaste", "good morning", "good afternoon", "good evening"),
	}},
	{domain.IntentFarewell, []registry.Matcher{
		registry.Words("bye", "goodbye", "good bye", "see ya", "see you", "farewell", "take care"),
		registry.Regex(`^(?:exit|quit)$`),
		registry.Regex(`\bhave\s+a\s+(?:nice|good|great)\s+(?:day|night|one)\b`),
	}},
	{domain.IntentThanks, []registry.Matcher{
		registry.Stems("thank", "thx", "appreciat", "grateful", "cheers"),
	}},
	{domain.IntentHelp, []registry.Matcher{
		registry.Regex(`^(?:please\s+)?help(?:\s+me)?[\s!?.]*$`),
		registry.Regex(`\bwhat\s+(?:can|do)\s+you\s+(?:do|know)[\s?!.]*$`),
		registry.Regex(`\bhow\s+(?:can|do)\s+you\s+(?:help|work)(?:\s+me)?[\s?!.]*$`),
		registry.Regex(`\bwhat\s+can\s+i\s+ask(?:\s+you)?[\s?!.]*$`),
	}},
	{domain.IntentPlacesToAvoid, []registry.Matcher{
		registry.Regex(`\bhot\s*spots?\b`),
		registry.Regex(`\b` + placeNouns + `\s+to\s+avoid\b`),
		registry.Regex(`\b(?:dangerous|unsafe|risky|hazardous)\s+` + placeNouns + `\b`),
		registry.Regex(`\bwhere\s+(?:not\s+to|shouldn['’]?t\s+i|should\s+i\s+not)\s+(?:go|swim|visit)\b`),
	}},
	{domain.IntentPlacesToVisit, []registry.Matcher{
		registry.Regex(`\b` + placeNouns + `\s+to\s+(?:visit|go|swim)\b`),
		registry.Regex(`\b(?:safe|safer|safest|best|recommended)\s+` + placeNouns + `\b`),
		registry.Regex(`\bwhere\s+(?:should|can)\s+i\s+(?:go|swim|visit)\b`),
	}},
}

var greetings = []string{
	"Hello! I'm OceanWatch, your ocean safety assistant. Ask me about tsunamis, rip currents, beach safety, or how to prepare for coastal hazards.",
	"Hi there! I can help with ocean hazards, beach safety, coastal communities, marine technology, sea routes and disaster preparedness. What would you like to know?",
	"Welcome! Stay safe near the water. What ocean or coastal topic can I help you with today?",
}

var farewells = []string{
	"Goodbye! Stay safe near the water and keep an eye on official warnings.",
	"Take care! Remember: when the sea suddenly recedes, move to higher ground immediately.",
	"See you soon! Check local conditions before your next beach visit.",
}

var thanks = []string{
	"You're welcome! Stay safe, and feel free to ask about anything ocean-related.",
	"Happy to help! Is there anything else you'd like to know about coastal safety?",
	"Anytime! Sharing safety knowledge with friends and family helps everyone.",
}

const helpText = "I can help you with:\n" +
	"• 🌊 **Ocean hazards**: tsunamis, floods, high waves, rip currents, storms, erosion, pollution\n" +
	"• 🏖️ **Beach safety**: safe places to visit and places to avoid right now\n" +
	"• 🏘️ **Coastal communities**: resilience and livelihoods\n" +
	"• 📡 **Marine technology**: warning systems and monitoring\n" +
	"• 🚢 **Sea routes**: navigation safety and shipping\n" +
	"• 🚨 **Disaster management**: preparation, response and recovery\n" +
	"• 📊 **Live data**: ask for the latest tsunami, wave, current or sea-surface-temperature status"

func formatHotspots(places []registry.Place) string {
	if len(places) == 0 {
		return "I don't have any hazard hotspots on record right now. Always follow local lifeguard flags and official warnings."
	}
	var b strings.Builder
	b.WriteString("⚠️ **Places to Avoid Right Now**:\n")
	for _, p := range places {
		writePlace(&b, p)
	}
	b.WriteString("Check the latest official advisories before heading to the coast.")
	return b.String()
}

func formatSafeLocations(places []registry.Place) string {
	if len(places) == 0 {
		return "I don't have any recommended locations on record right now. Lifeguarded beaches are always the safer choice."
	}
	var b strings.Builder
	b.WriteString("🏖️ **Safer Places to Visit**:\n")
	for _, p := range places {
		writePlace(&b, p)
	}
	b.WriteString("Conditions change quickly, so swim only between the flags.")
	return b.String()
}

func writePlace(b *strings.Builder, p registry.Place) {
	fmt.Fprintf(b, "• %s", p.Name)
	if p.Region != "" {
		fmt.Fprintf(b, " (%s)", p.Region)
	}
	fmt.Fprintf(b, ": Safety rating: %d/5.", p.Rating)
	if len(p.Hazards) > 0 {
		fmt.Fprintf(b, " Hazards: %s.", strings.Join(p.Hazards, ", "))
	}
	if p.Notes != "" {
		fmt.Fprintf(b, " %s", p.Notes)
	}
	b.WriteString("\n")
}
