package assistant

import (
	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
)

// offTopic lists subjects the assistant deflects. Matching is word-bounded
// and favors precision: "storm" must never trip "store", but an occasional
// false deflection ("i love this beach") is accepted. Words the domains use
// themselves, such as "economy" or "cost", are left out.
var offTopic = []registry.Matcher{
	registry.Words("sports", "sport", "game", "games", "movie", "movies", "music", "song", "songs", "entertainment", "celebrity", "celebrities", "netflix"),
	registry.Words("politics", "political", "government", "election", "elections", "vote", "voting", "party", "parties"),
	registry.Words("shopping", "shop", "buy", "purchase", "price", "prices", "store"),
	registry.Words("cooking", "recipe", "recipes", "food", "restaurant", "restaurants", "cuisine"),
	registry.Words("joke", "jokes", "funny", "humor", "humour", "comedy", "laugh", "haha"),
	registry.Words("love", "relationship", "relationships", "dating", "romance", "marriage"),
	registry.Words("health", "healthy", "healthcare", "medical", "doctor", "doctors", "hospital", "hospitals", "medicine", "disease", "fitness", "diet"),
	registry.Words("finance", "money", "bank", "investment", "stock", "stocks"),
	registry.Words("religion", "religious", "god", "pray", "prayer", "spiritual"),
	registry.Words("education", "school", "college", "university", "homework", "exam"),
}

var deflections = []string{
	"I'm specifically designed to help with ocean hazards and coastal safety. Could you ask me something about tsunamis, rip currents, beach safety, or coastal weather?",
	"That's outside my area of expertise. I focus on ocean safety, marine hazards, and coastal information. How can I help you stay safe near the water?",
	"I specialize in ocean and coastal topics. Ask me about wave conditions, beach safety, or disaster preparedness instead!",
}

func isOffTopic(u domain.Utterance) bool {
	for _, m := range offTopic {
		if m.Match(u.Normalized) {
			return true
		}
	}
	return false
}
