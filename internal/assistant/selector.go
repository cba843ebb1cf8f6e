package assistant

import (
	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
)

// Select picks the response for u within d: the first sub-intent whose
// keywords match wins, otherwise the domain default with an empty name.
func Select(d registry.Domain, u domain.Utterance) (subIntent, text string) {
	for _, s := range d.SubIntents() {
		if s.Matches(u.Normalized) {
			return s.Name, s.Response
		}
	}
	return "", d.Default()
}
