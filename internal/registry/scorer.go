package registry

import (
	"math"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
)

const (
	// NormalizationDivisor turns a raw weight sum into a confidence. Domains
	// with many patterns saturate at 1.0 sooner; that bias is kept as is.
	NormalizationDivisor = 5.0

	// RepeatBonus is added per extra occurrence of an already-matching pattern.
	RepeatBonus = 0.3

	// DefaultAcceptanceThreshold is the score a top domain must exceed.
	DefaultAcceptanceThreshold = 0.3
)

// DomainScore is one domain's confidence in [0, 1].
type DomainScore struct {
	Domain domain.DomainID `json:"domain"`
	Score  float64         `json:"score"`
}

// Scores holds one entry per domain in registry order. Entries are
// independent confidences and need not sum to 1.
type Scores []DomainScore

// Score rates u against every domain of reg. It is a pure function of its
// inputs.
func Score(u domain.Utterance, reg *Registry) Scores {
	scores := make(Scores, len(reg.domains))
	for i, d := range reg.domains {
		scores[i] = DomainScore{Domain: d.spec.ID, Score: scoreDomain(u.Normalized, d)}
	}
	return scores
}

func scoreDomain(text string, d Domain) float64 {
	var sum float64
	for _, p := range d.spec.Patterns {
		n := p.Matcher.Count(text)
		if n == 0 {
			continue
		}
		sum += p.Weight
		if n > 1 {
			sum += float64(n-1) * RepeatBonus
		}
	}
	return math.Min(1, sum/NormalizationDivisor)
}

// Top returns the highest-scoring domain if its score is strictly above
// threshold. Ties go to the domain registered first.
func (s Scores) Top(threshold float64) (DomainScore, bool) {
	var best DomainScore
	found := false
	for _, ds := range s {
		if !found || ds.Score > best.Score {
			best = ds
			found = true
		}
	}
	if !found || best.Score <= threshold {
		return DomainScore{}, false
	}
	return best, true
}

// Of returns the score of id, or 0 when id is not present.
func (s Scores) Of(id domain.DomainID) float64 {
	for _, ds := range s {
		if ds.Domain == id {
			return ds.Score
		}
	}
	return 0
}

// Map converts the scores to a domain-keyed map.
func (s Scores) Map() map[domain.DomainID]float64 {
	m := make(map[domain.DomainID]float64, len(s))
	for _, ds := range s {
		m[ds.Domain] = ds.Score
	}
	return m
}
