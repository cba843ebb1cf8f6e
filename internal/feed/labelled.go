package feed

import (
	"time"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/lexicon"
)

// LabelledPost is a post with its lexicon labels and the assistant domain it
// belongs to. Domain is empty when no domain clears the acceptance threshold
// or the text is off-topic.
type LabelledPost struct {
	Post
	Analysis    lexicon.Analysis `json:"analysis"`
	Domain      domain.DomainID  `json:"domain,omitempty"`
	DomainScore float64          `json:"domain_score"`
	ProcessedAt time.Time        `json:"processed_at"`
}

// Sample returns the analytics sample of the post.
func (p LabelledPost) Sample() lexicon.Sample {
	return lexicon.Sample{At: p.Timestamp, Analysis: p.Analysis}
}
