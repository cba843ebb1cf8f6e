package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/oceanwatch-assistant/internal/assistant"
	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/feed"
	"github.com/couchcryptid/oceanwatch-assistant/internal/lexicon"
)

// ErrEmptyPost marks a post without any text.
var ErrEmptyPost = errors.New("post has no text")

// Classifier scores a text against the assistant domains.
type Classifier interface {
	Classify(text string) assistant.Classification
}

// PostLabeller implements Transformer: it decodes a raw post and attaches
// lexicon labels and the best matching assistant domain.
type PostLabeller struct {
	classifier Classifier
}

// NewLabeller creates a PostLabeller.
func NewLabeller(classifier Classifier) *PostLabeller {
	return &PostLabeller{classifier: classifier}
}

func (l *PostLabeller) Transform(_ context.Context, raw domain.RawMessage) (feed.LabelledPost, error) {
	var post feed.Post
	if err := json.Unmarshal(raw.Value, &post); err != nil {
		return feed.LabelledPost{}, fmt.Errorf("decode post: %w", err)
	}
	if strings.TrimSpace(post.Text) == "" {
		return feed.LabelledPost{}, fmt.Errorf("post %q: %w", post.ID, ErrEmptyPost)
	}
	if post.ID == "" {
		post.ID = string(raw.Key)
	}
	if post.Timestamp.IsZero() {
		post.Timestamp = raw.Timestamp
	}
	return Label(l.classifier, post), nil
}

// Label labels one post.
func Label(classifier Classifier, post feed.Post) feed.LabelledPost {
	out := feed.LabelledPost{
		Post:        post,
		Analysis:    lexicon.Analyze(post.Text),
		ProcessedAt: domain.Now(),
	}
	if c := classifier.Classify(post.Text); !c.OffTopic {
		out.Domain = c.TopDomain
		out.DomainScore = c.TopScore
	}
	return out
}
