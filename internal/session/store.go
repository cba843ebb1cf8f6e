// Package session persists dialogue contexts between turns.
//
// Contexts are stored as JSON. A record that cannot be decoded, or that names
// a topic the registry does not know, is replaced by a fresh context and
// reported with domain.ErrMalformedContext so the caller can log and count it.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
)

// Store loads and saves dialogue contexts by session id.
type Store interface {
	// Load returns the stored context, or a fresh one when none exists.
	// On ErrMalformedContext the returned context is fresh and usable.
	Load(ctx context.Context, id string) (*domain.DialogueContext, error)
	Save(ctx context.Context, id string, dc *domain.DialogueContext) error
	Delete(ctx context.Context, id string) error
	CheckReadiness(ctx context.Context) error
}

// Codec converts contexts to and from their stored form.
type Codec struct {
	// KnownTopic validates a decoded topic. Nil accepts any topic.
	KnownTopic func(domain.DomainID) bool
	// HistoryLimit trims decoded history; <= 0 uses the domain default.
	HistoryLimit int
}

// Encode serializes dc.
func (c Codec) Encode(dc *domain.DialogueContext) ([]byte, error) {
	data, err := json.Marshal(dc)
	if err != nil {
		return nil, fmt.Errorf("encode dialogue context: %w", err)
	}
	return data, nil
}

// Decode parses a stored context. It never returns a nil context.
func (c Codec) Decode(data []byte) (*domain.DialogueContext, error) {
	var dc domain.DialogueContext
	if err := json.Unmarshal(data, &dc); err != nil {
		return domain.NewDialogueContext(), fmt.Errorf("%w: %w", domain.ErrMalformedContext, err)
	}
	if dc.CurrentTopic != domain.NoTopic && c.KnownTopic != nil && !c.KnownTopic(dc.CurrentTopic) {
		return domain.NewDialogueContext(), fmt.Errorf("%w: unknown topic %q", domain.ErrMalformedContext, dc.CurrentTopic)
	}
	if dc.History == nil {
		dc.History = []domain.Turn{}
	}
	dc.Trim(c.HistoryLimit)
	return &dc, nil
}
