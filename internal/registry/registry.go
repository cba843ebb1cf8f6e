// Package registry holds the immutable topic catalog of the assistant and the
// weighted scorer that rates an utterance against it.
//
// A Registry is built once at startup and shared by reference between all
// sessions. Nothing in it changes afterwards: constructors copy their input
// and accessors hand out copies.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
)

// DomainSpec is the authoring form of a Domain.
type DomainSpec struct {
	ID         domain.DomainID
	Name       string
	Patterns   []WeightedPattern
	SubIntents []SubIntent
	Default    string
	FollowUp   string

	// FallbackKeywords are scanned when weighted scoring finds nothing.
	FallbackKeywords []string
	FallbackFact     string
}

// Domain is a frozen topic cluster.
type Domain struct {
	spec     DomainSpec
	fallback Matcher
}

func (d Domain) ID() domain.DomainID  { return d.spec.ID }
func (d Domain) Name() string         { return d.spec.Name }
func (d Domain) Default() string      { return d.spec.Default }
func (d Domain) FollowUp() string     { return d.spec.FollowUp }
func (d Domain) FallbackFact() string { return d.spec.FallbackFact }

// MatchesFallback reports whether text contains one of the fallback keywords
// at a word start.
func (d Domain) MatchesFallback(text string) bool {
	return d.fallback != nil && d.fallback.Match(text)
}

// SubIntents returns the sub-intent table in evaluation order.
func (d Domain) SubIntents() []SubIntent {
	out := make([]SubIntent, len(d.spec.SubIntents))
	for i, s := range d.spec.SubIntents {
		out[i] = cloneSubIntent(s)
	}
	return out
}

// Registry is an ordered, read-only set of domains plus the places catalog.
type Registry struct {
	domains []Domain
	index   map[domain.DomainID]int
	places  []Place
}

// New validates specs and freezes them, in the given order, into a Registry.
func New(specs []DomainSpec, places []Place) (*Registry, error) {
	if len(specs) == 0 {
		return nil, errors.New("registry needs at least one domain")
	}
	r := &Registry{
		domains: make([]Domain, 0, len(specs)),
		index:   make(map[domain.DomainID]int, len(specs)),
	}
	for _, s := range specs {
		if err := validateSpec(s); err != nil {
			return nil, err
		}
		if _, dup := r.index[s.ID]; dup {
			return nil, fmt.Errorf("duplicate domain %q", s.ID)
		}
		d := Domain{spec: cloneSpec(s)}
		if len(s.FallbackKeywords) > 0 {
			d.fallback = Stems(s.FallbackKeywords...)
		}
		r.index[s.ID] = len(r.domains)
		r.domains = append(r.domains, d)
	}
	for _, p := range places {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	r.places = clonePlaces(places)
	return r, nil
}

// MustNew is New for program-constant catalogs.
func MustNew(specs []DomainSpec, places []Place) *Registry {
	r, err := New(specs, places)
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return r
}

// Domains returns all domains in iteration order.
func (r *Registry) Domains() []Domain { return slices.Clone(r.domains) }

// Domain looks up a domain by id.
func (r *Registry) Domain(id domain.DomainID) (Domain, bool) {
	i, ok := r.index[id]
	if !ok {
		return Domain{}, false
	}
	return r.domains[i], true
}

// Has reports whether id names a registered domain.
func (r *Registry) Has(id domain.DomainID) bool {
	_, ok := r.index[id]
	return ok
}

// IDs returns domain ids in iteration order.
func (r *Registry) IDs() []domain.DomainID {
	ids := make([]domain.DomainID, len(r.domains))
	for i, d := range r.domains {
		ids[i] = d.spec.ID
	}
	return ids
}

func validateSpec(s DomainSpec) error {
	if s.ID == domain.NoTopic {
		return errors.New("domain id is required")
	}
	if len(s.Patterns) == 0 {
		return fmt.Errorf("domain %q has no patterns", s.ID)
	}
	for i, p := range s.Patterns {
		if p.Matcher == nil {
			return fmt.Errorf("domain %q pattern %d has no matcher", s.ID, i)
		}
		if p.Weight <= 0 {
			return fmt.Errorf("domain %q pattern %d has non-positive weight %v", s.ID, i, p.Weight)
		}
	}
	if s.Default == "" {
		return fmt.Errorf("domain %q has no default response", s.ID)
	}
	return nil
}

func cloneSpec(s DomainSpec) DomainSpec {
	out := s
	out.Patterns = slices.Clone(s.Patterns)
	out.FallbackKeywords = slices.Clone(s.FallbackKeywords)
	out.SubIntents = make([]SubIntent, len(s.SubIntents))
	for i, sub := range s.SubIntents {
		out.SubIntents[i] = cloneSubIntent(sub)
	}
	return out
}

func cloneSubIntent(s SubIntent) SubIntent {
	out := s
	out.Keywords = slices.Clone(s.Keywords)
	out.Excludes = slices.Clone(s.Excludes)
	return out
}
