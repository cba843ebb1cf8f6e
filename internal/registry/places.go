package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// PlaceKind separates locations to avoid from locations to recommend.
type PlaceKind string

const (
	PlaceHotspot PlaceKind = "hotspot"
	PlaceSafe    PlaceKind = "safe"
)

// Place is a named coastal location with a 1 (dangerous) to 5 (safest) rating.
type Place struct {
	Name    string    `yaml:"name" json:"name"`
	Region  string    `yaml:"region" json:"region"`
	Lat     float64   `yaml:"lat" json:"lat"`
	Lon     float64   `yaml:"lon" json:"lon"`
	Kind    PlaceKind `yaml:"kind" json:"kind"`
	Rating  int       `yaml:"rating" json:"rating"`
	Hazards []string  `yaml:"hazards,omitempty" json:"hazards,omitempty"`
	Notes   string    `yaml:"notes,omitempty" json:"notes,omitempty"`
}

//go:embed places.yaml
var placesYAML []byte

type placesDocument struct {
	Places []Place `yaml:"places"`
}

// ParsePlaces decodes a places catalog document.
func ParsePlaces(data []byte) ([]Place, error) {
	var doc placesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse places catalog: %w", err)
	}
	for _, p := range doc.Places {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	return doc.Places, nil
}

func (p Place) validate() error {
	if p.Name == "" {
		return errors.New("place name is required")
	}
	if p.Kind != PlaceHotspot && p.Kind != PlaceSafe {
		return fmt.Errorf("place %q has unknown kind %q", p.Name, p.Kind)
	}
	if p.Rating < 1 || p.Rating > 5 {
		return fmt.Errorf("place %q rating %d out of range 1-5", p.Name, p.Rating)
	}
	return nil
}

// Places returns the whole catalog in document order.
func (r *Registry) Places() []Place { return clonePlaces(r.places) }

// Hotspots returns places to avoid, most dangerous first.
func (r *Registry) Hotspots() []Place {
	return r.placesOfKind(PlaceHotspot, func(a, b Place) int { return a.Rating - b.Rating })
}

// SafeLocations returns recommended places, safest first.
func (r *Registry) SafeLocations() []Place {
	return r.placesOfKind(PlaceSafe, func(a, b Place) int { return b.Rating - a.Rating })
}

func (r *Registry) placesOfKind(kind PlaceKind, cmp func(a, b Place) int) []Place {
	var out []Place
	for _, p := range r.places {
		if p.Kind == kind {
			out = append(out, clonePlace(p))
		}
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func clonePlaces(in []Place) []Place {
	out := make([]Place, len(in))
	for i, p := range in {
		out[i] = clonePlace(p)
	}
	return out
}

func clonePlace(p Place) Place {
	p.Hazards = slices.Clone(p.Hazards)
	return p
}
