package registry

import (
	"testing"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_SharedInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestDefault_DomainOrder(t *testing.T) {
	assert.Equal(t, []domain.DomainID{
		domain.OceanHazards,
		domain.BeachTourism,
		domain.CoastalCommunities,
		domain.MarineTech,
		domain.SeaRoutes,
		domain.DisasterManagement,
	}, Default().IDs())
}

func TestDefault_EveryDomainComplete(t *testing.T) {
	for _, d := range Default().Domains() {
		assert.NotEmpty(t, d.Name(), d.ID())
		assert.NotEmpty(t, d.spec.Patterns, d.ID())
		assert.NotEmpty(t, d.SubIntents(), d.ID())
		assert.NotEmpty(t, d.Default(), d.ID())
		assert.NotEmpty(t, d.FollowUp(), d.ID())
		assert.NotEmpty(t, d.spec.FallbackKeywords, d.ID())
		assert.NotEmpty(t, d.FallbackFact(), d.ID())
	}
}

func TestRegistry_AccessorsReturnCopies(t *testing.T) {
	reg := Default()
	hazards, ok := reg.Domain(domain.OceanHazards)
	require.True(t, ok)

	subs := hazards.SubIntents()
	subs[0].Response = "tampered"
	subs[0].Keywords[0] = "tampered"

	again, _ := reg.Domain(domain.OceanHazards)
	assert.NotEqual(t, "tampered", again.SubIntents()[0].Response)
	assert.Equal(t, "tsunami", again.SubIntents()[0].Keywords[0])

	domains := reg.Domains()
	domains[0] = Domain{}
	assert.Equal(t, domain.OceanHazards, reg.Domains()[0].ID())
}

func TestNew_CopiesInput(t *testing.T) {
	specs := []DomainSpec{{
		ID:       "reef",
		Patterns: []WeightedPattern{{Words("reef"), 1}},
		Default:  "reefs",
	}}
	reg, err := New(specs, nil)
	require.NoError(t, err)

	specs[0].Patterns[0].Weight = 9
	d, _ := reg.Domain("reef")
	assert.InDelta(t, 1.0, d.spec.Patterns[0].Weight, 1e-9)
}

func TestNew_Validation(t *testing.T) {
	valid := func() DomainSpec {
		return DomainSpec{ID: "reef", Patterns: []WeightedPattern{{Words("reef"), 1}}, Default: "reefs"}
	}

	tests := []struct {
		name   string
		specs  func() []DomainSpec
		places []Place
		errMsg string
	}{
		{"no domains", func() []DomainSpec { return nil }, nil, "at least one domain"},
		{"missing id", func() []DomainSpec { s := valid(); s.ID = ""; return []DomainSpec{s} }, nil, "id is required"},
		{"no patterns", func() []DomainSpec { s := valid(); s.Patterns = nil; return []DomainSpec{s} }, nil, "no patterns"},
		{"zero weight", func() []DomainSpec {
			s := valid()
			s.Patterns = []WeightedPattern{{Words("reef"), 0}}
			return []DomainSpec{s}
		}, nil, "non-positive weight"},
		{"nil matcher", func() []DomainSpec {
			s := valid()
			s.Patterns = []WeightedPattern{{nil, 1}}
			return []DomainSpec{s}
		}, nil, "no matcher"},
		{"no default", func() []DomainSpec { s := valid(); s.Default = ""; return []DomainSpec{s} }, nil, "no default"},
		{"duplicate", func() []DomainSpec { return []DomainSpec{valid(), valid()} }, nil, "duplicate"},
		{"bad place", func() []DomainSpec { return []DomainSpec{valid()} }, []Place{{Name: "X", Kind: PlaceSafe, Rating: 9}}, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.specs(), tt.places)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDomain_MatchesFallback(t *testing.T) {
	hazards, _ := Default().Domain(domain.OceanHazards)
	assert.True(t, hazards.MatchesFallback("is the ocean calm today"))
	assert.False(t, hazards.MatchesFallback("nothing relevant"))

	routes, _ := Default().Domain(domain.SeaRoutes)
	assert.True(t, routes.MatchesFallback("going to sea tomorrow"))
	assert.False(t, routes.MatchesFallback("we did some research"), "keywords only match at word start")
}

func TestMatchers(t *testing.T) {
	stems := Stems("wave", "rogue wave")
	assert.True(t, stems.Match("huge waves"))
	assert.False(t, stems.Match("microwaves"))
	assert.Equal(t, 2, stems.Count("a rogue wave then another wave"))

	words := Words("hi")
	assert.True(t, words.Match("hi there"))
	assert.False(t, words.Match("this ship"))

	multi := Stems("high water")
	assert.True(t, multi.Match("high   water mark"))
}

func TestSubIntent_Matches(t *testing.T) {
	wave := SubIntent{Keywords: []string{"wave"}, Excludes: []string{"heat wave"}}
	assert.True(t, wave.Matches("how big are the waves"))
	assert.False(t, wave.Matches("is the heat wave over"))
	assert.False(t, wave.Matches("calm water"))
}
