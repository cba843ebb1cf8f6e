package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlaces_Embedded(t *testing.T) {
	places, err := ParsePlaces(placesYAML)
	require.NoError(t, err)
	assert.NotEmpty(t, places)
}

func TestParsePlaces_Invalid(t *testing.T) {
	_, err := ParsePlaces([]byte("places: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse places catalog")

	_, err = ParsePlaces([]byte("places:\n  - name: Nowhere\n    kind: beach\n    rating: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestRegistry_HotspotsMostDangerousFirst(t *testing.T) {
	hotspots := Default().Hotspots()
	require.NotEmpty(t, hotspots)
	for i, p := range hotspots {
		assert.Equal(t, PlaceHotspot, p.Kind)
		if i > 0 {
			assert.LessOrEqual(t, hotspots[i-1].Rating, p.Rating)
		}
	}
	assert.Equal(t, "Chennai Marina", hotspots[0].Name)
}

func TestRegistry_SafeLocationsSafestFirst(t *testing.T) {
	safe := Default().SafeLocations()
	require.NotEmpty(t, safe)
	for i, p := range safe {
		assert.Equal(t, PlaceSafe, p.Kind)
		if i > 0 {
			assert.GreaterOrEqual(t, safe[i-1].Rating, p.Rating)
		}
	}
	assert.Equal(t, "Radhanagar Beach", safe[0].Name)
}

func TestRegistry_PlacesAreCopies(t *testing.T) {
	hotspots := Default().Hotspots()
	hotspots[0].Hazards[0] = "tampered"
	assert.NotEqual(t, "tampered", Default().Hotspots()[0].Hazards[0])
}
