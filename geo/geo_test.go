package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	a := NewCoord(77.200, 28.600)

	assert.Zero(t, HaversineDistance(a, a))

	// one degree of latitude is close to 111 km
	b := NewCoord(77.200, 29.600)
	assert.InDelta(t, 111.2, HaversineDistance(a, b), 0.5)

	// symmetric
	assert.Equal(t, HaversineDistance(a, b), HaversineDistance(b, a))

	// longitude degrees shrink with latitude
	c := NewCoord(78.200, 28.600)
	assert.InDelta(t, 97.6, HaversineDistance(a, c), 1.0)
}

func TestCoordAccessors(t *testing.T) {
	c := NewCoord(77.21, 28.61)
	assert.Equal(t, float32(77.21), c.Lon())
	assert.Equal(t, float32(28.61), c.Lat())

	p := c.Point()
	assert.InDelta(t, 77.21, p[0], 1e-5)
	assert.InDelta(t, 28.61, p[1], 1e-5)
}

func TestGeofenceContains(t *testing.T) {
	fence := NewGeofence([]Coord{
		{77.20, 28.60},
		{77.22, 28.60},
		{77.22, 28.62},
		{77.20, 28.62},
	})

	assert.True(t, fence.Contains(NewCoord(77.21, 28.61)))
	assert.False(t, fence.Contains(NewCoord(77.25, 28.61)))
	assert.False(t, fence.Contains(NewCoord(77.21, 28.59)))
}

func TestGeofenceClosesOpenRing(t *testing.T) {
	open := NewGeofence([]Coord{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	closed := NewGeofence([]Coord{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}})

	probe := NewCoord(0.5, 0.5)
	assert.True(t, open.Contains(probe))
	assert.True(t, closed.Contains(probe))
}
