package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

//*******************************************
// coordinates
//*******************************************

// Coord is a [lon, lat] pair in WGS84.
type Coord [2]float32

func NewCoord(lon, lat float32) Coord {
	return Coord{lon, lat}
}

func (self Coord) Lon() float32 {
	return self[0]
}

func (self Coord) Lat() float32 {
	return self[1]
}

func (self Coord) Point() orb.Point {
	return orb.Point{float64(self[0]), float64(self[1])}
}

// HaversineDistance returns the great-circle distance between two
// coordinates in kilometers.
func HaversineDistance(a, b Coord) float64 {
	return orbgeo.DistanceHaversine(a.Point(), b.Point()) / 1000.0
}

//*******************************************
// geofence
//*******************************************

// Geofence is a closed polygon used to scope event records to an area.
type Geofence struct {
	polygon orb.Polygon
}

func NewGeofence(ring []Coord) Geofence {
	r := make(orb.Ring, 0, len(ring)+1)
	for _, c := range ring {
		r = append(r, c.Point())
	}
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return Geofence{polygon: orb.Polygon{r}}
}

func (self Geofence) Contains(c Coord) bool {
	return planar.PolygonContains(self.polygon, c.Point())
}

func (self Geofence) Bound() orb.Bound {
	return self.polygon.Bound()
}
