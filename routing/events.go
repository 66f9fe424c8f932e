package routing

import (
	"github.com/savari-labs/go-transit/geo"
	"github.com/savari-labs/go-transit/graph"
)

//*******************************************
// festival / event overlays
//*******************************************

// Event is one festival or disruption record from the event feed:
// inside the geofenced area and time window, affected edges either
// pick up an extra delay or are closed outright.
type Event struct {
	Area         geo.Geofence
	FromSeconds  int32
	UntilSeconds int32
	DelaySeconds int32
	Closed       bool
}

func (self Event) AppliesTo(g *graph.Graph, edge graph.Edge, at int32) bool {
	if at < self.FromSeconds || at > self.UntilSeconds {
		return false
	}
	// an edge is affected when either endpoint lies in the area
	if self.Area.Contains(g.GetNodeGeom(edge.NodeA)) {
		return true
	}
	return self.Area.Contains(g.GetNodeGeom(edge.NodeB))
}
