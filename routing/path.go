package routing

import (
	"strings"

	"github.com/savari-labs/go-transit/graph"
)

//*******************************************
// path
//*******************************************

// Path is the raw output of one search run: a connected edge walk from
// origin to destination plus its derived metric vector. Immutable once
// produced.
type Path struct {
	Edges   []int32
	EdgeIDs []string

	Departure       int32
	Arrival         int32
	DurationSeconds int32
	DistanceKM      float64
	Fare            float64
	Transfers       int
	SegmentSafety   []float64
}

// NewPath derives the metric vector of an edge sequence. Safety per
// segment comes from the overlay view, falling back to the neutral
// default where no data exists.
func NewPath(g *graph.Graph, edges []int32, overlays graph.OverlayView, departure, arrival int32, neutral_safety float64) Path {
	path := Path{
		Edges:     edges,
		Departure: departure,
		Arrival:   arrival,
	}
	path.DurationSeconds = arrival - departure
	prev_mode := graph.TransportMode(0)
	for i, e := range edges {
		edge := g.GetEdge(e)
		path.EdgeIDs = append(path.EdgeIDs, edge.ID)
		path.DistanceKM += edge.DistanceKM
		path.Fare += edge.Fare
		if i > 0 && edge.Mode != prev_mode {
			path.Transfers += 1
		}
		prev_mode = edge.Mode
		safety, ok := overlays.SafetyScore(edge.ID)
		if !ok {
			safety = neutral_safety
		}
		path.SegmentSafety = append(path.SegmentSafety, safety)
	}
	return path
}

// Key identifies a path by its exact edge sequence, used to
// deduplicate identical paths across profile runs.
func (self Path) Key() string {
	return strings.Join(self.EdgeIDs, "|")
}
