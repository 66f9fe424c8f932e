package routing

import (
	"context"

	"github.com/savari-labs/go-transit/geo"
	"github.com/savari-labs/go-transit/graph"
	. "github.com/savari-labs/go-transit/util"
)

type flag_td struct {
	cost      float64
	arrival   int32
	prev_edge int32
	prev_mode graph.TransportMode
	has_prev  bool
	visited   bool
}

// TimeDijkstra is a schedule-aware best-first search over a bounded
// subgraph. Search state is (node, arrival time): an edge is only
// relaxed against its next boardable departure after the partial
// path's arrival at the source node. An admissible great-circle lower
// bound (straight-line distance at the fastest mode speed, weighted by
// α only) prunes the frontier without ever overestimating remaining
// cost. The search reads the graph and overlay view but never mutates
// either.
type TimeDijkstra struct {
	sub       *graph.Subgraph
	weight    *Weighting
	heap      PriorityQueue[int32, float64]
	flags     []flag_td
	departure int32
	horizon   int32

	// km/h of the fastest mode, bounds the heuristic from above
	max_speed float64
	dest_loc  geo.Coord
}

func NewTimeDijkstra(sub *graph.Subgraph, weight *Weighting, departure, horizon int32, max_speed_kmh float64) *TimeDijkstra {
	g := sub.Graph()
	d := TimeDijkstra{
		sub:       sub,
		weight:    weight,
		departure: departure,
		horizon:   horizon,
		max_speed: max_speed_kmh,
		dest_loc:  g.GetNodeGeom(sub.Dest),
	}

	flags := make([]flag_td, g.NodeCount())
	for i := 0; i < len(flags); i++ {
		flags[i].cost = 1000000000
		flags[i].prev_edge = -1
	}
	flags[sub.Origin].cost = 0
	flags[sub.Origin].arrival = departure
	d.flags = flags

	heap := NewPriorityQueue[int32, float64](100)
	heap.Enqueue(sub.Origin, d.lower_bound(sub.Origin))
	d.heap = heap

	return &d
}

// lower_bound is the admissible remaining-cost estimate for a node:
// only the α·time term of the weight function, computed from the
// great-circle distance at the fastest possible speed. Every other
// cost term is non-negative, so the bound never exceeds the true
// remaining cost.
func (self *TimeDijkstra) lower_bound(node int32) float64 {
	dist := geo.HaversineDistance(self.sub.Graph().GetNodeGeom(node), self.dest_loc)
	min_minutes := dist / self.max_speed * 60.0
	return self.weight.coef.Alpha * min_minutes
}

func (self *TimeDijkstra) CalcShortestPath(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	g := self.sub.Graph()
	steps := 0
	for {
		steps += 1
		if steps%256 == 0 && ctx.Err() != nil {
			return false
		}
		curr_id, ok := self.heap.Dequeue()
		if !ok {
			return false
		}
		if curr_id == self.sub.Dest {
			return true
		}
		curr_flag := self.flags[curr_id]
		if curr_flag.visited {
			continue
		}
		curr_flag.visited = true
		g.ForOutEdges(curr_id, func(edge int32, other_id int32) {
			if !self.sub.ContainsNode(other_id) {
				return
			}
			other_flag := self.flags[other_id]
			if other_flag.visited {
				return
			}
			edge_cost, arrival, ok := self.weight.EdgeWeight(edge, curr_flag.prev_mode, curr_flag.has_prev, curr_flag.arrival)
			if !ok {
				return
			}
			if arrival-self.departure > self.horizon {
				return
			}
			new_cost := curr_flag.cost + edge_cost
			if other_flag.cost > new_cost {
				other_flag.cost = new_cost
				other_flag.arrival = arrival
				other_flag.prev_edge = edge
				other_flag.prev_mode = g.GetEdge(edge).Mode
				other_flag.has_prev = true
				self.heap.Enqueue(other_id, new_cost+self.lower_bound(other_id))
			}
			self.flags[other_id] = other_flag
		})
		self.flags[curr_id] = curr_flag
	}
}

// GetPath backtracks the settled destination into a Path. Only valid
// after CalcShortestPath returned true.
func (self *TimeDijkstra) GetPath(overlays graph.OverlayView, neutral_safety float64) Path {
	g := self.sub.Graph()

	edges := make([]int32, 0, 10)
	curr_id := self.sub.Dest
	for curr_id != self.sub.Origin {
		edge := self.flags[curr_id].prev_edge
		edges = append(edges, edge)
		curr_id = g.GetEdge(edge).NodeA
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return NewPath(g, edges, overlays, self.departure, self.flags[self.sub.Dest].arrival, neutral_safety)
}

// Cost returns the accumulated weight of the found path.
func (self *TimeDijkstra) Cost() float64 {
	return self.flags[self.sub.Dest].cost
}
