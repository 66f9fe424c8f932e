package graph

import (
	"errors"
	"math"

	"github.com/savari-labs/go-transit/geo"
	. "github.com/savari-labs/go-transit/util"
)

// ErrOutOfCoverage is returned when no network node exists within the
// search radius of a requested endpoint.
var ErrOutOfCoverage = errors.New("no network coverage near requested location")

//*******************************************
// spatial grid index
//*******************************************

// cell edge in degrees, roughly 1.1 km north-south
const grid_cell_size = 0.01

type grid_key struct {
	x int32
	y int32
}

// GridIndex buckets node indices into fixed-size lat/lon cells so that
// radius queries touch a bounded number of cells regardless of total
// network size.
type GridIndex struct {
	cells map[grid_key][]int32
}

func NewGridIndex(nodes []Node) *GridIndex {
	index := &GridIndex{
		cells: make(map[grid_key][]int32, len(nodes)/4+1),
	}
	for i, node := range nodes {
		key := cell_of(node.Loc)
		index.cells[key] = append(index.cells[key], int32(i))
	}
	return index
}

func cell_of(c geo.Coord) grid_key {
	return grid_key{
		x: int32(math.Floor(float64(c.Lon()) / grid_cell_size)),
		y: int32(math.Floor(float64(c.Lat()) / grid_cell_size)),
	}
}

// ForNodesWithin calls the callback for every indexed node within
// radius_km of the given point.
func (self *GridIndex) ForNodesWithin(nodes []Node, point geo.Coord, radius_km float64, callback func(node int32)) {
	// degrees per km, padded for longitude shrink away from the equator
	lat_span := radius_km / 110.6
	lon_span := lat_span / math.Max(0.2, math.Cos(float64(point.Lat())*math.Pi/180.0))
	min := cell_of(geo.NewCoord(point.Lon()-float32(lon_span), point.Lat()-float32(lat_span)))
	max := cell_of(geo.NewCoord(point.Lon()+float32(lon_span), point.Lat()+float32(lat_span)))
	for x := min.x; x <= max.x; x++ {
		for y := min.y; y <= max.y; y++ {
			for _, n := range self.cells[grid_key{x, y}] {
				if geo.HaversineDistance(nodes[n].Loc, point) <= radius_km {
					callback(n)
				}
			}
		}
	}
}

func (self *GridIndex) GetClosestNode(nodes []Node, point geo.Coord, radius_km float64) (int32, bool) {
	closest := int32(-1)
	best := math.Inf(1)
	self.ForNodesWithin(nodes, point, radius_km, func(node int32) {
		d := geo.HaversineDistance(nodes[node].Loc, point)
		if d < best {
			best = d
			closest = node
		}
	})
	return closest, closest != -1
}

//*******************************************
// bounded subgraph view
//*******************************************

// Subgraph is a read-only corridor view over one snapshot, bounding
// search work independently of total network size. It never copies or
// mutates the underlying graph.
type Subgraph struct {
	g       *Graph
	nodes   Dict[int32, bool]
	EdgeIDs List[string]
	Origin  int32
	Dest    int32
}

// SubgraphAround returns the corridor view between origin and
// destination: every node within radius_km of the straight
// origin-destination corridor, widened so both endpoints keep their
// full radius, plus the far endpoints of informal edges touching the
// corridor. Errors with ErrOutOfCoverage when either endpoint has no
// node within radius_km.
//
// Candidate nodes come from one grid query around the origin: every
// node whose detour stays within limit also lies within limit of the
// origin, so work stays proportional to the corridor, not the network.
func (self *Graph) SubgraphAround(origin, dest geo.Coord, radius_km float64) (*Subgraph, error) {
	origin_node, ok := self.GetClosestNode(origin, radius_km)
	if !ok {
		return nil, ErrOutOfCoverage
	}
	dest_node, ok := self.GetClosestNode(dest, radius_km)
	if !ok {
		return nil, ErrOutOfCoverage
	}

	direct := geo.HaversineDistance(origin, dest)
	limit := direct + 2*radius_km
	contains := NewDict[int32, bool](64)
	self.index.ForNodesWithin(self.nodes, origin, limit, func(node int32) {
		// ellipse criterion: detour through the node stays within limit
		loc := self.nodes[node].Loc
		detour := geo.HaversineDistance(origin, loc) + geo.HaversineDistance(loc, dest)
		if detour <= limit {
			contains.Set(node, true)
		}
	})

	// pull in far endpoints of informal edges touching the corridor,
	// in either direction
	pulled := NewList[int32](8)
	collect := func(edge int32, other int32) {
		if self.edges[edge].Mode.IsInformal() && !contains.ContainsKey(other) {
			pulled.Add(other)
		}
	}
	for node := range contains {
		self.ForOutEdges(node, collect)
		self.ForInEdges(node, collect)
	}
	for _, node := range pulled {
		contains.Set(node, true)
	}

	sub := &Subgraph{
		g:      self,
		nodes:  contains,
		Origin: origin_node,
		Dest:   dest_node,
	}
	for node := range contains {
		self.ForOutEdges(node, func(edge int32, other int32) {
			if contains.ContainsKey(other) {
				sub.EdgeIDs.Add(self.edges[edge].ID)
			}
		})
	}
	return sub, nil
}

func (self *Subgraph) Graph() *Graph {
	return self.g
}

func (self *Subgraph) ContainsNode(node int32) bool {
	return self.nodes.ContainsKey(node)
}
