package graph

import (
	"sort"

	"github.com/savari-labs/go-transit/geo"
	. "github.com/savari-labs/go-transit/util"
)

//*******************************************
// base graph
//*******************************************

// Graph is one immutable snapshot of the transit network. It is safe
// for concurrent readers; refreshes build a new Graph and swap it into
// the Store.
type Graph struct {
	nodes []Node
	edges []Edge

	// forward and backward adjacency in CSR layout
	fwd_offsets []int32
	fwd_edges   []int32
	bwd_offsets []int32
	bwd_edges   []int32

	node_ids Dict[string, int32]
	edge_ids Dict[string, int32]

	index *GridIndex
}

// BuildGraph assembles an immutable snapshot from normalized node and
// edge records. Edge endpoints reference node ids; records with
// unknown endpoints are the feed's problem and rejected by the parser
// before they get here.
func BuildGraph(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes:    nodes,
		edges:    edges,
		node_ids: NewDict[string, int32](len(nodes)),
		edge_ids: NewDict[string, int32](len(edges)),
	}
	for i, node := range nodes {
		g.node_ids.Set(node.ID, int32(i))
	}
	for i, edge := range edges {
		g.edge_ids.Set(edge.ID, int32(i))
	}

	g.fwd_offsets, g.fwd_edges = build_csr(nodes, edges, func(e Edge) int32 { return e.NodeA })
	g.bwd_offsets, g.bwd_edges = build_csr(nodes, edges, func(e Edge) int32 { return e.NodeB })

	g.index = NewGridIndex(nodes)
	return g
}

// build_csr lays edge indices out in CSR form keyed by one endpoint,
// with each adjacency list sorted for deterministic traversal.
func build_csr(nodes []Node, edges []Edge, endpoint func(Edge) int32) ([]int32, []int32) {
	offsets := make([]int32, len(nodes)+1)
	for _, edge := range edges {
		offsets[endpoint(edge)+1] += 1
	}
	for i := 1; i < len(offsets); i++ {
		offsets[i] += offsets[i-1]
	}
	adjacency := make([]int32, len(edges))
	fill := make([]int32, len(nodes))
	for i, edge := range edges {
		at := endpoint(edge)
		adjacency[offsets[at]+fill[at]] = int32(i)
		fill[at] += 1
	}
	for i := 0; i < len(nodes); i++ {
		adj := adjacency[offsets[i]:offsets[i+1]]
		sort.Slice(adj, func(a, b int) bool { return adj[a] < adj[b] })
	}
	return offsets, adjacency
}

func (self *Graph) NodeCount() int {
	return len(self.nodes)
}

func (self *Graph) EdgeCount() int {
	return len(self.edges)
}

func (self *Graph) GetNode(node int32) Node {
	return self.nodes[node]
}

func (self *Graph) GetEdge(edge int32) Edge {
	return self.edges[edge]
}

func (self *Graph) GetNodeGeom(node int32) geo.Coord {
	return self.nodes[node].Loc
}

func (self *Graph) NodeByID(id string) Optional[int32] {
	if self.node_ids.ContainsKey(id) {
		return Some(self.node_ids.Get(id))
	}
	return None[int32]()
}

func (self *Graph) EdgeByID(id string) Optional[int32] {
	if self.edge_ids.ContainsKey(id) {
		return Some(self.edge_ids.Get(id))
	}
	return None[int32]()
}

// ForOutEdges iterates the outgoing edges of a node in deterministic
// order, calling the callback with the edge index and the target node.
func (self *Graph) ForOutEdges(node int32, callback func(edge int32, other int32)) {
	start := self.fwd_offsets[node]
	end := self.fwd_offsets[node+1]
	for _, e := range self.fwd_edges[start:end] {
		callback(e, self.edges[e].NodeB)
	}
}

// ForInEdges iterates the incoming edges of a node in deterministic
// order, calling the callback with the edge index and the source node.
func (self *Graph) ForInEdges(node int32, callback func(edge int32, other int32)) {
	start := self.bwd_offsets[node]
	end := self.bwd_offsets[node+1]
	for _, e := range self.bwd_edges[start:end] {
		callback(e, self.edges[e].NodeA)
	}
}

// GetClosestNode returns the node nearest to the given coordinate
// within the given radius (kilometers).
func (self *Graph) GetClosestNode(point geo.Coord, radius_km float64) (int32, bool) {
	return self.index.GetClosestNode(self.nodes, point, radius_km)
}
