package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/savari-labs/go-transit/geo"
	"github.com/savari-labs/go-transit/graph"
	"github.com/savari-labs/go-transit/routing"
)

//*******************************************
// feed records
//*******************************************

// NodeRecord is one normalized node from the static network feed.
type NodeRecord struct {
	ID       string  `json:"id"`
	Lon      float32 `json:"lon"`
	Lat      float32 `json:"lat"`
	Elevator bool    `json:"elevator"`
	Ramp     bool    `json:"ramp"`
}

// EdgeRecord is one normalized edge, from the static schedule feed or
// the informal-transport feed (both share the same shape; informal
// edges additionally carry a community verification count).
type EdgeRecord struct {
	ID            string         `json:"id"`
	From          string         `json:"from"`
	To            string         `json:"to"`
	Mode          string         `json:"mode"`
	TravelSeconds int32          `json:"travel_seconds"`
	DistanceKM    float64        `json:"distance_km"`
	Fare          float64        `json:"fare"`
	Schedule      graph.Schedule `json:"schedule"`
	Verifications int32          `json:"verifications"`
}

// NetworkFeed is the full normalized network file produced by the
// data-loading collaborator.
type NetworkFeed struct {
	Nodes         []NodeRecord `json:"nodes"`
	Edges         []EdgeRecord `json:"edges"`
	InformalEdges []EdgeRecord `json:"informal_edges"`
}

//*******************************************
// feed decoding
//*******************************************

// DecodeNetworkFeed validates a normalized feed and assembles the
// immutable graph snapshot. Records referencing unknown nodes or
// modes make the whole feed invalid; a broken feed must never half
// replace a good snapshot.
func DecodeNetworkFeed(feed NetworkFeed) (*graph.Graph, error) {
	node_index := make(map[string]int32, len(feed.Nodes))
	nodes := make([]graph.Node, 0, len(feed.Nodes))
	for _, rec := range feed.Nodes {
		if rec.ID == "" {
			return nil, fmt.Errorf("node record without id")
		}
		if _, ok := node_index[rec.ID]; ok {
			return nil, fmt.Errorf("duplicate node id %q", rec.ID)
		}
		if rec.Lat < -90 || rec.Lat > 90 || rec.Lon < -180 || rec.Lon > 180 {
			return nil, fmt.Errorf("node %q: coordinates out of range", rec.ID)
		}
		node_index[rec.ID] = int32(len(nodes))
		nodes = append(nodes, graph.Node{
			ID:       rec.ID,
			Loc:      geo.NewCoord(rec.Lon, rec.Lat),
			Elevator: rec.Elevator,
			Ramp:     rec.Ramp,
		})
	}

	records := make([]EdgeRecord, 0, len(feed.Edges)+len(feed.InformalEdges))
	records = append(records, feed.Edges...)
	records = append(records, feed.InformalEdges...)

	edges := make([]graph.Edge, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("edge record without id")
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("duplicate edge id %q", rec.ID)
		}
		seen[rec.ID] = true
		from, ok := node_index[rec.From]
		if !ok {
			return nil, fmt.Errorf("edge %q: unknown node %q", rec.ID, rec.From)
		}
		to, ok := node_index[rec.To]
		if !ok {
			return nil, fmt.Errorf("edge %q: unknown node %q", rec.ID, rec.To)
		}
		mode, err := graph.ModeFromString(rec.Mode)
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", rec.ID, err)
		}
		if rec.TravelSeconds <= 0 {
			return nil, fmt.Errorf("edge %q: non-positive travel time", rec.ID)
		}
		edges = append(edges, graph.Edge{
			ID:            rec.ID,
			NodeA:         from,
			NodeB:         to,
			Mode:          mode,
			TravelSeconds: rec.TravelSeconds,
			DistanceKM:    rec.DistanceKM,
			Fare:          rec.Fare,
			Schedule:      rec.Schedule,
			Verifications: rec.Verifications,
		})
	}
	return graph.BuildGraph(nodes, edges), nil
}

// LoadNetworkFile reads and decodes a normalized network feed file.
func LoadNetworkFile(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read network feed: %w", err)
	}
	var feed NetworkFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("decode network feed: %w", err)
	}
	return DecodeNetworkFeed(feed)
}

//*******************************************
// event feed
//*******************************************

// EventRecord is one festival/disruption record from the event feed.
type EventRecord struct {
	Area         [][2]float32 `json:"area"` // closed ring of [lon, lat]
	FromSeconds  int32        `json:"from_seconds"`
	UntilSeconds int32        `json:"until_seconds"`
	DelaySeconds int32        `json:"delay_seconds"`
	Closed       bool         `json:"closed"`
}

func DecodeEvents(records []EventRecord) ([]routing.Event, error) {
	events := make([]routing.Event, 0, len(records))
	for i, rec := range records {
		if len(rec.Area) < 3 {
			return nil, fmt.Errorf("event %d: geofence needs at least 3 points", i)
		}
		if rec.UntilSeconds < rec.FromSeconds {
			return nil, fmt.Errorf("event %d: time window ends before it starts", i)
		}
		ring := make([]geo.Coord, 0, len(rec.Area))
		for _, p := range rec.Area {
			ring = append(ring, geo.NewCoord(p[0], p[1]))
		}
		events = append(events, routing.Event{
			Area:         geo.NewGeofence(ring),
			FromSeconds:  rec.FromSeconds,
			UntilSeconds: rec.UntilSeconds,
			DelaySeconds: rec.DelaySeconds,
			Closed:       rec.Closed,
		})
	}
	return events, nil
}
