package routing

import (
	"testing"

	"github.com/savari-labs/go-transit/geo"
	"github.com/savari-labs/go-transit/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weighting_graph() *graph.Graph {
	nodes := []graph.Node{
		{ID: "A", Loc: geo.NewCoord(77.200, 28.600)},
		{ID: "B", Loc: geo.NewCoord(77.210, 28.605)},
	}
	edges := []graph.Edge{
		{ID: "AB-metro", NodeA: 0, NodeB: 1, Mode: graph.METRO, TravelSeconds: 600, DistanceKM: 2.0, Fare: 20},
		{ID: "AB-bus", NodeA: 0, NodeB: 1, Mode: graph.BUS, TravelSeconds: 900, DistanceKM: 2.5, Fare: 10,
			Schedule: graph.Schedule{Departures: []int32{36600}}},
	}
	return graph.BuildGraph(nodes, edges)
}

func uniform_safety(v float64) *graph.SafetyFactors {
	return &graph.SafetyFactors{
		Lighting: v, CCTV: v, Police: v, IncidentHistory: v,
		CrimeRate: v, CrowdDensity: v, CommunityReports: v, TimeOfDay: v,
	}
}

func TestEdgeWeightFormula(t *testing.T) {
	g := weighting_graph()
	view := graph.OverlayView{
		"AB-metro": {DelaySeconds: 60, Safety: uniform_safety(90)},
	}
	coef := Coefficients{Alpha: 0.5, Beta: 0.1, Gamma: 0.2, Delta: 0.1, Epsilon: 0.1}
	w := NewWeighting(g, view, coef, nil, 50, 5)

	cost, arrival, ok := w.EdgeWeight(0, 0, false, 36000)
	require.True(t, ok)
	assert.Equal(t, int32(36000+600+60), arrival)
	// 0.5*11min + 0.1*2km + 0.2*(100-90) + 0.1*20 + no transfer
	assert.InDelta(t, 0.5*11+0.1*2.0+0.2*10+0.1*20, cost, 1e-9)
}

func TestEdgeWeightDeterministic(t *testing.T) {
	g := weighting_graph()
	view := graph.OverlayView{"AB-metro": {Safety: uniform_safety(80)}}
	w := NewWeighting(g, view, BalancedCoefficients(), nil, 50, 5)

	c1, a1, ok1 := w.EdgeWeight(0, graph.BUS, true, 36000)
	c2, a2, ok2 := w.EdgeWeight(0, graph.BUS, true, 36000)
	assert.Equal(t, c1, c2)
	assert.Equal(t, a1, a2)
	assert.Equal(t, ok1, ok2)
}

func TestTransferPenaltyOnModeChangeOnly(t *testing.T) {
	g := weighting_graph()
	w := NewWeighting(g, graph.OverlayView{}, Coefficients{Epsilon: 1}, nil, 50, 5)

	same, _, ok := w.EdgeWeight(0, graph.METRO, true, 36000)
	require.True(t, ok)
	changed, _, ok := w.EdgeWeight(0, graph.BUS, true, 36000)
	require.True(t, ok)
	first, _, ok := w.EdgeWeight(0, 0, false, 36000)
	require.True(t, ok)

	assert.InDelta(t, 5.0, changed-same, 1e-9, "penalty applies on mode change")
	assert.Equal(t, same, first, "no penalty on the first edge")
}

func TestNeutralSafetyDefault(t *testing.T) {
	g := weighting_graph()
	// no overlay data at all
	w := NewWeighting(g, graph.OverlayView{}, Coefficients{Gamma: 1}, nil, 50, 5)
	cost, _, ok := w.EdgeWeight(0, 0, false, 36000)
	require.True(t, ok)
	assert.InDelta(t, 100-50, cost, 1e-9)
}

func TestMissedService(t *testing.T) {
	g := weighting_graph()
	w := NewWeighting(g, graph.OverlayView{}, FastestCoefficients(), nil, 50, 5)

	// bus departs at 36600 only
	_, arrival, ok := w.EdgeWeight(1, 0, false, 36500)
	require.True(t, ok)
	assert.Equal(t, int32(36600+900), arrival)

	_, _, ok = w.EdgeWeight(1, 0, false, 36700)
	assert.False(t, ok, "last service departed")
}

func TestEventDelayAndClosure(t *testing.T) {
	g := weighting_graph()
	fence := geo.NewGeofence([]geo.Coord{
		geo.NewCoord(77.19, 28.59),
		geo.NewCoord(77.22, 28.59),
		geo.NewCoord(77.22, 28.62),
		geo.NewCoord(77.19, 28.62),
	})

	delayed := []Event{{Area: fence, FromSeconds: 0, UntilSeconds: 86400, DelaySeconds: 300}}
	w := NewWeighting(g, graph.OverlayView{}, Coefficients{Alpha: 1}, delayed, 50, 5)
	cost, arrival, ok := w.EdgeWeight(0, 0, false, 36000)
	require.True(t, ok)
	assert.Equal(t, int32(36000+600+300), arrival)
	assert.InDelta(t, 15.0, cost, 1e-9)

	closed := []Event{{Area: fence, FromSeconds: 0, UntilSeconds: 86400, Closed: true}}
	w = NewWeighting(g, graph.OverlayView{}, Coefficients{Alpha: 1}, closed, 50, 5)
	_, _, ok = w.EdgeWeight(0, 0, false, 36000)
	assert.False(t, ok)

	// outside the window the event is inert
	expired := []Event{{Area: fence, FromSeconds: 0, UntilSeconds: 30000, Closed: true}}
	w = NewWeighting(g, graph.OverlayView{}, Coefficients{Alpha: 1}, expired, 50, 5)
	_, _, ok = w.EdgeWeight(0, 0, false, 36000)
	assert.True(t, ok)
}
