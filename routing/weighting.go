package routing

import (
	"github.com/savari-labs/go-transit/graph"
)

//*******************************************
// edge weighting
//*******************************************

// Weighting computes per-edge scalar costs for one search invocation.
// It captures the snapshot, a consistent overlay view and the active
// event set at construction, so identical inputs always produce
// identical weights.
type Weighting struct {
	g        *graph.Graph
	overlays graph.OverlayView
	coef     Coefficients
	events   []Event

	// neutral safety score used when no overlay data exists
	neutral_safety float64
	// fixed penalty (cost units) applied on mode change
	transfer_penalty float64
}

func NewWeighting(g *graph.Graph, overlays graph.OverlayView, coef Coefficients, events []Event, neutral_safety, transfer_penalty float64) *Weighting {
	return &Weighting{
		g:                g,
		overlays:         overlays,
		coef:             coef,
		events:           events,
		neutral_safety:   neutral_safety,
		transfer_penalty: transfer_penalty,
	}
}

// EdgeWeight computes the cost of boarding an edge when the partial
// path reaches its source node at the given time (seconds since
// midnight):
//
//	cost = α·(wait + travelTime + predictedDelay) + β·distance
//	     + γ·(100 − safetyScore) + δ·fare + ε·transferPenalty
//
// The transfer penalty applies only when prev_mode differs from the
// edge's mode, so the caller passes the predecessor edge's mode as
// path context. Returns the arrival time at the far node alongside
// the cost. ok is false when the edge cannot be taken: the last
// service has departed or an event closes it.
func (self *Weighting) EdgeWeight(edge int32, prev_mode graph.TransportMode, has_prev bool, at int32) (cost float64, arrival int32, ok bool) {
	e := self.g.GetEdge(edge)

	dep, ok := e.Schedule.NextDeparture(at)
	if !ok {
		return 0, 0, false
	}
	if e.Mode.IsWalking() {
		dep = at
	}

	delay := self.overlays.DelaySeconds(e.ID)
	for _, ev := range self.events {
		if ev.AppliesTo(self.g, e, dep) {
			if ev.Closed {
				return 0, 0, false
			}
			delay += ev.DelaySeconds
		}
	}

	wait := dep - at
	arrival = dep + e.TravelSeconds + delay

	safety, has := self.overlays.SafetyScore(e.ID)
	if !has {
		safety = self.neutral_safety
	}

	transfer := 0.0
	if has_prev && prev_mode != e.Mode {
		transfer = self.transfer_penalty
	}

	time_min := float64(wait+e.TravelSeconds+delay) / 60.0
	cost = self.coef.Alpha*time_min +
		self.coef.Beta*e.DistanceKM +
		self.coef.Gamma*(100.0-safety) +
		self.coef.Delta*e.Fare +
		self.coef.Epsilon*transfer
	return cost, arrival, true
}
