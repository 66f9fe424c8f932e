package graph

import (
	"sync"
	"time"
)

//*******************************************
// dynamic edge overlays
//*******************************************

// SafetyFactors are the eight real-time safety sub-factors of an edge,
// each normalized to [0,100] by the supplying collaborator.
type SafetyFactors struct {
	Lighting         float64 `json:"lighting"`
	CCTV             float64 `json:"cctv"`
	Police           float64 `json:"police"`
	IncidentHistory  float64 `json:"incident_history"`
	CrimeRate        float64 `json:"crime_rate"`
	CrowdDensity     float64 `json:"crowd_density"`
	CommunityReports float64 `json:"community_reports"`
	TimeOfDay        float64 `json:"time_of_day"`
}

// Composite collapses the sub-factors into one [0,100] score using
// fixed weights: lighting 15%, CCTV 10%, police 15%, incident history
// 20%, crime rate 10%, crowd density 15%, community reports 5%,
// time-of-day 10%.
func (self SafetyFactors) Composite() float64 {
	return 0.15*self.Lighting +
		0.10*self.CCTV +
		0.15*self.Police +
		0.20*self.IncidentHistory +
		0.10*self.CrimeRate +
		0.15*self.CrowdDensity +
		0.05*self.CommunityReports +
		0.10*self.TimeOfDay
}

// EdgeOverlay is the mutable real-time state of one edge. A nil Safety
// means no safety data has been supplied yet.
type EdgeOverlay struct {
	DelaySeconds int32
	CrowdLevel   float64
	Safety       *SafetyFactors
	ObservedAt   time.Time
}

//*******************************************
// overlay store
//*******************************************

// OverlayStore holds the per-edge dynamic overlays, keyed by external
// edge id so entries survive snapshot swaps. Each upsert is a single
// independently-visible write; searches copy the slice of overlays
// they care about up front and never read the store mid-search.
type OverlayStore struct {
	mu       sync.RWMutex
	overlays map[string]EdgeOverlay
}

func NewOverlayStore() *OverlayStore {
	return &OverlayStore{
		overlays: make(map[string]EdgeOverlay, 1024),
	}
}

func (self *OverlayStore) Update(edge_id string, overlay EdgeOverlay) {
	self.mu.Lock()
	self.overlays[edge_id] = overlay
	self.mu.Unlock()
}

func (self *OverlayStore) Get(edge_id string) (EdgeOverlay, bool) {
	self.mu.RLock()
	defer self.mu.RUnlock()
	o, ok := self.overlays[edge_id]
	return o, ok
}

// View snapshots the overlays of the given edges. The returned view is
// immutable from the store's perspective: later updates are not
// reflected, which gives a search one consistent read for its whole
// invocation.
func (self *OverlayStore) View(edge_ids []string) OverlayView {
	view := make(OverlayView, len(edge_ids))
	self.mu.RLock()
	defer self.mu.RUnlock()
	for _, id := range edge_ids {
		if o, ok := self.overlays[id]; ok {
			view[id] = o
		}
	}
	return view
}

// OverlayView is a point-in-time copy of overlay state for one search.
type OverlayView map[string]EdgeOverlay

func (self OverlayView) DelaySeconds(edge_id string) int32 {
	if o, ok := self[edge_id]; ok {
		return o.DelaySeconds
	}
	return 0
}

// SafetyScore returns the composite safety of an edge, or false when
// no safety data is present and the caller should fall back to its
// neutral default.
func (self OverlayView) SafetyScore(edge_id string) (float64, bool) {
	if o, ok := self[edge_id]; ok && o.Safety != nil {
		return o.Safety.Composite(), true
	}
	return 0, false
}
