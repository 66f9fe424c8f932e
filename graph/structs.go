package graph

import (
	"github.com/savari-labs/go-transit/geo"
)

//*******************************************
// graph structs
//*******************************************

// Node is a physical place in the transit network (station, stop,
// landmark or walking waypoint). Immutable once a snapshot is built,
// refreshes replace the whole snapshot instead of mutating in place.
type Node struct {
	ID       string
	Loc      geo.Coord
	Elevator bool
	Ramp     bool
}

// Edge is a directed connection between two nodes via one transport
// mode. All attributes here are static; real-time state lives in the
// overlay store keyed by the external edge id.
type Edge struct {
	ID            string
	NodeA         int32
	NodeB         int32
	Mode          TransportMode
	TravelSeconds int32
	DistanceKM    float64
	Fare          float64
	Schedule      Schedule
	// community verification count of informal edges, display only
	Verifications int32
}

// Schedule describes when an edge can be boarded: either a fixed
// headway within a service window or an explicit departure list, both
// in seconds since midnight. Walking modes carry an empty schedule
// and are traversable at any time.
type Schedule struct {
	HeadwaySeconds int32   `json:"headway_seconds"`
	FirstService   int32   `json:"first_service"`
	LastService    int32   `json:"last_service"`
	Departures     []int32 `json:"departures"`
}

// NextDeparture returns the first boardable departure at or after the
// given time, or false if no further service runs that day.
func (self Schedule) NextDeparture(at int32) (int32, bool) {
	if len(self.Departures) > 0 {
		for _, dep := range self.Departures {
			if dep >= at {
				return dep, true
			}
		}
		return 0, false
	}
	if self.HeadwaySeconds > 0 {
		if at > self.LastService {
			return 0, false
		}
		if at <= self.FirstService {
			return self.FirstService, true
		}
		rem := (at - self.FirstService) % self.HeadwaySeconds
		if rem == 0 {
			return at, true
		}
		dep := at + self.HeadwaySeconds - rem
		if dep > self.LastService {
			return 0, false
		}
		return dep, true
	}
	// unscheduled edge, board any time
	return at, true
}
