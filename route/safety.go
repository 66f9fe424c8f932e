package route

import (
	"github.com/savari-labs/go-transit/routing"
)

//*******************************************
// route safety
//*******************************************

// RouteSafety collapses per-segment safety into the route score. The
// minimum segment wins, not the average: one dangerous segment must
// not be masked by otherwise-safe ones.
func RouteSafety(path routing.Path) float64 {
	if len(path.SegmentSafety) == 0 {
		return 0
	}
	min := path.SegmentSafety[0]
	for _, s := range path.SegmentSafety[1:] {
		if s < min {
			min = s
		}
	}
	return min
}
