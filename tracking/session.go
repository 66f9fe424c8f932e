package tracking

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/savari-labs/go-transit/geo"
	"github.com/savari-labs/go-transit/graph"
	"github.com/savari-labs/go-transit/route"
	"github.com/savari-labs/go-transit/routing"
	"golang.org/x/time/rate"
)

//*******************************************
// session state machine
//*******************************************

type State int32

const (
	PLANNED State = iota
	ACTIVE
	REROUTING
	COMPLETED
	ABANDONED
)

var state_names = [...]string{"planned", "active", "rerouting", "completed", "abandoned"}

func (self State) String() string {
	if int(self) < len(state_names) {
		return state_names[self]
	}
	return "unknown"
}

// PositionUpdate is one record from the traveler's position stream.
type PositionUpdate struct {
	Timestamp time.Time `json:"timestamp"`
	Lon       float32   `json:"lon"`
	Lat       float32   `json:"lat"`
}

func (self PositionUpdate) Coord() geo.Coord {
	return geo.NewCoord(self.Lon, self.Lat)
}

// waypoint is a point along the committed route with its expected
// arrival time (seconds since midnight), used to estimate progress.
type waypoint struct {
	loc geo.Coord
	eta int32
}

// Session binds one committed route to a traveler's position stream.
// Owned exclusively by the Monitor; all mutation happens under its
// mutex so concurrent updates apply in arrival order.
type Session struct {
	ID string

	mu          sync.Mutex
	state       State
	route       route.Route
	prefs       routing.Preferences
	dest        geo.Coord
	waypoints   []waypoint
	last_update time.Time
	// gates reroutes to one per cooldown window
	cooldown *rate.Limiter
}

func NewSession(g *graph.Graph, r route.Route, prefs routing.Preferences, dest geo.Coord, cooldown time.Duration) *Session {
	return &Session{
		ID:          uuid.NewString(),
		state:       PLANNED,
		route:       r,
		prefs:       prefs,
		dest:        dest,
		waypoints:   build_waypoints(g, r.Path),
		last_update: time.Now(),
		cooldown:    rate.NewLimiter(rate.Every(cooldown), 1),
	}
}

// build_waypoints lays the route's nodes out with expected arrival
// times, scaling static per-edge travel times onto the path's actual
// duration so waits and predicted delays are spread proportionally.
func build_waypoints(g *graph.Graph, path routing.Path) []waypoint {
	if len(path.Edges) == 0 {
		return nil
	}
	total_static := int32(0)
	for _, e := range path.Edges {
		total_static += g.GetEdge(e).TravelSeconds
	}
	scale := 1.0
	if total_static > 0 {
		scale = float64(path.DurationSeconds) / float64(total_static)
	}

	first := g.GetEdge(path.Edges[0])
	points := []waypoint{{loc: g.GetNodeGeom(first.NodeA), eta: path.Departure}}
	elapsed := 0.0
	for _, e := range path.Edges {
		edge := g.GetEdge(e)
		elapsed += float64(edge.TravelSeconds) * scale
		points = append(points, waypoint{
			loc: g.GetNodeGeom(edge.NodeB),
			eta: path.Departure + int32(elapsed),
		})
	}
	return points
}

func (self *Session) State() State {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.state
}

func (self *Session) Route() route.Route {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.route
}

// nearest_waypoint returns the index of the closest waypoint to the
// given position and its distance in kilometers.
func (self *Session) nearest_waypoint(pos geo.Coord) (int, float64) {
	best := -1
	best_dist := 0.0
	for i, wp := range self.waypoints {
		d := geo.HaversineDistance(pos, wp.loc)
		if best == -1 || d < best_dist {
			best = i
			best_dist = d
		}
	}
	return best, best_dist
}
