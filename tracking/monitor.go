package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/savari-labs/go-transit/geo"
	"github.com/savari-labs/go-transit/graph"
	"github.com/savari-labs/go-transit/route"
	"github.com/savari-labs/go-transit/routing"
)

var (
	ErrSessionNotFound = errors.New("tracking session not found")
	ErrBadTransition   = errors.New("invalid session state transition")
)

//*******************************************
// monitor config
//*******************************************

type Config struct {
	DelayThreshold     time.Duration
	DeviationKM        float64
	Cooldown           time.Duration
	ArrivalToleranceKM float64
	SessionTimeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		DelayThreshold:     5 * time.Minute,
		DeviationKM:        0.5,
		Cooldown:           2 * time.Minute,
		ArrivalToleranceKM: 0.1,
		SessionTimeout:     15 * time.Minute,
	}
}

// Replanner re-runs planning from a new origin with the session's
// unchanged destination and preferences. It returns the snapshot the
// routes were planned on: route edge indices are only valid against
// that snapshot, never against a later one. Supplied by the planning
// layer so the monitor stays free of search internals.
type Replanner func(ctx context.Context, origin, dest geo.Coord, departure int32, prefs routing.Preferences) ([]route.Route, *graph.Graph, error)

// Event is surfaced to the caller alongside a position update result.
type Event struct {
	Type    string `json:"type"` // rerouted | delay_notice | completed
	Message string `json:"message,omitempty"`
}

//*******************************************
// live monitor
//*******************************************

// Monitor owns all tracking sessions: it compares each position
// update against the committed route's expected progress, triggers
// re-planning when delay or deviation exceeds policy and times out
// sessions whose position stream went quiet.
type Monitor struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	replan Replanner
	cfg    Config
	log    *slog.Logger
	done   chan struct{}
}

func NewMonitor(replan Replanner, cfg Config, log *slog.Logger) *Monitor {
	m := &Monitor{
		sessions: make(map[string]*Session),
		replan:   replan,
		cfg:      cfg,
		log:      log,
		done:     make(chan struct{}),
	}
	go m.run_janitor()
	return m
}

func (self *Monitor) Close() {
	close(self.done)
}

// Create registers a committed route as a new session in Planned
// state.
func (self *Monitor) Create(g *graph.Graph, r route.Route, prefs routing.Preferences, dest geo.Coord) *Session {
	session := NewSession(g, r, prefs, dest, self.cfg.Cooldown)
	self.mu.Lock()
	self.sessions[session.ID] = session
	self.mu.Unlock()
	self.log.Info("tracking session created", "session", session.ID, "route", r.ID)
	return session
}

func (self *Monitor) Get(id string) (*Session, error) {
	self.mu.RLock()
	defer self.mu.RUnlock()
	session, ok := self.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Start confirms departure: Planned -> Active.
func (self *Monitor) Start(id string) error {
	session, err := self.Get(id)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != PLANNED {
		return fmt.Errorf("%w: %v -> active", ErrBadTransition, session.state)
	}
	session.state = ACTIVE
	session.last_update = time.Now()
	return nil
}

// Cancel abandons a session explicitly.
func (self *Monitor) Cancel(id string) error {
	session, err := self.Get(id)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state == COMPLETED || session.state == ABANDONED {
		return nil
	}
	session.state = ABANDONED
	self.log.Info("tracking session cancelled", "session", id)
	return nil
}

// UpdatePosition applies one position update. Updates for one session
// are serialized by its mutex, so decisions never interleave out of
// arrival order. Returns the session's current route and any event
// raised by this update.
func (self *Monitor) UpdatePosition(ctx context.Context, id string, update PositionUpdate) (route.Route, *Event, error) {
	session, err := self.Get(id)
	if err != nil {
		return route.Route{}, nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state != ACTIVE {
		return session.route, nil, fmt.Errorf("%w: update in state %v", ErrBadTransition, session.state)
	}
	session.last_update = time.Now()
	pos := update.Coord()

	// arrival check first
	if geo.HaversineDistance(pos, session.dest) <= self.cfg.ArrivalToleranceKM {
		session.state = COMPLETED
		self.log.Info("tracking session completed", "session", id)
		return session.route, &Event{Type: "completed"}, nil
	}

	nearest, deviation := session.nearest_waypoint(pos)
	delay := self.observed_delay(session, nearest, update.Timestamp)

	if deviation <= self.cfg.DeviationKM && delay < self.cfg.DelayThreshold {
		return session.route, nil, nil
	}

	// trigger condition met, respect the reroute cooldown
	if !session.cooldown.Allow() {
		return session.route, nil, nil
	}

	session.state = REROUTING
	self.log.Info("rerouting session", "session", id,
		"deviation_km", deviation, "delay", delay.String())

	event := self.reroute(ctx, session, pos, update.Timestamp, delay)
	session.state = ACTIVE
	return session.route, event, nil
}

// observed_delay estimates how far behind schedule the traveler runs:
// the difference between the wall clock and the expected arrival time
// at the nearest waypoint.
func (self *Monitor) observed_delay(session *Session, nearest int, now time.Time) time.Duration {
	if nearest < 0 || nearest >= len(session.waypoints) {
		return 0
	}
	expected := session.waypoints[nearest].eta
	actual := seconds_of_day(now)
	if actual <= expected {
		return 0
	}
	return time.Duration(actual-expected) * time.Second
}

// reroute re-plans from the current position. The replacement is only
// adopted when it arrives no later than the delayed original;
// otherwise the traveler keeps the committed route and gets a delay
// notice, which avoids reroute oscillation.
func (self *Monitor) reroute(ctx context.Context, session *Session, pos geo.Coord, now time.Time, delay time.Duration) *Event {
	routes, g, err := self.replan(ctx, pos, session.dest, seconds_of_day(now), session.prefs)
	if err != nil || len(routes) == 0 {
		self.log.Info("reroute found no alternative", "session", session.ID)
		return &Event{Type: "delay_notice", Message: delay_message(delay)}
	}
	replacement := routes[0]
	expected_arrival := session.route.Path.Arrival + int32(delay/time.Second)
	if replacement.Path.Arrival > expected_arrival {
		return &Event{Type: "delay_notice", Message: delay_message(delay)}
	}
	old := session.route.ID
	session.route = replacement
	session.waypoints = build_waypoints(g, replacement.Path)
	self.log.Info("session rerouted", "session", session.ID, "old_route", old, "new_route", replacement.ID)
	return &Event{Type: "rerouted"}
}

//*******************************************
// janitor
//*******************************************

// run_janitor abandons sessions whose position stream went quiet for
// longer than the session timeout. Timeouts are logged, not escalated.
func (self *Monitor) run_janitor() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-self.done:
			return
		case <-ticker.C:
		}
		self.expire_stale(time.Now())
	}
}

func (self *Monitor) expire_stale(now time.Time) {
	cutoff := now.Add(-self.cfg.SessionTimeout)
	self.mu.RLock()
	stale := make([]*Session, 0)
	for _, session := range self.sessions {
		stale = append(stale, session)
	}
	self.mu.RUnlock()
	for _, session := range stale {
		session.mu.Lock()
		if session.state == ACTIVE && session.last_update.Before(cutoff) {
			session.state = ABANDONED
			self.log.Info("tracking session timed out", "session", session.ID)
		}
		session.mu.Unlock()
	}
	self.sweep_finished(cutoff.Add(-time.Hour))
}

// sweep_finished drops completed and abandoned sessions an hour after
// their last activity.
func (self *Monitor) sweep_finished(cutoff time.Time) {
	self.mu.Lock()
	defer self.mu.Unlock()
	for id, session := range self.sessions {
		session.mu.Lock()
		finished := session.state == COMPLETED || session.state == ABANDONED
		old := session.last_update.Before(cutoff)
		session.mu.Unlock()
		if finished && old {
			delete(self.sessions, id)
		}
	}
}

func seconds_of_day(t time.Time) int32 {
	return int32(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

func delay_message(delay time.Duration) string {
	return fmt.Sprintf("running %d min behind schedule, no better route available", int(delay/time.Minute))
}
