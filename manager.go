package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/savari-labs/go-transit/geo"
	"github.com/savari-labs/go-transit/graph"
	"github.com/savari-labs/go-transit/parser"
	"github.com/savari-labs/go-transit/route"
	"github.com/savari-labs/go-transit/routing"
	"github.com/savari-labs/go-transit/tracking"
)

var ErrUnknownRoute = errors.New("route not found in commit window")

//**********************************************************
// planner manager
//**********************************************************

// PlanResult is the outcome of one planning call: either ranked
// accepted routes or the no-qualifying-route payload. Exactly one of
// the two fields is set.
type PlanResult struct {
	Routes       []route.Route
	NoQualifying *route.NoQualifyingRoute
}

// committed keeps a freshly planned route around long enough for the
// traveler to commit to it. The planning snapshot rides along because
// the route's edge indices are meaningless against any other snapshot,
// and a feed reload may swap the store inside the commit window.
type committed struct {
	route   route.Route
	prefs   routing.Preferences
	dest    geo.Coord
	g       *graph.Graph
	created time.Time
}

const commit_window = 10 * time.Minute

// PlannerManager owns the engine's shared state: the snapshot store,
// the overlay store, the active event set and the live monitor. All
// planning and tracking calls go through it.
type PlannerManager struct {
	config Config
	log    *slog.Logger

	store    *graph.Store
	overlays *graph.OverlayStore
	monitor  *tracking.Monitor

	mu      sync.RWMutex
	events  []routing.Event
	planned map[string]committed
}

func NewPlannerManager(config Config, log *slog.Logger) (*PlannerManager, error) {
	g, err := parser.LoadNetworkFile(config.Feeds.NetworkFile)
	if err != nil {
		return nil, err
	}
	log.Info("network snapshot built", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	manager := &PlannerManager{
		config:   config,
		log:      log,
		store:    graph.NewStore(g),
		overlays: graph.NewOverlayStore(),
		planned:  make(map[string]committed),
	}
	manager.monitor = tracking.NewMonitor(manager.replan, config.TrackingConfig(), log)
	return manager, nil
}

func (self *PlannerManager) Store() *graph.Store {
	return self.store
}

func (self *PlannerManager) Monitor() *tracking.Monitor {
	return self.monitor
}

func (self *PlannerManager) Close() {
	self.monitor.Close()
}

// Plan runs the multi-profile search and assembles ranked routes.
// Accepted routes stay committable for the commit window.
func (self *PlannerManager) Plan(ctx context.Context, origin, dest geo.Coord, departure int32, prefs routing.Preferences) (PlanResult, error) {
	started := time.Now()
	result, err := routing.SearchPaths(ctx, self.store, self.overlays, self.Events(), origin, dest, departure, self.config.SearchOptions())
	metric_search_duration.Observe(time.Since(started).Seconds())
	if err != nil {
		metric_plan_failures.WithLabelValues(failure_kind(err)).Inc()
		return PlanResult{}, err
	}

	accepted, nqr := route.Assemble(result.Graph, result.Candidates, prefs, self.config.Search.TransferPenalty)
	metric_plans.Inc()
	if nqr != nil {
		metric_plan_failures.WithLabelValues("no_qualifying_route").Inc()
		return PlanResult{NoQualifying: nqr}, nil
	}

	self.mu.Lock()
	for _, r := range accepted {
		self.planned[r.ID] = committed{route: r, prefs: prefs, dest: dest, g: result.Graph, created: time.Now()}
	}
	self.sweep_planned()
	self.mu.Unlock()
	return PlanResult{Routes: accepted}, nil
}

// Commit binds a planned route to a new tracking session.
func (self *PlannerManager) Commit(route_id string) (*tracking.Session, error) {
	self.mu.Lock()
	entry, ok := self.planned[route_id]
	if ok {
		delete(self.planned, route_id)
	}
	self.mu.Unlock()
	if !ok {
		return nil, ErrUnknownRoute
	}
	return self.monitor.Create(entry.g, entry.route, entry.prefs, entry.dest), nil
}

// replan backs the monitor's re-optimization: same destination, same
// preferences, fresh origin and departure. A no-qualifying outcome
// returns no routes, which the monitor turns into a delay notice.
func (self *PlannerManager) replan(ctx context.Context, origin, dest geo.Coord, departure int32, prefs routing.Preferences) ([]route.Route, *graph.Graph, error) {
	result, err := routing.SearchPaths(ctx, self.store, self.overlays, self.Events(), origin, dest, departure, self.config.SearchOptions())
	if err != nil {
		return nil, nil, err
	}
	accepted, _ := route.Assemble(result.Graph, result.Candidates, prefs, self.config.Search.TransferPenalty)
	return accepted, result.Graph, nil
}

// sweep_planned drops commit-window entries past their deadline.
// Caller holds the lock.
func (self *PlannerManager) sweep_planned() {
	cutoff := time.Now().Add(-commit_window)
	for id, entry := range self.planned {
		if entry.created.Before(cutoff) {
			delete(self.planned, id)
		}
	}
}

//**********************************************************
// feed ingestion
//**********************************************************

// UpdateOverlays applies a batch of dynamic overlay records. Each
// record is one independently-visible write.
func (self *PlannerManager) UpdateOverlays(records []OverlayRecord) {
	for _, rec := range records {
		self.overlays.Update(rec.EdgeID, graph.EdgeOverlay{
			DelaySeconds: rec.DelaySeconds,
			CrowdLevel:   rec.CrowdLevel,
			Safety:       rec.Safety,
			ObservedAt:   rec.Timestamp,
		})
		metric_overlay_updates.Inc()
	}
}

// SetEvents replaces the active festival/event set.
func (self *PlannerManager) SetEvents(events []routing.Event) {
	self.mu.Lock()
	self.events = events
	self.mu.Unlock()
	self.log.Info("event set replaced", "count", len(events))
}

func (self *PlannerManager) Events() []routing.Event {
	self.mu.RLock()
	defer self.mu.RUnlock()
	return self.events
}

func failure_kind(err error) string {
	switch {
	case errors.Is(err, graph.ErrOutOfCoverage):
		return "out_of_coverage"
	case errors.Is(err, routing.ErrNoPathFound):
		return "no_path_found"
	case errors.Is(err, graph.ErrStaleSnapshot):
		return "stale_snapshot"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return "internal"
}
