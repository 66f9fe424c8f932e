package routing

import (
	"context"
	"errors"
	"sync"

	"github.com/savari-labs/go-transit/geo"
	"github.com/savari-labs/go-transit/graph"
	"golang.org/x/sync/errgroup"
)

// ErrNoPathFound is returned when the destination is unreachable
// within the search horizon on every profile.
var ErrNoPathFound = errors.New("no path found within search horizon")

//*******************************************
// multi-profile search
//*******************************************

// Options bound one search invocation. Zero values are replaced by
// the defaults below.
type Options struct {
	K               int
	RadiusKM        float64
	HorizonSeconds  int32
	NeutralSafety   float64
	TransferPenalty float64
	MaxSpeedKMH     float64
}

func DefaultOptions() Options {
	return Options{
		K:               3,
		RadiusKM:        3.0,
		HorizonSeconds:  4 * 3600,
		NeutralSafety:   50.0,
		TransferPenalty: 5.0,
		MaxSpeedKMH:     80.0,
	}
}

func (self *Options) fill() {
	def := DefaultOptions()
	if self.K <= 0 {
		self.K = def.K
	}
	if self.RadiusKM <= 0 {
		self.RadiusKM = def.RadiusKM
	}
	if self.HorizonSeconds <= 0 {
		self.HorizonSeconds = def.HorizonSeconds
	}
	if self.NeutralSafety <= 0 {
		self.NeutralSafety = def.NeutralSafety
	}
	if self.TransferPenalty <= 0 {
		self.TransferPenalty = def.TransferPenalty
	}
	if self.MaxSpeedKMH <= 0 {
		self.MaxSpeedKMH = def.MaxSpeedKMH
	}
}

// Candidate is one deduplicated search result: a path, the profile
// label it was found under and that profile's weight vector.
type Candidate struct {
	Path    Path
	Label   string
	Weights Coefficients
}

// search_profiles lists the fixed weight vectors in label precedence
// order: a path found under several profiles keeps the first label.
var search_profiles = []struct {
	label string
	coef  Coefficients
}{
	{"fastest", FastestCoefficients()},
	{"safest", SafestCoefficients()},
	{"balanced", BalancedCoefficients()},
}

// Result carries the deduplicated candidates together with the
// snapshot they were searched on, so downstream assembly reads the
// same graph version.
type Result struct {
	Candidates []Candidate
	Graph      *graph.Graph
}

// SearchPaths runs the three fixed-profile searches concurrently over
// one consistent snapshot and overlay view, deduplicates identical
// edge sequences and returns up to K structurally distinct candidates.
// If the active snapshot is swapped mid-search the whole search is
// retried once against the new snapshot; a second swap surfaces
// graph.ErrStaleSnapshot.
func SearchPaths(ctx context.Context, store *graph.Store, overlays *graph.OverlayStore, events []Event, origin, dest geo.Coord, departure int32, opts Options) (Result, error) {
	opts.fill()

	result, err := search_once(ctx, store, overlays, events, origin, dest, departure, opts)
	if err == nil || !errors.Is(err, graph.ErrStaleSnapshot) {
		return result, err
	}
	return search_once(ctx, store, overlays, events, origin, dest, departure, opts)
}

// after_overlay_view runs between taking the overlay view and the
// profile searches. Tests swap it in to interleave snapshot refreshes
// with a running search.
var after_overlay_view = func() {}

func search_once(ctx context.Context, store *graph.Store, overlays *graph.OverlayStore, events []Event, origin, dest geo.Coord, departure int32, opts Options) (Result, error) {
	g, version := store.Snapshot()

	sub, err := g.SubgraphAround(origin, dest, opts.RadiusKM)
	if err != nil {
		return Result{}, err
	}
	view := overlays.View(sub.EdgeIDs)
	after_overlay_view()

	var mu sync.Mutex
	found := make([]Candidate, 0, len(search_profiles))

	group, gctx := errgroup.WithContext(ctx)
	for _, profile := range search_profiles {
		profile := profile
		group.Go(func() error {
			weight := NewWeighting(g, view, profile.coef, events, opts.NeutralSafety, opts.TransferPenalty)
			alg := NewTimeDijkstra(sub, weight, departure, opts.HorizonSeconds, opts.MaxSpeedKMH)
			if !alg.CalcShortestPath(gctx) {
				// unreachable under this profile, the others may
				// still succeed
				return gctx.Err()
			}
			path := alg.GetPath(view, opts.NeutralSafety)
			mu.Lock()
			found = append(found, Candidate{Path: path, Label: profile.label, Weights: profile.coef})
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	if store.Version() != version {
		return Result{}, graph.ErrStaleSnapshot
	}
	if len(found) == 0 {
		return Result{}, ErrNoPathFound
	}

	// deduplicate identical edge sequences, keeping label precedence
	distinct := make([]Candidate, 0, opts.K)
	seen := make(map[string]bool, len(found))
	for _, profile := range search_profiles {
		for _, cand := range found {
			if cand.Label != profile.label {
				continue
			}
			key := cand.Path.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			distinct = append(distinct, cand)
		}
	}
	if len(distinct) > opts.K {
		distinct = distinct[:opts.K]
	}
	return Result{Candidates: distinct, Graph: g}, nil
}
