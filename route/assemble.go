package route

import (
	"sort"

	"github.com/google/uuid"
	"github.com/savari-labs/go-transit/graph"
	"github.com/savari-labs/go-transit/routing"
)

//*******************************************
// route assembly and ranking
//*******************************************

// Route is a ranked, classified path. Created at planning time; a
// traveler committing to one binds it to a tracking session.
type Route struct {
	ID     string       `json:"id"`
	Path   routing.Path `json:"path"`
	Safety float64      `json:"safety"`
	Score  float64      `json:"score"`
	Label  string       `json:"label"`
	Rank   int          `json:"rank"`
}

// NoQualifyingRoute is the first-class "paths exist but none meet
// policy" result. It carries the full unfiltered candidate set so
// callers can distinguish it from no-path-exists and offer the listed
// mitigations.
type NoQualifyingRoute struct {
	Candidates  []Route  `json:"candidates"`
	Suggestions []string `json:"suggestions"`
}

// Fixed mitigation list surfaced with every NoQualifyingRoute result.
var MitigationSuggestions = []string{
	"relax the minimum safety threshold",
	"increase the maximum budget",
	"allow a longer journey time",
	"depart during daytime hours when safety scores are higher",
	"drop the step-free accessibility requirement if possible",
}

// score inverts cost onto a 0-100 goodness scale, strictly decreasing
// in cost.
const score_scale = 100.0

func rank_score(cost float64) float64 {
	return 100.0 * score_scale / (score_scale + cost)
}

// route_cost aggregates a path's metrics under the profile's
// coefficients, mirroring the per-edge weight formula.
func route_cost(path routing.Path, safety float64, coef routing.Coefficients, transfer_penalty float64) float64 {
	time_min := float64(path.DurationSeconds) / 60.0
	return coef.Alpha*time_min +
		coef.Beta*path.DistanceKM +
		coef.Gamma*(100.0-safety) +
		coef.Delta*path.Fare +
		coef.Epsilon*transfer_penalty*float64(path.Transfers)
}

// Assemble converts raw search candidates into ranked routes,
// enforcing the profile's hard constraints. If every candidate is
// filtered out it returns the NoQualifyingRoute result instead; an
// empty candidate list is the caller's NoPathFound case and never
// reaches here.
func Assemble(g *graph.Graph, candidates []routing.Candidate, prefs routing.Preferences, transfer_penalty float64) ([]Route, *NoQualifyingRoute) {
	routes := make([]Route, 0, len(candidates))
	for _, cand := range candidates {
		safety := RouteSafety(cand.Path)
		cost := route_cost(cand.Path, safety, prefs.Weights, transfer_penalty)
		routes = append(routes, Route{
			ID:     uuid.NewString(),
			Path:   cand.Path,
			Safety: safety,
			Score:  rank_score(cost),
			Label:  cand.Label,
		})
	}

	// descending score, deterministic tie-break on duration then
	// edge sequence
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Score != routes[j].Score {
			return routes[i].Score > routes[j].Score
		}
		if routes[i].Path.DurationSeconds != routes[j].Path.DurationSeconds {
			return routes[i].Path.DurationSeconds < routes[j].Path.DurationSeconds
		}
		return routes[i].Path.Key() < routes[j].Path.Key()
	})

	accepted := make([]Route, 0, len(routes))
	for _, r := range routes {
		if !passes_constraints(g, r, prefs) {
			continue
		}
		r.Rank = len(accepted) + 1
		accepted = append(accepted, r)
	}
	if len(accepted) == 0 {
		return nil, &NoQualifyingRoute{
			Candidates:  routes,
			Suggestions: MitigationSuggestions,
		}
	}
	return accepted, nil
}

func passes_constraints(g *graph.Graph, r Route, prefs routing.Preferences) bool {
	if prefs.MaxDurationSeconds > 0 && r.Path.DurationSeconds > prefs.MaxDurationSeconds {
		return false
	}
	if prefs.MaxBudget > 0 && r.Path.Fare > prefs.MaxBudget {
		return false
	}
	if prefs.MinSafety > 0 && r.Safety < prefs.MinSafety {
		return false
	}
	if prefs.Accessible && !is_accessible(g, r.Path) {
		return false
	}
	return true
}

// is_accessible requires step-free access (elevator or ramp) at both
// ends of every scheduled segment. Walking segments carry no station
// infrastructure and are exempt.
func is_accessible(g *graph.Graph, path routing.Path) bool {
	for _, e := range path.Edges {
		edge := g.GetEdge(e)
		if edge.Mode.IsWalking() {
			continue
		}
		a := g.GetNode(edge.NodeA)
		b := g.GetNode(edge.NodeB)
		if !(a.Elevator || a.Ramp) || !(b.Elevator || b.Ramp) {
			return false
		}
	}
	return true
}
