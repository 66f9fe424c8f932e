package main

import (
	"errors"
	"time"

	"github.com/savari-labs/go-transit/geo"
	"github.com/savari-labs/go-transit/graph"
	"github.com/savari-labs/go-transit/routing"
)

//**********************************************************
// planning requests
//**********************************************************

type PlanRequest struct {
	Origin      []float32 `json:"origin"`      // [lon, lat]
	Destination []float32 `json:"destination"` // [lon, lat]

	// seconds since midnight; zero means "now"
	DepartureSeconds int32 `json:"departure_seconds"`

	// ranking preset (fastest|safest|balanced); custom weights win
	// when both are given
	Profile string                `json:"profile"`
	Weights *routing.Coefficients `json:"weights"`

	MaxDurationMinutes int32   `json:"max_duration_minutes"`
	MaxBudget          float64 `json:"max_budget"`
	MinSafety          float64 `json:"min_safety"`
	Accessible         bool    `json:"accessible"`
}

func (self PlanRequest) Coords() (geo.Coord, geo.Coord, error) {
	if len(self.Origin) != 2 || len(self.Destination) != 2 {
		return geo.Coord{}, geo.Coord{}, errors.New("origin and destination must be [lon, lat]")
	}
	origin := geo.NewCoord(self.Origin[0], self.Origin[1])
	dest := geo.NewCoord(self.Destination[0], self.Destination[1])
	return origin, dest, nil
}

func (self PlanRequest) Departure() int32 {
	if self.DepartureSeconds > 0 {
		return self.DepartureSeconds
	}
	now := time.Now()
	return int32(now.Hour()*3600 + now.Minute()*60 + now.Second())
}

// Preferences maps the request onto a preference profile: preset or
// custom coefficients plus the hard constraints.
func (self PlanRequest) Preferences() (routing.Preferences, error) {
	prefs := routing.DefaultPreferences()
	switch self.Profile {
	case "", "balanced":
		prefs.Weights = routing.BalancedCoefficients()
	case "fastest":
		prefs.Weights = routing.FastestCoefficients()
	case "safest":
		prefs.Weights = routing.SafestCoefficients()
	default:
		return prefs, errors.New("unknown profile: " + self.Profile)
	}
	if self.Weights != nil {
		if !self.Weights.Valid() {
			return prefs, errors.New("preference coefficients must be non-negative")
		}
		prefs.Weights = *self.Weights
	}
	prefs.MaxDurationSeconds = self.MaxDurationMinutes * 60
	prefs.MaxBudget = self.MaxBudget
	prefs.MinSafety = self.MinSafety
	prefs.Accessible = self.Accessible
	return prefs, nil
}

//**********************************************************
// tracking requests
//**********************************************************

type CommitRequest struct {
	RouteID string `json:"route_id"`
}

//**********************************************************
// feed requests
//**********************************************************

// OverlayRecord is one entry of the dynamic overlay feed, keyed by
// external edge id.
type OverlayRecord struct {
	EdgeID       string               `json:"edge_id"`
	DelaySeconds int32                `json:"delay_seconds"`
	CrowdLevel   float64              `json:"crowd_level"`
	Safety       *graph.SafetyFactors `json:"safety"`
	Timestamp    time.Time            `json:"timestamp"`
}
