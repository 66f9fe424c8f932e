package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const test_network = `{
	"nodes": [
		{"id": "A", "lon": 77.200, "lat": 28.600, "elevator": true},
		{"id": "B", "lon": 77.210, "lat": 28.605},
		{"id": "C", "lon": 77.205, "lat": 28.610, "ramp": true},
		{"id": "D", "lon": 77.220, "lat": 28.610, "elevator": true}
	],
	"edges": [
		{"id": "AB", "from": "A", "to": "B", "mode": "metro", "travel_seconds": 600, "distance_km": 5, "fare": 20},
		{"id": "BD", "from": "B", "to": "D", "mode": "bus", "travel_seconds": 900, "distance_km": 7, "fare": 10},
		{"id": "AC", "from": "A", "to": "C", "mode": "walk", "travel_seconds": 900, "distance_km": 1},
		{"id": "CD", "from": "C", "to": "D", "mode": "auto", "travel_seconds": 2100, "distance_km": 12, "fare": 15}
	]
}`

func test_server(t *testing.T) (*gin.Engine, *PlannerManager) {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	path := filepath.Join(dir, "network.json")
	require.NoError(t, os.WriteFile(path, []byte(test_network), 0644))

	config := DefaultConfig()
	config.Feeds.NetworkFile = path
	config.Feeds.Watch = false

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager, err := NewPlannerManager(config, log)
	require.NoError(t, err)
	t.Cleanup(manager.Close)

	return NewRouter(manager, config, log), manager
}

func do_json(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func plan_request() PlanRequest {
	return PlanRequest{
		Origin:           []float32{77.2001, 28.6001},
		Destination:      []float32{77.2199, 28.6099},
		DepartureSeconds: 36000,
	}
}

func TestHealthz(t *testing.T) {
	router, _ := test_server(t)
	rec := do_json(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlanEndpoint(t *testing.T) {
	router, _ := test_server(t)

	rec := do_json(t, router, http.MethodPost, "/v1/plan", plan_request())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotEmpty(t, resp.Routes)
	for i, r := range resp.Routes {
		assert.Equal(t, i+1, r.Rank)
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.Path.EdgeIDs)
	}
}

func TestPlanValidation(t *testing.T) {
	router, _ := test_server(t)

	req := plan_request()
	req.Origin = []float32{77.2}
	rec := do_json(t, router, http.MethodPost, "/v1/plan", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = plan_request()
	req.Profile = "teleport"
	rec = do_json(t, router, http.MethodPost, "/v1/plan", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// far outside the network
	req = plan_request()
	req.Origin = []float32{13.40, 52.52}
	rec = do_json(t, router, http.MethodPost, "/v1/plan", req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlanNoQualifyingRoute(t *testing.T) {
	router, _ := test_server(t)

	// nothing clears a safety bar above the neutral score
	req := plan_request()
	req.MinSafety = 90
	rec := do_json(t, router, http.MethodPost, "/v1/plan", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no_qualifying_route", resp.Status)
	assert.Empty(t, resp.Routes)
	assert.NotEmpty(t, resp.Candidates)
	assert.NotEmpty(t, resp.Suggestions)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	router, _ := test_server(t)

	rec := do_json(t, router, http.MethodPost, "/v1/plan", plan_request())
	require.Equal(t, http.StatusOK, rec.Code)
	var plan PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.NotEmpty(t, plan.Routes)

	// commit an unknown route id first
	rec = do_json(t, router, http.MethodPost, "/v1/sessions", CommitRequest{RouteID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do_json(t, router, http.MethodPost, "/v1/sessions", CommitRequest{RouteID: plan.Routes[0].ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var session SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "planned", session.State)
	require.NotEmpty(t, session.SessionID)

	// a committed route cannot be committed twice
	rec = do_json(t, router, http.MethodPost, "/v1/sessions", CommitRequest{RouteID: plan.Routes[0].ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do_json(t, router, http.MethodPost, "/v1/sessions/"+session.SessionID+"/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do_json(t, router, http.MethodGet, "/v1/sessions/"+session.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "active", session.State)

	// on-route, on-time position raises nothing
	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	rec = do_json(t, router, http.MethodPost, "/v1/sessions/"+session.SessionID+"/position",
		map[string]any{"timestamp": at, "lon": 77.210, "lat": 28.605})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pos PositionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
	assert.Equal(t, "active", pos.State)
	assert.Nil(t, pos.Event)

	// arriving at the destination completes the session
	rec = do_json(t, router, http.MethodPost, "/v1/sessions/"+session.SessionID+"/position",
		map[string]any{"timestamp": at, "lon": 77.220, "lat": 28.610})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
	assert.Equal(t, "completed", pos.State)
	require.NotNil(t, pos.Event)
	assert.Equal(t, "completed", pos.Event.Type)

	// further updates conflict with the finished state
	rec = do_json(t, router, http.MethodPost, "/v1/sessions/"+session.SessionID+"/position",
		map[string]any{"timestamp": at, "lon": 77.220, "lat": 28.610})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do_json(t, router, http.MethodPost, "/v1/sessions/missing/cancel", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOverlayEndpoint(t *testing.T) {
	router, _ := test_server(t)

	rec := do_json(t, router, http.MethodPost, "/v1/overlays", []map[string]any{
		{"edge_id": "AB", "delay_seconds": 120, "crowd_level": 0.8},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do_json(t, router, http.MethodPost, "/v1/overlays", []map[string]any{
		{"delay_seconds": 120},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the applied delay shifts planned arrivals
	rec = do_json(t, router, http.MethodPost, "/v1/plan", plan_request())
	require.Equal(t, http.StatusOK, rec.Code)
	var resp PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, r := range resp.Routes {
		if len(r.Path.EdgeIDs) > 0 && r.Path.EdgeIDs[0] == "AB" {
			assert.Equal(t, int32(36000+600+120+900), r.Path.Arrival)
		}
	}
}

func TestEventEndpoint(t *testing.T) {
	router, _ := test_server(t)

	ring := [][2]float32{{77.19, 28.59}, {77.23, 28.59}, {77.23, 28.62}, {77.19, 28.62}}
	rec := do_json(t, router, http.MethodPost, "/v1/events", []map[string]any{
		{"area": ring, "from_seconds": 0, "until_seconds": 86400, "delay_seconds": 300},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do_json(t, router, http.MethodPost, "/v1/events", []map[string]any{
		{"area": ring[:2], "from_seconds": 0, "until_seconds": 100},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
