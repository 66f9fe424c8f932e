package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/savari-labs/go-transit/graph"
	"github.com/savari-labs/go-transit/parser"
	"github.com/savari-labs/go-transit/routing"
	"github.com/savari-labs/go-transit/tracking"
)

//**********************************************************
// rest api
//**********************************************************

func NewRouter(manager *PlannerManager, config Config, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	cors_config := cors.DefaultConfig()
	if len(config.Server.AllowedOrigins) > 0 {
		cors_config.AllowOrigins = config.Server.AllowedOrigins
	} else {
		cors_config.AllowAllOrigins = true
	}
	router.Use(cors.New(cors_config))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if config.Server.Profiling {
		MountProfiling(router)
	}

	v1 := router.Group("/v1")
	{
		v1.POST("/plan", HandlePlan(manager, log))
		v1.POST("/sessions", HandleCommit(manager))
		v1.POST("/sessions/:id/start", HandleStart(manager))
		v1.GET("/sessions/:id", HandleGetSession(manager))
		v1.POST("/sessions/:id/position", HandlePosition(manager))
		v1.POST("/sessions/:id/cancel", HandleCancel(manager))
		v1.GET("/sessions/:id/stream", HandleStream(manager, log))
		v1.POST("/overlays", HandleOverlays(manager))
		v1.POST("/events", HandleEvents(manager))
	}
	return router
}

func HandlePlan(manager *PlannerManager, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse("plan", err.Error()))
			return
		}
		origin, dest, err := req.Coords()
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse("plan", err.Error()))
			return
		}
		prefs, err := req.Preferences()
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse("plan", err.Error()))
			return
		}

		result, err := manager.Plan(c.Request.Context(), origin, dest, req.Departure(), prefs)
		if err != nil {
			status, kind := plan_error_status(err)
			c.JSON(status, NewErrorResponse("plan", kind))
			return
		}
		if result.NoQualifying != nil {
			c.JSON(http.StatusOK, PlanResponse{
				Status:      "no_qualifying_route",
				Candidates:  result.NoQualifying.Candidates,
				Suggestions: result.NoQualifying.Suggestions,
			})
			return
		}
		c.JSON(http.StatusOK, PlanResponse{Status: "ok", Routes: result.Routes})
	}
}

func plan_error_status(err error) (int, string) {
	switch {
	case errors.Is(err, graph.ErrOutOfCoverage):
		return http.StatusNotFound, "out_of_coverage"
	case errors.Is(err, routing.ErrNoPathFound):
		return http.StatusNotFound, "no_path_found"
	case errors.Is(err, graph.ErrStaleSnapshot):
		return http.StatusServiceUnavailable, "stale_snapshot"
	}
	return http.StatusInternalServerError, err.Error()
}

func HandleCommit(manager *PlannerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CommitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse("commit", err.Error()))
			return
		}
		session, err := manager.Commit(req.RouteID)
		if err != nil {
			c.JSON(http.StatusNotFound, NewErrorResponse("commit", err.Error()))
			return
		}
		c.JSON(http.StatusCreated, SessionResponse{
			SessionID: session.ID,
			State:     session.State().String(),
			Route:     session.Route(),
		})
	}
}

func HandleStart(manager *PlannerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Monitor().Start(c.Param("id")); err != nil {
			c.JSON(session_error_status(err), NewErrorResponse("start", err.Error()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": tracking.ACTIVE.String()})
	}
}

func HandleGetSession(manager *PlannerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := manager.Monitor().Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, NewErrorResponse("session", err.Error()))
			return
		}
		c.JSON(http.StatusOK, SessionResponse{
			SessionID: session.ID,
			State:     session.State().String(),
			Route:     session.Route(),
		})
	}
}

func HandlePosition(manager *PlannerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tracking.PositionUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse("position", err.Error()))
			return
		}
		id := c.Param("id")
		current, event, err := manager.Monitor().UpdatePosition(c.Request.Context(), id, update)
		if err != nil {
			c.JSON(session_error_status(err), NewErrorResponse("position", err.Error()))
			return
		}
		count_tracking_event(event)
		session, _ := manager.Monitor().Get(id)
		c.JSON(http.StatusOK, PositionResponse{
			State: session.State().String(),
			Route: current,
			Event: event,
		})
	}
}

func HandleCancel(manager *PlannerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Monitor().Cancel(c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, NewErrorResponse("cancel", err.Error()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": tracking.ABANDONED.String()})
	}
}

func session_error_status(err error) int {
	switch {
	case errors.Is(err, tracking.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracking.ErrBadTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func count_tracking_event(event *tracking.Event) {
	if event == nil {
		return
	}
	switch event.Type {
	case "rerouted":
		metric_reroutes.Inc()
	case "delay_notice":
		metric_delay_notices.Inc()
	}
}

//**********************************************************
// position stream
//**********************************************************

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleStream upgrades to a websocket and feeds the traveler's
// position stream through the same update path as the REST endpoint.
// The stream closes once the session leaves the active states.
func HandleStream(manager *PlannerManager, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := manager.Monitor().Get(id); err != nil {
			c.JSON(http.StatusNotFound, NewErrorResponse("stream", err.Error()))
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var update tracking.PositionUpdate
			if err := conn.ReadJSON(&update); err != nil {
				return
			}
			current, event, err := manager.Monitor().UpdatePosition(c.Request.Context(), id, update)
			if err != nil {
				conn.WriteJSON(NewErrorResponse("stream", err.Error()))
				return
			}
			count_tracking_event(event)
			session, _ := manager.Monitor().Get(id)
			state := session.State()
			conn.WriteJSON(PositionResponse{
				State: state.String(),
				Route: current,
				Event: event,
			})
			if state == tracking.COMPLETED || state == tracking.ABANDONED {
				return
			}
		}
	}
}

//**********************************************************
// feed endpoints
//**********************************************************

func HandleOverlays(manager *PlannerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var records []OverlayRecord
		if err := c.ShouldBindJSON(&records); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse("overlays", err.Error()))
			return
		}
		for _, rec := range records {
			if rec.EdgeID == "" {
				c.JSON(http.StatusBadRequest, NewErrorResponse("overlays", "record without edge_id"))
				return
			}
		}
		manager.UpdateOverlays(records)
		c.JSON(http.StatusOK, gin.H{"updated": len(records)})
	}
}

func HandleEvents(manager *PlannerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var records []parser.EventRecord
		if err := c.ShouldBindJSON(&records); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse("events", err.Error()))
			return
		}
		events, err := parser.DecodeEvents(records)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse("events", err.Error()))
			return
		}
		manager.SetEvents(events)
		c.JSON(http.StatusOK, gin.H{"active": len(events)})
	}
}
