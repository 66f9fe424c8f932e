package main

import (
	"github.com/savari-labs/go-transit/route"
	"github.com/savari-labs/go-transit/tracking"
)

//**********************************************************
// responses
//**********************************************************

type ErrorResponse struct {
	Request string `json:"request"`
	Error   any    `json:"error"`
}

func NewErrorResponse(request string, error any) ErrorResponse {
	return ErrorResponse{
		Request: request,
		Error:   error,
	}
}

// PlanResponse either carries ranked routes (status "ok") or the
// unfiltered candidates plus mitigation suggestions (status
// "no_qualifying_route").
type PlanResponse struct {
	Status      string        `json:"status"`
	Routes      []route.Route `json:"routes,omitempty"`
	Candidates  []route.Route `json:"candidates,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

type SessionResponse struct {
	SessionID string      `json:"session_id"`
	State     string      `json:"state"`
	Route     route.Route `json:"route"`
}

// PositionResponse is returned for every position update: the
// currently active route plus any event this update raised.
type PositionResponse struct {
	State string          `json:"state"`
	Route route.Route     `json:"route"`
	Event *tracking.Event `json:"event,omitempty"`
}
