// Package types holds the request and response DTOs of the HTTP API.
package types

import (
	"time"

	"github.com/buildsense/buildsense/pkg/building"
)

// --- Request DTOs ---

// CoordinateRequest is the request body for POST /rooms/:id/coordinate
type CoordinateRequest struct {
	// Strategies to resolve under; empty uses the default set.
	Strategies []string `json:"strategies"`
	// Execute hands the best plan to the execution engine immediately.
	Execute bool `json:"execute"`
}

// ApproveRequest is the request body for POST /executions/:plan_id/approve
type ApproveRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required"`
}

// CancelRequest is the request body for POST /executions/:plan_id/cancel
type CancelRequest struct {
	CancelledBy string `json:"cancelled_by" binding:"required"`
}

// ReadingsRequest is the request body for POST /rooms/:id/readings
type ReadingsRequest struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	CO2         float64 `json:"co2"`
	Occupancy   int     `json:"occupancy"`
	LightLevel  float64 `json:"light_level"`
}

// SLORequest is the request body for POST /slos and PUT /slos/:id
type SLORequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Metric      string             `json:"metric" binding:"required"`
	TargetValue float64            `json:"target_value"`
	Weight      float64            `json:"weight"`
	Active      *bool              `json:"active"`
	Config      map[string]float64 `json:"config"`
	CreatedBy   string             `json:"created_by"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// ListRoomsResponse is returned from GET /rooms
type ListRoomsResponse struct {
	Rooms []building.Room `json:"rooms"`
	Count int             `json:"count"`
}

// StatusResponse acknowledges state-changing calls that return no body.
type StatusResponse struct {
	Status string `json:"status"`
}
