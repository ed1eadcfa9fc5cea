package ports

import (
	"context"
	"detour-route-service/internal/domain"
	"fmt"

	"github.com/paulmach/orb"
)

// The single travel profile the planner asks for.
const ProfileDriving = "driving"

// An intermediate stop on a route request.
type Waypoint struct {
	Label    string
	Location domain.GeoPoint
	// The routing service may move this stop to shorten the route.
	ReorderAllowed bool
}

type RouteRequest struct {
	Origin      string
	Destination string
	Waypoints   []Waypoint
	Profile     string
}

type RouteLeg struct {
	StartAddress    string `json:"start_address"`
	EndAddress      string `json:"end_address"`
	DurationSeconds int    `json:"duration_seconds"`
	DurationText    string `json:"duration_text"`
	DistanceMeters  int    `json:"distance_meters"`
}

// Ordered legs of a route plus its renderable path geometry.
type RouteResult struct {
	Legs     []RouteLeg     `json:"legs"`
	Geometry orb.LineString `json:"geometry"`
	// WaypointOrder[i] is the request index of the i-th visited waypoint.
	// Empty when the service kept the request order.
	WaypointOrder []int `json:"waypoint_order,omitempty"`
}

// TotalDurationSeconds sums the duration of every leg.
func (r *RouteResult) TotalDurationSeconds() int {
	total := 0
	for _, l := range r.Legs {
		total += l.DurationSeconds
	}
	return total
}

// Contract for an external routing service.
type RoutingClient interface {
	// Return a route from origin to destination through the given waypoints.
	Route(ctx context.Context, req RouteRequest) (*RouteResult, error)
}

// Optional extension of RoutingClient that reports whether it can serve queries.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// RouteStatusError is returned when the routing service answers but rejects the query.
type RouteStatusError struct {
	Code    string
	Message string
}

func (e *RouteStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("route status %s", e.Code)
	}
	return fmt.Sprintf("route status %s: %s", e.Code, e.Message)
}
