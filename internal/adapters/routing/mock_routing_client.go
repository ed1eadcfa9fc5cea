package routing

import (
	"context"
	"detour-route-service/internal/ports"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/paulmach/orb"
)

// MockRoutingClient is a scripted routing service for tests and demos.
//
// A route's total duration is BaseSeconds plus the StopSeconds of every
// waypoint, unless Totals has an entry for the sorted, "|"-joined labels.
// Reorderable waypoints are visited in label order.
type MockRoutingClient struct {
	BaseSeconds int
	StopSeconds map[string]int
	Totals      map[string]int
	// Any query that includes one of these labels fails.
	Failing  map[string]bool
	FailBase bool
	NotReady bool
	Path     orb.LineString

	mu    sync.Mutex
	calls []ports.RouteRequest
}

func NewMockRoutingClient(baseSeconds int, stopSeconds map[string]int) *MockRoutingClient {
	if stopSeconds == nil {
		stopSeconds = map[string]int{}
	}
	return &MockRoutingClient{
		BaseSeconds: baseSeconds,
		StopSeconds: stopSeconds,
		Totals:      map[string]int{},
		Failing:     map[string]bool{},
	}
}

func (m *MockRoutingClient) Ready(ctx context.Context) error {
	if m.NotReady {
		return errors.New("mock routing client not ready")
	}
	return nil
}

func (m *MockRoutingClient) Route(ctx context.Context, req ports.RouteRequest) (*ports.RouteResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(req.Waypoints) == 0 && m.FailBase {
		return nil, &ports.RouteStatusError{Code: "ZERO_RESULTS"}
	}

	order := make([]int, len(req.Waypoints))
	for i := range order {
		order[i] = i
	}
	reorder := false
	for _, w := range req.Waypoints {
		reorder = reorder || w.ReorderAllowed
	}
	if reorder {
		slices.SortStableFunc(order, func(a, b int) int {
			return strings.Compare(req.Waypoints[a].Label, req.Waypoints[b].Label)
		})
	}

	total := m.BaseSeconds
	labels := make([]string, 0, len(req.Waypoints))
	for _, w := range req.Waypoints {
		if m.Failing[w.Label] {
			return nil, &ports.RouteStatusError{Code: "ZERO_RESULTS", Message: w.Label}
		}
		added, ok := m.StopSeconds[w.Label]
		if !ok {
			return nil, &ports.RouteStatusError{Code: "NOT_FOUND", Message: w.Label}
		}
		total += added
		labels = append(labels, w.Label)
	}

	slices.Sort(labels)
	if t, ok := m.Totals[strings.Join(labels, "|")]; ok && len(labels) > 0 {
		total = t
	}

	points := make([]string, 0, len(req.Waypoints)+2)
	points = append(points, req.Origin)
	for _, idx := range order {
		points = append(points, req.Waypoints[idx].Label)
	}
	points = append(points, req.Destination)

	n := len(points) - 1
	legs := make([]ports.RouteLeg, 0, n)
	remaining := total
	for i := 0; i < n; i++ {
		d := total / n
		if i == n-1 {
			d = remaining
		}
		remaining -= d
		legs = append(legs, ports.RouteLeg{
			StartAddress:    points[i],
			EndAddress:      points[i+1],
			DurationSeconds: d,
		})
	}

	res := &ports.RouteResult{Legs: legs, Geometry: m.Path}
	if reorder {
		res.WaypointOrder = order
	}
	return res, nil
}

// Calls returns every request received so far.
func (m *MockRoutingClient) Calls() []ports.RouteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.RouteRequest, len(m.calls))
	copy(out, m.calls)
	return out
}
