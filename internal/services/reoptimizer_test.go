package services

import (
	"context"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	res *ports.RouteResult
	err error
}

func (s *stubClient) Route(ctx context.Context, req ports.RouteRequest) (*ports.RouteResult, error) {
	return s.res, s.err
}

func TestReoptimizeEmptyStopsUsesBaseRoute(t *testing.T) {
	m := newMock(3600, nil)
	r := &Reoptimizer{Client: m}

	plan, err := r.Reoptimize(context.Background(), ReoptimizeRequest{
		Origin:      testOrigin,
		Destination: testDestination,
		DepartAt:    testDepart,
		Base:        baseRoute(m),
	})
	require.NoError(t, err)

	assert.Empty(t, m.Calls(), "no routing query for an empty stop set")
	assert.Equal(t, 0.0, plan.ExtraTimeMinutes)
	assert.Equal(t, 3600, plan.TotalDurationSeconds)
	require.Len(t, plan.Legs, 1)
	assert.Equal(t, "09:00", plan.Legs[0].ETA)
	assert.Equal(t, "1 hour", plan.Legs[0].DurationText)
}

func TestReoptimizeVisitingOrderAndETAs(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 120, "B": 240})
	r := &Reoptimizer{Client: m}

	// Inserted B first; the mock visits reorderable stops by label.
	plan, err := r.Reoptimize(context.Background(), ReoptimizeRequest{
		Origin:      testOrigin,
		Destination: testDestination,
		Stops:       []domain.EvaluatedStop{evaluated(stopB, 4), evaluated(stopA, 2)},
		DepartAt:    testDepart,
		Base:        baseRoute(m),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, labels(plan.Stops))
	assert.Equal(t, 3960, plan.TotalDurationSeconds)
	assert.Equal(t, 6.0, plan.ExtraTimeMinutes)
	assert.Equal(t, testDepart, plan.DepartAt)

	require.Len(t, plan.Legs, 3)
	wantETAs := []string{"08:22", "08:44", "09:06"}
	for i, l := range plan.Legs {
		assert.Equal(t, wantETAs[i], l.ETA)
		assert.Equal(t, "22 mins", l.DurationText)
	}
	assert.Equal(t, testOrigin, plan.Legs[0].StartAddress)
	assert.Equal(t, "A", plan.Legs[0].EndAddress)
	assert.Equal(t, testDestination, plan.Legs[2].EndAddress)

	calls := m.Calls()
	require.Len(t, calls, 1)
	for _, w := range calls[0].Waypoints {
		assert.True(t, w.ReorderAllowed)
	}
}

func TestReoptimizeIsIdempotent(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 120, "B": 240})
	r := &Reoptimizer{Client: m}
	req := ReoptimizeRequest{
		Origin:      testOrigin,
		Destination: testDestination,
		Stops:       []domain.EvaluatedStop{evaluated(stopA, 2), evaluated(stopB, 4)},
		DepartAt:    testDepart,
		Base:        baseRoute(m),
	}

	first, err := r.Reoptimize(context.Background(), req)
	require.NoError(t, err)
	second, err := r.Reoptimize(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReoptimizeFailures(t *testing.T) {
	stops := []domain.EvaluatedStop{evaluated(stopA, 2), evaluated(stopB, 4)}
	twoLegs := []ports.RouteLeg{{DurationSeconds: 10}, {DurationSeconds: 10}}
	threeLegs := []ports.RouteLeg{{DurationSeconds: 10}, {DurationSeconds: 10}, {DurationSeconds: 10}}

	tests := []struct {
		name   string
		client *stubClient
	}{
		{"query error", &stubClient{err: &ports.RouteStatusError{Code: "NoRoute"}}},
		{"leg count", &stubClient{res: &ports.RouteResult{Legs: twoLegs}}},
		{"order out of range", &stubClient{res: &ports.RouteResult{Legs: threeLegs, WaypointOrder: []int{0, 2}}}},
		{"order repeats", &stubClient{res: &ports.RouteResult{Legs: threeLegs, WaypointOrder: []int{1, 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reoptimizer{Client: tt.client}
			_, err := r.Reoptimize(context.Background(), ReoptimizeRequest{
				Origin:      testOrigin,
				Destination: testDestination,
				Stops:       stops,
				DepartAt:    testDepart,
				Base:        BaseRoute{DurationSeconds: 3600},
			})
			require.ErrorIs(t, err, domain.ErrReoptimizationFailure)
		})
	}
}

func TestBuildLegsKeepsProvidedText(t *testing.T) {
	legs := BuildLegs([]ports.RouteLeg{
		{StartAddress: "x", EndAddress: "y", DurationSeconds: 90, DurationText: "2 mins"},
		{StartAddress: "y", EndAddress: "z", DurationSeconds: 3900},
	}, testDepart)

	require.Len(t, legs, 2)
	assert.Equal(t, "2 mins", legs[0].DurationText)
	assert.Equal(t, "08:01", legs[0].ETA)
	assert.Equal(t, "1 hour 5 mins", legs[1].DurationText)
	assert.Equal(t, "09:06", legs[1].ETA)
}
