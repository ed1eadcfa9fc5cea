package services

import (
	"context"
	"detour-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetourEvaluatorSortsByExtraTime(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 300, "B": 120, "P": 180})
	e := &DetourEvaluator{Client: m}

	got, err := e.Evaluate(context.Background(), testOrigin, testDestination, 3600,
		[]domain.CandidateStop{stopA, stopB, stopP})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "P", "A"}, labels(got))
	assert.Equal(t, []float64{2, 3, 5}, []float64{got[0].ExtraTimeMinutes, got[1].ExtraTimeMinutes, got[2].ExtraTimeMinutes})

	// One single-waypoint query per candidate.
	calls := m.Calls()
	require.Len(t, calls, 3)
	for _, c := range calls {
		require.Len(t, c.Waypoints, 1)
		assert.False(t, c.Waypoints[0].ReorderAllowed)
	}
}

func TestDetourEvaluatorCeiling(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 600, "B": 601})
	e := &DetourEvaluator{Client: m, CeilingMinutes: 10}

	got, err := e.Evaluate(context.Background(), testOrigin, testDestination, 3600,
		[]domain.CandidateStop{stopA, stopB})
	require.NoError(t, err)

	// Exactly at the ceiling is kept; anything above is dropped.
	assert.Equal(t, []string{"A"}, labels(got))
	assert.Equal(t, 10.0, got[0].ExtraTimeMinutes)
}

func TestDetourEvaluatorDefaultsToTenMinuteCeiling(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 600, "B": 601})
	e := &DetourEvaluator{Client: m}

	got, err := e.Evaluate(context.Background(), testOrigin, testDestination, 3600,
		[]domain.CandidateStop{stopA, stopB})
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, labels(got))
}

func TestDetourEvaluatorDropsFailedQueries(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 240, "B": 120, "P": 60})
	m.Failing["P"] = true
	e := &DetourEvaluator{Client: m}

	got, err := e.Evaluate(context.Background(), testOrigin, testDestination, 3600,
		[]domain.CandidateStop{stopA, stopP, stopB})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A"}, labels(got))
}

func TestDetourEvaluatorClampsAndRounds(t *testing.T) {
	m := newMock(3600, map[string]int{"A": -90, "B": 100})
	e := &DetourEvaluator{Client: m}

	got, err := e.Evaluate(context.Background(), testOrigin, testDestination, 3600,
		[]domain.CandidateStop{stopB, stopA})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Label)
	assert.Equal(t, 0.0, got[0].ExtraTimeMinutes)
	assert.Equal(t, 1.67, got[1].ExtraTimeMinutes)
}

func TestDetourEvaluatorTiesKeepInputOrder(t *testing.T) {
	stops := map[string]int{}
	candidates := make([]domain.CandidateStop, 0, 26)
	for r := 'z'; r >= 'a'; r-- {
		label := string(r)
		stops[label] = 120
		candidates = append(candidates, domain.CandidateStop{Label: label, Location: stopA.Location})
	}

	want := make([]string, 0, len(candidates))
	for _, c := range candidates {
		want = append(want, c.Label)
	}

	for run := 0; run < 5; run++ {
		m := newMock(3600, stops)
		e := &DetourEvaluator{Client: m, Concurrency: 8}

		got, err := e.Evaluate(context.Background(), testOrigin, testDestination, 3600, candidates)
		require.NoError(t, err)
		assert.Equal(t, want, labels(got))
	}
}

func TestDetourEvaluatorEmptyCandidates(t *testing.T) {
	m := newMock(3600, nil)
	e := &DetourEvaluator{Client: m}

	got, err := e.Evaluate(context.Background(), testOrigin, testDestination, 3600, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, m.Calls())
}

func TestDetourEvaluatorCancelled(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 60})
	e := &DetourEvaluator{Client: m}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Evaluate(ctx, testOrigin, testDestination, 3600, []domain.CandidateStop{stopA})
	require.ErrorIs(t, err, context.Canceled)
}
