package services

import (
	"context"
	"detour-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedySelectorAcceptsWhileWithinBudget(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 180, "B": 240})
	s := &GreedySelector{Reoptimizer: &Reoptimizer{Client: m}}

	sel, err := s.Select(context.Background(), SelectRequest{
		Origin:        testOrigin,
		Destination:   testDestination,
		DepartAt:      testDepart,
		BudgetSeconds: 5400,
		Base:          baseRoute(m),
		Candidates:    []domain.EvaluatedStop{evaluated(stopA, 3), evaluated(stopB, 4)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, labels(sel.Stops))
	require.NotNil(t, sel.Plan)
	assert.Equal(t, 4020, sel.Plan.TotalDurationSeconds)
	assert.Equal(t, 7.0, sel.Plan.ExtraTimeMinutes)
}

func TestGreedySelectorRejectsOverBudget(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 300})
	s := &GreedySelector{Reoptimizer: &Reoptimizer{Client: m}}

	sel, err := s.Select(context.Background(), SelectRequest{
		Origin:        testOrigin,
		Destination:   testDestination,
		DepartAt:      testDepart,
		BudgetSeconds: 3700,
		Base:          baseRoute(m),
		Candidates:    []domain.EvaluatedStop{evaluated(stopA, 5)},
	})
	require.NoError(t, err)

	assert.Empty(t, sel.Stops)
	assert.Nil(t, sel.Plan)
}

func TestGreedySelectorNeverReconsidersRejected(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 120, "B": 200, "P": 250})
	// B clashes with A once re-optimized; P combines well.
	m.Totals["A|B"] = 4100
	m.Totals["A|P"] = 3950
	s := &GreedySelector{Reoptimizer: &Reoptimizer{Client: m}}

	sel, err := s.Select(context.Background(), SelectRequest{
		Origin:        testOrigin,
		Destination:   testDestination,
		DepartAt:      testDepart,
		BudgetSeconds: 4000,
		Base:          baseRoute(m),
		Candidates: []domain.EvaluatedStop{
			evaluated(stopA, 2),
			evaluated(stopB, 3.33),
			evaluated(stopP, 4.17),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "P"}, labels(sel.Stops))
	assert.Equal(t, 3950, sel.Plan.TotalDurationSeconds)

	// One trial per candidate, no retries.
	assert.Len(t, m.Calls(), 3)
}

func TestGreedySelectorSkipsFailedTrials(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 60, "B": 60, "P": 60})
	m.Failing["B"] = true
	s := &GreedySelector{Reoptimizer: &Reoptimizer{Client: m}}

	sel, err := s.Select(context.Background(), SelectRequest{
		Origin:        testOrigin,
		Destination:   testDestination,
		DepartAt:      testDepart,
		BudgetSeconds: 7200,
		Base:          baseRoute(m),
		Candidates:    []domain.EvaluatedStop{evaluated(stopA, 1), evaluated(stopB, 1), evaluated(stopP, 1)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "P"}, labels(sel.Stops))
}

func TestGreedySelectorPlanNeverExceedsBudget(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 100, "B": 150, "P": 200})
	s := &GreedySelector{Reoptimizer: &Reoptimizer{Client: m}}

	for budget := 3600; budget <= 4200; budget += 50 {
		sel, err := s.Select(context.Background(), SelectRequest{
			Origin:        testOrigin,
			Destination:   testDestination,
			DepartAt:      testDepart,
			BudgetSeconds: budget,
			Base:          baseRoute(m),
			Candidates:    []domain.EvaluatedStop{evaluated(stopA, 1.67), evaluated(stopB, 2.5), evaluated(stopP, 3.33)},
		})
		require.NoError(t, err)

		if sel.Plan != nil {
			assert.LessOrEqual(t, sel.Plan.TotalDurationSeconds, budget)
			assert.Len(t, sel.Plan.Stops, len(sel.Stops))
		}
	}
}

func TestGreedySelectorTrialOutcomes(t *testing.T) {
	m := newMock(3600, map[string]int{"A": 300})
	m.Failing["B"] = true
	s := &GreedySelector{Reoptimizer: &Reoptimizer{Client: m}}

	req := SelectRequest{
		Origin:        testOrigin,
		Destination:   testDestination,
		DepartAt:      testDepart,
		BudgetSeconds: 3800,
		Base:          baseRoute(m),
	}

	got := s.Trial(context.Background(), req, []domain.EvaluatedStop{evaluated(stopA, 5)})
	assert.Equal(t, domain.TrialInfeasible, got.Status)
	assert.Equal(t, 3900, got.DurationSeconds)

	req.BudgetSeconds = 3900
	got = s.Trial(context.Background(), req, []domain.EvaluatedStop{evaluated(stopA, 5)})
	assert.Equal(t, domain.TrialFeasible, got.Status)

	got = s.Trial(context.Background(), req, []domain.EvaluatedStop{evaluated(stopB, 1)})
	assert.Equal(t, domain.TrialQueryFailed, got.Status)
	assert.ErrorIs(t, got.Err, domain.ErrReoptimizationFailure)
}
