package services

import (
	"context"
	"detour-route-service/internal/domain"
	"fmt"
	"log"
	"time"
)

type SelectRequest struct {
	Origin        string
	Destination   string
	DepartAt      time.Time
	BudgetSeconds int
	Base          BaseRoute
	// Sorted ascending by extra time.
	Candidates []domain.EvaluatedStop
}

type Selection struct {
	// Stops in insertion order.
	Stops []domain.EvaluatedStop
	// Plan of the last committed trial; nil when nothing was committed.
	Plan *domain.RoutePlan
}

// GreedySelector builds the stop set in a single forward pass.
//
// Each candidate is tried once, cheapest first, on top of the stops committed
// so far. A candidate is kept when the re-optimized route still fits the budget
// and is never reconsidered otherwise, even if a later outcome would have left
// room for it. This is a heuristic, not an optimal knapsack.
type GreedySelector struct {
	Reoptimizer *Reoptimizer
}

func (s *GreedySelector) Select(ctx context.Context, req SelectRequest) (Selection, error) {
	sel := Selection{Stops: []domain.EvaluatedStop{}}

	for _, c := range req.Candidates {
		if err := ctx.Err(); err != nil {
			return Selection{}, fmt.Errorf("greedy select: %w", err)
		}

		trial := append(domain.CloneStops(sel.Stops), c)
		outcome := s.Trial(ctx, req, trial)

		switch outcome.Status {
		case domain.TrialFeasible:
			sel.Stops = trial
			sel.Plan = outcome.Plan
		case domain.TrialInfeasible:
			log.Printf("greedy select: rejected label=%q total=%ds budget=%ds", c.Label, outcome.DurationSeconds, req.BudgetSeconds)
		case domain.TrialQueryFailed:
			log.Printf("greedy select: rejected label=%q err=%v", c.Label, outcome.Err)
		}
	}

	return sel, nil
}

// Trial re-optimizes stops and classifies the result against the budget.
func (s *GreedySelector) Trial(ctx context.Context, req SelectRequest, stops []domain.EvaluatedStop) domain.TrialOutcome {
	plan, err := s.Reoptimizer.Reoptimize(ctx, ReoptimizeRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Stops:       stops,
		DepartAt:    req.DepartAt,
		Base:        req.Base,
	})
	if err != nil {
		return domain.QueryFailed(err)
	}

	if plan.TotalDurationSeconds > req.BudgetSeconds {
		return domain.Infeasible(plan)
	}
	return domain.Feasible(plan)
}
