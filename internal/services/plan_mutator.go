package services

import (
	"context"
	"detour-route-service/internal/domain"
	"fmt"
	"time"
)

type RemoveRequest struct {
	Origin      string
	Destination string
	DepartAt    time.Time
	Base        BaseRoute
	Selected    []domain.EvaluatedStop
	Label       string
}

type RemoveResult struct {
	Selected []domain.EvaluatedStop
	Plan     *domain.RoutePlan
}

// PlanMutator removes a committed stop and recomputes the route.
// The budget is not re-checked: dropping a stop cannot lengthen the route.
type PlanMutator struct {
	Reoptimizer *Reoptimizer
}

func (m *PlanMutator) Remove(ctx context.Context, req RemoveRequest) (RemoveResult, error) {
	remaining := make([]domain.EvaluatedStop, 0, len(req.Selected))
	found := false
	for _, s := range req.Selected {
		if s.Label == req.Label {
			found = true
			continue
		}
		remaining = append(remaining, s)
	}

	if !found {
		return RemoveResult{}, domain.NewPlanError(domain.ErrStopNotFound, fmt.Errorf("label %q", req.Label))
	}

	plan, err := m.Reoptimizer.Reoptimize(ctx, ReoptimizeRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Stops:       remaining,
		DepartAt:    req.DepartAt,
		Base:        req.Base,
	})
	if err != nil {
		return RemoveResult{}, fmt.Errorf("remove stop %q: %w", req.Label, err)
	}

	return RemoveResult{Selected: remaining, Plan: plan}, nil
}
