package services

import (
	"context"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/platform/obs"
	"detour-route-service/internal/ports"
	"errors"
	"fmt"
	"time"
)

// BaseRoute is the origin -> destination route computed once per session.
type BaseRoute struct {
	DurationSeconds int
	Result          *ports.RouteResult
}

type ReoptimizeRequest struct {
	Origin      string
	Destination string
	Stops       []domain.EvaluatedStop
	DepartAt    time.Time
	Base        BaseRoute
}

// Reoptimizer asks the routing service for the fastest visiting order of a
// stop set between fixed endpoints and turns the answer into a RoutePlan.
type Reoptimizer struct {
	Client ports.RoutingClient
}

// Reoptimize returns the plan for req.Stops.
//
// An empty stop set is answered from the base route without a query.
// Any routing failure is returned as a PlanError of kind ErrReoptimizationFailure.
func (r *Reoptimizer) Reoptimize(ctx context.Context, req ReoptimizeRequest) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "reoptimize")(&err)

	if len(req.Stops) == 0 {
		return BasePlan(req.Base, req.DepartAt), nil
	}

	waypoints := make([]ports.Waypoint, 0, len(req.Stops))
	for _, s := range req.Stops {
		waypoints = append(waypoints, ports.Waypoint{
			Label:          s.Label,
			Location:       s.Location,
			ReorderAllowed: true,
		})
	}

	res, err := r.Client.Route(ctx, ports.RouteRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Waypoints:   waypoints,
		Profile:     ports.ProfileDriving,
	})
	if err != nil {
		return nil, domain.NewPlanError(domain.ErrReoptimizationFailure, err)
	}

	if len(res.Legs) != len(req.Stops)+1 {
		return nil, domain.NewPlanError(
			domain.ErrReoptimizationFailure,
			fmt.Errorf("got %d legs for %d stops", len(res.Legs), len(req.Stops)),
		)
	}

	visited, err := visitingOrder(req.Stops, res.WaypointOrder)
	if err != nil {
		return nil, domain.NewPlanError(domain.ErrReoptimizationFailure, err)
	}

	total := res.TotalDurationSeconds()

	return &domain.RoutePlan{
		DepartAt:             req.DepartAt,
		BaseDurationSeconds:  req.Base.DurationSeconds,
		TotalDurationSeconds: total,
		ExtraTimeMinutes:     domain.RoundTo2(float64(total-req.Base.DurationSeconds) / 60),
		Stops:                visited,
		Legs:                 BuildLegs(res.Legs, req.DepartAt),
		Geometry:             res.Geometry,
	}, nil
}

// BasePlan renders the stop-free base route as a plan with zero extra time.
func BasePlan(base BaseRoute, departAt time.Time) *domain.RoutePlan {
	plan := &domain.RoutePlan{
		DepartAt:             departAt,
		BaseDurationSeconds:  base.DurationSeconds,
		TotalDurationSeconds: base.DurationSeconds,
		ExtraTimeMinutes:     0,
		Stops:                []domain.EvaluatedStop{},
		Legs:                 []domain.Leg{},
	}
	if base.Result != nil {
		plan.Legs = BuildLegs(base.Result.Legs, departAt)
		plan.Geometry = base.Result.Geometry
	}
	return plan
}

// BuildLegs walks legs in order and stamps each with its cumulative ETA.
func BuildLegs(legs []ports.RouteLeg, departAt time.Time) []domain.Leg {
	out := make([]domain.Leg, 0, len(legs))
	elapsed := 0
	for _, l := range legs {
		elapsed += l.DurationSeconds

		text := l.DurationText
		if text == "" {
			text = domain.FormatDuration(l.DurationSeconds)
		}

		out = append(out, domain.Leg{
			StartAddress:    l.StartAddress,
			EndAddress:      l.EndAddress,
			DurationSeconds: l.DurationSeconds,
			DurationText:    text,
			ETA:             domain.FormatETA(departAt.Add(time.Duration(elapsed) * time.Second)),
		})
	}
	return out
}

// visitingOrder applies the service's waypoint order to stops.
// An empty order means the request order was kept.
func visitingOrder(stops []domain.EvaluatedStop, order []int) ([]domain.EvaluatedStop, error) {
	if len(order) == 0 {
		return domain.CloneStops(stops), nil
	}
	if len(order) != len(stops) {
		return nil, fmt.Errorf("waypoint order has %d entries for %d stops", len(order), len(stops))
	}

	seen := make(map[int]struct{}, len(order))
	out := make([]domain.EvaluatedStop, 0, len(stops))
	for _, idx := range order {
		if idx < 0 || idx >= len(stops) {
			return nil, fmt.Errorf("waypoint order index %d out of range", idx)
		}
		if _, dup := seen[idx]; dup {
			return nil, errors.New("waypoint order repeats an index")
		}
		seen[idx] = struct{}{}
		out = append(out, stops[idx])
	}
	return out, nil
}
