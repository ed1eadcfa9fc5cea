package services

import (
	"cmp"
	"context"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/ports"
	"fmt"
	"log"
	"slices"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultDetourCeilingMinutes = 10.0
	DefaultDetourConcurrency    = 4
)

// DetourEvaluator measures the isolated cost of visiting each candidate stop.
//
// Each candidate is queried as the single required stop between origin and
// destination. Queries run concurrently up to Concurrency; the output order
// depends only on the measured costs and the input order.
type DetourEvaluator struct {
	Client         ports.RoutingClient
	CeilingMinutes float64
	Concurrency    int
}

type detourResult struct {
	stop domain.EvaluatedStop
	ok   bool
}

// Evaluate returns the usable candidates sorted ascending by extra time.
// Ties keep input order. Candidates whose query fails or whose detour exceeds
// the ceiling are dropped. Only context cancellation is reported as an error.
func (e *DetourEvaluator) Evaluate(
	ctx context.Context,
	origin string,
	destination string,
	baseDurationSeconds int,
	candidates []domain.CandidateStop,
) ([]domain.EvaluatedStop, error) {
	if len(candidates) == 0 {
		return []domain.EvaluatedStop{}, nil
	}

	ceiling := e.CeilingMinutes
	if ceiling <= 0 {
		ceiling = DefaultDetourCeilingMinutes
	}

	limit := e.Concurrency
	if limit <= 0 {
		limit = DefaultDetourConcurrency
	}

	results := make([]detourResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}

			res, err := e.Client.Route(gctx, ports.RouteRequest{
				Origin:      origin,
				Destination: destination,
				Profile:     ports.ProfileDriving,
				Waypoints: []ports.Waypoint{
					{Label: c.Label, Location: c.Location},
				},
			})
			if err != nil {
				log.Printf("detour query dropped label=%q err=%v", c.Label, err)
				return nil
			}

			added := float64(res.TotalDurationSeconds()-baseDurationSeconds) / 60
			if added > ceiling {
				return nil
			}
			if added < 0 {
				added = 0
			}

			results[i] = detourResult{
				stop: domain.EvaluatedStop{
					CandidateStop:    c,
					ExtraTimeMinutes: domain.RoundTo2(added),
				},
				ok: true,
			}
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluate detours: %w", err)
	}

	out := make([]domain.EvaluatedStop, 0, len(candidates))
	for _, r := range results {
		if r.ok {
			out = append(out, r.stop)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.EvaluatedStop) int {
		return cmp.Compare(a.ExtraTimeMinutes, b.ExtraTimeMinutes)
	})

	return out, nil
}
