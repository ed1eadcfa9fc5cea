package services

import (
	"context"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/platform/obs"
	"detour-route-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Progress milestones reported while planning.
const (
	ProgressBaseRoute = 20
	ProgressBaseReady = 40
	ProgressBudget    = 50
	ProgressGeofilter = 60
	ProgressDetours   = 70
	ProgressDone      = 100
)

// ProgressFunc receives planning milestones. It may be nil.
type ProgressFunc func(percent int)

type PlanRequest struct {
	Origin      string
	Destination string
	// Desired arrival time of day, "HH:MM".
	ArriveBy string
	// Display only: list the whole catalog as markers instead of the selected stops.
	ShowAll bool
}

type PlannerOptions struct {
	CeilingMinutes float64
	Concurrency    int
	Location       *time.Location
	Now            func() time.Time
}

// Planner runs planning sessions and later edits against them.
// It holds no per-session state and is safe for concurrent use.
type Planner struct {
	client      ports.RoutingClient
	catalog     []domain.CandidateStop
	geofilter   *Geofilter
	evaluator   *DetourEvaluator
	selector    *GreedySelector
	reoptimizer *Reoptimizer
	mutator     *PlanMutator
	location    *time.Location
	now         func() time.Time
}

func NewPlanner(client ports.RoutingClient, catalog []domain.CandidateStop, opts PlannerOptions) *Planner {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	owned := make([]domain.CandidateStop, len(catalog))
	copy(owned, catalog)

	reopt := &Reoptimizer{Client: client}
	return &Planner{
		client:    client,
		catalog:   owned,
		geofilter: NewGeofilter(owned),
		evaluator: &DetourEvaluator{
			Client:         client,
			CeilingMinutes: opts.CeilingMinutes,
			Concurrency:    opts.Concurrency,
		},
		selector:    &GreedySelector{Reoptimizer: reopt},
		reoptimizer: reopt,
		mutator:     &PlanMutator{Reoptimizer: reopt},
		location:    loc,
		now:         now,
	}
}

// Catalog returns a copy of the catalog the planner was built with.
func (p *Planner) Catalog() []domain.CandidateStop {
	out := make([]domain.CandidateStop, len(p.catalog))
	copy(out, p.catalog)
	return out
}

// Plan runs a full planning session: base route, budget check, geofilter,
// detour evaluation, greedy selection and the final re-optimization.
//
// It fails only for an invalid request, an unavailable routing service, a
// failed base route, or a deadline the base route cannot meet. A failed final
// re-optimization keeps the last committed plan and is recorded as a warning.
func (p *Planner) Plan(ctx context.Context, req PlanRequest, progress ProgressFunc) (_ *Session, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	report := func(pct int) {
		if progress != nil {
			progress(pct)
		}
	}

	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	req.ArriveBy = strings.TrimSpace(req.ArriveBy)
	if req.Origin == "" || req.Destination == "" || req.ArriveBy == "" {
		return nil, domain.NewPlanError(domain.ErrInvalidRequest, errors.New("origin, destination and arrival time are required"))
	}

	if err := p.ready(ctx); err != nil {
		return nil, domain.NewPlanError(domain.ErrServiceUnavailable, err)
	}

	// Frozen for every ETA and budget computation in this session.
	departAt := p.now().In(p.location)

	report(ProgressBaseRoute)
	baseResult, err := p.client.Route(ctx, ports.RouteRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Profile:     ports.ProfileDriving,
	})
	if err != nil {
		return nil, domain.NewPlanError(domain.ErrBaseRouteFailure, err)
	}
	base := BaseRoute{DurationSeconds: baseResult.TotalDurationSeconds(), Result: baseResult}
	report(ProgressBaseReady)

	budget, err := domain.NewBudget(departAt, req.ArriveBy)
	if err != nil {
		return nil, domain.NewPlanError(domain.ErrInvalidRequest, err)
	}
	if budget.Seconds() < base.DurationSeconds {
		return nil, domain.NewPlanError(
			domain.ErrInfeasibleDeadline,
			fmt.Errorf("base route needs %ds, %ds available", base.DurationSeconds, budget.Seconds()),
		)
	}
	report(ProgressBudget)

	nearby := p.geofilter.Filter(baseResult.Geometry)
	report(ProgressGeofilter)

	evaluated, err := p.evaluator.Evaluate(ctx, req.Origin, req.Destination, base.DurationSeconds, nearby)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	report(ProgressDetours)

	log.Printf("plan: base=%ds budget=%ds nearby=%d evaluated=%d", base.DurationSeconds, budget.Seconds(), len(nearby), len(evaluated))

	sel, err := p.selector.Select(ctx, SelectRequest{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartAt:      departAt,
		BudgetSeconds: budget.Seconds(),
		Base:          base,
		Candidates:    evaluated,
	})
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	s := &Session{
		ID:       uuid.NewString(),
		Request:  req,
		DepartAt: departAt,
		Budget:   budget,
		Base:     base,
		selected: sel.Stops,
	}

	plan, err := p.reoptimizer.Reoptimize(ctx, ReoptimizeRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Stops:       sel.Stops,
		DepartAt:    departAt,
		Base:        base,
	})
	if err != nil {
		// Fall back to the plan that last passed the budget check.
		plan = sel.Plan
		if plan == nil {
			plan = BasePlan(base, departAt)
		}
		s.warnings = append(s.warnings, err.Error())
	}
	s.plan = plan
	report(ProgressDone)

	return s, nil
}

// RemoveStop drops the stop with the given label from the session and
// recomputes the route from the session's original departure instant.
//
// When the recomputation fails the session keeps its previous stops and plan,
// records a warning, and the error is returned with kind ErrReoptimizationFailure.
func (p *Planner) RemoveStop(ctx context.Context, s *Session, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := p.mutator.Remove(ctx, RemoveRequest{
		Origin:      s.Request.Origin,
		Destination: s.Request.Destination,
		DepartAt:    s.DepartAt,
		Base:        s.Base,
		Selected:    s.selected,
		Label:       label,
	})
	if err != nil {
		if errors.Is(err, domain.ErrReoptimizationFailure) {
			s.warnings = append(s.warnings, err.Error())
		}
		return err
	}

	s.selected = res.Selected
	s.plan = res.Plan
	return nil
}

// Markers returns the points the caller should display for s.
func (p *Planner) Markers(s *Session) []domain.CandidateStop {
	if s.Request.ShowAll {
		return p.Catalog()
	}

	selected := s.Selected()
	out := make([]domain.CandidateStop, 0, len(selected))
	for _, st := range selected {
		out = append(out, st.CandidateStop)
	}
	return out
}

func (p *Planner) ready(ctx context.Context) error {
	if p.client == nil {
		return errors.New("no routing client configured")
	}
	if rc, ok := p.client.(ports.ReadinessChecker); ok {
		return rc.Ready(ctx)
	}
	return nil
}
