package domain

// TrialStatus classifies the result of re-optimizing a trial stop set.
type TrialStatus int

const (
	TrialFeasible TrialStatus = iota
	TrialInfeasible
	TrialQueryFailed
)

func (s TrialStatus) String() string {
	switch s {
	case TrialFeasible:
		return "feasible"
	case TrialInfeasible:
		return "infeasible"
	case TrialQueryFailed:
		return "query_failed"
	default:
		return "unknown"
	}
}

// TrialOutcome is the result of probing one trial stop set against the budget.
// DurationSeconds and Plan are only meaningful when the routing query succeeded.
type TrialOutcome struct {
	Status          TrialStatus
	DurationSeconds int
	Plan            *RoutePlan
	Err             error
}

func Feasible(plan *RoutePlan) TrialOutcome {
	return TrialOutcome{Status: TrialFeasible, DurationSeconds: plan.TotalDurationSeconds, Plan: plan}
}

func Infeasible(plan *RoutePlan) TrialOutcome {
	return TrialOutcome{Status: TrialInfeasible, DurationSeconds: plan.TotalDurationSeconds, Plan: plan}
}

func QueryFailed(err error) TrialOutcome {
	return TrialOutcome{Status: TrialQueryFailed, Err: err}
}
