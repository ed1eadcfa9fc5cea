package dto

import (
	"detour-route-service/internal/domain"
	"detour-route-service/internal/services"

	"github.com/paulmach/orb/geojson"
)

func NewStopResponses(stops []domain.CandidateStop) []StopResponse {
	out := make([]StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, StopResponse{Label: s.Label, Lat: s.Location.Lat, Lng: s.Location.Lng})
	}
	return out
}

func NewSelectedStopResponses(stops []domain.EvaluatedStop) []SelectedStopResponse {
	out := make([]SelectedStopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, SelectedStopResponse{
			Label:            s.Label,
			Lat:              s.Location.Lat,
			Lng:              s.Location.Lng,
			ExtraTimeMinutes: s.ExtraTimeMinutes,
		})
	}
	return out
}

func NewPlanResponse(p *domain.RoutePlan) PlanResponse {
	if p == nil {
		return PlanResponse{Stops: []SelectedStopResponse{}, Legs: []LegResponse{}}
	}

	legs := make([]LegResponse, 0, len(p.Legs))
	for _, l := range p.Legs {
		legs = append(legs, LegResponse{
			StartAddress:    l.StartAddress,
			EndAddress:      l.EndAddress,
			DurationSeconds: l.DurationSeconds,
			DurationText:    l.DurationText,
			ETA:             l.ETA,
		})
	}

	res := PlanResponse{
		DepartAt:             p.DepartAt,
		BaseDurationSeconds:  p.BaseDurationSeconds,
		TotalDurationSeconds: p.TotalDurationSeconds,
		ExtraTimeMinutes:     p.ExtraTimeMinutes,
		Stops:                NewSelectedStopResponses(p.Stops),
		Legs:                 legs,
	}
	if len(p.Geometry) > 0 {
		res.Geometry = geojson.NewGeometry(p.Geometry)
	}
	return res
}

// NewSessionResponse snapshots s for the wire. markers is the display set
// chosen by the planner.
func NewSessionResponse(s *services.Session, markers []domain.CandidateStop) SessionResponse {
	warnings := s.Warnings()
	if warnings == nil {
		warnings = []string{}
	}

	return SessionResponse{
		SessionID: s.ID,
		Budget: BudgetResponse{
			DepartAt:  s.Budget.DepartAt,
			Deadline:  s.Budget.Deadline,
			Available: s.Budget.Seconds(),
		},
		Plan:     NewPlanResponse(s.Plan()),
		Stops:    NewSelectedStopResponses(s.Selected()),
		Markers:  NewStopResponses(markers),
		Warnings: warnings,
	}
}
