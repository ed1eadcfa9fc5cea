package dto

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

type CreateSessionRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	// Desired arrival time of day, "HH:MM".
	ArriveBy string `json:"arrive_by"`
	ShowAll  bool   `json:"show_all"`
}

type SelectedStopResponse struct {
	Label            string  `json:"label"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	ExtraTimeMinutes float64 `json:"extra_time_minutes"`
}

type LegResponse struct {
	StartAddress    string `json:"start_address"`
	EndAddress      string `json:"end_address"`
	DurationSeconds int    `json:"duration_seconds"`
	DurationText    string `json:"duration_text"`
	ETA             string `json:"eta"`
}

type PlanResponse struct {
	DepartAt             time.Time              `json:"depart_at"`
	BaseDurationSeconds  int                    `json:"base_duration_seconds"`
	TotalDurationSeconds int                    `json:"total_duration_seconds"`
	ExtraTimeMinutes     float64                `json:"extra_time_minutes"`
	Stops                []SelectedStopResponse `json:"stops"`
	Legs                 []LegResponse          `json:"legs"`
	Geometry             *geojson.Geometry      `json:"geometry,omitempty"`
}

type BudgetResponse struct {
	DepartAt  time.Time `json:"depart_at"`
	Deadline  time.Time `json:"deadline"`
	Available int       `json:"available_seconds"`
}

type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Budget    BudgetResponse `json:"budget"`
	Plan      PlanResponse   `json:"plan"`
	// Selected stops in the order they were committed.
	Stops    []SelectedStopResponse `json:"stops"`
	Markers  []StopResponse         `json:"markers"`
	Warnings []string               `json:"warnings"`
}
