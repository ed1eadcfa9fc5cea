package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// Represents one leg of a planned route, from one visited point to the next.
// Legs are produced fresh on every re-optimization and never mutated in place.
type Leg struct {
	StartAddress    string
	EndAddress      string
	DurationSeconds int
	DurationText    string
	// Wall-clock arrival at EndAddress, zero-padded 24-hour "HH:MM".
	ETA string
}

// Represents the currently displayed route for a planning session.
//
// Stops are listed in visiting order, which may differ from the order they
// were selected in. Legs always has len(Stops)+1 entries.
type RoutePlan struct {
	DepartAt             time.Time
	BaseDurationSeconds  int
	TotalDurationSeconds int
	ExtraTimeMinutes     float64
	Stops                []EvaluatedStop
	Legs                 []Leg
	Geometry             orb.LineString
}
