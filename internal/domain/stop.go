package domain

// A labeled point of interest from the read-only catalog.
// Labels are unique within a catalog.
type CandidateStop struct {
	Label    string
	Location GeoPoint
}

// A candidate stop together with its isolated detour cost.
// ExtraTimeMinutes is non-negative and rounded to two decimals.
type EvaluatedStop struct {
	CandidateStop
	ExtraTimeMinutes float64
}

// CloneStops returns an independent copy of stops.
func CloneStops(stops []EvaluatedStop) []EvaluatedStop {
	out := make([]EvaluatedStop, len(stops))
	copy(out, stops)
	return out
}
