package services

import (
	"detour-route-service/internal/adapters/routing"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/ports"
	"time"

	"github.com/paulmach/orb"
)

const (
	testOrigin      = "39.70,-105.05"
	testDestination = "39.80,-104.95"
)

var (
	testDepart = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	testPath = orb.LineString{{-105.05, 39.70}, {-104.95, 39.80}}

	stopA   = domain.CandidateStop{Label: "A", Location: domain.GeoPoint{Lat: 39.75, Lng: -105.00}}
	stopB   = domain.CandidateStop{Label: "B", Location: domain.GeoPoint{Lat: 39.76, Lng: -104.99}}
	stopP   = domain.CandidateStop{Label: "P", Location: domain.GeoPoint{Lat: 39.77, Lng: -104.98}}
	stopFar = domain.CandidateStop{Label: "Far", Location: domain.GeoPoint{Lat: 41.00, Lng: -100.00}}
)

func newMock(base int, stopSeconds map[string]int) *routing.MockRoutingClient {
	m := routing.NewMockRoutingClient(base, stopSeconds)
	m.Path = testPath
	return m
}

func evaluated(c domain.CandidateStop, minutes float64) domain.EvaluatedStop {
	return domain.EvaluatedStop{CandidateStop: c, ExtraTimeMinutes: minutes}
}

func labels(stops []domain.EvaluatedStop) []string {
	out := make([]string, 0, len(stops))
	for _, s := range stops {
		out = append(out, s.Label)
	}
	return out
}

// baseRoute builds the base route m would return, without recording a call.
func baseRoute(m *routing.MockRoutingClient) BaseRoute {
	return BaseRoute{
		DurationSeconds: m.BaseSeconds,
		Result: &ports.RouteResult{
			Legs: []ports.RouteLeg{{
				StartAddress:    testOrigin,
				EndAddress:      testDestination,
				DurationSeconds: m.BaseSeconds,
			}},
			Geometry: testPath,
		},
	}
}
