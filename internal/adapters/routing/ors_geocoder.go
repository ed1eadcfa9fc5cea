package routing

import (
	"context"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/platform/obs"
	"detour-route-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder resolves addresses with the OpenRouteService geocoder
// (/geocode/search), backed by an optional persistent cache.
type ORSGeocoder struct {
	api     apiClient
	cache   ports.GeocodeCache
	country string
}

func NewORSGeocoder(apiKey string, cache ports.GeocodeCache) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSGeocoder{
		api:     newAPIClient(defaultORSBaseURL, apiKey, 10*time.Second),
		cache:   cache,
		country: "US",
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (g *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.GeoPoint, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.GeoPoint{}, errors.New("geocode: address must be non-empty")
	}

	if g.cache != nil {
		hits, err := g.cache.GetMany(ctx, []string{norm})
		if err != nil {
			return domain.GeoPoint{}, fmt.Errorf("ORS get geocode cache: %w", err)
		}
		if p, ok := hits[norm]; ok {
			return p, nil
		}
	}

	p, err := g.search(ctx, norm)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if g.cache != nil {
		if err := g.cache.PutMany(ctx, map[string]domain.GeoPoint{norm: p}); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return p, nil
}

func (g *ORSGeocoder) search(ctx context.Context, text string) (domain.GeoPoint, error) {
	endpoint := g.api.baseURL + "/geocode/search"

	resp, err := g.api.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.api.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		if g.country != "" {
			q.Set("boundary.country", g.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.GeoPoint{}, &ports.RouteStatusError{Code: "NOT_FOUND", Message: "no geocode results"}
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.GeoPoint{}, errors.New("invalid coordinate format")
	}

	return domain.GeoPoint{Lng: coords[0], Lat: coords[1]}, nil
}
