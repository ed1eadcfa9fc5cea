package routing

import (
	"context"
	"crypto/sha256"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/platform/obs"
	"detour-route-service/internal/ports"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/singleflight"
)

const DefaultOSRMBaseURL = "https://router.project-osrm.org"

const (
	readyTimeout = 5 * time.Second
	// Resolved endpoints kept in memory before the table is reset.
	maxResolvedPlaces = 1024
)

type osrmLeg struct {
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
}

type osrmRoute struct {
	Geometry *geojson.Geometry `json:"geometry"`
	Legs     []osrmLeg         `json:"legs"`
}

type osrmWaypoint struct {
	Name          string `json:"name"`
	WaypointIndex int    `json:"waypoint_index"`
}

type osrmResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Routes    []osrmRoute    `json:"routes"`
	Trips     []osrmRoute    `json:"trips"`
	Waypoints []osrmWaypoint `json:"waypoints"`
}

// OSRMClient implements RoutingClient on an OSRM server.
//
// Fixed-order requests use the route service. Requests with more than one
// reorderable waypoint use the trip service with the first and last
// coordinates pinned, which returns the fastest visiting order.
// Free-text endpoints are resolved through the geocoder once and remembered,
// so a planning session geocodes its origin and destination a single time.
// "lat,lng" literals are used as-is. Responses are cached when a RouteCache
// is configured.
//
// The client is safe for concurrent use.
type OSRMClient struct {
	api      apiClient
	profile  string
	geocoder ports.Geocoder
	cache    ports.RouteCache

	mu       sync.Mutex
	resolved map[string]domain.GeoPoint
	lookups  singleflight.Group
}

func NewOSRMClient(baseURL string, geocoder ports.Geocoder, cache ports.RouteCache) (*OSRMClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("OSRM base url is empty")
	}

	return &OSRMClient{
		api:      newAPIClient(baseURL, "", 15*time.Second),
		profile:  ports.ProfileDriving,
		geocoder: geocoder,
		cache:    cache,
	}, nil
}

// Ready asks the server for the nearest road to a fixed point. Any answer
// below 500 means the server is up, even a NoSegment error on a regional
// extract.
func (c *OSRMClient) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/nearest/v1/%s/0,0", c.api.baseURL, c.profile)
	resp, err := c.api.doWithRetry(ctx, func() (*http.Request, error) {
		return c.api.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code < 500 {
			return nil
		}
		return fmt.Errorf("OSRM server not reachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *OSRMClient) Route(ctx context.Context, req ports.RouteRequest) (_ *ports.RouteResult, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	origin, err := c.resolve(ctx, req.Origin)
	if err != nil {
		return nil, fmt.Errorf("resolve origin: %w", err)
	}
	destination, err := c.resolve(ctx, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	points := make([]domain.GeoPoint, 0, len(req.Waypoints)+2)
	points = append(points, origin)
	for _, w := range req.Waypoints {
		points = append(points, w.Location)
	}
	points = append(points, destination)

	reorder := false
	for _, w := range req.Waypoints {
		reorder = reorder || w.ReorderAllowed
	}
	useTrip := reorder && len(req.Waypoints) > 1

	profile := req.Profile
	if profile == "" {
		profile = c.profile
	}

	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = fmt.Sprintf("%.6f,%.6f", p.Lng, p.Lat)
	}
	coordStr := strings.Join(coords, ";")

	service := "route"
	if useTrip {
		service = "trip"
	}
	key := routeCacheKey(service, profile, coordStr)

	var res *ports.RouteResult
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Printf("route cache read failed: %v", err)
		} else if ok {
			res = cached
		}
	}

	if res == nil {
		res, err = c.fetch(ctx, service, profile, coordStr, len(req.Waypoints))
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			if err := c.cache.Put(ctx, key, res); err != nil {
				log.Printf("route cache write failed: %v", err)
			}
		}
	}

	labelLegs(res, req)
	return res, nil
}

func (c *OSRMClient) resolve(ctx context.Context, place string) (domain.GeoPoint, error) {
	if p, ok := domain.ParseGeoPoint(place); ok {
		return p, nil
	}
	if c.geocoder == nil {
		return domain.GeoPoint{}, fmt.Errorf("%q is not a coordinate and no geocoder is configured", place)
	}

	c.mu.Lock()
	p, ok := c.resolved[place]
	c.mu.Unlock()
	if ok {
		return p, nil
	}

	// Concurrent detour queries share one lookup per place.
	v, err, _ := c.lookups.Do(place, func() (any, error) {
		c.mu.Lock()
		p, ok := c.resolved[place]
		c.mu.Unlock()
		if ok {
			return p, nil
		}

		p, err := c.geocoder.Geocode(ctx, place)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.resolved == nil || len(c.resolved) >= maxResolvedPlaces {
			c.resolved = make(map[string]domain.GeoPoint)
		}
		c.resolved[place] = p
		return p, nil
	})
	if err != nil {
		return domain.GeoPoint{}, err
	}
	return v.(domain.GeoPoint), nil
}

func (c *OSRMClient) fetch(
	ctx context.Context,
	service string,
	profile string,
	coordStr string,
	nWaypoints int,
) (*ports.RouteResult, error) {
	endpoint := fmt.Sprintf("%s/%s/v1/%s/%s", c.api.baseURL, service, profile, coordStr)

	resp, err := c.api.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.api.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		if service == "trip" {
			q.Set("source", "first")
			q.Set("destination", "last")
			q.Set("roundtrip", "false")
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			var body osrmResponse
			if json.Unmarshal([]byte(he.Body), &body) == nil && body.Code != "" {
				return nil, &ports.RouteStatusError{Code: body.Code, Message: body.Message}
			}
		}
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", service, err)
	}

	if decoded.Code != "Ok" {
		return nil, &ports.RouteStatusError{Code: decoded.Code, Message: decoded.Message}
	}

	routes := decoded.Routes
	if service == "trip" {
		routes = decoded.Trips
	}
	if len(routes) == 0 {
		return nil, &ports.RouteStatusError{Code: "NoRoute", Message: "empty response"}
	}
	route := routes[0]

	if len(route.Legs) != nWaypoints+1 {
		return nil, fmt.Errorf("%s returned %d legs for %d waypoints", service, len(route.Legs), nWaypoints)
	}

	out := &ports.RouteResult{
		Legs: make([]ports.RouteLeg, 0, len(route.Legs)),
	}
	for _, l := range route.Legs {
		out.Legs = append(out.Legs, ports.RouteLeg{
			DurationSeconds: int(math.Round(l.Duration)),
			DistanceMeters:  int(math.Round(l.Distance)),
		})
	}

	if route.Geometry != nil {
		if ls, ok := route.Geometry.Geometry().(orb.LineString); ok {
			out.Geometry = ls
		}
	}

	if service == "trip" {
		order, err := tripOrder(decoded.Waypoints, nWaypoints)
		if err != nil {
			return nil, err
		}
		out.WaypointOrder = order
	}

	return out, nil
}

// tripOrder converts the trip service's per-input positions into the list
// of waypoint indices in visiting order. Input 0 and the last input are the
// pinned endpoints.
func tripOrder(waypoints []osrmWaypoint, nWaypoints int) ([]int, error) {
	if len(waypoints) != nWaypoints+2 {
		return nil, fmt.Errorf("trip returned %d waypoints, want %d", len(waypoints), nWaypoints+2)
	}

	order := make([]int, nWaypoints)
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return waypoints[a+1].WaypointIndex - waypoints[b+1].WaypointIndex
	})
	return order, nil
}

// labelLegs names leg endpoints after the request: the origin and destination
// text and the waypoint labels in visiting order.
func labelLegs(res *ports.RouteResult, req ports.RouteRequest) {
	names := make([]string, 0, len(req.Waypoints)+2)
	names = append(names, req.Origin)
	if len(res.WaypointOrder) == len(req.Waypoints) && len(res.WaypointOrder) > 0 {
		for _, idx := range res.WaypointOrder {
			names = append(names, req.Waypoints[idx].Label)
		}
	} else {
		for _, w := range req.Waypoints {
			names = append(names, w.Label)
		}
	}
	names = append(names, req.Destination)

	if len(names) != len(res.Legs)+1 {
		return
	}
	for i := range res.Legs {
		res.Legs[i].StartAddress = names[i]
		res.Legs[i].EndAddress = names[i+1]
		res.Legs[i].DurationText = domain.FormatDuration(res.Legs[i].DurationSeconds)
	}
}

func routeCacheKey(service, profile, coords string) string {
	sum := sha256.Sum256([]byte(service + "|" + profile + "|" + coords))
	return "route:" + hex.EncodeToString(sum[:])
}
