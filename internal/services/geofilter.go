package services

import (
	"detour-route-service/internal/domain"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

const (
	rtreeDimensions  = 2
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	// Half-width of the box each catalog point occupies in the index.
	pointTolerance = 1e-9
	// Padding applied to the query box so boundary points always intersect.
	boundPadding = 1e-7
)

type indexedStop struct {
	stop  domain.CandidateStop
	order int
	rect  *rtreego.Rect
}

func (s *indexedStop) Bounds() *rtreego.Rect {
	return s.rect
}

// Geofilter selects the catalog stops that lie inside a route's bounding region.
//
// The catalog is indexed once in an R-tree; each Filter call only touches the
// stops whose index boxes intersect the route bound. Results keep catalog order.
type Geofilter struct {
	tree *rtreego.Rtree
	size int
}

func NewGeofilter(catalog []domain.CandidateStop) *Geofilter {
	tree := rtreego.NewTree(rtreeDimensions, rtreeMinChildren, rtreeMaxChildren)
	for i, s := range catalog {
		p := rtreego.Point{s.Location.Lat, s.Location.Lng}
		tree.Insert(&indexedStop{stop: s, order: i, rect: p.ToRect(pointTolerance)})
	}

	return &Geofilter{tree: tree, size: len(catalog)}
}

// Size returns the number of indexed catalog stops.
func (g *Geofilter) Size() int { return g.size }

// Filter returns every catalog stop inside the axis-aligned bound of path.
// An empty path yields no stops.
func (g *Geofilter) Filter(path orb.LineString) []domain.CandidateStop {
	if len(path) == 0 || g.size == 0 {
		return []domain.CandidateStop{}
	}

	bound := path.Bound()

	query, err := rtreego.NewRect(
		rtreego.Point{bound.Min.Lat() - boundPadding, bound.Min.Lon() - boundPadding},
		[]float64{
			bound.Max.Lat() - bound.Min.Lat() + 2*boundPadding,
			bound.Max.Lon() - bound.Min.Lon() + 2*boundPadding,
		},
	)
	if err != nil {
		return []domain.CandidateStop{}
	}

	hits := g.tree.SearchIntersect(query)

	matched := make([]*indexedStop, 0, len(hits))
	for _, h := range hits {
		item, ok := h.(*indexedStop)
		if !ok {
			continue
		}
		// The index is coarse; containment is decided against the exact bound.
		if bound.Contains(item.stop.Location.Orb()) {
			matched = append(matched, item)
		}
	}

	slices.SortFunc(matched, func(a, b *indexedStop) int { return a.order - b.order })

	out := make([]domain.CandidateStop, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.stop)
	}
	return out
}
