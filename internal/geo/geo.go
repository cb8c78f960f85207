// Package geo holds the geographic primitives used by the spawning core:
// WGS84 points, place polygons, and canonical bounding boxes. Distances
// use a planar degree↔meter approximation that is only adequate for the
// short ranges (<1 km) the game operates at.
package geo

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// MetersPerDegree is the planar approximation used throughout: 1 degree
// of latitude or longitude is treated as 111 km. Callers must not rely
// on it beyond roughly a kilometer.
const MetersPerDegree = 111_000.0

var ErrInvalidPoint = errors.New("geo: latitude or longitude out of range")

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks WGS84 bounds.
func (p Point) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: (%f, %f)", ErrInvalidPoint, p.Latitude, p.Longitude)
	}
	return nil
}

// ApproxDistanceMeters returns the planar distance between two points,
// scaling degrees by MetersPerDegree. Not geodesic.
func ApproxDistanceMeters(a, b Point) float64 {
	dLat := a.Latitude - b.Latitude
	dLng := a.Longitude - b.Longitude
	return math.Hypot(dLat, dLng) * MetersPerDegree
}

// Polygon is a closed ring of at least three points bounding a place.
type Polygon []Point

// Valid reports whether the ring can contain a point at all: at least
// three vertices and a non-degenerate bounding box.
func (pg Polygon) Valid() bool {
	if len(pg) < 3 {
		return false
	}
	b := pg.Bounds()
	return b.MaxLat > b.MinLat && b.MaxLng > b.MinLng
}

// Bounds returns the axis-aligned bounding box of the ring.
func (pg Polygon) Bounds() BBox {
	if len(pg) == 0 {
		return BBox{}
	}
	b := BBox{
		MinLat: pg[0].Latitude, MaxLat: pg[0].Latitude,
		MinLng: pg[0].Longitude, MaxLng: pg[0].Longitude,
	}
	for _, p := range pg[1:] {
		b.MinLat = math.Min(b.MinLat, p.Latitude)
		b.MaxLat = math.Max(b.MaxLat, p.Latitude)
		b.MinLng = math.Min(b.MinLng, p.Longitude)
		b.MaxLng = math.Max(b.MaxLng, p.Longitude)
	}
	return b
}

// Contains runs a ray-casting containment test. Works for arbitrary
// simple polygons, not just axis-aligned rectangles.
func (pg Polygon) Contains(p Point) bool {
	if len(pg) < 3 {
		return false
	}
	inside := false
	j := len(pg) - 1
	for i := 0; i < len(pg); i++ {
		vi, vj := pg[i], pg[j]
		if (vi.Latitude > p.Latitude) != (vj.Latitude > p.Latitude) {
			cross := (vj.Longitude-vi.Longitude)*(p.Latitude-vi.Latitude)/
				(vj.Latitude-vi.Latitude) + vi.Longitude
			if p.Longitude < cross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Centroid returns the vertex average, good enough for indexing a place
// by a single representative point.
func (pg Polygon) Centroid() Point {
	if len(pg) == 0 {
		return Point{}
	}
	var lat, lng float64
	for _, p := range pg {
		lat += p.Latitude
		lng += p.Longitude
	}
	n := float64(len(pg))
	return Point{Latitude: lat / n, Longitude: lng / n}
}

// RandomPointIn draws a uniform point within the box, the proposal
// distribution for rejection sampling.
func RandomPointIn(b BBox, rng *rand.Rand) Point {
	return Point{
		Latitude:  b.MinLat + rng.Float64()*(b.MaxLat-b.MinLat),
		Longitude: b.MinLng + rng.Float64()*(b.MaxLng-b.MinLng),
	}
}
