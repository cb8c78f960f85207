package geo

import (
	"errors"
	"math"
)

var ErrDegenerateBox = errors.New("geo: points do not span an area")

// BBox is the canonical axis-aligned bounding box. Every source shape
// (provider viewport, corner pairs, meter-sized squares) is normalized
// into this form by the constructors below.
type BBox struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

// BBoxFromViewport builds a box from a places-directory viewport given
// as its northeast and southwest corners.
func BBoxFromViewport(northEast, southWest Point) BBox {
	return BBox{
		MinLat: southWest.Latitude, MinLng: southWest.Longitude,
		MaxLat: northEast.Latitude, MaxLng: northEast.Longitude,
	}
}

// BBoxFromCorners builds a box from any two opposite corners. The pair
// must span an area: sharing a latitude or longitude is an error.
func BBoxFromCorners(a, b Point) (BBox, error) {
	if a.Latitude == b.Latitude || a.Longitude == b.Longitude {
		return BBox{}, ErrDegenerateBox
	}
	return BBox{
		MinLat: math.Min(a.Latitude, b.Latitude),
		MaxLat: math.Max(a.Latitude, b.Latitude),
		MinLng: math.Min(a.Longitude, b.Longitude),
		MaxLng: math.Max(a.Longitude, b.Longitude),
	}, nil
}

// BBoxAround builds a sizeMeters × sizeMeters box centered on p,
// correcting longitude span for the latitude.
func BBoxAround(p Point, sizeMeters float64) BBox {
	dLat := sizeMeters / MetersPerDegree / 2
	dLng := sizeMeters / (MetersPerDegree * math.Cos(p.Latitude*math.Pi/180)) / 2
	return BBox{
		MinLat: p.Latitude - dLat, MaxLat: p.Latitude + dLat,
		MinLng: p.Longitude - dLng, MaxLng: p.Longitude + dLng,
	}
}

// Ring returns the box as a closed polygon ring (SW, SE, NE, NW).
func (b BBox) Ring() Polygon {
	return Polygon{
		{Latitude: b.MinLat, Longitude: b.MinLng},
		{Latitude: b.MinLat, Longitude: b.MaxLng},
		{Latitude: b.MaxLat, Longitude: b.MaxLng},
		{Latitude: b.MaxLat, Longitude: b.MinLng},
	}
}

// Contains reports whether p lies inside the box, boundary inclusive.
func (b BBox) Contains(p Point) bool {
	return p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat &&
		p.Longitude >= b.MinLng && p.Longitude <= b.MaxLng
}
