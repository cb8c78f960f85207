package geo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointValidate(t *testing.T) {
	assert.NoError(t, Point{Latitude: 52.52, Longitude: 13.405}.Validate())
	assert.NoError(t, Point{Latitude: -90, Longitude: 180}.Validate())
	assert.Error(t, Point{Latitude: 90.01, Longitude: 0}.Validate())
	assert.Error(t, Point{Latitude: 0, Longitude: -180.5}.Validate())
}

func TestApproxDistanceMeters(t *testing.T) {
	a := Point{Latitude: 0, Longitude: 0}
	b := Point{Latitude: 0, Longitude: 1}
	assert.InDelta(t, 111_000, ApproxDistanceMeters(a, b), 1e-6)

	// 0.0003° of latitude is about 33 m.
	c := Point{Latitude: 52.5203, Longitude: 13.405}
	d := Point{Latitude: 52.52, Longitude: 13.405}
	assert.InDelta(t, 33.3, ApproxDistanceMeters(c, d), 0.1)

	assert.Zero(t, ApproxDistanceMeters(a, a))
}

func TestPolygonContainsTriangle(t *testing.T) {
	// Not axis-aligned: containment must handle slanted edges.
	tri := Polygon{
		{Latitude: 0, Longitude: 0},
		{Latitude: 4, Longitude: 0},
		{Latitude: 0, Longitude: 4},
	}

	assert.True(t, tri.Contains(Point{Latitude: 1, Longitude: 1}))
	assert.False(t, tri.Contains(Point{Latitude: 3, Longitude: 3}))
	assert.False(t, tri.Contains(Point{Latitude: -1, Longitude: 1}))
}

func TestPolygonContainsLShape(t *testing.T) {
	l := Polygon{
		{Latitude: 0, Longitude: 0},
		{Latitude: 2, Longitude: 0},
		{Latitude: 2, Longitude: 1},
		{Latitude: 1, Longitude: 1},
		{Latitude: 1, Longitude: 2},
		{Latitude: 0, Longitude: 2},
	}

	assert.True(t, l.Contains(Point{Latitude: 0.5, Longitude: 1.5}))
	assert.True(t, l.Contains(Point{Latitude: 1.5, Longitude: 0.5}))
	// The notch is outside.
	assert.False(t, l.Contains(Point{Latitude: 1.5, Longitude: 1.5}))
}

func TestPolygonValid(t *testing.T) {
	assert.False(t, Polygon{}.Valid())
	assert.False(t, Polygon{{Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}}.Valid())
	// Collinear ring spans no area.
	assert.False(t, Polygon{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 2},
	}.Valid())
	assert.True(t, Polygon{
		{Latitude: 0, Longitude: 0},
		{Latitude: 1, Longitude: 0},
		{Latitude: 0, Longitude: 1},
	}.Valid())
}

func TestPolygonBounds(t *testing.T) {
	pg := Polygon{
		{Latitude: 1, Longitude: -2},
		{Latitude: 5, Longitude: 3},
		{Latitude: -1, Longitude: 0},
	}
	b := pg.Bounds()
	assert.Equal(t, BBox{MinLat: -1, MinLng: -2, MaxLat: 5, MaxLng: 3}, b)
}

func TestRandomPointInStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := BBox{MinLat: 52.51, MaxLat: 52.53, MinLng: 13.39, MaxLng: 13.42}

	for i := 0; i < 1000; i++ {
		p := RandomPointIn(b, rng)
		assert.True(t, b.Contains(p), "point %+v escaped bounds", p)
	}
}

func TestBBoxFromViewport(t *testing.T) {
	b := BBoxFromViewport(
		Point{Latitude: 52.53, Longitude: 13.42},
		Point{Latitude: 52.51, Longitude: 13.39},
	)
	assert.Equal(t, 52.51, b.MinLat)
	assert.Equal(t, 52.53, b.MaxLat)
	assert.Equal(t, 13.39, b.MinLng)
	assert.Equal(t, 13.42, b.MaxLng)
}

func TestBBoxFromCorners(t *testing.T) {
	// Corner order must not matter.
	b1, err := BBoxFromCorners(Point{Latitude: 1, Longitude: 2}, Point{Latitude: 3, Longitude: 4})
	require.NoError(t, err)
	b2, err := BBoxFromCorners(Point{Latitude: 3, Longitude: 4}, Point{Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	assert.Equal(t, b1, b2)

	// NW + SE pair works too.
	b3, err := BBoxFromCorners(Point{Latitude: 3, Longitude: 2}, Point{Latitude: 1, Longitude: 4})
	require.NoError(t, err)
	assert.Equal(t, b1, b3)

	_, err = BBoxFromCorners(Point{Latitude: 1, Longitude: 2}, Point{Latitude: 1, Longitude: 4})
	assert.ErrorIs(t, err, ErrDegenerateBox)
}

func TestBBoxAround(t *testing.T) {
	center := Point{Latitude: 52.52, Longitude: 13.405}
	b := BBoxAround(center, 20)

	assert.True(t, b.Contains(center))
	// The latitude span of a 20 m box is 20/111000 degrees.
	assert.InDelta(t, 20.0/MetersPerDegree, b.MaxLat-b.MinLat, 1e-12)
	// Longitude span widens away from the equator.
	assert.Greater(t, b.MaxLng-b.MinLng, b.MaxLat-b.MinLat)
}

func TestBBoxRing(t *testing.T) {
	b := BBox{MinLat: 0, MinLng: 0, MaxLat: 1, MaxLng: 1}
	ring := b.Ring()

	require.Len(t, ring, 4)
	assert.True(t, ring.Valid())
	assert.Equal(t, b, ring.Bounds())
	assert.True(t, ring.Contains(Point{Latitude: 0.5, Longitude: 0.5}))
}
