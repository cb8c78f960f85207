// Package places looks up real-world locations around a point through
// the Google Places API and normalizes them into domain places.
package places

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"googlemaps.github.io/maps"

	"github.com/georiddle/api/internal/geo"
	"github.com/georiddle/api/internal/georiddle"
)

// fallbackBoxMeters sizes the synthetic polygon for results without a
// usable viewport.
const fallbackBoxMeters = 20.0

// Directory finds places near a point. May return an empty list or fail;
// callers treat failure as "nothing new found".
type Directory interface {
	Nearby(ctx context.Context, p geo.Point) ([]georiddle.Place, error)
}

// GoogleDirectory queries Nearby Search with a widening radius ladder
// until something other than a bare route comes back.
type GoogleDirectory struct {
	client *maps.Client
	logger *slog.Logger
	radii  []uint
}

func NewGoogleDirectory(apiKey string, logger *slog.Logger) (*GoogleDirectory, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating places client: %w", err)
	}
	return &GoogleDirectory{
		client: c,
		logger: logger,
		radii:  []uint{1, 20, 50},
	}, nil
}

func (d *GoogleDirectory) Nearby(ctx context.Context, p geo.Point) ([]georiddle.Place, error) {
	for _, radius := range d.radii {
		resp, err := d.client.NearbySearch(ctx, &maps.NearbySearchRequest{
			Location: &maps.LatLng{Lat: p.Latitude, Lng: p.Longitude},
			Radius:   radius,
		})
		if err != nil {
			return nil, fmt.Errorf("nearby search (radius %dm): %w", radius, err)
		}

		found := normalize(resp.Results)
		if len(found) > 0 {
			return found, nil
		}
	}
	return nil, nil
}

func normalize(results []maps.PlacesSearchResult) []georiddle.Place {
	var out []georiddle.Place
	for _, r := range results {
		// Bare roads are not places anyone plays at.
		if slices.Contains(r.Types, "route") {
			continue
		}

		center := geo.Point{
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		}
		out = append(out, georiddle.Place{
			ID:         uuid.NewString(),
			ProviderID: r.PlaceID,
			Name:       r.Name,
			Categories: r.Types,
			Polygon:    resultPolygon(r, center),
			Center:     center,
		})
	}
	return out
}

// resultPolygon normalizes the provider's viewport to a ring, falling
// back to a small box around the center when the viewport is missing or
// collapsed to a point.
func resultPolygon(r maps.PlacesSearchResult, center geo.Point) geo.Polygon {
	vp := r.Geometry.Viewport
	box, err := geo.BBoxFromCorners(
		geo.Point{Latitude: vp.NorthEast.Lat, Longitude: vp.NorthEast.Lng},
		geo.Point{Latitude: vp.SouthWest.Lat, Longitude: vp.SouthWest.Lng},
	)
	if err != nil {
		box = geo.BBoxAround(center, fallbackBoxMeters)
	}
	return box.Ring()
}
