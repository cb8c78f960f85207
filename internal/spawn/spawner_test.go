package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georiddle/api/internal/geo"
	"github.com/georiddle/api/internal/georiddle"
	"github.com/georiddle/api/internal/riddle"
)

type fixedRiddles struct{ calls int }

func (f *fixedRiddles) Riddle(_ context.Context, category string) riddle.Riddle {
	f.calls++
	return riddle.Riddle{
		Text:   fmt.Sprintf("riddle for %s", category),
		Answer: "echo",
	}
}

func testTable() *georiddle.PriorityTable {
	return georiddle.NewPriorityTable([]georiddle.Category{
		{Name: "museum", Archetype: "Sphinx", Strategy: georiddle.StrategyText, Prompt: "history"},
		{Name: "park", Archetype: "Troll", Strategy: georiddle.StrategyText, Prompt: "nature"},
		{Name: "parking", Archetype: ""}, // ranked, but nothing spawns here
	})
}

func testSpawner(t *testing.T, seed uint64) (*Spawner, *fixedRiddles) {
	t.Helper()
	riddles := &fixedRiddles{}
	s := New(testTable(), riddles, rand.New(rand.NewPCG(seed, seed+1)), slog.New(slog.DiscardHandler))
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s, riddles
}

// squarePlace builds a sizeMeters × sizeMeters place centered on (lat, lng).
func squarePlace(id, category string, lat, lng, sizeMeters float64) georiddle.Place {
	center := geo.Point{Latitude: lat, Longitude: lng}
	return georiddle.Place{
		ID:         id,
		ProviderID: "prov-" + id,
		Name:       id,
		Categories: []string{category},
		Polygon:    geo.BBoxAround(center, sizeMeters).Ring(),
		Center:     center,
	}
}

// grid returns n places of the same category spaced wide apart.
func grid(category string, n int) []georiddle.Place {
	places := make([]georiddle.Place, 0, n)
	for i := 0; i < n; i++ {
		places = append(places, squarePlace(
			fmt.Sprintf("p%d", i), category,
			52.50+float64(i)*0.002, 13.40, 60,
		))
	}
	return places
}

func TestSpawnBasics(t *testing.T) {
	s, riddles := testSpawner(t, 1)

	spawned := s.Spawn(context.Background(), "user-1", grid("museum", 3), nil, DefaultOptions())

	require.Len(t, spawned, 3)
	assert.Equal(t, 3, riddles.calls)
	for _, e := range spawned {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "Sphinx", e.Type)
		assert.Equal(t, "user-1", e.UserID)
		assert.Equal(t, "echo", e.Answer)
		assert.False(t, e.Defeated)
		assert.Equal(t, e.SpawnTime.Add(2*time.Hour), e.ExpiresAt)
	}
}

func TestSpawnPointsInsideSourcePolygons(t *testing.T) {
	s, _ := testSpawner(t, 2)
	places := grid("park", 5)

	spawned := s.Spawn(context.Background(), "user-1", places, nil, DefaultOptions())

	require.Len(t, spawned, 5)
	for _, e := range spawned {
		inside := 0
		for _, p := range places {
			if p.Polygon.Contains(e.Location) {
				inside++
			}
		}
		assert.Equal(t, 1, inside, "enemy at %+v not inside exactly one place", e.Location)
	}
}

func TestSpawnRespectsMaxEnemies(t *testing.T) {
	s, _ := testSpawner(t, 3)

	spawned := s.Spawn(context.Background(), "user-1", grid("museum", 15), nil, DefaultOptions())
	assert.Len(t, spawned, 10)
}

func TestSpawnCountsExistingTowardCap(t *testing.T) {
	s, _ := testSpawner(t, 4)

	existing := make([]georiddle.Enemy, 8)
	for i := range existing {
		existing[i] = georiddle.Enemy{
			ID:       fmt.Sprintf("old-%d", i),
			Location: geo.Point{Latitude: 40 + float64(i), Longitude: 0},
		}
	}

	spawned := s.Spawn(context.Background(), "user-1", grid("museum", 5), existing, DefaultOptions())
	assert.Len(t, spawned, 2)

	full := append(existing, existing[:2]...)
	spawned = s.Spawn(context.Background(), "user-1", grid("museum", 5), full, DefaultOptions())
	assert.Empty(t, spawned)
}

func TestSpawnSeparation(t *testing.T) {
	s, _ := testSpawner(t, 5)
	places := grid("museum", 8)

	existing := []georiddle.Enemy{
		{ID: "old", Location: geo.Point{Latitude: 52.504, Longitude: 13.40}},
	}

	spawned := s.Spawn(context.Background(), "user-1", places, existing, DefaultOptions())
	require.NotEmpty(t, spawned)

	all := make([]geo.Point, 0, len(spawned)+1)
	all = append(all, existing[0].Location)
	for _, e := range spawned {
		all = append(all, e.Location)
	}
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			d := geo.ApproxDistanceMeters(all[i], all[j])
			assert.GreaterOrEqual(t, d, 40.0, "enemies %d and %d are %.1fm apart", i, j, d)
		}
	}
}

func TestSpawnSkipsCrowdedPlace(t *testing.T) {
	s, _ := testSpawner(t, 6)

	// Two tiny places ~22m apart: any two samples violate the 40m
	// separation, so only the first place yields an enemy.
	places := []georiddle.Place{
		squarePlace("a", "museum", 52.5000, 13.40, 4),
		squarePlace("b", "museum", 52.5002, 13.40, 4),
	}

	spawned := s.Spawn(context.Background(), "user-1", places, nil, DefaultOptions())
	assert.Len(t, spawned, 1)
}

func TestSpawnPriorityOrder(t *testing.T) {
	s, _ := testSpawner(t, 7)

	// Park listed first, museum ranks higher: with room for one enemy
	// the museum must win.
	places := []georiddle.Place{
		squarePlace("park-1", "park", 52.50, 13.40, 60),
		squarePlace("museum-1", "museum", 52.51, 13.40, 60),
	}
	opts := DefaultOptions()
	opts.MaxEnemies = 1

	spawned := s.Spawn(context.Background(), "user-1", places, nil, opts)
	require.Len(t, spawned, 1)
	assert.Equal(t, "Sphinx", spawned[0].Type)
}

func TestSpawnSkipsUnmappedAndUnknownCategories(t *testing.T) {
	s, _ := testSpawner(t, 8)

	places := []georiddle.Place{
		squarePlace("lot", "parking", 52.50, 13.40, 60),
		squarePlace("mystery", "volcano", 52.51, 13.40, 60),
	}

	spawned := s.Spawn(context.Background(), "user-1", places, nil, DefaultOptions())
	assert.Empty(t, spawned)
}

func TestSpawnSkipsDegeneratePolygon(t *testing.T) {
	s, _ := testSpawner(t, 9)

	flat := squarePlace("flat", "museum", 52.50, 13.40, 60)
	flat.Polygon = geo.Polygon{
		{Latitude: 52.50, Longitude: 13.40},
		{Latitude: 52.50, Longitude: 13.41},
	}

	spawned := s.Spawn(context.Background(), "user-1", []georiddle.Place{flat}, nil, DefaultOptions())
	assert.Empty(t, spawned)
}

func TestSpawnDoesNotMutateInput(t *testing.T) {
	s, _ := testSpawner(t, 10)

	places := []georiddle.Place{
		squarePlace("park-1", "park", 52.50, 13.40, 60),
		squarePlace("museum-1", "museum", 52.51, 13.40, 60),
	}

	s.Spawn(context.Background(), "user-1", places, nil, DefaultOptions())
	assert.Equal(t, "park-1", places[0].ID, "input slice order must be preserved")
}
