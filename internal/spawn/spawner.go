// Package spawn turns a ranked set of candidate places into freshly
// placed enemies. It is pure compute: persistence of the returned batch
// is the caller's job.
package spawn

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/georiddle/api/internal/geo"
	"github.com/georiddle/api/internal/georiddle"
	"github.com/georiddle/api/internal/riddle"
)

// RiddleSource supplies a riddle for a place category. Never fails.
type RiddleSource interface {
	Riddle(ctx context.Context, category string) riddle.Riddle
}

// Options bound a spawn batch. Lifespan is the 2h gameplay window, not
// the 24h storage purge age.
type Options struct {
	MaxEnemies    int
	MinSeparation float64 // meters
	Lifespan      time.Duration
	Attempts      int // rejection-sampling budget per place
}

func DefaultOptions() Options {
	return Options{
		MaxEnemies:    10,
		MinSeparation: 40,
		Lifespan:      2 * time.Hour,
		Attempts:      20,
	}
}

type Spawner struct {
	table   *georiddle.PriorityTable
	riddles RiddleSource
	rng     *rand.Rand
	logger  *slog.Logger
	now     func() time.Time
}

// New builds a spawner. rng may be nil, in which case each Spawn call
// derives its own source; pass a seeded one for deterministic tests
// (*rand.Rand is not safe for concurrent use).
func New(table *georiddle.PriorityTable, riddles RiddleSource, rng *rand.Rand, logger *slog.Logger) *Spawner {
	return &Spawner{
		table:   table,
		riddles: riddles,
		rng:     rng,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Spawner) rand() *rand.Rand {
	if s.rng != nil {
		return s.rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Spawn places at most one enemy per candidate place, highest-priority
// places first, stopping once live plus new enemies reach
// opts.MaxEnemies. Each enemy lands inside its place's polygon at least
// opts.MinSeparation meters from every other live or new enemy; a place
// whose sampling budget runs out is skipped, never an error.
//
// Callers pass the player's current live enemies as existing and are
// expected to have purged stale rows beforehand.
func (s *Spawner) Spawn(ctx context.Context, userID string, places []georiddle.Place, existing []georiddle.Enemy, opts Options) []georiddle.Enemy {
	occupied := make([]geo.Point, 0, len(existing))
	for _, e := range existing {
		occupied = append(occupied, e.Location)
	}

	// Stable: places sharing a rank keep their input order.
	sorted := make([]georiddle.Place, len(places))
	copy(sorted, places)
	sort.SliceStable(sorted, func(i, j int) bool {
		return s.table.Rank(sorted[i].Categories) < s.table.Rank(sorted[j].Categories)
	})

	now := s.now()
	rng := s.rand()
	var spawned []georiddle.Enemy

	for _, place := range sorted {
		if len(occupied)+len(spawned) >= opts.MaxEnemies {
			break
		}

		category, ok := s.table.Top(place.Categories)
		if !ok || category.Archetype == "" {
			continue
		}

		if !place.Polygon.Valid() {
			s.logger.Debug("skipping place with degenerate polygon", "place", place.ID)
			continue
		}
		bounds := place.Polygon.Bounds()

		point, ok := samplePoint(rng, place.Polygon, bounds, occupied, spawned, opts)
		if !ok {
			s.logger.Debug("no viable spawn point", "place", place.ID, "attempts", opts.Attempts)
			continue
		}

		r := s.riddles.Riddle(ctx, category.Name)
		spawned = append(spawned, georiddle.Enemy{
			ID:        uuid.NewString(),
			Type:      category.Archetype,
			Location:  point,
			Riddle:    r.Text,
			Answer:    r.Answer,
			SpawnTime: now,
			ExpiresAt: now.Add(opts.Lifespan),
			UserID:    userID,
		})
	}

	return spawned
}

// samplePoint rejection-samples a point inside the polygon that keeps
// the separation constraint against every occupied and newly spawned
// point, within the attempt budget.
func samplePoint(rng *rand.Rand, pg geo.Polygon, bounds geo.BBox, occupied []geo.Point, spawned []georiddle.Enemy, opts Options) (geo.Point, bool) {
	for attempt := 0; attempt < opts.Attempts; attempt++ {
		p := geo.RandomPointIn(bounds, rng)
		if !pg.Contains(p) {
			continue
		}
		if tooClose(p, occupied, spawned, opts.MinSeparation) {
			continue
		}
		return p, true
	}
	return geo.Point{}, false
}

func tooClose(p geo.Point, occupied []geo.Point, spawned []georiddle.Enemy, minSep float64) bool {
	for _, q := range occupied {
		if geo.ApproxDistanceMeters(p, q) < minSep {
			return true
		}
	}
	for _, e := range spawned {
		if geo.ApproxDistanceMeters(p, e.Location) < minSep {
			return true
		}
	}
	return false
}
