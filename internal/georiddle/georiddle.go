// Package georiddle defines the core domain types and the category table.
// It has zero external dependencies — everything here is pure Go.
package georiddle

import (
	"time"

	"github.com/georiddle/api/internal/geo"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	XPPoints     int
	CreatedAt    time.Time
}

// Place is a real-world location cached from the places directory.
// Read-only to the spawning core.
type Place struct {
	ID         string
	ProviderID string
	Name       string
	Categories []string
	Polygon    geo.Polygon
	Center     geo.Point
}

// Enemy is spawned at a point inside a place's polygon and carries the
// riddle the player must solve to defeat it.
type Enemy struct {
	ID        string
	Type      string
	Location  geo.Point
	Riddle    string
	Answer    string
	SpawnTime time.Time
	ExpiresAt time.Time
	Defeated  bool
	UserID    string
}

// Live reports whether the enemy is still in play at now: not defeated
// and inside its gameplay window. Distinct from the 24h storage purge.
func (e Enemy) Live(now time.Time) bool {
	return !e.Defeated && e.ExpiresAt.After(now)
}

type LocationReport struct {
	ID       int64
	UserID   string
	Location geo.Point
	At       time.Time
}
