package server

import (
	"context"
	"errors"
	"time"

	"github.com/georiddle/api/internal/geo"
	"github.com/georiddle/api/internal/georiddle"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrAlreadyDefeated = errors.New("enemy already defeated")

	errNoSession = errors.New("no valid session")
)

type playerSession struct {
	UserID   string
	Username string
}

// Store is the persistence boundary. Each call is one implicit
// transaction; there is no cross-call isolation.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (userID string, err error)
	UserByName(ctx context.Context, username string) (georiddle.User, error)
	UserByID(ctx context.Context, id string) (georiddle.User, error)
	CreateSession(ctx context.Context, userID string) (token string, err error)
	PlayerFromToken(ctx context.Context, token string) (playerSession, error)

	UpsertPlace(ctx context.Context, place georiddle.Place) error
	// NearbyPlaces returns places whose center lies within radiusMeters
	// of p (planar approximation).
	NearbyPlaces(ctx context.Context, p geo.Point, radiusMeters float64) ([]georiddle.Place, error)
	RecordLocation(ctx context.Context, userID string, p geo.Point) error

	InsertEnemies(ctx context.Context, enemies []georiddle.Enemy) error
	// LiveEnemies are non-defeated enemies still inside their gameplay
	// window — the occupied set for spawning.
	LiveEnemies(ctx context.Context, userID string, now time.Time) ([]georiddle.Enemy, error)
	// ActiveEnemies filters by expiry only, matching the listing surface.
	ActiveEnemies(ctx context.Context, userID string, now time.Time) ([]georiddle.Enemy, error)
	EnemyByID(ctx context.Context, enemyID, userID string) (georiddle.Enemy, error)
	// DefeatEnemy marks the enemy defeated and awards one experience
	// point in a single transaction, returning the new total.
	DefeatEnemy(ctx context.Context, enemyID, userID string) (newScore int, err error)
	// PurgeExpired deletes enemies spawned before cutoff, defeated or not.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int, error)
}
