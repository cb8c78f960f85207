package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georiddle/api/internal/geo"
	"github.com/georiddle/api/internal/georiddle"
)

// timeLayout matches SQLite's strftime('%Y-%m-%dT%H:%M:%fZ','now') so
// stored timestamps compare lexicographically.
const timeLayout = "2006-01-02T15:04:05.000Z"

func timeString(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash)
		VALUES (?, ?, ?)
	`, id, username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return "", ErrUsernameTaken
		}
		return "", err
	}
	return id, nil
}

func (s *SQLiteStore) UserByName(ctx context.Context, username string) (georiddle.User, error) {
	var u georiddle.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, xp_points FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.XPPoints)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) UserByID(ctx context.Context, id string) (georiddle.User, error) {
	var u georiddle.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, xp_points FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.XPPoints)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id) VALUES (?, ?)
	`, token, userID)
	return token, err
}

func (s *SQLiteStore) PlayerFromToken(ctx context.Context, token string) (playerSession, error) {
	var sess playerSession
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, token).Scan(&sess.UserID, &sess.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, errNoSession
	}
	return sess, err
}

func (s *SQLiteStore) UpsertPlace(ctx context.Context, place georiddle.Place) error {
	categories, err := json.Marshal(place.Categories)
	if err != nil {
		return fmt.Errorf("encoding categories: %w", err)
	}
	polygon, err := json.Marshal(place.Polygon)
	if err != nil {
		return fmt.Errorf("encoding polygon: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO places (id, provider_id, name, categories, polygon, center_lat, center_lng)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider_id) DO UPDATE SET
			name = excluded.name,
			categories = excluded.categories,
			polygon = excluded.polygon,
			center_lat = excluded.center_lat,
			center_lng = excluded.center_lng
	`, place.ID, place.ProviderID, place.Name, string(categories), string(polygon),
		place.Center.Latitude, place.Center.Longitude)
	return err
}

func (s *SQLiteStore) NearbyPlaces(ctx context.Context, p geo.Point, radiusMeters float64) ([]georiddle.Place, error) {
	// Box prefilter in SQL, exact planar distance in Go. SQLite carries
	// no geospatial extension, and at a 400 m radius the planar check is
	// the same approximation the spawner uses anyway.
	box := geo.BBoxAround(p, 2*radiusMeters)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, provider_id, name, categories, polygon, center_lat, center_lng
		FROM places
		WHERE center_lat BETWEEN ? AND ? AND center_lng BETWEEN ? AND ?
	`, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []georiddle.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		if geo.ApproxDistanceMeters(p, place.Center) <= radiusMeters {
			out = append(out, place)
		}
	}
	return out, rows.Err()
}

func scanPlace(rows *sql.Rows) (georiddle.Place, error) {
	var place georiddle.Place
	var categories, polygon string
	err := rows.Scan(&place.ID, &place.ProviderID, &place.Name,
		&categories, &polygon, &place.Center.Latitude, &place.Center.Longitude)
	if err != nil {
		return place, err
	}
	if err := json.Unmarshal([]byte(categories), &place.Categories); err != nil {
		return place, fmt.Errorf("decoding categories for %s: %w", place.ID, err)
	}
	if err := json.Unmarshal([]byte(polygon), &place.Polygon); err != nil {
		return place, fmt.Errorf("decoding polygon for %s: %w", place.ID, err)
	}
	return place, nil
}

func (s *SQLiteStore) RecordLocation(ctx context.Context, userID string, p geo.Point) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO location_history (user_id, lat, lng) VALUES (?, ?, ?)
	`, userID, p.Latitude, p.Longitude)
	return err
}

func (s *SQLiteStore) InsertEnemies(ctx context.Context, enemies []georiddle.Enemy) error {
	if len(enemies) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range enemies {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO enemies (id, enemy_type, lat, lng, riddle, answer, spawn_time, expires_at, defeated, user_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
		`, e.ID, e.Type, e.Location.Latitude, e.Location.Longitude,
			e.Riddle, e.Answer, timeString(e.SpawnTime), timeString(e.ExpiresAt), e.UserID)
		if err != nil {
			return fmt.Errorf("inserting enemy %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

const enemyColumns = `id, enemy_type, lat, lng, riddle, answer, spawn_time, expires_at, defeated, user_id`

func scanEnemy(row interface{ Scan(...any) error }) (georiddle.Enemy, error) {
	var e georiddle.Enemy
	var spawnTime, expiresAt string
	var defeated int
	err := row.Scan(&e.ID, &e.Type, &e.Location.Latitude, &e.Location.Longitude,
		&e.Riddle, &e.Answer, &spawnTime, &expiresAt, &defeated, &e.UserID)
	if err != nil {
		return e, err
	}
	e.SpawnTime = parseTime(spawnTime)
	e.ExpiresAt = parseTime(expiresAt)
	e.Defeated = defeated != 0
	return e, nil
}

func (s *SQLiteStore) queryEnemies(ctx context.Context, query string, args ...any) ([]georiddle.Enemy, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []georiddle.Enemy
	for rows.Next() {
		e, err := scanEnemy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LiveEnemies(ctx context.Context, userID string, now time.Time) ([]georiddle.Enemy, error) {
	return s.queryEnemies(ctx, `
		SELECT `+enemyColumns+` FROM enemies
		WHERE user_id = ? AND expires_at > ? AND defeated = 0
	`, userID, timeString(now))
}

func (s *SQLiteStore) ActiveEnemies(ctx context.Context, userID string, now time.Time) ([]georiddle.Enemy, error) {
	return s.queryEnemies(ctx, `
		SELECT `+enemyColumns+` FROM enemies
		WHERE user_id = ? AND expires_at > ?
		ORDER BY spawn_time
	`, userID, timeString(now))
}

func (s *SQLiteStore) EnemyByID(ctx context.Context, enemyID, userID string) (georiddle.Enemy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+enemyColumns+` FROM enemies WHERE id = ? AND user_id = ?
	`, enemyID, userID)
	e, err := scanEnemy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

func (s *SQLiteStore) DefeatEnemy(ctx context.Context, enemyID, userID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE enemies SET defeated = 1 WHERE id = ? AND user_id = ? AND defeated = 0
	`, enemyID, userID)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish missing from already-defeated for the caller.
		var defeated int
		err := tx.QueryRowContext(ctx, `
			SELECT defeated FROM enemies WHERE id = ? AND user_id = ?
		`, enemyID, userID).Scan(&defeated)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		if err != nil {
			return 0, err
		}
		return 0, ErrAlreadyDefeated
	}

	var newScore int
	err = tx.QueryRowContext(ctx, `
		UPDATE users SET xp_points = xp_points + 1 WHERE id = ?
		RETURNING xp_points
	`, userID).Scan(&newScore)
	if err != nil {
		return 0, err
	}

	return newScore, tx.Commit()
}

func (s *SQLiteStore) PurgeExpired(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM enemies WHERE spawn_time < ?
	`, timeString(cutoff))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
