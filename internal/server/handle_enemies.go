package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/georiddle/api/internal/geo"
	"github.com/georiddle/api/internal/georiddle"
	"github.com/georiddle/api/internal/riddle"
	"github.com/georiddle/api/internal/spawn"
)

const (
	// spawnRadiusMeters bounds the candidate-place search around the
	// player's reported position.
	spawnRadiusMeters = 400

	// purgeAge is the storage retention for enemy rows, deliberately
	// independent of the 2h gameplay window.
	purgeAge = 24 * time.Hour
)

type EnemySummary struct {
	ID        string    `json:"id"`
	EnemyType string    `json:"enemyType"`
	Location  geo.Point `json:"location"`
	ExpiresAt time.Time `json:"expiresAt"`
	Defeated  bool      `json:"defeated"`
}

// EnemyDetail adds the riddle text. The answer never leaves the server.
type EnemyDetail struct {
	EnemySummary
	Riddle string `json:"riddle"`
}

type DefeatRequest struct {
	Answer string `json:"answer"`
}

type DefeatResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	NewScore *int   `json:"newScore,omitempty"`
}

func enemySummary(e georiddle.Enemy) EnemySummary {
	return EnemySummary{
		ID:        e.ID,
		EnemyType: e.Type,
		Location:  e.Location,
		ExpiresAt: e.ExpiresAt,
		Defeated:  e.Defeated,
	}
}

func handleSpawn(logger *slog.Logger, store Store, spawner *spawn.Spawner, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var point geo.Point
		if err := readJSON(r, &point); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := point.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "coordinates out of range")
			return
		}

		now := time.Now()

		if n, err := store.PurgeExpired(r.Context(), now.Add(-purgeAge)); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		} else if n > 0 {
			logger.Info("purged stale enemies", "count", n)
		}

		candidates, err := store.NearbyPlaces(r.Context(), point, spawnRadiusMeters)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if len(candidates) == 0 {
			writeError(w, http.StatusNotFound, "no nearby places found")
			return
		}

		live, err := store.LiveEnemies(r.Context(), sess.UserID, now)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		spawned := spawner.Spawn(r.Context(), sess.UserID, candidates, live, spawn.DefaultOptions())
		if err := store.InsertEnemies(r.Context(), spawned); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if len(spawned) > 0 {
			broker.Publish(sess.UserID, Event{
				Type:  "enemies_spawned",
				Count: len(spawned),
			})
		}

		out := make([]EnemySummary, 0, len(spawned))
		for _, e := range spawned {
			out = append(out, enemySummary(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleListEnemies(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		active, err := store.ActiveEnemies(r.Context(), sess.UserID, time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]EnemySummary, 0, len(active))
		for _, e := range active {
			out = append(out, enemySummary(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleEnemyRiddle(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		enemy, err := store.EnemyByID(r.Context(), chi.URLParam(r, "enemyID"), sess.UserID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "enemy not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, EnemyDetail{
			EnemySummary: enemySummary(enemy),
			Riddle:       enemy.Riddle,
		})
	}
}

func handleDefeat(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req DefeatRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Answer = strings.TrimSpace(req.Answer)
		if req.Answer == "" {
			writeError(w, http.StatusBadRequest, "answer is required")
			return
		}

		enemyID := chi.URLParam(r, "enemyID")
		enemy, err := store.EnemyByID(r.Context(), enemyID, sess.UserID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "enemy not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if enemy.Defeated {
			writeError(w, http.StatusBadRequest, "enemy already defeated")
			return
		}

		if !riddle.CheckAnswer(req.Answer, enemy.Answer) {
			broker.Publish(sess.UserID, Event{Type: "wrong_answer", EnemyID: enemyID})
			writeJSON(w, http.StatusOK, DefeatResponse{
				Success: false,
				Message: "Wrong answer!",
			})
			return
		}

		newScore, err := store.DefeatEnemy(r.Context(), enemyID, sess.UserID)
		if errors.Is(err, ErrAlreadyDefeated) {
			writeError(w, http.StatusBadRequest, "enemy already defeated")
			return
		}
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "enemy not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(sess.UserID, Event{Type: "enemy_defeated", EnemyID: enemyID})
		writeJSON(w, http.StatusOK, DefeatResponse{
			Success:  true,
			Message:  fmt.Sprintf("You defeated the %s!", enemy.Type),
			NewScore: &newScore,
		})
	}
}
