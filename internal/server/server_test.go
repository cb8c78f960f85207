package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/georiddle/api/internal/database"
	"github.com/georiddle/api/internal/geo"
	"github.com/georiddle/api/internal/georiddle"
	"github.com/georiddle/api/internal/migrations"
	"github.com/georiddle/api/internal/riddle"
	"github.com/georiddle/api/internal/spawn"
)

// failingGenerator stands in for the external AI service being down.
type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string) (riddle.Riddle, error) {
	return riddle.Riddle{}, errors.New("generator unavailable")
}

// stubDirectory returns a fixed set of places, or nothing at all.
type stubDirectory struct {
	places []georiddle.Place
	err    error
}

func (d stubDirectory) Nearby(context.Context, geo.Point) ([]georiddle.Place, error) {
	return d.places, d.err
}

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewSQLiteStore(db)
}

func testRouter(t *testing.T, store *SQLiteStore, directory stubDirectory) *chi.Mux {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	table := georiddle.NewPriorityTable(georiddle.DefaultCategories())
	rng := rand.New(rand.NewPCG(11, 17))
	provider := riddle.NewProvider(table, failingGenerator{}, rng, logger)
	spawner := spawn.New(table, provider, rng, logger)

	r := chi.NewRouter()
	addRoutes(r, Deps{
		Logger:    logger,
		Store:     store,
		Directory: directory,
		Spawner:   spawner,
		DB:        store.db,
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerPlayer creates an account through the API and returns its token.
func registerPlayer(t *testing.T, r http.Handler, username string) (token, userID string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		CredentialsRequest{Username: username, Password: "hunter2"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp AuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.Token, resp.UserID
}

// museumPlace is a 60m square museum a few meters from testPoint.
var testPoint = geo.Point{Latitude: 52.52, Longitude: 13.405}

func museumPlace(id string) georiddle.Place {
	center := geo.Point{Latitude: 52.5202, Longitude: 13.405}
	return georiddle.Place{
		ID:         id,
		ProviderID: "prov-" + id,
		Name:       "Old Museum",
		Categories: []string{"museum", "tourist_attraction"},
		Polygon:    geo.BBoxAround(center, 60).Ring(),
		Center:     center,
	}
}
