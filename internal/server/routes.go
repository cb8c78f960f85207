package server

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, d Deps) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoRiddle API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(d.Logger, d.DB))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handleRegister(d.Store))
		r.Post("/auth/login", handleLogin(d.Store))
		r.Get("/me", handleMe(d.Store))

		r.Post("/location", handleLocationReport(d.Logger, d.Store, d.Directory))

		r.Route("/enemies", func(r chi.Router) {
			r.Post("/spawn", handleSpawn(d.Logger, d.Store, d.Spawner, broker))
			r.Get("/", handleListEnemies(d.Store))
			r.Get("/{enemyID}/riddle", handleEnemyRiddle(d.Store))
			r.Post("/{enemyID}/defeat", handleDefeat(d.Store, broker))
			r.Get("/events", handleEvents(d.Store, broker))
		})
	})

	if d.SPADir != "" {
		if info, err := os.Stat(d.SPADir); err == nil && info.IsDir() {
			d.Logger.Info("serving SPA", "dir", d.SPADir)
			r.NotFound(handleSPA(d.SPADir))
		}
	}
}
