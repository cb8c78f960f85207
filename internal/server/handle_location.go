package server

import (
	"log/slog"
	"net/http"

	"github.com/georiddle/api/internal/geo"
	"github.com/georiddle/api/internal/places"
)

type PlaceSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Categories []string  `json:"categories"`
	Center     geo.Point `json:"center"`
}

func handleLocationReport(logger *slog.Logger, store Store, directory places.Directory) http.HandlerFunc {
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

		if err := store.RecordLocation(r.Context(), sess.UserID, point); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Directory failure is recoverable: the player still gets
		// whatever places are already cached nearby.
		found, err := directory.Nearby(r.Context(), point)
		if err != nil {
			logger.Debug("places lookup failed", "error", err)
		}
		for _, place := range found {
			if err := store.UpsertPlace(r.Context(), place); err != nil {
				logger.Warn("caching place failed", "place", place.ProviderID, "error", err)
			}
		}

		nearby, err := store.NearbyPlaces(r.Context(), point, spawnRadiusMeters)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]PlaceSummary, 0, len(nearby))
		for _, p := range nearby {
			out = append(out, PlaceSummary{
				ID:         p.ID,
				Name:       p.Name,
				Categories: p.Categories,
				Center:     p.Center,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
