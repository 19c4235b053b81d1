package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/obseasd/monadarena/arena/live"
	"github.com/obseasd/monadarena/arena/store"
)

// Router exposes the arena's read API plus the live spectation socket.
// db may be nil, in which case history endpoints serve in-memory state only.
func Router(db *store.DB, mgr *Manager, hub *live.Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		ok := true
		if db != nil {
			ok = db.Ping(req.Context()) == nil
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": ok})
	})

	r.Get("/api/leaderboard", func(w http.ResponseWriter, req *http.Request) {
		if db != nil {
			rows, err := db.Leaderboard(req.Context(), 50)
			if err == nil {
				writeJSON(w, http.StatusOK, rows)
				return
			}
		}
		writeJSON(w, http.StatusOK, mgr.Standings())
	})

	r.Get("/api/matches", func(w http.ResponseWriter, req *http.Request) {
		if db == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "no database configured"})
			return
		}
		matches, err := db.RecentMatches(req.Context(), 20)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, matches)
	})

	r.Get("/api/matches/{id}", func(w http.ResponseWriter, req *http.Request) {
		if db == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "no database configured"})
			return
		}
		id, err := uuid.Parse(chi.URLParam(req, "id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid match id"})
			return
		}
		detail, err := db.MatchByID(req.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "match not found"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, detail)
	})

	r.Get("/ws", hub.ServeWS)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
