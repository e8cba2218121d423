// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/handlers"
	"github.com/danielhkuo/when-works/middleware"
	"github.com/danielhkuo/when-works/ratelimit"
	"github.com/danielhkuo/when-works/store"
)

func NewRouter(db *sql.DB, limiter ratelimit.Limiter, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	st := store.New(db)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(st, limiter, cfg)
	participantHandler := handlers.NewParticipantHandler(st, limiter, cfg)
	voteHandler := handlers.NewVoteHandler(st, limiter, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Event lifecycle
	mux.HandleFunc("POST /events", middleware.WithLogging(eventHandler.CreateEvent))
	mux.HandleFunc("GET /events/{id}/admin", middleware.WithLogging(eventHandler.GetEventAdmin))
	mux.HandleFunc("DELETE /events/{id}", middleware.WithLogging(eventHandler.DeleteEvent))

	// Public access via share id
	mux.HandleFunc("GET /events/{shareId}", middleware.WithLogging(eventHandler.GetEvent))
	mux.HandleFunc("POST /events/{shareId}/participants", middleware.WithLogging(participantHandler.Upsert))
	mux.HandleFunc("POST /events/{shareId}/votes", middleware.WithLogging(voteHandler.Submit))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("when-works API v1"))
	})

	// CORS wraps the whole mux so OPTIONS preflight works everywhere
	return middleware.CORS(mux)
}
