// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the When Works API.

# Route Registration

NewRouter creates a configured handler with all endpoints:

	handler := router.NewRouter(db, limiter, cfg)

# Endpoints

Health:

	GET /health

Event management (admin, requires X-Admin-Key):

	POST   /events            - Create event (key returned once)
	GET    /events/{id}/admin - Full snapshot
	DELETE /events/{id}       - Delete with cascade

Participation (public, uses share id):

	GET  /events/{shareId}              - Snapshot without secrets
	POST /events/{shareId}/participants - Register/rename participant
	POST /events/{shareId}/votes        - Submit availability votes

# Handler Initialization

The router creates handler instances with dependency injection:

	eventHandler := handlers.NewEventHandler(st, limiter, cfg)
	participantHandler := handlers.NewParticipantHandler(st, limiter, cfg)
	voteHandler := handlers.NewVoteHandler(st, limiter, cfg)

All handlers receive the store, the rate limiter, and configuration.
The returned handler is the mux wrapped in the CORS middleware, so
every route answers OPTIONS preflight.
*/
package router
