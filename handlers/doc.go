// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the When Works API.

# Handler Types

Each handler is a struct holding the store, rate limiter, and config:

  - EventHandler: event lifecycle (create, read, delete) and admin auth
  - ParticipantHandler: nickname registration keyed by device fingerprint
  - VoteHandler: availability vote submission

Handlers are created via constructor functions:

	eventHandler := handlers.NewEventHandler(st, limiter, cfg)

# Event Lifecycle

The organizer creates an event with 1-7 candidate dates and gets the
admin key back exactly once:

	POST /events              → CreateEvent (returns admin_key)
	GET /events/{id}/admin    → GetEventAdmin
	DELETE /events/{id}       → DeleteEvent (cascade)

Admin operations require the X-Admin-Key header; the stored SHA-256
digest is checked, never the key itself.

# Participation Flow

Participants interact via the public share id:

	POST /events/{shareId}/participants → Upsert (returns participant_token)
	POST /events/{shareId}/votes        → Submit
	GET /events/{shareId}               → GetEvent (snapshot with tally)

Write endpoints clear the rate limiter before validation or any
persistence work.

# Tally

Ranking is a pure function in tally.go:

	rows := handlers.ComputeTally(options, votes)

Score is yes*2 + maybe; the stable sort keeps tied options in their
presentation order. Nickname collision resolution is likewise a pure
bounded-retry function in nickname.go.
*/
package handlers
