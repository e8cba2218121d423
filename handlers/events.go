// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/when-works/auth"
	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/middleware"
	"github.com/danielhkuo/when-works/models"
	"github.com/danielhkuo/when-works/ratelimit"
	"github.com/danielhkuo/when-works/store"
)

const (
	maxTitleLength = 200
	minDates       = 1
	maxDates       = 7

	createEventLimit  = 5
	rateLimitWindow   = time.Minute
	shareIDRetryCount = 3
)

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type EventHandler struct {
	store   *store.Store
	limiter ratelimit.Limiter
	cfg     cliparse.Config
}

func NewEventHandler(st *store.Store, limiter ratelimit.Limiter, cfg cliparse.Config) *EventHandler {
	return &EventHandler{store: st, limiter: limiter, cfg: cfg}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	clientIP := middleware.GetClientIP(r)
	if !h.limiter.Allow(middleware.RateLimitKey("create-event", clientIP, "global"), createEventLimit, rateLimitWindow) {
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		return
	}

	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if utf8.RuneCountInString(req.Title) > maxTitleLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Title must be 200 characters or less")
		return
	}
	if len(req.Dates) < minDates {
		middleware.ErrorResponse(w, http.StatusBadRequest, "At least one date is required")
		return
	}
	if len(req.Dates) > maxDates {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Maximum 7 dates allowed")
		return
	}
	for _, date := range req.Dates {
		if !dateRE.MatchString(date) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid date format: "+date+". Use YYYY-MM-DD")
			return
		}
	}

	adminKey, err := auth.GenerateAdminKey()
	if err != nil {
		slog.Error("failed to generate admin key", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	eventID := auth.NewToken()
	now := time.Now().UTC()
	ev := models.Event{
		ID:           eventID,
		Title:        req.Title,
		AdminKeyHash: auth.HashSecret(adminKey),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Memo != "" {
		ev.Memo = &req.Memo
	}

	options := make([]models.Option, len(req.Dates))
	for i, date := range req.Dates {
		options[i] = models.Option{
			ID:        auth.NewToken(),
			EventID:   eventID,
			Date:      date,
			SortIndex: i,
		}
	}

	// The share id is short, so a collision is unlikely but possible;
	// the unique constraint surfaces it and we retry with a new id.
	var shareID string
	for attempt := 0; ; attempt++ {
		shareID, err = auth.GenerateShareID()
		if err != nil {
			slog.Error("failed to generate share id", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create event")
			return
		}
		ev.ShareID = shareID

		err = h.store.CreateEvent(ev, options)
		if err == nil {
			break
		}
		if store.IsUniqueViolation(err) && attempt < shareIDRetryCount {
			continue
		}
		slog.Error("failed to insert event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	// Link rows are audit data; their failure never fails creation
	if err := h.store.RecordLinks(eventID, shareID, adminKey); err != nil {
		slog.Warn("failed to record links", "event_id", eventID, "error", err)
	}

	slog.Info("event created", "event_id", eventID, "share_id", shareID, "dates", len(options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateEventResponse{
		EventID:  eventID,
		ShareID:  shareID,
		AdminKey: adminKey, // revealed exactly once
		AdminURL: h.cfg.BaseURL + "/scheduler/e/" + eventID + "?k=" + adminKey,
		ShareURL: h.cfg.BaseURL + "/scheduler/s/" + shareID,
	})
}

// GetEvent handles GET /events/{shareId}
// Anonymous read via the public share identifier.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareId")
	if shareID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Share ID is required")
		return
	}

	ev, err := h.store.GetEventByShareID(shareID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		slog.Error("failed to query event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.writeSnapshot(w, ev)
}

// GetEventAdmin handles GET /events/{id}/admin
// Same read model as GetEvent, gated by the admin key.
func (h *EventHandler) GetEventAdmin(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	h.writeSnapshot(w, ev)
}

// DeleteEvent handles DELETE /events/{id}
// Cascade removes options, participants, votes, and links.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	err := h.store.DeleteEvent(ev.ID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete event", "event_id", ev.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	slog.Info("event deleted", "event_id", ev.ID)

	middleware.JSONResponse(w, http.StatusOK, models.DeleteEventResponse{
		Success: true,
		Message: "Event deleted successfully",
	})
}

// authenticate resolves the event from the {id} path value and checks
// the X-Admin-Key header against the stored digest. Existence is
// checked before the key so a bad key on a missing event reads as 404,
// not as an auth failure. Writes the error response itself when the
// check fails.
func (h *EventHandler) authenticate(w http.ResponseWriter, r *http.Request) (models.Event, bool) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Event ID is required")
		return models.Event{}, false
	}

	ev, err := h.store.GetEventByID(eventID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return models.Event{}, false
	}
	if err != nil {
		slog.Error("failed to query event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Event{}, false
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if adminKey == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin key is required")
		return models.Event{}, false
	}

	if !auth.VerifySecret(adminKey, ev.AdminKeyHash) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid admin key")
		return models.Event{}, false
	}

	return ev, true
}

// writeSnapshot assembles the full read model: event, options in
// presentation order, participants in creation order, votes, and the
// ranked tally. The admin key digest is excluded at the type level.
func (h *EventHandler) writeSnapshot(w http.ResponseWriter, ev models.Event) {
	options, err := h.store.ListOptions(ev.ID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch options")
		return
	}

	participants, err := h.store.ListParticipants(ev.ID)
	if err != nil {
		slog.Error("failed to query participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch participants")
		return
	}

	votes, err := h.store.ListVotes(ev.ID)
	if err != nil {
		slog.Error("failed to query votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EventSnapshot{
		Event:        ev,
		Options:      options,
		Participants: participants,
		Votes:        votes,
		Tally:        ComputeTally(options, votes),
	})
}
