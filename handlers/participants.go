// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/danielhkuo/when-works/auth"
	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/middleware"
	"github.com/danielhkuo/when-works/models"
	"github.com/danielhkuo/when-works/ratelimit"
	"github.com/danielhkuo/when-works/store"
)

const (
	minNicknameLength = 1
	maxNicknameLength = 16
	minDeviceHashLen  = 32

	upsertParticipantLimit = 10
)

type ParticipantHandler struct {
	store   *store.Store
	limiter ratelimit.Limiter
	cfg     cliparse.Config
}

func NewParticipantHandler(st *store.Store, limiter ratelimit.Limiter, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{store: st, limiter: limiter, cfg: cfg}
}

// Upsert handles POST /events/{shareId}/participants
//
// Identity is keyed on the device fingerprint: a known fingerprint
// renames its existing participant, an unknown one registers a new
// participant under the first free nickname variant. A fresh session
// token is issued on every call; a participant_token in the request is
// accepted but never checked against anything.
func (h *ParticipantHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareId")
	if shareID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Share ID is required")
		return
	}

	clientIP := middleware.GetClientIP(r)
	if !h.limiter.Allow(middleware.RateLimitKey("upsert-participant", clientIP, shareID), upsertParticipantLimit, rateLimitWindow) {
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		return
	}

	var req models.UpsertParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Nickname == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nickname is required")
		return
	}
	if n := utf8.RuneCountInString(req.Nickname); n < minNicknameLength || n > maxNicknameLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nickname must be between 1 and 16 characters")
		return
	}
	if len(req.DeviceHash) < minDeviceHashLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid device hash")
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

	// Known fingerprint: rename in place, no collision check against
	// itself, and return with a fresh token.
	existing, err := h.store.GetParticipantByDevice(ev.ID, req.DeviceHash)
	if err == nil {
		if err := h.store.UpdateParticipantNickname(existing.ID, req.Nickname); err != nil {
			slog.Error("failed to update participant", "participant_id", existing.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update participant")
			return
		}

		slog.Info("participant updated", "event_id", ev.ID, "participant_id", existing.ID)

		middleware.JSONResponse(w, http.StatusOK, models.UpsertParticipantResponse{
			ParticipantID:    existing.ID,
			ParticipantToken: auth.NewToken(),
			Nickname:         req.Nickname,
		})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	nickname, err := ResolveNickname(req.Nickname, func(candidate string) (bool, error) {
		return h.store.NicknameTaken(ev.ID, candidate)
	})
	if errors.Is(err, ErrNicknameExhausted) {
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to resolve nickname", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	participant := models.Participant{
		ID:         auth.NewToken(),
		EventID:    ev.ID,
		Nickname:   nickname,
		DeviceHash: req.DeviceHash,
	}
	if err := h.store.InsertParticipant(participant); err != nil {
		// A concurrent registration can win the nickname or the
		// fingerprint between our check and the insert.
		if store.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Nickname or device already registered")
			return
		}
		slog.Error("failed to insert participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create participant")
		return
	}

	slog.Info("participant created", "event_id", ev.ID, "participant_id", participant.ID, "nickname", nickname)

	middleware.JSONResponse(w, http.StatusCreated, models.UpsertParticipantResponse{
		ParticipantID:    participant.ID,
		ParticipantToken: auth.NewToken(),
		Nickname:         nickname,
	})
}
