// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Vote values
const (
	VoteUnavailable = 0
	VoteMaybe       = 1
	VoteAvailable   = 2
)

// Link kinds
const (
	LinkKindShare = "share"
	LinkKindAdmin = "admin"
)

// Request types

type CreateEventRequest struct {
	Title string   `json:"title"`
	Memo  string   `json:"memo,omitempty"`
	Dates []string `json:"dates"`
}

type UpsertParticipantRequest struct {
	Nickname         string `json:"nickname"`
	DeviceHash       string `json:"device_hash"`
	ParticipantToken string `json:"participant_token,omitempty"`
}

type SubmitVotesRequest struct {
	ParticipantID string      `json:"participant_id"`
	Votes         []VoteInput `json:"votes"`
}

type VoteInput struct {
	OptionID string `json:"option_id"`
	Value    int    `json:"value"`
}

// Response types

type CreateEventResponse struct {
	EventID  string `json:"event_id"`
	ShareID  string `json:"share_id"`
	AdminKey string `json:"admin_key"` // Only returned on creation
	AdminURL string `json:"admin_url"`
	ShareURL string `json:"share_url"`
}

type UpsertParticipantResponse struct {
	ParticipantID    string `json:"participant_id"`
	ParticipantToken string `json:"participant_token"`
	Nickname         string `json:"nickname"`
}

type SubmitVotesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type DeleteEventResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// EventSnapshot is the assembled read model returned for both the
// share and admin views. The admin key digest never appears in it.
type EventSnapshot struct {
	Event        Event             `json:"event"`
	Options      []Option          `json:"options"`
	Participants []Participant     `json:"participants"`
	Votes        []Vote            `json:"votes"`
	Tally        []RankedOptionRow `json:"tally"`
}

// Domain types

type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Memo         *string   `json:"memo,omitempty"`
	AdminKeyHash string    `json:"-"` // Never expose in JSON
	ShareID      string    `json:"share_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Option struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	SortIndex int    `json:"sort_index"`
}

type Participant struct {
	ID         string    `json:"id"`
	EventID    string    `json:"-"`
	Nickname   string    `json:"nickname"`
	DeviceHash string    `json:"-"` // Never expose in JSON
	CreatedAt  time.Time `json:"-"`
}

type Vote struct {
	ID            string `json:"id"`
	OptionID      string `json:"option_id"`
	ParticipantID string `json:"participant_id"`
	Value         int    `json:"value"`
}

// RankedOptionRow is one option's vote counts and derived score.
type RankedOptionRow struct {
	OptionID string `json:"option_id"`
	Date     string `json:"date"`
	Yes      int    `json:"yes"`
	Maybe    int    `json:"maybe"`
	No       int    `json:"no"`
	Score    int    `json:"score"`
}

// SubmitOutcome reports what happened to each item of a vote batch.
// The HTTP response stays a plain success flag; this exists so callers
// of the ledger can tell applied from skipped from failed.
type SubmitOutcome struct {
	Applied int
	Skipped int
	Failed  int
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
