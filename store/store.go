// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/when-works/models"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Store is the single source of truth for events, options,
// participants, votes, and links. All cross-request consistency comes
// from its constraints: share_id is unique, (event, device_hash) and
// (event, nickname) are unique per participant, and (option,
// participant) is unique per vote.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// IsUniqueViolation reports whether err is a uniqueness-constraint
// failure from either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}

// CreateEvent inserts the event row and its options as one
// transaction, so a failed option insert never leaves a dateless
// event visible.
func (s *Store) CreateEvent(ev models.Event, opts []models.Option) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO events (id, title, memo, admin_key_hash, share_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ev.ID, ev.Title, ev.Memo, ev.AdminKeyHash, ev.ShareID, ev.CreatedAt, ev.UpdatedAt)
	if err != nil {
		return err
	}

	for _, opt := range opts {
		_, err = tx.Exec(`
			INSERT INTO options (id, event_id, date, sort_index, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, opt.ID, opt.EventID, opt.Date, opt.SortIndex, ev.CreatedAt)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event creation: %w", err)
	}
	return nil
}

// RecordLinks writes the audit rows for the issued share and admin
// tokens. Callers treat failure as non-critical.
func (s *Store) RecordLinks(eventID, shareID, adminKey string) error {
	now := time.Now().UTC()
	for _, link := range []struct{ kind, token string }{
		{models.LinkKindShare, shareID},
		{models.LinkKindAdmin, adminKey},
	} {
		_, err := s.db.Exec(`
			INSERT INTO links (event_id, kind, token, created_at)
			VALUES ($1, $2, $3, $4)
		`, eventID, link.kind, link.token, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetEventByID fetches one event by its opaque id.
func (s *Store) GetEventByID(id string) (models.Event, error) {
	return s.getEvent("id", id)
}

// GetEventByShareID fetches one event by its public share identifier.
func (s *Store) GetEventByShareID(shareID string) (models.Event, error) {
	return s.getEvent("share_id", shareID)
}

func (s *Store) getEvent(column, value string) (models.Event, error) {
	var ev models.Event
	err := s.db.QueryRow(`
		SELECT id, title, memo, admin_key_hash, share_id, created_at, updated_at
		FROM events
		WHERE `+column+` = $1
	`, value).Scan(&ev.ID, &ev.Title, &ev.Memo, &ev.AdminKeyHash, &ev.ShareID, &ev.CreatedAt, &ev.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// DeleteEvent removes the event row; options, participants, votes,
// and links follow via ON DELETE CASCADE.
func (s *Store) DeleteEvent(id string) error {
	res, err := s.db.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOptions returns an event's options in presentation order.
func (s *Store) ListOptions(eventID string) ([]models.Option, error) {
	rows, err := s.db.Query(`
		SELECT id, event_id, date, sort_index
		FROM options
		WHERE event_id = $1
		ORDER BY sort_index
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.EventID, &opt.Date, &opt.SortIndex); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// ListParticipants returns an event's participants in creation order.
func (s *Store) ListParticipants(eventID string) ([]models.Participant, error) {
	rows, err := s.db.Query(`
		SELECT id, event_id, nickname, device_hash, created_at
		FROM participants
		WHERE event_id = $1
		ORDER BY created_at, id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.EventID, &p.Nickname, &p.DeviceHash, &p.CreatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ListVotes returns every vote for an event.
func (s *Store) ListVotes(eventID string) ([]models.Vote, error) {
	rows, err := s.db.Query(`
		SELECT id, option_id, participant_id, value
		FROM votes
		WHERE event_id = $1
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.OptionID, &v.ParticipantID, &v.Value); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// GetParticipantByDevice resolves a caller's soft identity within an
// event from their device fingerprint.
func (s *Store) GetParticipantByDevice(eventID, deviceHash string) (models.Participant, error) {
	var p models.Participant
	err := s.db.QueryRow(`
		SELECT id, event_id, nickname, device_hash, created_at
		FROM participants
		WHERE event_id = $1 AND device_hash = $2
	`, eventID, deviceHash).Scan(&p.ID, &p.EventID, &p.Nickname, &p.DeviceHash, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Participant{}, ErrNotFound
	}
	if err != nil {
		return models.Participant{}, err
	}
	return p, nil
}

// NicknameTaken reports whether any participant in the event already
// holds the exact nickname.
func (s *Store) NicknameTaken(eventID, nickname string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM participants
			WHERE event_id = $1 AND nickname = $2
		)
	`, eventID, nickname).Scan(&exists)
	return exists, err
}

// InsertParticipant creates a new participant row.
func (s *Store) InsertParticipant(p models.Participant) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO participants (id, event_id, nickname, device_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.EventID, p.Nickname, p.DeviceHash, now, now)
	return err
}

// UpdateParticipantNickname renames an existing participant.
func (s *Store) UpdateParticipantNickname(id, nickname string) error {
	_, err := s.db.Exec(`
		UPDATE participants
		SET nickname = $1, updated_at = $2
		WHERE id = $3
	`, nickname, time.Now().UTC(), id)
	return err
}

// ParticipantInEvent reports whether the participant id belongs to
// the event.
func (s *Store) ParticipantInEvent(participantID, eventID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM participants
			WHERE id = $1 AND event_id = $2
		)
	`, participantID, eventID).Scan(&exists)
	return exists, err
}

// UpsertVote inserts a vote or overwrites the value of the existing
// one keyed on (option, participant). The unique constraint is what
// closes the race between concurrent identical submissions; last
// write committed wins.
func (s *Store) UpsertVote(v models.Vote, eventID string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO votes (id, event_id, option_id, participant_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (option_id, participant_id) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, v.ID, eventID, v.OptionID, v.ParticipantID, v.Value, now, now)
	return err
}
