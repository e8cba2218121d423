// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists events, options, participants, votes, and
links behind a single Store type.

The database, not application logic, enforces the invariants that
close races between concurrent identical requests:

  - events.share_id is globally unique
  - (event_id, device_hash) and (event_id, nickname) are unique per
    participant
  - (option_id, participant_id) is unique per vote; UpsertVote
    overwrites on conflict, so resubmission never duplicates

Single-row lookups return ErrNotFound instead of sql.ErrNoRows.
Event creation runs as one transaction; deletion relies on ON DELETE
CASCADE to remove everything referencing the event.

Queries use $N placeholders, which both lib/pq and modernc.org/sqlite
accept, so the same SQL serves either backend.
*/
package store
