// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Opening a Connection

Open maps the configured database type to the right driver and applies
driver-specific setup (SQLite needs foreign keys switched on):

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Supported types are "sqlite" (modernc.org/sqlite, CGo-free) and
"postgres" (lib/pq).

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - events: One scheduling poll each, with the admin key digest
  - options: Candidate dates per event, ordered by sort_index
  - participants: Voter identities keyed by device fingerprint
  - votes: One availability value per (option, participant)
  - links: Audit rows for issued share/admin tokens

# Relationships

	events 1──* options
	events 1──* participants
	events 1──* votes
	events 1──* links
	options 1──* votes
	participants 1──* votes

All foreign keys use ON DELETE CASCADE, so deleting an event removes
everything that references it in one statement.

# Constraints

Uniqueness the application relies on lives here, not in app logic:

  - events.share_id (global)
  - participants.(event_id, device_hash)
  - participants.(event_id, nickname)
  - votes.(option_id, participant_id)

# Placeholders

Queries throughout the codebase use $N placeholders, which both
supported drivers accept.
*/
package db
