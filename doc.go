// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the When Works API server.

When Works coordinates group date-scheduling polls: an organizer
proposes candidate dates, participants mark availability (no / maybe /
yes), and everyone sees a ranked tally of which day works best.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=schedule.db go run main.go

Or with flags:

	go run main.go -p 3318 -t postgres -d "postgres://..."

# Configuration

Settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string (required)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - PORT (-p): Server port (default: 3318)
  - BASE_URL (-base-url): Public base URL for constructed links
  - REDIS_ADDR (-redis): Shared rate-limit counters for multi-instance
    deployments; omit for per-instance in-memory limiting

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (events, participants, votes, tally)
  - store: All persistence behind one type; constraints enforce uniqueness
  - ratelimit: Fixed-window limiter, in-memory or Redis-backed
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Secret hashing and token generation
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
