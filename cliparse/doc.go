// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Connection string or SQLite path (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - BaseURL: Public base URL used in constructed share/admin links
  - RedisAddr: Optional Redis address for shared rate limiting

# CLI Flags

	-p        Server port
	-d        Database URL
	-t        Database type
	-base-url Public base URL
	-redis    Redis address

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	BASE_URL      → -base-url
	REDIS_ADDR    → -redis

CLI flags take precedence over environment variables. main loads a
.env file first via godotenv, so dev setups can keep everything there.

# Validation

ParseFlags returns an error if DATABASE_URL is missing or the database
type is not sqlite/postgres.
*/
package cliparse
