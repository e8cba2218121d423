// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/when-works/auth"
	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own database, so tests never share state.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// An in-memory database exists per connection; pooling beyond one
	// connection would silently give tests empty schemas.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		BaseURL:      "https://when-works.test",
	}
}

// CreateTestEvent inserts an event with its options and returns the
// generated ids plus the plaintext admin key.
func CreateTestEvent(t *testing.T, conn *sql.DB, dates []string) (eventID, shareID, adminKey string, optionIDs []string) {
	t.Helper()

	eventID = auth.NewToken()
	shareID, _ = auth.GenerateShareID()
	adminKey, _ = auth.GenerateAdminKey()
	now := time.Now().UTC()

	_, err := conn.Exec(`
		INSERT INTO events (id, title, memo, admin_key_hash, share_id, created_at, updated_at)
		VALUES ($1, 'Team Dinner', 'pick a day', $2, $3, $4, $5)
	`, eventID, auth.HashSecret(adminKey), shareID, now, now)
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	for i, date := range dates {
		optionID := auth.NewToken()
		_, err := conn.Exec(`
			INSERT INTO options (id, event_id, date, sort_index, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, optionID, eventID, date, i, now)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return eventID, shareID, adminKey, optionIDs
}

// CreateTestParticipant inserts a participant and returns its id.
func CreateTestParticipant(t *testing.T, conn *sql.DB, eventID, nickname, deviceHash string) string {
	t.Helper()

	participantID := auth.NewToken()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO participants (id, event_id, nickname, device_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, participantID, eventID, nickname, deviceHash, now, now)
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return participantID
}

// SubmitTestVote inserts one vote row directly.
func SubmitTestVote(t *testing.T, conn *sql.DB, eventID, optionID, participantID string, value int) {
	t.Helper()

	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO votes (id, event_id, option_id, participant_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, auth.NewToken(), eventID, optionID, participantID, value, now, now)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// DeviceHash returns a fingerprint long enough to pass validation.
func DeviceHash(seed string) string {
	h := seed
	for len(h) < 40 {
		h += "0123456789abcdef"
	}
	return h[:40]
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
