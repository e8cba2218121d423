// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/when-works/models"
	"github.com/danielhkuo/when-works/ratelimit"
	"github.com/danielhkuo/when-works/store"
	"github.com/danielhkuo/when-works/testutil"
)

func newEventHandler(conn *sql.DB) *EventHandler {
	return NewEventHandler(store.New(conn), ratelimit.NewMemory(), testutil.GetTestConfig())
}

func TestCreateEvent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid event",
			requestBody: models.CreateEventRequest{
				Title: "Team Dinner",
				Memo:  "pick a day",
				Dates: []string{"2025-07-01", "2025-07-02", "2025-07-03"},
			},
			expectedStatus: 201,
		},
		{
			name: "single date",
			requestBody: models.CreateEventRequest{
				Title: "One-day option",
				Dates: []string{"2025-07-01"},
			},
			expectedStatus: 201,
		},
		{
			name: "seven dates",
			requestBody: models.CreateEventRequest{
				Title: "Full week",
				Dates: []string{
					"2025-07-01", "2025-07-02", "2025-07-03", "2025-07-04",
					"2025-07-05", "2025-07-06", "2025-07-07",
				},
			},
			expectedStatus: 201,
		},
		{
			name: "missing title",
			requestBody: models.CreateEventRequest{
				Dates: []string{"2025-07-01"},
			},
			expectedStatus: 400,
		},
		{
			name: "title too long",
			requestBody: models.CreateEventRequest{
				Title: strings.Repeat("x", 201),
				Dates: []string{"2025-07-01"},
			},
			expectedStatus: 400,
		},
		{
			name: "zero dates",
			requestBody: models.CreateEventRequest{
				Title: "No dates",
				Dates: []string{},
			},
			expectedStatus: 400,
		},
		{
			name: "eight dates",
			requestBody: models.CreateEventRequest{
				Title: "Too many",
				Dates: []string{
					"2025-07-01", "2025-07-02", "2025-07-03", "2025-07-04",
					"2025-07-05", "2025-07-06", "2025-07-07", "2025-07-08",
				},
			},
			expectedStatus: 400,
		},
		{
			name: "bad date format",
			requestBody: models.CreateEventRequest{
				Title: "Wrong format",
				Dates: []string{"07/01/2025"},
			},
			expectedStatus: 400,
		},
		{
			name: "date missing zero padding",
			requestBody: models.CreateEventRequest{
				Title: "Short month",
				Dates: []string{"2025-7-1"},
			},
			expectedStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Fresh handler per case so the create rate limit never
			// interferes with the table
			handler := newEventHandler(conn)

			req := testutil.MakeRequest("POST", "/events", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.CreateEvent(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != 201 {
				return
			}

			var resp models.CreateEventResponse
			testutil.AssertJSON(t, w, &resp)

			if resp.EventID == "" || resp.ShareID == "" {
				t.Error("Expected non-empty event_id and share_id")
			}
			if len(resp.AdminKey) != 32 {
				t.Errorf("admin_key length = %d, want 32", len(resp.AdminKey))
			}
			if !strings.Contains(resp.AdminURL, resp.EventID) || !strings.Contains(resp.AdminURL, resp.AdminKey) {
				t.Errorf("admin_url missing event id or key: %s", resp.AdminURL)
			}
			if !strings.Contains(resp.ShareURL, resp.ShareID) {
				t.Errorf("share_url missing share id: %s", resp.ShareURL)
			}

			// Options persisted with contiguous sort indices in input order
			wantDates := tt.requestBody.(models.CreateEventRequest).Dates
			rows, err := conn.Query(`
				SELECT date, sort_index FROM options
				WHERE event_id = $1
				ORDER BY sort_index
			`, resp.EventID)
			if err != nil {
				t.Fatalf("Failed to query options: %v", err)
			}
			defer rows.Close()

			i := 0
			for rows.Next() {
				var date string
				var sortIndex int
				if err := rows.Scan(&date, &sortIndex); err != nil {
					t.Fatalf("Failed to scan option: %v", err)
				}
				if sortIndex != i {
					t.Errorf("sort_index = %d, want %d", sortIndex, i)
				}
				if date != wantDates[i] {
					t.Errorf("date[%d] = %s, want %s", i, date, wantDates[i])
				}
				i++
			}
			if i != len(wantDates) {
				t.Errorf("persisted %d options, want %d", i, len(wantDates))
			}

			// The stored digest is the hash of the returned key, not the key
			var storedHash string
			err = conn.QueryRow(`SELECT admin_key_hash FROM events WHERE id = $1`, resp.EventID).Scan(&storedHash)
			if err != nil {
				t.Fatalf("Failed to query event: %v", err)
			}
			if storedHash == resp.AdminKey {
				t.Error("admin key stored in plaintext")
			}
		})
	}
}

func TestCreateEventRateLimit(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := newEventHandler(conn)
	body := models.CreateEventRequest{
		Title: "Limited",
		Dates: []string{"2025-07-01"},
	}

	for i := 0; i < createEventLimit; i++ {
		req := testutil.MakeRequest("POST", "/events", body, nil)
		w := httptest.NewRecorder()
		handler.CreateEvent(w, req)
		testutil.AssertStatus(t, w, 201)
	}

	req := testutil.MakeRequest("POST", "/events", body, nil)
	w := httptest.NewRecorder()
	handler.CreateEvent(w, req)
	testutil.AssertStatus(t, w, 429)
}

func TestGetEvent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := newEventHandler(conn)
	dates := []string{"2025-07-01", "2025-07-02"}
	eventID, shareID, _, optionIDs := testutil.CreateTestEvent(t, conn, dates)

	participantID := testutil.CreateTestParticipant(t, conn, eventID, "Alice", testutil.DeviceHash("alice"))
	testutil.SubmitTestVote(t, conn, eventID, optionIDs[0], participantID, models.VoteAvailable)

	req := testutil.MakeRequest("GET", "/events/"+shareID, nil, nil)
	req.SetPathValue("shareId", shareID)
	w := httptest.NewRecorder()

	handler.GetEvent(w, req)
	testutil.AssertStatus(t, w, 200)

	body := w.Body.String()
	if strings.Contains(body, "admin_key") {
		t.Error("share view leaked admin key material")
	}

	var snapshot models.EventSnapshot
	testutil.AssertJSON(t, w, &snapshot)

	if snapshot.Event.Title != "Team Dinner" {
		t.Errorf("title = %q, want %q", snapshot.Event.Title, "Team Dinner")
	}
	if len(snapshot.Options) != len(dates) {
		t.Fatalf("options = %d, want %d", len(snapshot.Options), len(dates))
	}
	for i, opt := range snapshot.Options {
		if opt.Date != dates[i] {
			t.Errorf("option[%d].date = %s, want %s", i, opt.Date, dates[i])
		}
	}
	if len(snapshot.Participants) != 1 || snapshot.Participants[0].Nickname != "Alice" {
		t.Errorf("unexpected participants: %+v", snapshot.Participants)
	}
	if len(snapshot.Votes) != 1 || snapshot.Votes[0].Value != models.VoteAvailable {
		t.Errorf("unexpected votes: %+v", snapshot.Votes)
	}
	if len(snapshot.Tally) != 2 || snapshot.Tally[0].Score != 2 {
		t.Errorf("unexpected tally: %+v", snapshot.Tally)
	}
}

func TestGetEventNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := newEventHandler(conn)

	req := testutil.MakeRequest("GET", "/events/nonexistent0", nil, nil)
	req.SetPathValue("shareId", "nonexistent0")
	w := httptest.NewRecorder()

	handler.GetEvent(w, req)
	testutil.AssertStatus(t, w, 404)
}

func TestGetEventAdmin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := newEventHandler(conn)
	eventID, _, adminKey, _ := testutil.CreateTestEvent(t, conn, []string{"2025-07-01"})

	tests := []struct {
		name           string
		eventID        string
		adminKey       string
		expectedStatus int
	}{
		{"correct key", eventID, adminKey, 200},
		{"wrong key", eventID, "00000000000000000000000000000000", 403},
		{"missing key", eventID, "", 401},
		{"unknown event checked before key", "no-such-event", adminKey, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.adminKey != "" {
				headers["X-Admin-Key"] = tt.adminKey
			}
			req := testutil.MakeRequest("GET", "/events/"+tt.eventID+"/admin", nil, headers)
			req.SetPathValue("id", tt.eventID)
			w := httptest.NewRecorder()

			handler.GetEventAdmin(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == 200 && strings.Contains(w.Body.String(), "admin_key") {
				t.Error("admin view leaked admin key material")
			}
		})
	}
}

func TestDeleteEvent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := newEventHandler(conn)
	eventID, _, adminKey, optionIDs := testutil.CreateTestEvent(t, conn, []string{"2025-07-01"})
	participantID := testutil.CreateTestParticipant(t, conn, eventID, "Alice", testutil.DeviceHash("alice"))
	testutil.SubmitTestVote(t, conn, eventID, optionIDs[0], participantID, models.VoteMaybe)

	// Wrong key leaves everything intact
	req := testutil.MakeRequest("DELETE", "/events/"+eventID, nil, map[string]string{
		"X-Admin-Key": "00000000000000000000000000000000",
	})
	req.SetPathValue("id", eventID)
	w := httptest.NewRecorder()
	handler.DeleteEvent(w, req)
	testutil.AssertStatus(t, w, 403)

	var count int
	conn.QueryRow(`SELECT COUNT(*) FROM events WHERE id = $1`, eventID).Scan(&count)
	if count != 1 {
		t.Fatal("event deleted despite failed auth")
	}

	// Correct key cascades
	req = testutil.MakeRequest("DELETE", "/events/"+eventID, nil, map[string]string{
		"X-Admin-Key": adminKey,
	})
	req.SetPathValue("id", eventID)
	w = httptest.NewRecorder()
	handler.DeleteEvent(w, req)
	testutil.AssertStatus(t, w, 200)

	var resp models.DeleteEventResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Success {
		t.Error("expected success response")
	}

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM events WHERE id = $1`, eventID).Scan(&n); err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if n != 0 {
		t.Errorf("event row survived deletion")
	}
	for _, table := range []string{"options", "participants", "votes", "links"} {
		if err := conn.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE event_id = $1`, eventID).Scan(&n); err != nil {
			t.Fatalf("Failed to count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("cascade left %d rows in %s", n, table)
		}
	}
}
