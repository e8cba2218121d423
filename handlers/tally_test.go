// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"testing"

	"github.com/danielhkuo/when-works/models"
)

func option(id, date string, sortIndex int) models.Option {
	return models.Option{ID: id, EventID: "ev", Date: date, SortIndex: sortIndex}
}

func vote(optionID, participantID string, value int) models.Vote {
	return models.Vote{ID: optionID + ":" + participantID, OptionID: optionID, ParticipantID: participantID, Value: value}
}

func TestComputeTallyRanking(t *testing.T) {
	options := []models.Option{
		option("a", "2025-07-01", 0),
		option("b", "2025-07-02", 1),
	}
	votes := []models.Vote{
		// A: yes=2, maybe=1, no=0 → score 5
		vote("a", "p1", models.VoteAvailable),
		vote("a", "p2", models.VoteAvailable),
		vote("a", "p3", models.VoteMaybe),
		// B: yes=1, maybe=0, no=1 → score 2
		vote("b", "p1", models.VoteAvailable),
		vote("b", "p2", models.VoteUnavailable),
	}

	rows := ComputeTally(options, votes)

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].OptionID != "a" || rows[0].Score != 5 {
		t.Errorf("rank 1 = %s score %d, want a score 5", rows[0].OptionID, rows[0].Score)
	}
	if rows[1].OptionID != "b" || rows[1].Score != 2 {
		t.Errorf("rank 2 = %s score %d, want b score 2", rows[1].OptionID, rows[1].Score)
	}
	if rows[0].Yes != 2 || rows[0].Maybe != 1 || rows[0].No != 0 {
		t.Errorf("counts for a = %d/%d/%d, want 2/1/0", rows[0].Yes, rows[0].Maybe, rows[0].No)
	}
	if rows[1].Yes != 1 || rows[1].Maybe != 0 || rows[1].No != 1 {
		t.Errorf("counts for b = %d/%d/%d, want 1/0/1", rows[1].Yes, rows[1].Maybe, rows[1].No)
	}
}

func TestComputeTallyTiesKeepPresentationOrder(t *testing.T) {
	options := []models.Option{
		option("first", "2025-07-01", 0),
		option("second", "2025-07-02", 1),
		option("third", "2025-07-03", 2),
	}
	// second and third tie; a yes equals two maybes
	votes := []models.Vote{
		vote("second", "p1", models.VoteAvailable),
		vote("third", "p1", models.VoteMaybe),
		vote("third", "p2", models.VoteMaybe),
	}

	rows := ComputeTally(options, votes)

	if rows[0].OptionID != "second" || rows[1].OptionID != "third" {
		t.Errorf("tied options out of presentation order: %s, %s", rows[0].OptionID, rows[1].OptionID)
	}
	if rows[0].Score != rows[1].Score {
		t.Fatalf("expected a tie, got %d vs %d", rows[0].Score, rows[1].Score)
	}
	if rows[2].OptionID != "first" || rows[2].Score != 0 {
		t.Errorf("rank 3 = %s score %d, want first score 0", rows[2].OptionID, rows[2].Score)
	}
}

func TestComputeTallyNoVotes(t *testing.T) {
	options := []models.Option{
		option("a", "2025-07-01", 0),
		option("b", "2025-07-02", 1),
	}

	rows := ComputeTally(options, nil)

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for i, row := range rows {
		if row.Yes != 0 || row.Maybe != 0 || row.No != 0 || row.Score != 0 {
			t.Errorf("row %d not zeroed: %+v", i, row)
		}
	}
	if rows[0].OptionID != "a" || rows[1].OptionID != "b" {
		t.Error("zero-score options must keep presentation order")
	}
}

func TestComputeTallyIgnoresUnknownOptions(t *testing.T) {
	options := []models.Option{option("a", "2025-07-01", 0)}
	votes := []models.Vote{
		vote("a", "p1", models.VoteAvailable),
		vote("ghost", "p1", models.VoteAvailable),
	}

	rows := ComputeTally(options, votes)

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Yes != 1 || rows[0].Score != 2 {
		t.Errorf("row = %+v, want yes 1 score 2", rows[0])
	}
}
