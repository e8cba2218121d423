// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sort"

	"github.com/danielhkuo/when-works/models"
)

// ComputeTally counts availability per option and ranks options by
// score = yes*2 + maybe, descending. The sort is stable over options
// in presentation order, so tied scores keep their sort_index order.
// Votes referencing options not in the slice are ignored.
func ComputeTally(options []models.Option, votes []models.Vote) []models.RankedOptionRow {
	rows := make([]models.RankedOptionRow, len(options))
	index := make(map[string]int, len(options))
	for i, opt := range options {
		rows[i] = models.RankedOptionRow{OptionID: opt.ID, Date: opt.Date}
		index[opt.ID] = i
	}

	for _, v := range votes {
		i, ok := index[v.OptionID]
		if !ok {
			continue
		}
		switch v.Value {
		case models.VoteAvailable:
			rows[i].Yes++
		case models.VoteMaybe:
			rows[i].Maybe++
		case models.VoteUnavailable:
			rows[i].No++
		}
	}

	for i := range rows {
		rows[i].Score = rows[i].Yes*2 + rows[i].Maybe
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})

	return rows
}
