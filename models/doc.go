// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateEventRequest: title, memo, dates (YYYY-MM-DD strings)
  - UpsertParticipantRequest: nickname, device_hash, participant_token
  - SubmitVotesRequest: participant_id, votes ([{option_id, value}])

# Response Types

Types for JSON responses:

  - CreateEventResponse: event_id, share_id, admin_key, admin_url, share_url
  - UpsertParticipantResponse: participant_id, participant_token, nickname
  - SubmitVotesResponse: success, message
  - DeleteEventResponse: success, message
  - EventSnapshot: event, options, participants, votes, tally
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Event: poll metadata; AdminKeyHash is json:"-" and never serialized
  - Option: one candidate date with its sort_index
  - Participant: voter identity; DeviceHash is json:"-"
  - Vote: availability value for one (option, participant)
  - RankedOptionRow: per-option counts and score for the tally
  - SubmitOutcome: applied/skipped/failed counts for a vote batch

# Constants

Vote values:

	VoteUnavailable = 0
	VoteMaybe       = 1
	VoteAvailable   = 2

Link kinds:

	LinkKindShare = "share"
	LinkKindAdmin = "admin"
*/
package models
