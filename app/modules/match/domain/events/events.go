// Package matchevents defines the match module's topics and payloads.
package matchevents

import (
	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
)

const (
	ReportRequestedV1 = "match.report.requested.v1"
	ReportedV1        = "match.reported.v1"
	DuplicateV1       = "match.duplicate.v1"
	ReportFailedV1    = "match.report.failed.v1"

	ImportRequestedV1 = "match.import.requested.v1"
	ImportQueuedV1    = "match.import.queued.v1"
	ImportFailedV1    = "match.import.failed.v1"
	ImportCompletedV1 = "match.import.completed.v1"

	HistoryRequestedV1 = "match.history.requested.v1"
	HistoryRetrievedV1 = "match.history.retrieved.v1"
	HistoryFailedV1    = "match.history.failed.v1"
)

// ReportRequestedPayloadV1 reports one result. A zero timestamp means now.
type ReportRequestedPayloadV1 struct {
	Match      seasondomain.MatchResult `json:"match"`
	ReportedBy string                   `json:"reportedBy,omitempty"`
}

// ReportedPayloadV1 carries the updated players and their deltas.
type ReportedPayloadV1 struct {
	Outcome matchdomain.ReportOutcome `json:"outcome"`
}

// DuplicatePayloadV1 tells the reporter the match was already counted.
type DuplicatePayloadV1 struct {
	MatchID  string `json:"matchId,omitempty"`
	SeasonID string `json:"seasonId"`
}

// ImportRequestedPayloadV1 asks for a tournament's matches to be imported in
// the background.
type ImportRequestedPayloadV1 struct {
	TournamentName string                     `json:"tournamentName"`
	Importance     string                     `json:"importance,omitempty"`
	Matches        []seasondomain.MatchResult `json:"matches"`
	RequestedBy    string                     `json:"requestedBy,omitempty"`
}

// ImportQueuedPayloadV1 acknowledges an import request.
type ImportQueuedPayloadV1 struct {
	TournamentName string `json:"tournamentName"`
	JobID          int64  `json:"jobId"`
	// AlreadyQueued is set when an identical import was still pending.
	AlreadyQueued bool `json:"alreadyQueued,omitempty"`
}

// ImportCompletedPayloadV1 is published by the import worker.
type ImportCompletedPayloadV1 struct {
	Summary matchdomain.ImportSummary `json:"summary"`
}

// FailedPayloadV1 is the common failure reply.
type FailedPayloadV1 struct {
	Reason string `json:"reason"`
}

// HistoryRequestedPayloadV1 asks for a player's most recent matches.
type HistoryRequestedPayloadV1 struct {
	Tag   string `json:"tag"`
	Limit int    `json:"limit,omitempty"`
}

// HistoryRetrievedPayloadV1 lists matches newest first.
type HistoryRetrievedPayloadV1 struct {
	Tag     string                    `json:"tag"`
	Matches []matchdomain.MatchRecord `json:"matches"`
}
