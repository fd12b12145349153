// Package seasonevents defines the season module's topics and payloads.
package seasonevents

import seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"

const (
	StartRequestedV1 = "season.start.requested.v1"
	StartedV1        = "season.started.v1"
	StartFailedV1    = "season.start.failed.v1"

	EndRequestedV1 = "season.end.requested.v1"
	EndedV1        = "season.ended.v1"
	EndFailedV1    = "season.end.failed.v1"

	RankingsRequestedV1 = "season.rankings.requested.v1"
	RankingsRetrievedV1 = "season.rankings.retrieved.v1"
	RankingsFailedV1    = "season.rankings.failed.v1"

	TournamentAddRequestedV1 = "season.tournament.add.requested.v1"
	TournamentAddedV1        = "season.tournament.added.v1"
	TournamentAddFailedV1    = "season.tournament.add.failed.v1"

	TournamentRemoveRequestedV1 = "season.tournament.remove.requested.v1"
	TournamentRemovedV1         = "season.tournament.removed.v1"
	TournamentRemoveFailedV1    = "season.tournament.remove.failed.v1"
)

// StartRequestedPayloadV1 asks to open a season. StartsAt accepts RFC3339,
// "now" or phrases such as "next monday"; empty means now.
type StartRequestedPayloadV1 struct {
	Name        string `json:"name"`
	StartsAt    string `json:"startsAt,omitempty"`
	RequestedBy string `json:"requestedBy,omitempty"`
}

// EndRequestedPayloadV1 asks to close the open season.
type EndRequestedPayloadV1 struct {
	RequestedBy string `json:"requestedBy,omitempty"`
}

// SeasonPayloadV1 describes a season without its detailed records.
type SeasonPayloadV1 struct {
	Season seasondomain.Summary `json:"season"`
}

// EndedPayloadV1 carries the closed season's final standings.
type EndedPayloadV1 struct {
	Season   seasondomain.Summary         `json:"season"`
	Rankings []seasondomain.SeasonRanking `json:"rankings"`
}

// RankingsRequestedPayloadV1 asks for a season's standings; empty SeasonID
// means the open season.
type RankingsRequestedPayloadV1 struct {
	SeasonID string `json:"seasonId,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// RankingsRetrievedPayloadV1 carries season standings.
type RankingsRetrievedPayloadV1 struct {
	Season   seasondomain.Summary         `json:"season"`
	Rankings []seasondomain.SeasonRanking `json:"rankings"`
}

// TournamentRequestedPayloadV1 adds or removes a tournament from the open season.
type TournamentRequestedPayloadV1 struct {
	TournamentName string `json:"tournamentName"`
	Importance     string `json:"importance,omitempty"`
}

// TournamentChangedPayloadV1 lists the open season's tournaments after a change.
type TournamentChangedPayloadV1 struct {
	SeasonID       string                  `json:"seasonId"`
	TournamentName string                  `json:"tournamentName"`
	Events         []seasondomain.EventRef `json:"events"`
}

// FailedPayloadV1 is the common failure reply.
type FailedPayloadV1 struct {
	Reason string `json:"reason"`
}
