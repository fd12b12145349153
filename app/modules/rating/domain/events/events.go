// Package ratingevents defines the rating module's topics and payloads.
package ratingevents

import ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"

const (
	RankingsRequestedV1 = "rating.rankings.requested.v1"
	RankingsRetrievedV1 = "rating.rankings.retrieved.v1"
	RankingsFailedV1    = "rating.rankings.failed.v1"

	SystemSwitchRequestedV1 = "rating.system.switch.requested.v1"
	SystemSwitchedV1        = "rating.system.switched.v1"
	SystemSwitchFailedV1    = "rating.system.switch.failed.v1"

	PlayerRegisterRequestedV1 = "rating.player.register.requested.v1"
	PlayerRegisteredV1        = "rating.player.registered.v1"
	PlayerRegisterFailedV1    = "rating.player.register.failed.v1"
)

// RankingsRequestedPayloadV1 asks for the current global rankings.
type RankingsRequestedPayloadV1 struct {
	RequestedBy string `json:"requestedBy,omitempty"`
	// Limit caps the number of entries returned; zero means all.
	Limit int `json:"limit,omitempty"`
}

// RankingsRetrievedPayloadV1 carries ranked players under the active system.
type RankingsRetrievedPayloadV1 struct {
	System   ratingdomain.SystemID       `json:"system"`
	Rankings []ratingdomain.RankedPlayer `json:"rankings"`
}

// SystemSwitchRequestedPayloadV1 asks to change the active rating system.
type SystemSwitchRequestedPayloadV1 struct {
	System      string `json:"system"`
	RequestedBy string `json:"requestedBy,omitempty"`
}

// SystemSwitchedPayloadV1 reports the settings now in effect.
type SystemSwitchedPayloadV1 struct {
	Settings ratingdomain.Settings `json:"settings"`
}

// PlayerRegisterRequestedPayloadV1 asks to add a roster entry.
type PlayerRegisterRequestedPayloadV1 struct {
	Tag       string  `json:"tag"`
	DiscordID *string `json:"discordId,omitempty"`
}

// PlayerRegisteredPayloadV1 carries the new roster entry.
type PlayerRegisteredPayloadV1 struct {
	Player ratingdomain.Player `json:"player"`
}

// FailedPayloadV1 is the common failure reply.
type FailedPayloadV1 struct {
	Reason string `json:"reason"`
}
