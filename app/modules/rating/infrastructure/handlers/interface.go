package ratinghandlers

import (
	"context"

	ratingevents "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain/events"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/handlerwrapper"
)

// Handlers defines the rating module's event handlers.
type Handlers interface {
	HandleRankingsRequested(ctx context.Context, payload *ratingevents.RankingsRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleSystemSwitchRequested(ctx context.Context, payload *ratingevents.SystemSwitchRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandlePlayerRegisterRequested(ctx context.Context, payload *ratingevents.PlayerRegisterRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
